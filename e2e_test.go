//go:build e2e

package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var filemapBin string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "filemap-e2e-*")
	if err != nil {
		panic("failed to create temp dir: " + err.Error())
	}
	defer os.RemoveAll(tmp)

	filemapBin = filepath.Join(tmp, "filemap")
	build := exec.Command("go", "build", "-ldflags", "-X github.com/msalah0e/filemap/cmd.version=1.5.0-test", "-o", filemapBin, ".")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		panic("failed to build filemap: " + err.Error())
	}

	os.Exit(m.Run())
}

// project is an isolated working directory with its own HOME.
type project struct {
	t    *testing.T
	dir  string
	home string
}

func newProject(t *testing.T, files ...string) *project {
	t.Helper()
	p := &project{t: t, dir: t.TempDir(), home: t.TempDir()}
	notes := filepath.Join(p.dir, "notes")
	if err := os.MkdirAll(notes, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(notes, f), []byte("body of "+f), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

// run executes the filemap binary inside the project.
func (p *project) run(args ...string) (stdout, stderr string, exitCode int) {
	p.t.Helper()
	cmd := exec.Command(filemapBin, args...)
	cmd.Dir = p.dir
	cmd.Env = append(os.Environ(),
		"HOME="+p.home,
		"XDG_CONFIG_HOME="+filepath.Join(p.home, ".config"),
		"NO_COLOR=1",
	)

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			p.t.Fatalf("failed to run filemap %v: %v", args, err)
		}
	}
	return outBuf.String(), errBuf.String(), exitCode
}

func (p *project) mustRun(args ...string) string {
	p.t.Helper()
	out, errOut, code := p.run(args...)
	if code != 0 {
		p.t.Fatalf("filemap %v: exit %d\nstdout: %s\nstderr: %s", args, code, out, errOut)
	}
	return out
}

type layoutDoc struct {
	Nodes []struct {
		File string  `json:"file"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
	} `json:"nodes"`
	Edges []struct {
		Start int    `json:"start"`
		End   int    `json:"end"`
		Color uint32 `json:"color"`
	} `json:"edges"`
}

func (p *project) layout() layoutDoc {
	p.t.Helper()
	data, err := os.ReadFile(filepath.Join(p.dir, "layout.json"))
	if err != nil {
		p.t.Fatalf("read layout: %v", err)
	}
	var doc layoutDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		p.t.Fatalf("parse layout: %v", err)
	}
	return doc
}

// --- Core CLI ---

func TestE2E_Version(t *testing.T) {
	out := newProject(t).mustRun("--version")
	if !strings.Contains(out, "1.5.0") {
		t.Errorf("expected version output to contain '1.5.0', got %q", out)
	}
}

func TestE2E_Help(t *testing.T) {
	out := newProject(t).mustRun("--help")
	if !strings.Contains(out, "Available Commands") {
		t.Errorf("expected help to contain 'Available Commands', got %q", out)
	}
}

func TestE2E_BareCommand(t *testing.T) {
	out := newProject(t).mustRun()
	if !strings.Contains(out, "filemap") {
		t.Errorf("expected name in output, got %q", out)
	}
	if !strings.Contains(out, "Empty layout") {
		t.Errorf("expected empty layout hint, got %q", out)
	}
}

// --- Layout editing ---

func TestE2E_OpenLinkShow(t *testing.T) {
	p := newProject(t, "ideas.txt", "plan.txt", "readme.md")

	p.mustRun("open", "notes")
	doc := p.layout()
	if len(doc.Nodes) != 2 {
		t.Fatalf("expected 2 nodes (txt only), got %d", len(doc.Nodes))
	}
	if doc.Nodes[0].File != filepath.Join("notes", "ideas.txt") {
		t.Errorf("expected relative path, got %q", doc.Nodes[0].File)
	}

	p.mustRun("link", "ideas", "plan")
	p.mustRun("link", "ideas", "plan") // duplicate is ignored
	p.mustRun("link", "plan", "plan")  // self-link is ignored
	doc = p.layout()
	if len(doc.Edges) != 1 || doc.Edges[0].Start != 0 || doc.Edges[0].End != 1 {
		t.Fatalf("expected one edge 0→1, got %+v", doc.Edges)
	}

	out := p.mustRun("show")
	if !strings.Contains(out, "ideas → plan") {
		t.Errorf("show missing edge line: %q", out)
	}

	out = p.mustRun("show", "--json")
	var snap struct {
		Nodes []struct{ Name string } `json:"nodes"`
		State string                  `json:"state"`
	}
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("show --json is not JSON: %v\n%s", err, out)
	}
	if len(snap.Nodes) != 2 || snap.State != "idle" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestE2E_ReverseUnlinkMoveColor(t *testing.T) {
	p := newProject(t, "a.txt", "b.txt")
	p.mustRun("open", "notes")
	p.mustRun("link", "a", "b")

	p.mustRun("reverse", "a", "b")
	if e := p.layout().Edges[0]; e.Start != 1 || e.End != 0 {
		t.Errorf("expected reversed edge 1→0, got %+v", e)
	}

	p.mustRun("color", "edge", "b", "a", "2")
	if c := p.layout().Edges[0].Color; c != 0xff323296 {
		t.Errorf("expected dark blue edge, got %#x", c)
	}

	p.mustRun("move", "a", "300", "120")
	if n := p.layout().Nodes[0]; n.X != 300 || n.Y != 120 {
		t.Errorf("expected node at (300,120), got (%v,%v)", n.X, n.Y)
	}

	if _, _, code := p.run("color", "edge", "b", "a", "7"); code == 0 {
		t.Error("edge key 7 should be rejected")
	}

	p.mustRun("unlink", "b", "a")
	if n := len(p.layout().Edges); n != 0 {
		t.Errorf("expected no edges after unlink, got %d", n)
	}
}

func TestE2E_NewRequiresFolder(t *testing.T) {
	p := newProject(t)

	_, errOut, code := p.run("new", "todo")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "Please open a folder first.") {
		t.Errorf("expected folder warning, got %q", errOut)
	}

	p.mustRun("new", "todo", "--folder", "notes")
	if _, err := os.Stat(filepath.Join(p.dir, "notes", "todo.txt")); err != nil {
		t.Errorf("todo.txt not created: %v", err)
	}
	if n := len(p.layout().Nodes); n != 1 {
		t.Errorf("expected 1 node, got %d", n)
	}
}

func TestE2E_ViewAndExport(t *testing.T) {
	p := newProject(t, "a.txt")
	p.mustRun("open", "notes")

	if out := p.mustRun("view", "a"); out != "body of a.txt" {
		t.Errorf("unexpected view output %q", out)
	}

	out := p.mustRun("export", "--format", "yaml")
	if !strings.Contains(out, "file: notes/a.txt") {
		t.Errorf("yaml export missing node: %q", out)
	}
	if _, _, code := p.run("export", "--format", "xml"); code == 0 {
		t.Error("unknown export format should fail")
	}
}

func TestE2E_CorruptLayout(t *testing.T) {
	p := newProject(t)
	body := `{"nodes":[{"file":"notes/a.txt","x":0,"y":0}],"edges":[{"start":0,"end":3}]}`
	if err := os.WriteFile(filepath.Join(p.dir, "layout.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	_, errOut, code := p.run("show")
	if code == 0 {
		t.Fatal("expected failure on corrupt layout")
	}
	if !strings.Contains(errOut, "corrupt") {
		t.Errorf("expected corrupt layout error, got %q", errOut)
	}
}

func TestE2E_LayoutFlag(t *testing.T) {
	p := newProject(t, "a.txt")
	p.mustRun("--layout", "other.json", "open", "notes")

	if _, err := os.Stat(filepath.Join(p.dir, "other.json")); err != nil {
		t.Errorf("other.json not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(p.dir, "layout.json")); !os.IsNotExist(err) {
		t.Error("layout.json should not exist")
	}
}

func TestE2E_History(t *testing.T) {
	p := newProject(t, "a.txt", "b.txt")
	p.mustRun("open", "notes")
	p.mustRun("link", "a", "b")

	out := p.mustRun("history")
	if !strings.Contains(out, "link") || !strings.Contains(out, "open") {
		t.Errorf("history missing entries: %q", out)
	}
}

func TestE2E_Config(t *testing.T) {
	p := newProject(t)
	p.mustRun("config", "init")
	if _, err := os.Stat(filepath.Join(p.home, ".config", "filemap", "config.toml")); err != nil {
		t.Errorf("config not created: %v", err)
	}
	out := p.mustRun("config", "show")
	if !strings.Contains(out, "[canvas]") {
		t.Errorf("config show missing [canvas]: %q", out)
	}
}

func TestE2E_Completion(t *testing.T) {
	p := newProject(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		if out := p.mustRun("completion", shell); len(out) == 0 {
			t.Errorf("empty %s completion", shell)
		}
	}
}
