package hooks

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/msalah0e/filemap/internal/config"
)

// Hook phases.
const (
	PostSave = "post_save"
	PostNew  = "post_new"
)

// Run executes the hook script for the given phase, if configured. env
// entries are added to the script environment as KEY=value.
func Run(h config.HooksConfig, phase string, env map[string]string, out io.Writer) error {
	script := getHook(h, phase)
	if script == "" {
		return nil
	}
	if out == nil {
		out = os.Stdout
	}

	cmd := exec.Command("sh", "-c", script)
	cmd.Env = append(os.Environ(), "FILEMAP_PHASE="+phase)
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s hook: %w", phase, err)
	}
	return nil
}

func getHook(h config.HooksConfig, phase string) string {
	switch phase {
	case PostSave:
		return h.PostSave
	case PostNew:
		return h.PostNew
	default:
		return ""
	}
}
