// Package history keeps a journal of layout edits made from the command line.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/msalah0e/filemap/internal/config"
)

// Entry is one recorded edit.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Layout    string    `json:"layout"`
	Details   string    `json:"details,omitempty"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
}

// Path returns the journal file location.
func Path() string {
	return filepath.Join(config.ConfigDir(), "history.jsonl")
}

// Record appends e, stamping it with the current time when unset.
func Record(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// Read returns up to count entries, newest first. Zero means all.
// Unparseable lines are skipped.
func Read(count int) ([]Entry, error) {
	f, err := os.Open(Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if json.Unmarshal([]byte(line), &e) == nil {
			entries = append(entries, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if count > 0 && len(entries) > count {
		entries = entries[:count]
	}
	return entries, nil
}

// Search returns entries whose action, layout or details contain query,
// ignoring case.
func Search(query string, count int) ([]Entry, error) {
	all, err := Read(0)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var results []Entry
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Action), q) ||
			strings.Contains(strings.ToLower(e.Layout), q) ||
			strings.Contains(strings.ToLower(e.Details), q) {
			results = append(results, e)
			if count > 0 && len(results) >= count {
				break
			}
		}
	}
	return results, nil
}

// Clear removes the journal.
func Clear() error {
	err := os.Remove(Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
