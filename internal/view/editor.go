// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/derailed/tview"
	"github.com/smarttable/smarttable/internal/model1"
	"github.com/wI2L/jsondiff"
)

// Editor errors
var (
	ErrEditorCancelled = errors.New("editor cancelled")
	ErrNoChanges       = errors.New("no changes detected")
)

// UpdateFunc assigns a field path on a row.
type UpdateFunc func(row *model1.Row, path string, value interface{}) (bool, error)

// EditSession represents an in-progress row edit.
type EditSession struct {
	Row      *model1.Row
	Paths    []string
	Editable *ordereddict.Dict
	TempFile string
	ErrorMsg string
}

// NewEditSession projects the editable paths of a row. With no paths the
// whole record is editable.
func NewEditSession(row *model1.Row, paths []string) *EditSession {
	e := EditSession{Row: row, Paths: paths}
	if len(paths) == 0 {
		e.Editable = row.Fields
		return &e
	}

	e.Editable = ordereddict.NewDict()
	for _, p := range paths {
		v, _ := row.Get(p)
		model1.Assign(e.Editable, p, v)
	}

	return &e
}

// EditablePaths returns the field paths of the editable columns.
func EditablePaths(cols []*model1.Column) []string {
	var pp []string
	for _, c := range cols {
		if c.IsEditable {
			pp = append(pp, c.Map)
		}
	}
	return pp
}

// StartEdit writes the editable fields to a temp file, spawns the editor
// and returns the edited content. It suspends the TUI while editing.
func (e *EditSession) StartEdit(app *tview.Application) ([]byte, error) {
	tmpFile, err := os.CreateTemp("", "smarttable-edit-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	e.TempFile = tmpFile.Name()

	if err := e.writeJSONWithError(tmpFile); err != nil {
		tmpFile.Close()
		return nil, err
	}
	tmpFile.Close()

	exitCode, err := e.spawnEditor(app)
	if err != nil {
		return nil, fmt.Errorf("editor failed: %w", err)
	}
	if exitCode != 0 {
		return nil, ErrEditorCancelled
	}

	content, err := os.ReadFile(e.TempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}

	return content, nil
}

func (e *EditSession) spawnEditor(app *tview.Application) (int, error) {
	editor := getEditor()

	var exitCode int
	suspended := app.Suspend(func() {
		cmd := exec.Command(editor, e.TempFile)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			} else {
				exitCode = 1
			}
		}
	})
	if !suspended {
		return 1, errors.New("failed to suspend application")
	}

	return exitCode, nil
}

func (e *EditSession) writeJSONWithError(f *os.File) error {
	var buf bytes.Buffer
	if e.ErrorMsg != "" {
		buf.WriteString("// ERROR: " + e.ErrorMsg + "\n")
		buf.WriteString("// Fix the issue below and save, or save without changes to cancel.\n")
		buf.WriteString("// ---\n\n")
	}

	raw, err := json.Marshal(e.Editable)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to indent JSON: %w", err)
	}
	buf.WriteString("\n")

	_, err = f.Write(buf.Bytes())
	return err
}

// Diff compares the editable fields against edited content. It returns
// the patch and the decoded content.
func (e *EditSession) Diff(content []byte) (jsondiff.Patch, map[string]interface{}, error) {
	var modified map[string]interface{}
	if err := json.Unmarshal(stripErrorComment(content), &modified); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	patch, err := jsondiff.Compare(e.Editable, modified)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate patch: %w", err)
	}
	if len(patch) == 0 {
		return nil, nil, ErrNoChanges
	}

	return patch, modified, nil
}

// Apply assigns every changed field of the edited content to the row.
// Array edits assign the whole edited array. A removed field is assigned
// nil.
func (e *EditSession) Apply(content []byte, update UpdateFunc) (int, error) {
	patch, modified, err := e.Diff(content)
	if err != nil {
		return 0, err
	}

	var n int
	seen := make(map[string]struct{}, len(patch))
	for _, op := range patch {
		path := PointerPath(op.Path)
		if path == "" {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}

		changed, err := update(e.Row, path, lookup(modified, path))
		if err != nil {
			return n, fmt.Errorf("update %q: %w", path, err)
		}
		if changed {
			n++
		}
	}

	return n, nil
}

func lookup(m map[string]interface{}, path string) interface{} {
	var cur interface{} = m
	for _, k := range strings.Split(path, ".") {
		mm, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = mm[k]
	}
	return cur
}

// Cleanup removes the temporary file.
func (e *EditSession) Cleanup() {
	if e.TempFile != "" {
		os.Remove(e.TempFile)
		e.TempFile = ""
	}
}

// SetError sets the error message for display on retry.
func (e *EditSession) SetError(msg string) {
	e.ErrorMsg = msg
}

// PointerPath converts a JSON pointer into a dotted field path. Array
// indexes are dropped with the rest of the pointer.
func PointerPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var pp []string
	for _, tok := range strings.Split(ptr, "/") {
		if isIndex(tok) || tok == "-" {
			break
		}
		tok = strings.ReplaceAll(tok, "~1", "/")
		tok = strings.ReplaceAll(tok, "~0", "~")
		pp = append(pp, tok)
	}

	return strings.Join(pp, ".")
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// getEditor returns the editor command to use.
func getEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if _, err := exec.LookPath("vim"); err == nil {
		return "vim"
	}
	return "nano"
}

// stripErrorComment removes the error comment block from the top of content.
func stripErrorComment(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	startIdx := 0
	for i, line := range lines {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if bytes.HasPrefix(trimmed, []byte("//")) {
			startIdx = i + 1
			continue
		}
		break
	}

	if startIdx > 0 && startIdx < len(lines) {
		return bytes.Join(lines[startIdx:], []byte("\n"))
	}
	return content
}

// EditRow runs the edit loop for a row until the update applies, the user
// cancels or nothing changed.
func EditRow(app *tview.Application, row *model1.Row, paths []string, update UpdateFunc) (int, error) {
	session := NewEditSession(row, paths)
	defer session.Cleanup()

	for {
		content, err := session.StartEdit(app)
		if err != nil {
			return 0, err
		}

		n, err := session.Apply(content, update)
		if errors.Is(err, ErrNoChanges) && session.ErrorMsg != "" {
			return 0, ErrEditorCancelled
		}
		if err != nil && !errors.Is(err, ErrNoChanges) && n == 0 {
			session.SetError(err.Error())
			continue
		}

		return n, err
	}
}
