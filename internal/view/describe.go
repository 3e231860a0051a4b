// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package view

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/smarttable/smarttable/internal/model1"
	"github.com/smarttable/smarttable/internal/ui"
	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// Describe displays every field of a single row.
type Describe struct {
	*tview.TextView

	name    string
	row     *model1.Row
	format  string
	actions *ui.KeyActions
	backFn  func()
	editFn  func(*model1.Row)
	wrapOn  bool
}

// NewDescribe creates a new row detail view.
func NewDescribe(name string, row *model1.Row) *Describe {
	d := &Describe{
		TextView: tview.NewTextView(),
		name:     name,
		row:      row,
		format:   formatYAML,
		actions:  ui.NewKeyActions(),
	}

	d.SetDynamicColors(true)
	d.SetWrap(false)
	d.SetWordWrap(false)
	d.SetScrollable(true)
	d.SetBorder(true)
	d.SetBorderPadding(0, 0, 1, 1)
	d.SetBorderColor(tcell.ColorAqua)

	return d
}

// Init initializes the describe view.
func (d *Describe) Init(ctx context.Context) error {
	d.bindKeys()
	d.SetInputCapture(d.keyboard)
	return nil
}

// Start starts the describe view.
func (d *Describe) Start() {
	d.Refresh()
}

// Stop stops the describe view.
func (d *Describe) Stop() {}

// Name returns the view name.
func (d *Describe) Name() string {
	return "row"
}

// Hints returns the menu hints for this view.
func (d *Describe) Hints() ui.MenuHints {
	return d.actions.Hints()
}

// SetBackFn sets the callback for back navigation.
func (d *Describe) SetBackFn(fn func()) {
	d.backFn = fn
}

// SetEditFn sets the callback editing the row.
func (d *Describe) SetEditFn(fn func(*model1.Row)) {
	d.editFn = fn
}

// Refresh renders the row content.
func (d *Describe) Refresh() {
	d.Clear()
	d.SetText(d.generateContent())
	d.updateTitle()
	d.ScrollToBeginning()
}

func (d *Describe) bindKeys() {
	d.actions.Bulk(ui.KeyMap{
		ui.KeyY:      ui.NewKeyAction("Toggle YAML/JSON", d.toggleFormat, true),
		ui.KeyW:      ui.NewKeyAction("Wrap", d.toggleWrap, true),
		ui.KeyE:      ui.NewKeyAction("Edit", d.edit, true),
		tcell.KeyEsc: ui.NewKeyAction("Back", d.backCmd, true),
		ui.KeyQ:      ui.NewKeyAction("Back", d.backCmd, false),
	})
}

func (d *Describe) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if evt == nil {
		return nil
	}

	row, _ := d.GetScrollOffset()
	switch evt.Key() {
	case tcell.KeyDown:
		d.ScrollTo(row+1, 0)
		return nil
	case tcell.KeyUp:
		if row > 0 {
			d.ScrollTo(row-1, 0)
		}
		return nil
	case tcell.KeyHome:
		d.ScrollToBeginning()
		return nil
	case tcell.KeyEnd:
		d.ScrollToEnd()
		return nil
	}

	if evt.Key() == tcell.KeyRune {
		switch evt.Rune() {
		case 'j':
			d.ScrollTo(row+1, 0)
			return nil
		case 'k':
			if row > 0 {
				d.ScrollTo(row-1, 0)
			}
			return nil
		case 'g':
			d.ScrollToBeginning()
			return nil
		case 'G':
			d.ScrollToEnd()
			return nil
		}
	}

	key := evt.Key()
	if key == tcell.KeyRune {
		key = tcell.Key(evt.Rune())
	}
	if action, ok := d.actions.Get(key); ok {
		return action.Action(evt)
	}

	return evt
}

func (d *Describe) toggleFormat(*tcell.EventKey) *tcell.EventKey {
	if d.format == formatYAML {
		d.format = formatJSON
	} else {
		d.format = formatYAML
	}
	d.Refresh()

	return nil
}

func (d *Describe) toggleWrap(*tcell.EventKey) *tcell.EventKey {
	d.wrapOn = !d.wrapOn
	d.SetWrap(d.wrapOn)
	d.SetWordWrap(d.wrapOn)
	return nil
}

func (d *Describe) edit(*tcell.EventKey) *tcell.EventKey {
	if d.editFn != nil && d.row != nil {
		d.editFn(d.row)
		d.Refresh()
	}
	return nil
}

func (d *Describe) backCmd(*tcell.EventKey) *tcell.EventKey {
	if d.backFn != nil {
		d.backFn()
	}
	return nil
}

func (d *Describe) updateTitle() {
	d.SetTitle(fmt.Sprintf(" %s/row [%s] ", d.name, strings.ToUpper(d.format)))
}

func (d *Describe) generateContent() string {
	if d.row == nil {
		return "[red::]No row selected[-::]"
	}

	var (
		out string
		err error
	)
	switch d.format {
	case formatJSON:
		out, err = RowJSON(d.row)
	default:
		out, err = RowYAML(d.row)
		if err == nil {
			out = highlightYAML(out)
		}
	}
	if err != nil {
		return fmt.Sprintf("[red::]Error rendering row: %v[-::]", err)
	}

	return out
}

// RowJSON renders a row record as indented JSON, keeping field order.
func RowJSON(r *model1.Row) (string, error) {
	raw, err := json.Marshal(r.Fields)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// RowYAML renders a row record as YAML, keeping field order.
func RowYAML(r *model1.Row) (string, error) {
	n, err := toNode(r.Fields)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func toNode(v interface{}) (*yaml.Node, error) {
	switch t := v.(type) {
	case *ordereddict.Dict:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.Keys() {
			fv, _ := t.Get(k)
			vn, err := toNode(fv)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, vn)
		}
		return n, nil
	case []interface{}:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			en, err := toNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, en)
		}
		return n, nil
	default:
		var n yaml.Node
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return &n, nil
	}
}

// highlightYAML colors keys and scalar values for tview.
func highlightYAML(content string) string {
	var result strings.Builder
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		line = tview.Escape(line)
		colonIdx := strings.Index(line, ": ")
		if strings.HasSuffix(line, ":") && !strings.Contains(line, ": ") {
			colonIdx = len(line) - 1
		}
		if colonIdx <= 0 {
			result.WriteString(line + "\n")
			continue
		}

		key, value := line[:colonIdx+1], strings.TrimSpace(line[colonIdx+1:])
		indent := len(key) - len(strings.TrimLeft(key, " -"))
		if value == "" {
			fmt.Fprintf(&result, "%s[aqua::]%s[-::]\n", key[:indent], key[indent:])
			continue
		}
		fmt.Fprintf(&result, "%s[aqua::]%s[-::] %s\n", key[:indent], key[indent:], colorizeValue(value))
	}

	return result.String()
}

// colorizeValue applies color based on value type.
func colorizeValue(value string) string {
	trimmed := strings.Trim(value, "\"'")
	switch {
	case trimmed == "true":
		return "[green::]" + value + "[-::]"
	case trimmed == "false":
		return "[red::]" + value + "[-::]"
	case trimmed == "null" || trimmed == "~":
		return "[gray::]" + value + "[-::]"
	}
	if _, err := fmt.Sscanf(trimmed, "%g", new(float64)); err == nil {
		return "[fuchsia::]" + value + "[-::]"
	}

	return value
}
