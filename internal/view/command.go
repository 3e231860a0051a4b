// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/smarttable/smarttable/internal/model"
	"github.com/smarttable/smarttable/internal/model1"
)

// defaultAliases defines command shortcuts.
var defaultAliases = map[string]string{
	"q":  "quit",
	"q!": "quit",
	"pg": "page",
	"s":  "sort",
	"f":  "search",
	"r":  "reload",
	"h":  "help",
}

// Command handles user command interpretation and execution.
type Command struct {
	app     *App
	table   *model.Table
	aliases map[string]string
}

// NewCommand creates a new command interpreter over a table model.
func NewCommand(app *App, table *model.Table) *Command {
	return &Command{
		app:     app,
		table:   table,
		aliases: make(map[string]string),
	}
}

// Init initializes the command interpreter with default aliases.
func (c *Command) Init() error {
	for k, v := range defaultAliases {
		c.aliases[k] = v
	}
	return nil
}

// Run parses and executes a command.
func (c *Command) Run(ctx context.Context, cmd string) error {
	cmd = strings.TrimSpace(strings.TrimPrefix(cmd, ":"))
	if cmd == "" {
		return nil
	}

	name, args := c.parseCommand(cmd)
	switch c.resolveAlias(name) {
	case "quit":
		if c.app != nil {
			c.app.Stop()
		}
		return nil
	case "help":
		if c.app != nil {
			c.app.showHelp()
		}
		return nil
	case "reload":
		return c.table.Reload(ctx)
	case "page":
		return c.pageCmd(ctx, args)
	case "sort":
		return c.sortCmd(ctx, args)
	case "search":
		return c.searchCmd(ctx, args)
	case "select":
		return c.selectCmd(ctx, args)
	case "col":
		return c.columnCmd(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", name)
	}
}

func (c *Command) pageCmd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: page <n>")
	}
	switch args[0] {
	case "next", "+":
		return c.table.NextPage(ctx)
	case "prev", "-":
		return c.table.PrevPage(ctx)
	}
	page, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid page %q", args[0])
	}

	return c.table.ChangePage(ctx, page)
}

func (c *Command) sortCmd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sort <column>")
	}
	col, err := c.column(args[0])
	if err != nil {
		return err
	}

	return c.table.SortBy(ctx, col)
}

// searchCmd runs a global search, or a column search with col=text.
func (c *Command) searchCmd(ctx context.Context, args []string) error {
	input := strings.Join(args, " ")
	if k, v, ok := strings.Cut(input, "="); ok && !strings.Contains(k, " ") && k != "" {
		col, err := c.column(k)
		if err != nil {
			return err
		}
		return c.table.Search(ctx, v, col)
	}

	return c.table.Search(ctx, input, nil)
}

func (c *Command) selectCmd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: select <none|single|multiple>")
	}
	mode, err := model1.ParseSelectionMode(args[0])
	if err != nil {
		return err
	}

	return c.table.SetSelectionMode(ctx, mode)
}

// columnCmd edits the column layout:
//
//	col add <map> [index] [label...]
//	col rm <index>
//	col mv <from> <to>
//	col clear
func (c *Command) columnCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: col add|rm|mv|clear")
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: col add <map> [index] [label]")
		}
		spec, index := model1.ColumnSpec{Map: args[1]}, -1
		if len(args) > 2 {
			i, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[2])
			}
			index = i - 1
		}
		if len(args) > 3 {
			spec.Label = strings.Join(args[3:], " ")
		}
		c.table.InsertColumn(spec, index)
		return nil
	case "rm":
		i, err := c.index(args, 1)
		if err != nil {
			return err
		}
		if _, ok := c.table.RemoveColumn(i); !ok {
			return fmt.Errorf("no column at %d", i+1)
		}
		return nil
	case "mv":
		from, err := c.index(args, 1)
		if err != nil {
			return err
		}
		to, err := c.index(args, 2)
		if err != nil {
			return err
		}
		if !c.table.MoveColumn(from, to) {
			return fmt.Errorf("cannot move column %d to %d", from+1, to+1)
		}
		return nil
	case "clear":
		return c.table.ClearColumns(ctx)
	default:
		return fmt.Errorf("unknown column command: %s", args[0])
	}
}

// index parses a 1-based column position argument.
func (c *Command) index(args []string, at int) (int, error) {
	if len(args) <= at {
		return 0, fmt.Errorf("missing column position")
	}
	i, err := strconv.Atoi(args[at])
	if err != nil || i < 1 {
		return 0, fmt.Errorf("invalid column position %q", args[at])
	}
	return i - 1, nil
}

// column resolves a column by field path, label or 1-based position.
func (c *Command) column(name string) (*model1.Column, error) {
	cols := c.table.Columns()
	if i, err := strconv.Atoi(name); err == nil && i >= 1 && i <= len(cols) {
		return cols[i-1], nil
	}
	for _, col := range cols {
		if col.Map == name || strings.EqualFold(col.Label, name) {
			return col, nil
		}
	}

	return nil, fmt.Errorf("unknown column %q", name)
}

func (c *Command) parseCommand(cmd string) (string, []string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "", nil
	}

	return parts[0], parts[1:]
}

func (c *Command) resolveAlias(cmd string) string {
	if alias, ok := c.aliases[cmd]; ok {
		return alias
	}
	return cmd
}
