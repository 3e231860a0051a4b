package dao

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/smarttable/smarttable/internal/model1"
	"gopkg.in/yaml.v3"
)

// Format names a dataset encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// FormatFor guesses a dataset format from a file name.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads a dataset file into rows.
func LoadFile(path string) (model1.Rows, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := LoadReader(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return rows, nil
}

// LoadReader decodes a dataset. Record key order is preserved. A document
// may be a sequence of records or a mapping holding one under "data".
func LoadReader(r io.Reader, f Format) (model1.Rows, error) {
	if f == FormatJSONL {
		return loadLines(r)
	}

	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyDataset
		}
		return nil, err
	}

	return rowsFromNode(&doc)
}

func loadLines(r io.Reader) (model1.Rows, error) {
	rows := make(model1.Rows, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var line int
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		var n yaml.Node
		if err := yaml.Unmarshal(b, &n); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		v, err := nodeValue(&n)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		d, ok := v.(*ordereddict.Dict)
		if !ok {
			return nil, fmt.Errorf("line %d: expecting a record", line)
		}
		rows = append(rows, model1.NewRow(d))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return rows, nil
}

func rowsFromNode(n *yaml.Node) (model1.Rows, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, ErrEmptyDataset
		}
		n = n.Content[0]
	}
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == "data" {
				return rowsFromNode(n.Content[i+1])
			}
		}
		return nil, fmt.Errorf("expecting a record list or a data key")
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expecting a record list, got %s", n.Tag)
	}

	rows := make(model1.Rows, 0, len(n.Content))
	for i, item := range n.Content {
		v, err := nodeValue(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		d, ok := v.(*ordereddict.Dict)
		if !ok {
			return nil, fmt.Errorf("record %d: expecting a record", i)
		}
		rows = append(rows, model1.NewRow(d))
	}

	return rows, nil
}

// nodeValue converts a yaml node into plain values, using ordered
// dictionaries for mappings.
func nodeValue(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		d := ordereddict.NewDict()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			d.Set(n.Content[i].Value, v)
		}
		return d, nil
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
