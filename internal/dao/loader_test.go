package dao

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Velocidex/ordereddict"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReader(t *testing.T) {
	uu := map[string]struct {
		raw   string
		f     Format
		count int
		keys  []string
	}{
		"json": {
			raw:   `[{"name": "fred", "age": 30, "$id": 1}, {"name": "blee", "age": 20}]`,
			f:     FormatJSON,
			count: 2,
			keys:  []string{"name", "age", "$id"},
		},
		"jsonData": {
			raw:   `{"data": [{"z": 1, "a": 2}]}`,
			f:     FormatJSON,
			count: 1,
			keys:  []string{"z", "a"},
		},
		"yaml": {
			raw:   "- b: 1\n  a: x\n- b: 2\n  a: y\n- b: 3\n  a: z\n",
			f:     FormatYAML,
			count: 3,
			keys:  []string{"b", "a"},
		},
		"jsonl": {
			raw:   "{\"k\": 1, \"j\": 2}\n\n{\"k\": 3, \"j\": 4}\n",
			f:     FormatJSONL,
			count: 2,
			keys:  []string{"k", "j"},
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			rows, err := LoadReader(strings.NewReader(u.raw), u.f)
			require.NoError(t, err)
			assert.Len(t, rows, u.count)
			assert.Equal(t, u.keys, rows[0].Keys())
		})
	}
}

func TestLoadReaderNested(t *testing.T) {
	rows, err := LoadReader(strings.NewReader(`[{"address": {"city": "Paris", "zip": "75001"}, "tags": ["a", "b"]}]`), FormatJSON)
	require.NoError(t, err)

	city, ok := rows[0].Get("address.city")
	assert.True(t, ok)
	assert.Equal(t, "Paris", city)

	addr, _ := rows[0].Get("address")
	assert.IsType(t, &ordereddict.Dict{}, addr)

	tags, _ := rows[0].Get("tags")
	assert.Equal(t, []interface{}{"a", "b"}, tags)
}

func TestLoadReaderErrors(t *testing.T) {
	uu := map[string]struct {
		raw string
		f   Format
		err error
	}{
		"empty":      {raw: "", f: FormatJSON, err: ErrEmptyDataset},
		"scalar":     {raw: "42", f: FormatJSON},
		"notRecords": {raw: "[1, 2]", f: FormatJSON},
		"badLine":    {raw: "{\"a\": 1}\n[1]\n", f: FormatJSONL},
		"noData":     {raw: `{"rows": []}`, f: FormatJSON},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			_, err := LoadReader(strings.NewReader(u.raw), u.f)
			require.Error(t, err)
			if u.err != nil {
				assert.ErrorIs(t, err, u.err)
			}
		})
	}
}

func TestLoadReaderEmptyList(t *testing.T) {
	uu := map[string]struct {
		raw string
		f   Format
	}{
		"json":       {raw: "[]", f: FormatJSON},
		"yaml":       {raw: "data: []\n", f: FormatYAML},
		"jsonl":      {raw: "", f: FormatJSONL},
		"jsonlBlank": {raw: "\n\n", f: FormatJSONL},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			rows, err := LoadReader(strings.NewReader(u.raw), u.f)
			require.NoError(t, err)
			assert.NotNil(t, rows)
			assert.Empty(t, rows)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.yml")
	require.NoError(t, os.WriteFile(path, []byte("- name: fred\n- name: blee\n"), 0o600))

	rows, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("a.json"))
	assert.Equal(t, FormatJSON, FormatFor("a"))
	assert.Equal(t, FormatJSONL, FormatFor("a.NDJSON"))
	assert.Equal(t, FormatYAML, FormatFor("dir/a.yml"))
}

type fakeS3 struct {
	body  string
	calls int
	err   error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if *in.Bucket != "data" {
		return nil, errors.New("no such bucket")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(f.body))}, nil
}

func TestS3Source(t *testing.T) {
	client := fakeS3{body: `[{"n": 1}, {"n": 2}, {"n": 3}]`}
	src := NewS3Source(&client, "data", "nums.json", nil, nil)

	page, err := src.Fetch(context.Background(), Query{Page: 2, ItemsByPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Data, 1)

	_, err = src.Fetch(context.Background(), Query{Page: 1, ItemsByPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestLoadS3Error(t *testing.T) {
	client := fakeS3{err: errors.New("denied")}
	_, err := LoadS3(context.Background(), &client, "data", "x.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://data/x.json")
}
