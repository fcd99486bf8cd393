package personas

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrNoHeader = errors.New("personas: file has no header row")

// DefaultDropColumns are removed from uploaded persona exports.
var DefaultDropColumns = []string{
	"Area.1", "Relevance", "Details", "Channel name", "Channel videos",
	"Channel subscribers", "Video views", "URL", "Comment",
}

const DefaultSkipLines = 12

// Table is a parsed personas file.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type ParseOptions struct {
	SkipLines   int
	DropColumns []string
}

// Parse reads a personas CSV export: it discards the preamble lines, ignores
// '#' comment lines and removes the dropped columns. Repeated header names get
// ".1", ".2" suffixes in order of appearance.
func Parse(r io.Reader, opts ParseOptions) (*Table, error) {
	br := bufio.NewReader(r)
	for i := 0; i < opts.SkipLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, ErrNoHeader
			}
			return nil, fmt.Errorf("skip preamble: %w", err)
		}
	}

	cr := csv.NewReader(br)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = dedupe(header)

	drop := make(map[string]struct{}, len(opts.DropColumns))
	for _, c := range opts.DropColumns {
		drop[c] = struct{}{}
	}
	keep := make([]int, 0, len(header))
	table := &Table{Columns: []string{}, Rows: [][]string{}}
	for i, name := range header {
		if _, ok := drop[name]; ok {
			continue
		}
		keep = append(keep, i)
		table.Columns = append(table.Columns, name)
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}
		row := make([]string, len(keep))
		for j, i := range keep {
			if i < len(record) {
				row[j] = strings.TrimSpace(record[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func dedupe(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if n, ok := seen[h]; ok {
			out[i] = h + "." + strconv.Itoa(n)
			seen[h] = n + 1
			continue
		}
		seen[h] = 1
		out[i] = h
	}
	return out
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// RecordsJSON renders the table as an indented JSON array of objects, one per
// row, with keys in column order. Numeric cells become numbers and empty cells null.
func (t *Table) RecordsJSON() (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for r, row := range t.Rows {
		if r > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for c, name := range t.Columns {
			if c > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(name)
			if err != nil {
				return "", err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(cellJSON(row[c]))
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return "", fmt.Errorf("indent records: %w", err)
	}
	return out.String(), nil
}

func cellJSON(v string) []byte {
	if v == "" {
		return []byte("null")
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !strings.ContainsAny(v, "xXpP_") {
		if b, err := json.Marshal(f); err == nil {
			return b
		}
	}
	b, _ := json.Marshal(v)
	return b
}
