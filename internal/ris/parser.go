// Package ris reads and writes the RIS line-oriented bibliographic format.
package ris

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/refdiff/refdiff/internal/record"
)

// MaxLineCapacity is the maximum buffer size for reading RIS lines (1MB).
// Abstracts from some publishers arrive as a single very long AB line.
const MaxLineCapacity = 1024 * 1024

// tagFields maps RIS tags to canonical record field names. Unknown tags are
// kept under their lowercase tag so no data is lost on round trips.
var tagFields = map[string]string{
	"TY": "type_of_reference",
	"TI": "title",
	"T1": "title",
	"AU": "authors",
	"A1": "authors",
	"PY": "year",
	"Y1": "year",
	"JO": "journal_name",
	"JF": "journal_name",
	"T2": "journal_name",
	"DO": "doi",
	"AB": "abstract",
	"N2": "abstract",
}

// tagLine matches "XX  - value" lines: a two-character tag, two spaces, a
// hyphen, and the value.
var tagLine = regexp.MustCompile(`^([A-Z][A-Z0-9])  -\s?(.*)$`)

// endTag terminates a record.
const endTag = "ER"

// Parse reads RIS text into records. Repeated AU/A1 tags accumulate into the
// authors list; for other fields the first value wins (so TI is preferred
// over a later T1). Lines that are neither tag lines nor blank are treated
// as continuations of the previous tag's value. A record missing its ER
// terminator at end of input is still emitted.
func Parse(data []byte) ([]record.Record, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	var recs []record.Record
	var cur record.Record
	var lastField string

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		m := tagLine.FindStringSubmatch(line)
		if m == nil {
			// Continuation of the previous value, or noise between records.
			if cur != nil && lastField != "" && strings.TrimSpace(line) != "" {
				appendContinuation(cur, lastField, strings.TrimSpace(line))
			}
			continue
		}

		tag, value := m[1], strings.TrimSpace(m[2])
		if tag == endTag {
			if cur != nil {
				recs = append(recs, cur)
			}
			cur = nil
			lastField = ""
			continue
		}

		if cur == nil {
			cur = record.Record{}
		}

		field, known := tagFields[tag]
		if !known {
			field = strings.ToLower(tag)
		}
		setField(cur, field, value)
		lastField = field
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading RIS input: %w", err)
	}

	if cur != nil {
		recs = append(recs, cur)
	}

	return recs, nil
}

// setField stores a tag value on the record. Authors accumulate; other
// fields keep their first non-empty value.
func setField(rec record.Record, field, value string) {
	if field == "authors" {
		authors, _ := rec[field].([]string)
		rec[field] = append(authors, value)
		return
	}
	if existing, ok := rec[field].(string); ok && existing != "" {
		return
	}
	rec[field] = value
}

// appendContinuation extends the most recent value with a wrapped line.
func appendContinuation(rec record.Record, field, text string) {
	if field == "authors" {
		authors, _ := rec[field].([]string)
		if n := len(authors); n > 0 {
			authors[n-1] = authors[n-1] + " " + text
			rec[field] = authors
		}
		return
	}
	if existing, ok := rec[field].(string); ok {
		rec[field] = existing + " " + text
	}
}
