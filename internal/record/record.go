// Package record defines the flexible field-mapping type for bibliographic
// references and the alias resolution rules shared by the comparison engine.
package record

import (
	"errors"
	"fmt"
	"strconv"
)

// Record represents a single bibliographic reference as a mapping from field
// name to value. Values may be strings, integers, or string slices depending
// on the source parser; accessors coerce them on read. Records are treated as
// immutable inputs by the engine.
type Record map[string]any

// ErrInvalidShape is returned when a value that should be a record is not a
// field mapping at all. This is the only fatal input condition; anything else
// degrades to empty or absent fields.
var ErrInvalidShape = errors.New("record is not a field mapping")

// FuzzyMatchField marks records matched by the fuzzy pass in comparison
// output.
const FuzzyMatchField = "fuzzy_match"

// tempKeyField is the internal annotation some upstream tools attach during
// key generation. It never survives into comparison output.
const tempKeyField = "temp_key"

// Alias chains for canonical fields, in resolution order. RIS-style sources
// use two-letter tags; parsers for other formats use the long names. The
// engine accepts either.
var (
	doiAliases      = []string{"doi", "do"}
	titleAliases    = []string{"title", "primary_title", "ti"}
	yearAliases     = []string{"year", "py"}
	journalAliases  = []string{"journal_name", "jo", "t2"}
	abstractAliases = []string{"abstract", "ab", "n2"}
	authorsAliases  = []string{"authors", "au"}
)

// Validate checks that v is a field mapping and returns it as a Record.
func Validate(v any) (Record, error) {
	switch m := v.(type) {
	case Record:
		return m, nil
	case map[string]any:
		return Record(m), nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidShape, v)
	}
}

// Slice validates a collection of untyped values as records.
func Slice(vs []any) ([]Record, error) {
	recs := make([]Record, 0, len(vs))
	for i, v := range vs {
		rec, err := Validate(v)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// DOI returns the DOI via the doi/do alias chain, or "" if absent.
func (r Record) DOI() string { return r.stringField(doiAliases) }

// Title returns the title via the title/primary_title/ti alias chain.
func (r Record) Title() string { return r.stringField(titleAliases) }

// Year returns the stringified publication year via the year/py alias chain.
func (r Record) Year() string { return r.stringField(yearAliases) }

// Journal returns the journal name via the journal_name/jo/t2 alias chain.
func (r Record) Journal() string { return r.stringField(journalAliases) }

// Abstract returns the abstract via the abstract/ab/n2 alias chain.
func (r Record) Abstract() string { return r.stringField(abstractAliases) }

// Type returns the reference type (TY tag), or "" if absent.
func (r Record) Type() string { return r.stringField([]string{"type_of_reference"}) }

// Authors returns the author list via the authors/au alias chain. A single
// string value is promoted to a one-element list.
func (r Record) Authors() []string {
	for _, name := range authorsAliases {
		v, ok := r[name]
		if !ok {
			continue
		}
		switch a := v.(type) {
		case []string:
			if len(a) > 0 {
				return a
			}
		case []any:
			var authors []string
			for _, e := range a {
				if s, ok := coerceString(e); ok && s != "" {
					authors = append(authors, s)
				}
			}
			if len(authors) > 0 {
				return authors
			}
		default:
			if s, ok := coerceString(v); ok && s != "" {
				return []string{s}
			}
		}
	}
	return nil
}

// IsFuzzyMatch reports whether the record was flagged by the fuzzy pass.
func (r Record) IsFuzzyMatch() bool {
	v, ok := r[FuzzyMatchField].(bool)
	return ok && v
}

// Clone returns a shallow copy of the record. The engine clones before
// annotating output so that caller inputs stay untouched.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// StripInternal returns the record without engine-internal annotations.
// Returns the receiver unchanged when nothing needs stripping.
func (r Record) StripInternal() Record {
	if _, ok := r[tempKeyField]; !ok {
		return r
	}
	out := r.Clone()
	delete(out, tempKeyField)
	return out
}

// stringField returns the first non-empty coercible string among the aliased
// field names.
func (r Record) stringField(aliases []string) string {
	for _, name := range aliases {
		if s, ok := coerceString(r[name]); ok && s != "" {
			return s
		}
	}
	return ""
}

// coerceString converts a field value to a string. Strings pass through,
// integer and whole-float values are stringified; anything else is treated
// as absent rather than failing.
func coerceString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10), true
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case nil:
		return "", false
	default:
		return "", false
	}
}
