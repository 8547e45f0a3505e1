package ris

import (
	"strings"

	"github.com/refdiff/refdiff/internal/record"
)

// DefaultType is used when a record carries no reference type.
const DefaultType = "JOUR"

// Write serializes records to RIS text. Fields are resolved through the
// record alias chains, so records parsed from either tag-style or long-form
// field names serialize identically.
func Write(recs []record.Record) string {
	var b strings.Builder
	for _, rec := range recs {
		writeRecord(&b, rec)
	}
	return b.String()
}

func writeRecord(b *strings.Builder, rec record.Record) {
	rtype := rec.Type()
	if rtype == "" {
		rtype = DefaultType
	}
	writeTag(b, "TY", rtype)

	writeTag(b, "TI", rec.Title())
	for _, author := range rec.Authors() {
		writeTag(b, "AU", author)
	}
	writeTag(b, "PY", rec.Year())
	writeTag(b, "JO", rec.Journal())
	writeTag(b, "DO", rec.DOI())
	writeTag(b, "AB", rec.Abstract())

	b.WriteString("ER  - \n\n")
}

// writeTag emits one tag line, skipping empty values. TY is always written
// by the caller with a non-empty value.
func writeTag(b *strings.Builder, tag, value string) {
	if value == "" {
		return
	}
	b.WriteString(tag)
	b.WriteString("  - ")
	b.WriteString(value)
	b.WriteString("\n")
}
