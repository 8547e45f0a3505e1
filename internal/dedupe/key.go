package dedupe

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/refdiff/refdiff/internal/record"
)

// Key prefixes distinguish the two key families so a DOI can never collide
// with a title+year key.
const (
	doiKeyPrefix       = "DOI:"
	titleYearKeyPrefix = "TY:"
	noYearPrefix       = "NOYEAR_"
)

// GenerateKey derives the exact-match key for a record. A non-empty DOI is
// authoritative regardless of title text; otherwise the key combines the
// normalized title with the truncated year. Records without a year get a
// title-length discriminator instead, so two unrelated no-year records only
// collide when their normalized titles also have equal length.
//
// Deterministic and pure: repeated calls on an unmodified record always
// return the same key, and every record yields a non-empty key.
func GenerateKey(rec record.Record) string {
	if doi := strings.TrimSpace(rec.DOI()); doi != "" {
		return doiKeyPrefix + strings.ToLower(doi)
	}

	normTitle := NormalizeTitle(rec.Title())

	year := rec.Year()
	var yearPart string
	if strings.TrimSpace(year) != "" {
		yearPart = truncateYear(year)
	} else {
		yearPart = fmt.Sprintf("%s%d", noYearPrefix, utf8.RuneCountInString(normTitle))
	}

	return titleYearKeyPrefix + normTitle + "_" + yearPart
}

// truncateYear returns the first four characters of a stringified year.
// Handles values like "2023/05/01" or "2023-06" from sloppy RIS exports.
func truncateYear(year string) string {
	r := []rune(year)
	if len(r) > 4 {
		return string(r[:4])
	}
	return year
}
