package pipeline

import (
	"invoicehs/internal/util"
)

// NormalizeText turns raw extracted text into candidate lines: split on line
// boundaries, trimmed, empties dropped, order kept.
func NormalizeText(text string) []string {
	return util.Lines(text)
}
