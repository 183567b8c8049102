package catalog

import (
	"strings"

	"invoicehs/internal"
)

// Index keeps the entries in catalog order next to their lowercased
// descriptions, which is what the matcher scores against. Rows[i] is the
// data row entry i was loaded from; it differs from i once blank rows are
// skipped.
type Index struct {
	Entries      []internal.CatalogEntry
	Descriptions []string
	Rows         []int
}

func BuildIndex(entries []internal.CatalogEntry) *Index {
	rows := make([]int, len(entries))
	for i := range rows {
		rows[i] = i
	}
	return buildIndex(entries, rows)
}

func buildIndex(entries []internal.CatalogEntry, rows []int) *Index {
	idx := &Index{
		Entries:      entries,
		Descriptions: make([]string, len(entries)),
		Rows:         rows,
	}
	for i, e := range entries {
		idx.Descriptions[i] = strings.ToLower(e.Description)
	}
	return idx
}

// Row maps an entry index back to its source data row, -1 when out of range.
func (idx *Index) Row(i int) int {
	if idx == nil || i < 0 || i >= len(idx.Rows) {
		return -1
	}
	return idx.Rows[i]
}

func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Entries)
}
