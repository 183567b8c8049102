package pipeline

import "invoicehs/internal"

// Assemble copies the matched catalog fields into the record, or marks it
// NOT FOUND.
func Assemble(rec internal.LineItemRecord, m internal.MatchResult) internal.LineItemRecord {
	if !m.Found() {
		rec.HSCode = internal.NotFound
		rec.HSDescription = internal.NotFound
		rec.Unit = ""
		return rec
	}
	rec.HSCode = m.Entry.HSCode
	rec.HSDescription = m.Entry.Description
	rec.Unit = m.Entry.Unit
	return rec
}
