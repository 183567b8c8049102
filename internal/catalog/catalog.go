package catalog

import (
	"fmt"
	"strings"

	"invoicehs/internal"
)

type Role string

const (
	RoleDescription Role = "description"
	RoleHSCode      Role = "hs code"
	RoleUnit        Role = "unit"
)

// Header probes per role. The first header containing the probe wins.
var roleProbes = []struct {
	role  Role
	probe string
}{
	{RoleDescription, "desc"},
	{RoleHSCode, "hs"},
	{RoleUnit, "unit"},
}

// Column is a resolved header: its position and normalized name.
type Column struct {
	Index int
	Name  string
}

// Columns holds one optional column per role.
type Columns struct {
	Description *Column
	HSCode      *Column
	Unit        *Column
}

func (c Columns) missing() []Role {
	var out []Role
	if c.Description == nil {
		out = append(out, RoleDescription)
	}
	if c.HSCode == nil {
		out = append(out, RoleHSCode)
	}
	return out
}

// MalformedCatalogError reports which required roles no header resolved to.
type MalformedCatalogError struct {
	Missing []Role
	Headers []string
}

func (e *MalformedCatalogError) Error() string {
	roles := make([]string, 0, len(e.Missing))
	for _, r := range e.Missing {
		roles = append(roles, string(r))
	}
	return fmt.Sprintf("malformed catalog: no %s column (headers: %s); HS code file must contain description and hs code columns",
		strings.Join(roles, " or "), strings.Join(e.Headers, ", "))
}

// Catalog is the reference table after column resolution, read-only for the
// rest of the run.
type Catalog struct {
	Columns Columns
	*Index
}

func NormalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// ResolveColumns scans the normalized headers left to right and returns the
// first header containing "desc", "hs" and "unit" respectively. A header may
// resolve more than one role.
func ResolveColumns(headers []string) Columns {
	var cols Columns
	for i, h := range headers {
		name := NormalizeHeader(h)
		for _, rp := range roleProbes {
			if !strings.Contains(name, rp.probe) {
				continue
			}
			slot := cols.slot(rp.role)
			if *slot == nil {
				*slot = &Column{Index: i, Name: name}
			}
		}
	}
	return cols
}

func (c *Columns) slot(role Role) **Column {
	switch role {
	case RoleDescription:
		return &c.Description
	case RoleHSCode:
		return &c.HSCode
	default:
		return &c.Unit
	}
}

// Load projects the table onto the resolved columns. It fails with
// *MalformedCatalogError when description or HS code is unresolved. Rows with
// a blank description or code are not entries.
func Load(table Table) (*Catalog, error) {
	cols := ResolveColumns(table.Header)
	if missing := cols.missing(); len(missing) > 0 {
		headers := make([]string, 0, len(table.Header))
		for _, h := range table.Header {
			headers = append(headers, NormalizeHeader(h))
		}
		return nil, &MalformedCatalogError{Missing: missing, Headers: headers}
	}

	entries := make([]internal.CatalogEntry, 0, len(table.Rows))
	rows := make([]int, 0, len(table.Rows))
	for i := range table.Rows {
		entry := internal.CatalogEntry{
			Description: strings.TrimSpace(table.Cell(i, cols.Description.Index)),
			HSCode:      strings.TrimSpace(table.Cell(i, cols.HSCode.Index)),
		}
		if entry.Description == "" || entry.HSCode == "" {
			continue
		}
		if cols.Unit != nil {
			entry.Unit = strings.TrimSpace(table.Cell(i, cols.Unit.Index))
		}
		entries = append(entries, entry)
		rows = append(rows, i)
	}

	return &Catalog{Columns: cols, Index: buildIndex(entries, rows)}, nil
}

// FromEntries wraps already-projected entries, e.g. for callers that hold the
// catalog in memory.
func FromEntries(entries []internal.CatalogEntry) *Catalog {
	return &Catalog{Index: BuildIndex(entries)}
}
