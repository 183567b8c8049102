package internal

// NotFound is written into the HS columns of a line item that no catalog
// entry matched.
const NotFound = "NOT FOUND"

// OutputColumns is the fixed column order of the exported sheet.
var OutputColumns = []string{
	"Full Description", "Brand", "Model", "Size", "Qty", "Packing", "Origin", "Total Price",
	"HS Code", "HS Description", "Unit",
}

// LineItemRecord is one row of the output table. Brand through TotalPrice are
// reserved for finer-grained extraction and are never filled by the parser.
type LineItemRecord struct {
	FullDescription string `json:"fullDescription"`
	Brand           string `json:"brand"`
	Model           string `json:"model"`
	Size            string `json:"size"`
	Qty             string `json:"qty"`
	Packing         string `json:"packing"`
	Origin          string `json:"origin"`
	TotalPrice      string `json:"totalPrice"`

	HSCode        string `json:"hsCode"`
	HSDescription string `json:"hsDescription"`
	Unit          string `json:"unit"`
}

// NewLineItemRecord returns a record for one extracted line with every other
// field at its default. The HS columns read NotFound until a match is assembled.
func NewLineItemRecord(line string) LineItemRecord {
	return LineItemRecord{FullDescription: line, HSCode: NotFound, HSDescription: NotFound}
}

// Row renders the record in OutputColumns order.
func (r LineItemRecord) Row() []string {
	return []string{
		r.FullDescription, r.Brand, r.Model, r.Size, r.Qty, r.Packing, r.Origin, r.TotalPrice,
		r.HSCode, r.HSDescription, r.Unit,
	}
}

type CatalogEntry struct {
	Description string `json:"description"`
	HSCode      string `json:"hsCode"`
	Unit        string `json:"unit,omitempty"`
}

type MatchStatus string

const (
	MatchFound    MatchStatus = "MATCH"
	MatchNotFound MatchStatus = "NO_MATCH"
)

// MatchResult is the transient outcome of scoring one description against the
// catalog. Index is the position among loaded entries; Row is the catalog data
// row (0-based, below the header) that entry came from. Entry, Index and Row
// are only meaningful when Status is MatchFound.
type MatchResult struct {
	Status MatchStatus   `json:"status"`
	Score  float64       `json:"score"`
	Index  int           `json:"index"`
	Row    int           `json:"row"`
	Entry  *CatalogEntry `json:"entry,omitempty"`
}

func (m MatchResult) Found() bool {
	return m.Status == MatchFound && m.Entry != nil
}

// ConversionCounts mirrors what a run reports about itself.
type ConversionCounts struct {
	Lines     int `json:"lines"`
	Items     int `json:"items"`
	Catalog   int `json:"catalog"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}
