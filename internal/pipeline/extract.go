package pipeline

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"invoicehs/internal"
	"invoicehs/internal/util"
)

var (
	headerKeywords = []string{
		"invoice", "tax", "bill to", "ship to", "date",
		"total", "subtotal", "amount in words", "bank",
	}
	qtyKeywords = []string{"qty", "quantity"}

	headerMatcher = ahocorasick.NewStringMatcher(headerKeywords)
)

type LineAction string

type SkipReason string

const (
	ActionInclude LineAction = "INCLUDE"
	ActionSkip    LineAction = "SKIP"

	ReasonNone   SkipReason = ""
	ReasonHeader SkipReason = "header"
	ReasonNoise  SkipReason = "noise"
)

// LineDecision is the outcome of classifying one normalized line. Keyword is
// the header keyword that caused a header skip.
type LineDecision struct {
	Line    string
	Action  LineAction
	Reason  SkipReason
	Keyword string
}

func (d LineDecision) Included() bool { return d.Action == ActionInclude }

// ClassifyLine decides whether a line is an item row. Header/footer keywords
// are checked first and win over any digit or quantity signal.
func ClassifyLine(line string) LineDecision {
	low := strings.ToLower(line)

	if hits := headerMatcher.MatchThreadSafe([]byte(low)); len(hits) > 0 {
		return LineDecision{Line: line, Action: ActionSkip, Reason: ReasonHeader, Keyword: headerKeywords[hits[0]]}
	}

	if containsAny(low, qtyKeywords) || util.HasDigit(line) {
		return LineDecision{Line: line, Action: ActionInclude}
	}
	return LineDecision{Line: line, Action: ActionSkip, Reason: ReasonNoise}
}

// ClassifyText runs ClassifyLine over every normalized line of text.
func ClassifyText(text string) []LineDecision {
	lines := NormalizeText(text)
	out := make([]LineDecision, 0, len(lines))
	for _, line := range lines {
		out = append(out, ClassifyLine(line))
	}
	return out
}

// ExtractLineItems emits one record per included line, in input order.
func ExtractLineItems(text string) []internal.LineItemRecord {
	out := []internal.LineItemRecord{}
	for _, d := range ClassifyText(text) {
		if !d.Included() {
			continue
		}
		out = append(out, internal.NewLineItemRecord(d.Line))
	}
	return out
}

func containsAny(s string, probes []string) bool {
	for _, p := range probes {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
