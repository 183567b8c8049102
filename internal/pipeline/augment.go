package pipeline

import "strings"

// Category vocabulary, in append order.
var augmentKeywords = []string{
	"elbow", "tee", "coupling", "adapter", "union",
	"pipe", "pvc", "fitting", "valve",
}

// Augment lowercases the description and appends one copy of every
// vocabulary keyword it already contains, so the category weighs more in the
// token-set score.
func Augment(description string) string {
	low := strings.ToLower(description)
	var b strings.Builder
	b.WriteString(low)
	for _, k := range augmentKeywords {
		if strings.Contains(low, k) {
			b.WriteByte(' ')
			b.WriteString(k)
		}
	}
	return b.String()
}
