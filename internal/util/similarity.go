package util

import (
	"sort"
	"strings"
)

// Ratio is the normalized InDel similarity of a and b in [0,100]:
// 100 * 2*LCS(a,b) / (len(a)+len(b)), lengths counted in runes.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*lcsLength(ra, rb)) / float64(total)
}

// TokenSetRatio compares the whitespace token sets of a and b, ignoring order
// and duplicates. With sect the sorted shared tokens and ab, ba the sorted
// tokens unique to each side, it returns
//
//	max(Ratio(sect, sect+ab), Ratio(sect, sect+ba), Ratio(sect+ab, sect+ba))
//
// and 100 when the shared set is non-empty and one side has nothing extra.
// Either side without tokens scores 0.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var inter, diffAB, diffBA []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter = append(inter, tok)
		} else {
			diffAB = append(diffAB, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			diffBA = append(diffBA, tok)
		}
	}
	if len(inter) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sort.Strings(inter)
	sort.Strings(diffAB)
	sort.Strings(diffBA)

	sect := strings.Join(inter, " ")
	t1 := joinNonEmpty(sect, strings.Join(diffAB, " "))
	t2 := joinNonEmpty(sect, strings.Join(diffBA, " "))

	best := Ratio(t1, t2)
	if sect == "" {
		return best
	}
	if r := Ratio(sect, t1); r > best {
		best = r
	}
	if r := Ratio(sect, t2); r > best {
		best = r
	}
	return best
}

func tokenSet(input string) map[string]struct{} {
	tokens := Tokenize(input)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
