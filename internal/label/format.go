package label

import (
	"strconv"
	"strings"

	"github.com/gertd/go-pluralize"
)

// Formatter turns element types into display words ("figure",
// "figures", "Figure"), honoring configured overrides.
type Formatter struct {
	words      map[string]string
	plural     *pluralize.Client
	capitalize bool // honor sentence-start capitalization
}

var defaultWords = map[string]string{
	"section":  "section",
	"equation": "equation",
	"figure":   "figure",
	"table":    "table",
}

// NewFormatter builds a formatter. overrides replaces default type
// words (e.g. "figure" → "fig."); capitalize enables sentence-start
// capitalization of type words.
func NewFormatter(overrides map[string]string, capitalize bool) *Formatter {
	words := make(map[string]string, len(defaultWords))
	for k, v := range defaultWords {
		words[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			words[k] = v
		}
	}
	return &Formatter{words: words, plural: pluralize.NewClient(), capitalize: capitalize}
}

// typeWord returns the display word for a type. Abbreviation-style
// words keep their trailing period when pluralized ("fig." → "figs.").
func (f *Formatter) typeWord(typ string, plural, capitalize bool) string {
	w, ok := f.words[typ]
	if !ok {
		w = typ
	}
	if plural {
		if strings.HasSuffix(w, ".") {
			w = f.plural.Plural(strings.TrimSuffix(w, ".")) + "."
		} else {
			w = f.plural.Plural(w)
		}
	}
	if capitalize && f.capitalize {
		w = strings.ToUpper(w[:1]) + w[1:]
	}
	return w
}

// letterFor converts a 1-based ordinal to bijective base-26 letters:
// 1 → "a", 26 → "z", 27 → "aa". Letters only, never digits.
func letterFor(n int) string {
	if n <= 0 {
		return ""
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append([]byte{byte('a' + n%26)}, buf...)
		n /= 26
	}
	return string(buf)
}

// sectionLabel formats a heading counter vector as a dotted numeral,
// dropping trailing zero levels: [2 1 0 0 0 0] → "2.1".
func sectionLabel(vec [6]int) string {
	last := 0
	for i, v := range vec {
		if v != 0 {
			last = i
		}
	}
	parts := make([]string, 0, last+1)
	for i := 0; i <= last; i++ {
		parts = append(parts, strconv.Itoa(vec[i]))
	}
	return strings.Join(parts, ".")
}

// listSeparator returns the text preceding item i of n when labels are
// joined as natural language: "A and B", "A, B, and C".
func listSeparator(i, n int) string {
	switch {
	case i == 0:
		return ""
	case n == 2:
		return " and "
	case i == n-1:
		return ", and "
	default:
		return ", "
	}
}
