package feedback

import "strings"

// Category is one tag of the closed feedback vocabulary.
type Category string

const (
	Service        Category = "service"
	Delays         Category = "delays"
	Infrastructure Category = "infrastructure"
	User           Category = "user"
	Hygiene        Category = "hygiene"
	Comfort        Category = "comfort"
	Positive       Category = "positive"
)

// vocabulary order is the legend order of every chart.
var vocabulary = []Category{Service, Delays, Infrastructure, User, Hygiene, Comfort, Positive}

// Vocabulary returns the known categories in legend order.
func Vocabulary() []Category {
	out := make([]Category, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// IssueCategories returns the vocabulary without Positive.
func IssueCategories() []Category {
	out := make([]Category, 0, len(vocabulary)-1)
	for _, c := range vocabulary {
		if c != Positive {
			out = append(out, c)
		}
	}
	return out
}

// IsKnown reports whether tag belongs to the vocabulary.
func IsKnown(tag string) bool {
	for _, c := range vocabulary {
		if string(c) == tag {
			return true
		}
	}
	return false
}

// Title returns the display label, e.g. "Infrastructure".
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}
