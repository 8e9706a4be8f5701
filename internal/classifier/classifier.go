package classifier

import (
	"strings"

	"github.com/godilite/feedback-insights/internal/feedback"
)

// Classifier tags free-text feedback subjects with vocabulary categories.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	language string
	keywords map[feedback.Category][]string
	weights  map[string]int
	praise   string
}

// New returns a classifier for language. Unknown languages fall back to
// English.
func New(language string) *Classifier {
	language = strings.ToLower(strings.TrimSpace(language))
	if _, ok := topics[language]; !ok {
		language = defaultLanguage
	}

	c := &Classifier{
		language: language,
		keywords: make(map[feedback.Category][]string, len(topics[language])),
		weights:  make(map[string]int, len(sentiment[language])),
		praise:   praise[language],
	}
	for cat, terms := range topics[language] {
		clean := make([]string, len(terms))
		for i, t := range terms {
			clean[i] = Normalize(t)
		}
		c.keywords[cat] = clean
	}
	for phrase, w := range sentiment[language] {
		c.weights[Normalize(phrase)] = w
	}
	return c
}

// Language is the lexicon in use.
func (c *Classifier) Language() string {
	return c.language
}

// Classify returns the subject's categories in vocabulary order, nil when
// nothing matches.
func (c *Classifier) Classify(subject string) []string {
	text := Normalize(subject)
	if text == "" {
		return nil
	}

	var tags []string
	for _, cat := range feedback.Vocabulary() {
		if cat == feedback.Positive {
			if c.isPositive(text) {
				tags = append(tags, string(cat))
			}
			continue
		}
		for _, kw := range c.keywords[cat] {
			if strings.Contains(text, kw) {
				tags = append(tags, string(cat))
				break
			}
		}
	}
	return tags
}

// Score sums the sentiment weights of the phrases found in subject.
func (c *Classifier) Score(subject string) int {
	return c.score(Normalize(subject))
}

// Keywords returns the matched keywords per category, for explaining a tag.
func (c *Classifier) Keywords(subject string) map[feedback.Category][]string {
	text := Normalize(subject)
	found := make(map[feedback.Category][]string)
	for cat, kws := range c.keywords {
		for _, kw := range kws {
			if strings.Contains(text, kw) {
				found[cat] = append(found[cat], kw)
			}
		}
	}
	return found
}

func (c *Classifier) isPositive(text string) bool {
	if c.score(text) > 0 {
		return true
	}
	return c.praise != "" && containsPhrase(text, c.praise)
}

func (c *Classifier) score(text string) int {
	score := 0
	for phrase, w := range c.weights {
		if containsPhrase(text, phrase) {
			score += w
		}
	}
	return score
}

// containsPhrase matches phrase on word boundaries.
func containsPhrase(text, phrase string) bool {
	padded := " " + strings.Join(words(text), " ") + " "
	return strings.Contains(padded, " "+strings.Join(words(phrase), " ")+" ")
}
