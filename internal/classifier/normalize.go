package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ñ survives accent folding; it is swapped for private-use runes while the
// marks are stripped.
const (
	lowerEnye = '\uE000'
	upperEnye = '\uE001'
)

var (
	enyeProtect = strings.NewReplacer("ñ", string(lowerEnye), "Ñ", string(upperEnye))
	enyeRestore = strings.NewReplacer(string(lowerEnye), "ñ", string(upperEnye), "ñ")
)

// Normalize folds accents and case so keywords match regardless of how the
// subject was typed: "Verspätung" and "verspatung" compare equal, "daño" keeps
// its ñ. Transformers and casers are stateful, so each call builds its own.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(fold, enyeProtect.Replace(s))
	if err != nil {
		out = s
	}
	return cases.Lower(language.Und).String(enyeRestore.Replace(out))
}

// words splits normalised text into letter/digit runs.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
