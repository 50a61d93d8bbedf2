package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Inflector turns document keys into type names. The default implementation
// is a deliberately small heuristic; stricter strategies can be plugged into
// the inferencer without touching inference or emission.
type Inflector interface {
	// Singular returns the singular form used to name array elements.
	Singular(word string) string
	// TypeName converts a key into a PascalCase type name, or "" when the
	// key has no usable characters.
	TypeName(hint string) string
}

// Heuristic is the default Inflector.
//
// Singular strips one trailing plural marker ("ies" -> "y", otherwise a
// single "s", leaving "ss", "us" and "is" endings alone). TypeName splits on
// separators and capitalises each segment; camelCase input only has its
// first character capitalised.
type Heuristic struct{}

var _ Inflector = Heuristic{}

// Singular implements Inflector.
func (Heuristic) Singular(word string) string {
	lower := strings.ToLower(word)
	switch {
	case len(word) > 3 && strings.HasSuffix(lower, "ies"):
		return word[:len(word)-3] + matchCase(word[len(word)-3:], "y")
	case len(word) > 1 && strings.HasSuffix(lower, "s") &&
		!strings.HasSuffix(lower, "ss") &&
		!strings.HasSuffix(lower, "us") &&
		!strings.HasSuffix(lower, "is"):
		return word[:len(word)-1]
	}
	return word
}

// TypeName implements Inflector.
func (Heuristic) TypeName(hint string) string {
	segments := strings.FieldsFunc(hint, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	// Casers are stateful, so each call gets its own.
	title := cases.Title(language.Und, cases.NoLower)
	var sb strings.Builder
	for _, seg := range segments {
		// Only the leading rune is title-cased; the rest keeps its case.
		runes := []rune(seg)
		sb.WriteString(title.String(string(runes[0])))
		sb.WriteString(string(runes[1:]))
	}
	name := sb.String()
	if name == "" {
		return ""
	}
	if r := []rune(name)[0]; unicode.IsDigit(r) {
		name = "T" + name
	}
	return name
}

// matchCase renders repl in upper case when the suffix it replaces was upper case.
func matchCase(suffix, repl string) string {
	if strings.ToUpper(suffix) == suffix {
		return strings.ToUpper(repl)
	}
	return repl
}
