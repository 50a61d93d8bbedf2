package util

import (
	"strings"
	"unicode"
)

// ToPascalCase converts snake_case, kebab-case or space separated words to PascalCase
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var result strings.Builder
	for _, part := range parts {
		// Capitalize first letter, keep rest as-is
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}

	return result.String()
}

// SanitizeIdent replaces every rune that cannot appear in an identifier with
// an underscore and prefixes an underscore when the result would start with
// a digit. An empty input yields fallback.
func SanitizeIdent(s, fallback string) string {
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return fallback
	}
	return sb.String()
}

// IsASCIIIdent reports whether s is a non-empty [A-Za-z_$][A-Za-z0-9_$]* word
// when allowDollar is set, or the same without '$' otherwise.
func IsASCIIIdent(s string, allowDollar bool) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		switch {
		case ch == '_' || (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z'):
		case ch == '$' && allowDollar:
		case ch >= '0' && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
