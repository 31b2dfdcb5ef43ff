package meta

import (
	"reflect"
	"strings"
	"unicode"
)

// QualifiedName returns the registry name of t.
func QualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// kebab converts a Go identifier to kebab-case. A word starts at an upper
// case letter following a lower case letter or digit, and at the last letter
// of an upper case run followed by lower case ("HTTPServer" -> http-server).
// Underscores separate words. Adjacent acronyms stay one word ("HTTPURL" ->
// httpurl).
func kebab(s string) string {
	runes := []rune(s)
	var out strings.Builder
	pending := false

	for i, r := range runes {
		if r == '_' {
			pending = out.Len() > 0
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				pending = out.Len() > 0
			}
		}
		if pending {
			out.WriteByte('-')
			pending = false
		}
		out.WriteRune(unicode.ToLower(r))
	}
	return out.String()
}
