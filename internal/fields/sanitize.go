package fields

import "strings"

// longTextAllowedTags is the markup subset long_text values may keep.
// Attributes are always discarded.
var longTextAllowedTags = map[string]struct{}{
	"b": {}, "i": {}, "em": {}, "strong": {}, "u": {},
	"br": {}, "p": {}, "ul": {}, "ol": {}, "li": {},
}

// StripTags removes every HTML/XML tag from the input, keeping only the text
// between tags. Unterminated tags consume the rest of the string.
func StripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<':
			inTag = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeMarkup keeps the constrained long_text tag subset and strips
// everything else, including all attributes. Kept tags are rewritten in
// canonical <name> / </name> form so the result is stable under re-sanitizing.
func SanitizeMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	rest := s
	for {
		open := strings.IndexByte(rest, '<')
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:open])
		rest = rest[open+1:]
		closeIdx := strings.IndexByte(rest, '>')
		if closeIdx < 0 {
			// unterminated tag: drop it and everything after
			return b.String()
		}
		body := strings.TrimSpace(rest[:closeIdx])
		rest = rest[closeIdx+1:]

		closing := strings.HasPrefix(body, "/")
		body = strings.TrimPrefix(body, "/")
		body = strings.TrimSuffix(body, "/")
		name := strings.ToLower(strings.TrimSpace(body))
		if idx := strings.IndexAny(name, " \t\n"); idx >= 0 {
			name = name[:idx]
		}
		if _, ok := longTextAllowedTags[name]; !ok {
			continue
		}
		if closing {
			b.WriteString("</" + name + ">")
		} else {
			b.WriteString("<" + name + ">")
		}
	}
}
