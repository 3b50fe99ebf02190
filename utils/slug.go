package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify derives the subdomain slug of a restaurant name: lowercase,
// accents folded, anything but letters, digits and whitespace dropped,
// whitespace runs collapsed to a single hyphen.
//
//	"Joe's Café!" -> "joes-cafe"
func Slugify(name string) string {
	folded := norm.NFD.String(strings.ToLower(name))

	var b strings.Builder
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingHyphen = true
		}
	}
	return b.String()
}

// SubdomainHost joins a slug with the public suffix domain.
func SubdomainHost(slug, suffix string) string {
	suffix = strings.TrimPrefix(strings.TrimSpace(suffix), ".")
	if suffix == "" {
		return slug
	}
	return slug + "." + suffix
}
