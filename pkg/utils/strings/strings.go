package strings

import "strings"

// TrimPrefixAll removes prefix from s as many times as s starts with it.
//
//	TrimPrefixAll("///api/", "/") // -> "api/"
func TrimPrefixAll(s, prefix string) string {
	if prefix == "" {
		return s
	}
	for strings.HasPrefix(s, prefix) {
		s = s[len(prefix):]
	}
	return s
}

// SupplySuffix returns text ending with suffix, appending it only when missing.
func SupplySuffix(text, suffix string) string {
	if strings.HasSuffix(text, suffix) {
		return text
	}
	return text + suffix
}
