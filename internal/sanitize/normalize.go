package sanitize

import "strings"

const utf8BOM = "\xef\xbb\xbf"

// normalizeText canonicalizes line endings to LF and strips a leading
// UTF-8 byte-order mark, if present. It does nothing else: comments,
// literals, and whitespace inside statements are left untouched.
func normalizeText(text string) string {
	text = strings.TrimPrefix(text, utf8BOM)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}
