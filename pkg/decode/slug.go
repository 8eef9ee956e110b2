// SPDX-License-Identifier: MPL-2.0

package decode

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes characters and drops combining marks, turning
// "Đặng Thảo" into "Dang Thao" before slugging.
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug turns a submitter display name into a directory-friendly slug:
// diacritics folded, lowercased, and reordered as
// "<rest-of-name-joined>-<firstname>" so folders sort by family name.
// "Jane van Doe" becomes "vandoe-jane".
func Slug(displayName string) string {
	folded, _, err := transform.String(asciiFold, displayName)
	if err != nil {
		folded = displayName
	}

	words := strings.Fields(strings.ToLower(folded))
	if len(words) == 0 {
		return ""
	}
	if len(words) == 1 {
		return words[0]
	}
	return strings.Join(words[1:], "") + "-" + words[0]
}
