// SPDX-License-Identifier: MPL-2.0

package place

import (
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"toltool/pkg/decode"
)

// illegalDirRunes are the characters rejected by at least one of the common
// filesystems (NTFS being the strictest), plus the path separators.
const illegalDirRunes = `<>:"/\|?*`

// SanitizeSubmitter maps a submitter identity to a directory name that is
// safe on common filesystems. Illegal and control characters become
// underscores, and leading/trailing dots and spaces are trimmed (Windows
// strips them silently, which would merge distinct submitters). An identity
// that sanitizes to nothing gets a stable placeholder derived from a short
// hash of the original, so re-runs produce the same folder.
func SanitizeSubmitter(id decode.SubmitterID) string {
	mapped := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(illegalDirRunes, r) {
			return '_'
		}
		return r
	}, string(id))

	mapped = strings.Trim(mapped, ". ")
	if mapped == "" || allUnderscores(mapped) {
		sum := blake3.Sum256([]byte(id))
		return fmt.Sprintf("submitter-%x", sum[:4])
	}
	return mapped
}

func allUnderscores(s string) bool {
	return strings.Trim(s, "_") == ""
}
