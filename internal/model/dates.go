package model

import "strings"

// NormalizeDate unifies the two date encodings seen in source files into
// YYYY-MM-DD:
//
//   - "07/03/2024"            (DD/MM/YYYY, broker exports)
//   - "2024-03-07T00:00:00"   (ISO with a time component, exchange files)
//
// Strings that already look like YYYY-MM-DD pass through unchanged. Malformed
// values are returned as-is; the caller decides whether to drop the row.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) == 3 {
			d, m, y := pad2(parts[0]), pad2(parts[1]), parts[2]
			return y + "-" + m + "-" + d
		}
		return s
	}
	// Strip any time component ("T..." or " ...").
	if i := strings.IndexAny(s, "T "); i > 0 {
		return s[:i]
	}
	return s
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
