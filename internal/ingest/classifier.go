package ingest

import (
	"path"
	"strings"
)

// FileRule matches archive entries to dataset types by filename.
type FileRule struct {
	// NamePattern is matched case-insensitively as a substring of the base
	// filename.
	NamePattern string
	Type        FileType
	Required    bool
	// Priority orders processing; required/smaller datasets come first so
	// they are available before optional ones.
	Priority int
}

// FileRules is the ordered rule set for the expected archive layout.
var FileRules = []FileRule{
	{NamePattern: "transaction", Type: FileTransactions, Required: true, Priority: 1},
	{NamePattern: "trading", Type: FileTrading, Required: true, Priority: 2},
	{NamePattern: "securities", Type: FileSecurities, Required: false, Priority: 3},
	{NamePattern: "indices", Type: FileIndices, Required: false, Priority: 4},
	{NamePattern: "flow", Type: FileFlow, Required: false, Priority: 5},
}

// RequiredTypes lists the dataset types that must produce rows for a load to
// be considered successful.
func RequiredTypes() []FileType {
	var out []FileType
	for _, r := range FileRules {
		if r.Required {
			out = append(out, r.Type)
		}
	}
	return out
}

// MatchFileName resolves an archive entry name against the rule set.
// Unmatched entries are ignored by the caller.
func MatchFileName(name string) (FileRule, bool) {
	base := strings.ToLower(path.Base(name))
	for _, r := range FileRules {
		if strings.Contains(base, r.NamePattern) {
			return r, true
		}
	}
	return FileRule{}, false
}

// DetectType inspects header columns to classify a file when no explicit
// hint is given. Order matters: transaction markers are checked first because
// trading files share date-like columns with every other source.
func DetectType(header []string) FileType {
	cols := make(map[string]bool, len(header))
	for _, h := range header {
		cols[CanonicalColumn(h)] = true
	}

	anyOf := func(names ...string) bool {
		for _, n := range names {
			if cols[n] {
				return true
			}
		}
		return false
	}

	switch {
	case anyOf("action", "operation", "order_date"):
		return FileTransactions
	case anyOf("index_id", "index_code", "index_name"):
		return FileIndices
	case anyOf("isin") && anyOf("security_id", "security_no"):
		return FileSecurities
	case anyOf("investor_class", "investor_type") || (anyOf("buy_turnover") && anyOf("sell_turnover")):
		return FileFlow
	case anyOf("trade_date", "date") && anyOf("percent_change", "change", "change_percent", "base_price"):
		return FileTrading
	default:
		return FileUnknown
	}
}

// CanonicalColumn normalizes a header cell to the canonical form used as a
// RawRow key: lower-cased, trimmed, inner spaces collapsed to underscores.
func CanonicalColumn(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}
