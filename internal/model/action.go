package model

import "strings"

// Side is the resolved direction of a trade.
// Keep these values stable; they are intended for CSV output.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Hebrew spellings of "buy" that appear in broker action labels.
// Both variants occur in real exports and must be matched literally.
const (
	hebrewBuyShort = "קניה"
	hebrewBuyLong  = "קנייה"
)

// SideFromAction classifies a free-text action label into a trade side.
// An action is a buy if its lower-cased text contains "buy" or either of the
// Hebrew buy spellings; everything else (sales, redemptions, unknown labels)
// is treated as a sell.
func SideFromAction(action string) Side {
	a := strings.ToLower(action)
	if strings.Contains(a, "buy") || strings.Contains(a, hebrewBuyShort) || strings.Contains(a, hebrewBuyLong) {
		return SideBuy
	}
	return SideSell
}

// IsBuy is a convenience wrapper for the common boolean form.
func IsBuy(action string) bool {
	return SideFromAction(action) == SideBuy
}

// Direction returns +1 for buys and -1 for sells, for signed outcome math.
func (s Side) Direction() float64 {
	if s == SideBuy {
		return 1
	}
	return -1
}
