package normalizer

import (
	"strings"

	"golang-report-consensus/internal/entity"
)

// Synonym sets collapsing free-text rating expressions into the four
// canonical codes. Matching is case-insensitive after trimming.
var ratingSynonyms = map[string]string{
	"buy":        entity.RatingBuy,
	"매수":         entity.RatingBuy,
	"tradingbuy": entity.RatingBuy,

	"sell":         entity.RatingSell,
	"매도":           entity.RatingSell,
	"underperform": entity.RatingSell,

	"hold": entity.RatingHold,

	"":         entity.RatingNone,
	"nr":       entity.RatingNone,
	"투자의견없음":   entity.RatingNone,
	"n/a":      entity.RatingNone,
	"na":       entity.RatingNone,
	"notrated": entity.RatingNone,
	"-":        entity.RatingNone,
}

// Rating maps a free-text rating expression to a canonical code. The
// classifier is total: anything unrecognized degrades to RatingNone.
func Rating(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if code, ok := ratingSynonyms[s]; ok {
		return code
	}
	return entity.RatingNone
}
