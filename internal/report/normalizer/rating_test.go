package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golang-report-consensus/internal/entity"
)

func TestRating(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"buy", entity.RatingBuy},
		{"Buy", entity.RatingBuy},
		{"BUY", entity.RatingBuy},
		{"매수", entity.RatingBuy},
		{"TradingBuy", entity.RatingBuy},
		{"sell", entity.RatingSell},
		{"매도", entity.RatingSell},
		{"Underperform", entity.RatingSell},
		{"hold", entity.RatingHold},
		{"Hold", entity.RatingHold},
		{"", entity.RatingNone},
		{"  ", entity.RatingNone},
		{"NR", entity.RatingNone},
		{"투자의견없음", entity.RatingNone},
		{"n/a", entity.RatingNone},
		{"NA", entity.RatingNone},
		{"NotRated", entity.RatingNone},
		{"-", entity.RatingNone},
		{"음", entity.RatingNone},
		{"strong conviction!!", entity.RatingNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rating(tt.in), "input %q", tt.in)
	}
}

// The classifier must be total: every input collapses into one of exactly
// four codes.
func TestRatingIsClosedWorld(t *testing.T) {
	canonical := map[string]bool{
		entity.RatingBuy:  true,
		entity.RatingSell: true,
		entity.RatingHold: true,
		entity.RatingNone: true,
	}
	inputs := []string{"buy", "매도", "hold", "", "nr", "garbage", "중립", "overweight", "123", "  x  "}
	for _, in := range inputs {
		assert.True(t, canonical[Rating(in)], "input %q escaped the canonical set", in)
	}
}
