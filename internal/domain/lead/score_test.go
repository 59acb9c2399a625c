package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		name  string
		score int
		tier  Tier
		label string
	}{
		{"zero is cold", 0, TierCold, "Cold"},
		{"just below warm", 39, TierCold, "Cold"},
		{"warm lower bound", 40, TierWarm, "Warm"},
		{"default score is warm", DefaultScore, TierWarm, "Warm"},
		{"just below hot", 69, TierWarm, "Warm"},
		{"hot lower bound", 70, TierHot, "Hot"},
		{"max score", 100, TierHot, "Hot"},
		{"negative is cold", -5, TierCold, "Cold"},
		{"above range is hot", 140, TierHot, "Hot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.score)
			assert.Equal(t, tt.tier, c.Tier)
			assert.Equal(t, tt.label, c.Label)
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every score lands in exactly one tier, including values outside [0,100].
	for score := -20; score <= 120; score++ {
		c := Classify(score)
		switch {
		case score >= 70:
			assert.Equal(t, TierHot, c.Tier, "score %d", score)
		case score >= 40:
			assert.Equal(t, TierWarm, c.Tier, "score %d", score)
		default:
			assert.Equal(t, TierCold, c.Tier, "score %d", score)
		}
	}
}

func TestParseTier(t *testing.T) {
	for _, valid := range []string{"hot", "warm", "cold"} {
		tier, ok := ParseTier(valid)
		assert.True(t, ok)
		assert.Equal(t, Tier(valid), tier)
	}

	for _, invalid := range []string{"", "all", "Hot", "lukewarm"} {
		_, ok := ParseTier(invalid)
		assert.False(t, ok, "%q should not parse", invalid)
	}
}
