// Package rules holds the pure derived-stat arithmetic shared by the
// converter and the bestiary service: ability modifiers and the challenge
// rating lookup tables.
package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// xpByChallengeRating is the fixed CR -> XP award table. Lookups are exact
// against the string form; anything outside the table is worth 0 XP.
var xpByChallengeRating = map[string]int{
	"0":   10,
	"1/8": 25,
	"1/4": 50,
	"1/2": 100,
	"1":   200,
	"2":   450,
	"3":   700,
	"4":   1100,
	"5":   1800,
	"6":   2300,
	"7":   2900,
	"8":   3900,
	"9":   5000,
	"10":  5900,
	"11":  7200,
	"12":  8400,
	"13":  10000,
	"14":  11500,
	"15":  13000,
	"16":  15000,
	"17":  18000,
	"18":  20000,
	"19":  22000,
	"20":  25000,
	"21":  33000,
	"22":  41000,
	"23":  50000,
	"24":  62000,
	"25":  75000,
	"26":  90000,
	"27":  105000,
	"28":  120000,
	"29":  135000,
	"30":  155000,
}

// AbilityModifier returns the modifier for an ability score, flooring toward
// negative infinity so a score of 7 yields -2, not -1.
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// ModifierString formats an ability score's modifier with an explicit sign,
// e.g. "+3" or "-1".
func ModifierString(score int) string {
	return fmt.Sprintf("%+d", AbilityModifier(score))
}

// XPForChallengeRating returns the XP award for a challenge rating string.
// Unrecognized ratings are worth 0.
func XPForChallengeRating(cr string) int {
	return xpByChallengeRating[strings.TrimSpace(cr)]
}

// ProficiencyBonusForChallengeRating returns the proficiency bonus derived
// from the numeric value of a challenge rating. The bonus is a monotonically
// non-decreasing step function of CR.
func ProficiencyBonusForChallengeRating(cr string) int {
	value, ok := ParseChallengeRating(cr)
	if !ok {
		value = 0
	}

	switch {
	case value <= 4:
		return 2
	case value <= 8:
		return 3
	case value <= 12:
		return 4
	case value <= 16:
		return 5
	case value <= 20:
		return 6
	case value <= 24:
		return 7
	case value <= 28:
		return 8
	default:
		return 9
	}
}

// ParseChallengeRating parses a CR string into its numeric value, handling
// fractional ratings like "1/4". Returns false if the string is not a number
// or fraction.
func ParseChallengeRating(cr string) (float64, bool) {
	cr = strings.TrimSpace(cr)
	if cr == "" {
		return 0, false
	}

	if num, denom, found := strings.Cut(cr, "/"); found {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(denom), 64)
		if err != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}

	v, err := strconv.ParseFloat(cr, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ChallengeRatings returns every CR string in the XP table. Useful for
// iterating the full supported range.
func ChallengeRatings() []string {
	out := make([]string, 0, len(xpByChallengeRating))
	for cr := range xpByChallengeRating {
		out = append(out, cr)
	}
	return out
}
