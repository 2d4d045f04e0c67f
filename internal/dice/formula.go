package dice

import (
	"regexp"
	"strconv"
	"strings"
)

// formulaPattern matches dice formulas like "2d6", "8d10+16" or "3d8-2"
var formulaPattern = regexp.MustCompile(`^\s*(\d+)\s*[dD]\s*(\d+)\s*(?:([+-])\s*(\d+))?\s*$`)

// ParseFormula parses a standard dice formula "NdM", optionally suffixed
// with "+K" or "-K". Returns false if the string is not a valid formula.
func ParseFormula(formula string) (count, sides, bonus int, ok bool) {
	m := formulaPattern.FindStringSubmatch(strings.TrimSpace(formula))
	if m == nil {
		return 0, 0, 0, false
	}

	count, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, 0, false
	}
	sides, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, 0, false
	}
	if count < 1 || sides < 1 {
		return 0, 0, 0, false
	}

	if m[3] != "" {
		bonus, err = strconv.Atoi(m[4])
		if err != nil {
			return 0, 0, 0, false
		}
		if m[3] == "-" {
			bonus = -bonus
		}
	}

	return count, sides, bonus, true
}
