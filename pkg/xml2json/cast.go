package xml2json

import (
	"math"
	"regexp"
	"strconv"
)

// Число в десятичной записи, без шестнадцатеричных литералов, Inf и NaN
var decimalRe = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

// CastValue приводит строку к bool или float64, если она однозначно им является.
// Булевыми считаются только "true" и "false", числами - только конечные десятичные числа.
// Все остальные значения ("T", "Infinity", "1e999", "0x10") остаются строками
func CastValue(s string) interface{} {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if !decimalRe.MatchString(s) {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	return f
}
