package domain

// Color is one of the predictable outcome colors
type Color string

const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
	ColorBlue  Color = "blue"
)

// Colors lists every valid outcome color in draw order
var Colors = []Color{ColorRed, ColorGreen, ColorBlue}

// DefaultWeights is the outcome distribution. Green is intentionally rare.
var DefaultWeights = map[Color]float64{
	ColorRed:   0.4,
	ColorGreen: 0.1,
	ColorBlue:  0.5,
}

// Multipliers defines the payout multiplier applied to a winning stake
var Multipliers = map[Color]int{
	ColorRed:   2,
	ColorGreen: 2,
	ColorBlue:  2,
}

// ValidColor reports whether c is a known outcome color
func ValidColor(c Color) bool {
	switch c {
	case ColorRed, ColorGreen, ColorBlue:
		return true
	}
	return false
}

// Multiplier returns the payout multiplier for a color, defaulting to 1
// for unknown colors so a malformed stake can never be amplified.
func Multiplier(c Color) int {
	if m, ok := Multipliers[c]; ok {
		return m
	}
	return 1
}
