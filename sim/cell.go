// Presentation boundary shared by every engine: header/row pairs of colored
// cells for tabular rendering, and attribute pairs for persistence.

package sim

import (
	"fmt"
	"strconv"
)

// Color is a 24-bit RGB value (0xRRGGBB). It is a rendering hint only and never
// takes part in identity or equality of simulated entities.
type Color uint32

const (
	White     Color = 0xFFFFFF
	LightGray Color = 0xC0C0C0
	Gray      Color = 0x808080
	Red       Color = 0xFF0000
	Green     Color = 0x00FF00
	Yellow    Color = 0xFFFF00
)

// ARGB returns the color as a signed 32-bit integer with opaque alpha.
// This is the persisted "integer RGB" encoding, so opaque colors are negative.
func (c Color) ARGB() int32 {
	return int32(uint32(c&0xFFFFFF) | 0xFF000000)
}

// String returns the persisted decimal encoding of the color.
func (c Color) String() string {
	return strconv.FormatInt(int64(c.ARGB()), 10)
}

// ParseColor reads a persisted color. Both the signed ARGB encoding and plain
// unsigned RGB values are accepted; the alpha byte is discarded.
func ParseColor(s string) (Color, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing color %q: %w", s, err)
	}
	if v < -(1<<31) || v > 0xFFFFFFFF {
		return 0, fmt.Errorf("color %q out of 32-bit range", s)
	}
	return Color(uint32(v) & 0xFFFFFF), nil
}

// Cell is a single display cell: a value plus a background color.
type Cell struct {
	Value string
	Color Color
}

// NewCell returns a white cell holding value.
func NewCell(value string) Cell {
	return Cell{Value: value, Color: White}
}

// Values flattens a row of cells into its string values.
func Values(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.Value
	}
	return out
}

// Attribute is one persisted (name, value) pair.
type Attribute struct {
	Name  string
	Value string
}

// Attributes is an ordered attribute list.
type Attributes []Attribute

// Get returns the value stored under name.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}
