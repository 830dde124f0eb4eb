package registry

import "fmt"

// Color is an RGB triple, serialized on the wire as "R,G,B".
type Color struct {
	R, G, B int
}

func (c Color) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// DefaultPalette is the fixed six-color rotation assigned to users at
// first login, indexed by count-of-online-users-after-insertion mod 6.
// Values match java.awt.Color's constants, not the CSS/web RGB triples of
// the same names, since this is what the original server put on the wire.
var DefaultPalette = []Color{
	{255, 0, 0},     // red
	{0, 0, 255},     // blue
	{0, 255, 0},     // green
	{255, 200, 0},   // orange
	{255, 0, 255},   // magenta
	{192, 192, 192}, // lightGray
}
