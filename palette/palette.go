// Package palette provides a fixed set of colors. Palette colors are
// opaque: two colors are the same when they are the same color, and their
// representation is never inspected.
package palette

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is a palette color.
type Color interface {
	color.Color
	fmt.Stringer
	OpaqueValue()
}

type (
	Red    struct{}
	White  struct{}
	Blue   struct{}
	Black  struct{}
	Green  struct{}
	Yellow struct{}
)

var (
	_ Color = Red{}
	_ Color = White{}
	_ Color = Blue{}
	_ Color = Black{}
	_ Color = Green{}
	_ Color = Yellow{}
)

func (Red) RGBA() (r, g, b, a uint32)    { return color.RGBA{R: 0xff, A: 0xff}.RGBA() }
func (White) RGBA() (r, g, b, a uint32)  { return color.White.RGBA() }
func (Blue) RGBA() (r, g, b, a uint32)   { return color.RGBA{B: 0xff, A: 0xff}.RGBA() }
func (Black) RGBA() (r, g, b, a uint32)  { return color.Black.RGBA() }
func (Green) RGBA() (r, g, b, a uint32)  { return color.RGBA{G: 0xff, A: 0xff}.RGBA() }
func (Yellow) RGBA() (r, g, b, a uint32) { return color.RGBA{R: 0xff, G: 0xff, A: 0xff}.RGBA() }

func (Red) String() string    { return "red" }
func (White) String() string  { return "white" }
func (Blue) String() string   { return "blue" }
func (Black) String() string  { return "black" }
func (Green) String() string  { return "green" }
func (Yellow) String() string { return "yellow" }

func (Red) OpaqueValue()    {}
func (White) OpaqueValue()  {}
func (Blue) OpaqueValue()   {}
func (Black) OpaqueValue()  {}
func (Green) OpaqueValue()  {}
func (Yellow) OpaqueValue() {}

// All returns every palette color.
func All() []Color {
	return []Color{Red{}, White{}, Blue{}, Black{}, Green{}, Yellow{}}
}

// Parse returns the palette color with the given name, ignoring case.
func Parse(name string) (Color, error) {
	for _, c := range All() {
		if strings.EqualFold(c.String(), name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown color %q", name)
}
