package palette

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/prima/internal/inspector"
	"github.com/roach88/prima/internal/printer"
)

func TestParse(t *testing.T) {
	c, err := Parse("Yellow")
	require.NoError(t, err)
	assert.Equal(t, Yellow{}, c)

	_, err = Parse("purple")
	assert.Error(t, err)
}

func TestRGBA(t *testing.T) {
	r, g, b, a := Red{}.RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
	assert.Equal(t, color.RGBAModel.Convert(White{}), color.RGBAModel.Convert(color.White))
}

func TestColorsAreOpaque(t *testing.T) {
	in := inspector.New()
	assert.True(t, in.Same(Red{}, Red{}))
	assert.False(t, in.Same(Red{}, Blue{}))

	var a, b Color = Green{}, Green{}
	assert.True(t, in.Same(a, b))
}

func TestRender(t *testing.T) {
	p := printer.New()
	for _, c := range All() {
		assert.Equal(t, `"`+c.String()+`"`, p.Render(c))
	}
}
