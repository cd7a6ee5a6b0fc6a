package printer

import (
	"container/list"
	"image/color"
	"math"
	"math/big"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/prima/internal/testutil"
)

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}

type numbers struct {
	I   int
	I16 int16
	I64 int64
	U   uint
	B   byte
	F64 float64
	F32 float32
	Big *big.Int
	Dec *apd.Decimal
	OK  bool
}

type genre int

const (
	rock genre = iota
	jazz
)

func (g genre) String() string {
	return [...]string{"ROCK", "JAZZ"}[g]
}

type box struct{}

func (box) ToIndentedString(indent string) string {
	return "box<" + indent + ">"
}

type crate struct {
	Inner box
}

type label struct {
	text string
}

func (l label) String() string {
	return "label:" + l.text
}

func TestRender_ObjectGraphWithBackReference(t *testing.T) {
	p := New()
	assertGolden(t, "library", p.Render(testutil.Library("Felleisen", 1953, "HtDP")))
}

func TestRender_Cycle(t *testing.T) {
	p := New()
	assertGolden(t, "ring", p.Render(testutil.Ring("a", "b")))
}

func TestRender_Map(t *testing.T) {
	p := New()
	assertGolden(t, "map", p.Render(map[string]int{"b": 2, "a": 1}))
}

func TestRender_Set(t *testing.T) {
	p := New()
	set := testutil.SongSet(testutil.Song{Title: "b", Length: 2}, testutil.Song{Title: "a", Length: 1})
	assertGolden(t, "set", p.Render(set))
}

func TestRender_Numerals(t *testing.T) {
	p := New()
	n := numbers{I: 1, I16: 2, I64: 3, U: 4, B: 5, F64: 2.5, F32: 1, Big: big.NewInt(7), Dec: apd.New(125, -2), OK: true}
	assertGolden(t, "numerals", p.Render(n))
}

func TestRender_SharedReference(t *testing.T) {
	p := New()
	n := &testutil.Node{Name: "n"}
	assertGolden(t, "shared", p.Render([2]*testutil.Node{n, n}))
}

func TestRender_Leaves(t *testing.T) {
	p := New()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "null"},
		{"typed nil", (*testutil.Node)(nil), "null"},
		{"nil slice", []int(nil), "null"},
		{"string", "say \"hi\"", `"say \"hi\""`},
		{"random", rand.New(rand.NewSource(1)), "new Random()"},
		{"color", color.RGBA{R: 1, G: 2, B: 3, A: 4}, `"{1 2 3 4}"`},
		{"user enum", jazz, "printer.genre.JAZZ"},
		{"library stringer int", time.Second, "1s"},
		{"stringer", label{text: "x"}, "label:x"},
		{"float", 3.0, "3.0"},
		{"float32", float32(0.5), "0.5F"},
		{"big float", big.NewFloat(1.5), "1.5BigDecimal"},
		{"big rat", big.NewRat(1, 3), "1/3BigDecimal"},
		{"complex", complex(1, 2), "(1+2i)"},
		{"pointer to int", func() *int { x := 5; return &x }(), "5"},
		{"func", func() {}, "func()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Render(tt.value))
		})
	}
}

func TestRender_IndentedDelegation(t *testing.T) {
	p := New()
	assert.Equal(t, "new printer.crate:1(\n  this.Inner = box<  >)", p.Render(crate{}))
}

func TestRender_Slice(t *testing.T) {
	p := New()
	assert.Equal(t, "new []int:1[2]{\n  [0] 1,\n  [1] 2}", p.Render([]int{1, 2}))
	assert.Equal(t, "new []int:1[0]{}", p.Render([]int{}))
}

func TestRender_LibraryIterable(t *testing.T) {
	p := New()
	l := list.New()
	l.PushBack(1)
	l.PushBack("x")
	assert.Equal(t, "new list.List:1{\n  Iterable[0] 1,\n  Iterable[1] \"x\"}", p.Render(l))
}

func TestRender_TraversalAsObject(t *testing.T) {
	p := New()
	want := "new testutil.Cons:1(\n  this.Head = 1\n  this.Tail = new testutil.Empty:2())"
	assert.Equal(t, want, p.Render(testutil.ListOf(1)))
}

func TestRenderIterable(t *testing.T) {
	p := New()
	assert.Equal(t, "Iterable[0] 1,\nIterable[1] 2", p.RenderIterable([]int{1, 2}))
	assert.Equal(t, "", p.RenderIterable([]int{}))
	assert.Equal(t, "null", p.RenderIterable(nil))
}

func TestRenderTraversal(t *testing.T) {
	p := New()
	assert.Equal(t, "Traversal[0] 1,\nTraversal[1] 2", p.RenderTraversal(testutil.ListOf(1, 2)))
	assert.Equal(t, "", p.RenderTraversal(testutil.ListOf()))
	assert.Equal(t, "7", p.RenderTraversal(7))
}

func TestRender_FreshSessionPerCall(t *testing.T) {
	p := New()
	ring := testutil.Ring("a", "b", "c")
	first := p.Render(ring)
	second := p.Render(ring)
	assert.Equal(t, first, second)

	chain := testutil.Chain("a", "b")
	assert.Equal(t, p.Render(chain), p.Render(testutil.Chain("a", "b")))
}

func TestRender_MapOrderIsDeterministic(t *testing.T) {
	p := New()
	m := map[int]string{}
	for i := range 20 {
		m[i] = "v"
	}
	first := p.Render(m)
	for range 5 {
		assert.Equal(t, first, p.Render(m))
	}
}

type slot struct {
	n int
}

func TestRender_MapKeysThatRenderAlike(t *testing.T) {
	p := New()

	byValue := map[*slot]string{}
	for _, v := range []string{"h", "c", "a", "f", "b", "g", "e", "d"} {
		byValue[&slot{n: 1}] = v
	}
	first := p.Render(byValue)
	for range 50 {
		require.Equal(t, first, p.Render(byValue))
	}
	idx := -1
	for _, v := range []string{`"a"`, `"b"`, `"c"`, `"d"`, `"e"`, `"f"`, `"g"`, `"h"`} {
		next := strings.Index(first, v)
		require.Greater(t, next, idx, "value %s out of order", v)
		idx = next
	}

	// Every value is another key, so the labels depend on entry order.
	keys := make([]*slot, 8)
	for i := range keys {
		keys[i] = &slot{n: 1}
	}
	linked := map[*slot]*slot{}
	for i, k := range keys {
		linked[k] = keys[(i+1)%len(keys)]
	}
	first = p.Render(linked)
	for range 50 {
		require.Equal(t, first, p.Render(linked))
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "3.0", formatFloat(3, 64))
	assert.Equal(t, "0.1", formatFloat(0.1, 64))
	assert.Equal(t, "1e+21", formatFloat(1e21, 64))
	assert.Equal(t, "NaN", formatFloat(math.NaN(), 64))
	assert.Equal(t, "+Inf", formatFloat(math.Inf(1), 64))
	assert.Equal(t, "-2.0", formatFloat(-2, 64))
}
