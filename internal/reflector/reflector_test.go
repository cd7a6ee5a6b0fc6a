package reflector

import (
	"container/list"
	"math/big"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape struct {
	name  string
	sides int
}

type colored struct {
	shape
	name  string // shadows shape.name
	color string
}

type tagged struct {
	Kept    int
	Skipped int `prima:"-"`
	Cache   int `prima:"transient"`
	Counter int `prima:"volatile,omitempty"`
	_       int
}

type withLibraryEmbed struct {
	sync.Mutex
	time.Time
	Label string
}

type withPointerEmbed struct {
	*shape
	Extra int
}

func names(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.DeclaringType.Name() + "." + f.Name
	}
	return out
}

func TestFieldsOf_BaseBeforeDerived(t *testing.T) {
	r := New()
	fields := r.FieldsOf(reflect.TypeOf(colored{}))

	assert.Equal(t, []string{"shape.name", "shape.sides", "colored.name", "colored.color"}, names(fields))
	assert.Equal(t, []int{0, 0}, fields[0].Index)
	assert.Equal(t, []int{1}, fields[2].Index)
}

func TestFieldsOf_ShadowedNamesAreDistinct(t *testing.T) {
	r := New()
	fields := r.FieldsOf(reflect.TypeOf(colored{}))

	var declaring []reflect.Type
	for _, f := range fields {
		if f.Name == "name" {
			declaring = append(declaring, f.DeclaringType)
		}
	}
	require.Len(t, declaring, 2)
	assert.NotEqual(t, declaring[0], declaring[1])
}

func TestFieldsOf_Exclusions(t *testing.T) {
	r := New()
	fields := r.FieldsOf(reflect.TypeOf(tagged{}))
	assert.Equal(t, []string{"tagged.Kept"}, names(fields))
}

func TestFieldsOf_LibraryEmbedsAreBoundary(t *testing.T) {
	r := New()
	fields := r.FieldsOf(reflect.TypeOf(withLibraryEmbed{}))
	assert.Equal(t, []string{"withLibraryEmbed.Label"}, names(fields))
}

func TestFieldsOf_PointerEmbedIsOrdinaryField(t *testing.T) {
	r := New()
	fields := r.FieldsOf(reflect.TypeOf(withPointerEmbed{}))
	assert.Equal(t, []string{"withPointerEmbed.shape", "withPointerEmbed.Extra"}, names(fields))
}

func TestFieldsOf_RootFieldsAlwaysListed(t *testing.T) {
	r := New()
	fields := r.FieldsOf(reflect.TypeOf(list.Element{}))
	assert.NotEmpty(t, fields)
}

func TestFieldsOf_PointerAndNonStruct(t *testing.T) {
	r := New()
	assert.Equal(t, r.FieldsOf(reflect.TypeOf(colored{})), r.FieldsOf(reflect.TypeOf(&colored{})))
	assert.Nil(t, r.FieldsOf(reflect.TypeOf(42)))
}

func TestFieldsOf_Cached(t *testing.T) {
	r := New()
	first := r.FieldsOf(reflect.TypeOf(colored{}))
	second := r.FieldsOf(reflect.TypeOf(colored{}))
	require.NotEmpty(t, first)
	assert.Same(t, &first[0], &second[0])
}

func TestClassify(t *testing.T) {
	r := New(WithOpaquePackages("example.com/draw/"), WithOpaqueTypes("github.com/roach88/prima/internal/reflector.tagged"))

	tests := []struct {
		name string
		typ  reflect.Type
		want Level
	}{
		{"nil", nil, UniversalBase},
		{"any", reflect.TypeOf((*any)(nil)).Elem(), UniversalBase},
		{"int", reflect.TypeOf(0), PrimitiveWrapper},
		{"string", reflect.TypeOf(""), PrimitiveWrapper},
		{"big.Int", reflect.TypeOf(big.Int{}), PrimitiveWrapper},
		{"*big.Float", reflect.TypeOf(&big.Float{}), PrimitiveWrapper},
		{"apd.Decimal", reflect.TypeOf(apd.Decimal{}), PrimitiveWrapper},
		{"time.Time", reflect.TypeOf(time.Time{}), TrustedLibrary},
		{"*list.List", reflect.TypeOf(list.New()), TrustedLibrary},
		{"configured type", reflect.TypeOf(tagged{}), TrustedLibrary},
		{"user struct", reflect.TypeOf(shape{}), UserCode},
		{"*user struct", reflect.TypeOf(&shape{}), UserCode},
		{"unnamed struct", reflect.TypeOf(struct{ A int }{}), UserCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Classify(tt.typ))
		})
	}
}

func TestClassify_OpaquePackagePrefix(t *testing.T) {
	r := New(WithOpaquePackages("github.com/roach88/prima/internal"))
	assert.Equal(t, TrustedLibrary, r.Classify(reflect.TypeOf(shape{})))

	r = New(WithOpaquePackages("github.com/roach88/prima/intern"))
	assert.Equal(t, UserCode, r.Classify(reflect.TypeOf(shape{})))
}

func TestIsStdlib(t *testing.T) {
	tests := []struct {
		pkg  string
		want bool
	}{
		{"time", true},
		{"container/list", true},
		{"math/rand/v2", true},
		{"net/http", true},
		{"internal/poll", true},
		{"vendor/golang.org/x/net/idna", true},
		{"main", false},
		{"lab1", false},
		{"example/shapes", false},
		{"shapes/internal/geom", false},
		{"timekeeper", false},
		{"github.com/roach88/prima/examples", false},
	}
	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			assert.Equal(t, tt.want, isStdlib(tt.pkg))
		})
	}
}

func TestStdPackagesSorted(t *testing.T) {
	assert.True(t, slices.IsSorted(stdPackages))
}

func TestRead_UnexportedFields(t *testing.T) {
	r := New()
	v := colored{shape: shape{name: "square", sides: 4}, name: "box", color: "red"}
	fields := r.FieldsOf(reflect.TypeOf(v))

	var got []any
	for _, f := range fields {
		fv, err := Read(reflect.ValueOf(v), f)
		require.NoError(t, err)
		got = append(got, fv.Interface())
	}
	assert.Equal(t, []any{"square", 4, "box", "red"}, got)
}

func TestRead_ThroughPointer(t *testing.T) {
	r := New()
	v := &shape{name: "tri", sides: 3}
	fields := r.FieldsOf(reflect.TypeOf(v))

	fv, err := Read(reflect.ValueOf(v), fields[1])
	require.NoError(t, err)
	assert.Equal(t, 3, fv.Interface())
}

func TestRead_Failure(t *testing.T) {
	bogus := Field{Name: "ghost", Index: []int{7}, DeclaringType: reflect.TypeOf(shape{})}

	_, err := Read(reflect.ValueOf(shape{}), bogus)
	require.Error(t, err)

	var fae *FieldAccessError
	require.ErrorAs(t, err, &fae)
	assert.Equal(t, "ghost", fae.Field)
	assert.True(t, strings.Contains(err.Error(), "reflector.shape"))

	_, err = Read(reflect.ValueOf((*shape)(nil)), bogus)
	require.ErrorAs(t, err, &fae)
}

func TestIdentityOf(t *testing.T) {
	s := &shape{}
	a, ok := IdentityOf(reflect.ValueOf(s))
	require.True(t, ok)
	b, _ := IdentityOf(reflect.ValueOf(s))
	assert.Equal(t, a, b)

	backing := []int{1, 2, 3}
	whole, _ := IdentityOf(reflect.ValueOf(backing))
	prefix, _ := IdentityOf(reflect.ValueOf(backing[:2]))
	assert.NotEqual(t, whole, prefix)

	_, ok = IdentityOf(reflect.ValueOf(shape{}))
	assert.False(t, ok)
	_, ok = IdentityOf(reflect.ValueOf([]int{}))
	assert.False(t, ok)
	_, ok = IdentityOf(reflect.ValueOf((*shape)(nil)))
	assert.False(t, ok)
}

func TestTokenLess(t *testing.T) {
	a := Token{Ptr: 1}
	b := Token{Ptr: 2}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func localNodeA() reflect.Type {
	type node struct{ v int }
	return reflect.TypeOf(&node{})
}

func localNodeB() reflect.Type {
	type node struct{ v int }
	return reflect.TypeOf(&node{})
}

func TestTokenLess_SameTypeName(t *testing.T) {
	ta, tb := localNodeA(), localNodeB()
	require.True(t, ta != tb)
	require.Equal(t, ta.String(), tb.String())

	a := Token{Type: ta, Ptr: 1}
	b := Token{Type: tb, Ptr: 1}
	assert.NotEqual(t, a.Less(b), b.Less(a))
	assert.False(t, a.Less(a))
}
