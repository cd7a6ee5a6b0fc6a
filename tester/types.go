package tester

// Samer is implemented by types that define their own sameness. Same is
// used instead of a structural comparison.
type Samer[T any] interface {
	Same(other T) bool
}

// Traversal is a cons-style sequence. Rest may return any type that is
// itself a traversal.
type Traversal[E any] interface {
	IsEmpty() bool
	First() E
	Rest() Traversal[E]
}

// IndentedStringer is implemented by types that render themselves. The
// indent is the prefix of the current nesting level.
type IndentedStringer interface {
	ToIndentedString(indent string) string
}

// Opaque marks values whose internals must not be inspected. Two opaque
// values are the same when they have the same type.
type Opaque interface {
	OpaqueValue()
}

// Examples is implemented by values that invoke their tests themselves.
type Examples interface {
	Tests(t *Tester)
}

// Result is the outcome of one check.
type Result struct {
	Number   int    `json:"number" yaml:"number"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Method   string `json:"method,omitempty" yaml:"method,omitempty"`
	Pass     bool   `json:"pass" yaml:"pass"`
	Range    bool   `json:"range,omitempty" yaml:"range,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Warning  string `json:"warning,omitempty" yaml:"warning,omitempty"`
	Detail   string `json:"detail,omitempty" yaml:"detail,omitempty"`
}
