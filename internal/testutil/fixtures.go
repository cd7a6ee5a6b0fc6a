// Package testutil holds fixture types shared by the package tests.
package testutil

import "math"

// Point is a plain value type with floating point coordinates.
type Point struct {
	X, Y float64
}

// Distance returns the distance of p from the origin.
func (p Point) Distance() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Node is a singly linked node that may form cycles.
type Node struct {
	Name string
	Next *Node
}

// Ring links the named nodes into a cycle and returns the first one.
func Ring(names ...string) *Node {
	if len(names) == 0 {
		return nil
	}
	nodes := make([]*Node, len(names))
	for i, n := range names {
		nodes[i] = &Node{Name: n}
	}
	for i := range nodes {
		nodes[i].Next = nodes[(i+1)%len(nodes)]
	}
	return nodes[0]
}

// Chain links the named nodes into an acyclic list.
func Chain(names ...string) *Node {
	var head *Node
	for i := len(names) - 1; i >= 0; i-- {
		head = &Node{Name: names[i], Next: head}
	}
	return head
}

// Song is a comparable value used as a set member.
type Song struct {
	Title  string
	Length int
}

// SongSet builds a set of songs inserted in the given order.
func SongSet(songs ...Song) map[Song]struct{} {
	set := make(map[Song]struct{}, len(songs))
	for _, s := range songs {
		set[s] = struct{}{}
	}
	return set
}

// Author and Book form a small object graph with a back reference.
type Author struct {
	Name  string
	Yob   int
	Books []*Book
}

// Book references its author.
type Book struct {
	Title  string
	Author *Author
	Price  float64
}

// Library builds an author with the given book titles, each pointing back
// to the author.
func Library(name string, yob int, titles ...string) *Author {
	a := &Author{Name: name, Yob: yob}
	for _, t := range titles {
		a.Books = append(a.Books, &Book{Title: t, Author: a, Price: 10})
	}
	return a
}

// List is a cons-style traversal of ints.
type List interface {
	IsEmpty() bool
	First() int
	Rest() List
}

// Empty is the end of a List.
type Empty struct{}

func (Empty) IsEmpty() bool { return true }
func (Empty) First() int    { panic("first of empty list") }
func (Empty) Rest() List    { panic("rest of empty list") }

// Cons is a non-empty List.
type Cons struct {
	Head int
	Tail List
}

func (c *Cons) IsEmpty() bool { return false }
func (c *Cons) First() int    { return c.Head }
func (c *Cons) Rest() List    { return c.Tail }

// ListOf builds a List of xs.
func ListOf(xs ...int) List {
	var l List = Empty{}
	for i := len(xs) - 1; i >= 0; i-- {
		l = &Cons{Head: xs[i], Tail: l}
	}
	return l
}

// Temperature declares its own sameness: readings within one degree match.
type Temperature struct {
	Degrees int
	Station string
}

// Same ignores the station and tolerates one degree of difference.
func (t Temperature) Same(o Temperature) bool {
	d := t.Degrees - o.Degrees
	return d >= -1 && d <= 1
}

// Secret has an unexported field only.
type Secret struct {
	code string
}

// NewSecret returns a Secret holding code.
func NewSecret(code string) Secret {
	return Secret{code: code}
}
