// Package xmlnode is a small immutable XML tree.
//
// Builders return new nodes instead of mutating a cursor, so a document is
// assembled bottom-up from pure functions and serialized once by Encode.
package xmlnode

import "strings"

type kind int

const (
	element kind = iota
	comment
)

// Attr is one attribute. Names may carry a literal prefix ("xmlns:opex").
type Attr struct {
	Name  string
	Value string
}

// Node is an element or a comment. The zero value is not useful; nil nodes
// are accepted everywhere and skipped, which lets builders return nil for
// "omit this element".
type Node struct {
	kind     kind
	name     string
	space    string
	attrs    []Attr
	text     string
	children []*Node
	line     int
}

// Elem builds an element with children. Nil children are dropped.
func Elem(name string, children ...*Node) *Node {
	return &Node{kind: element, name: name, children: compact(children)}
}

// Leaf builds a text-only element.
func Leaf(name, text string, attrs ...Attr) *Node {
	return &Node{kind: element, name: name, text: text, attrs: append([]Attr(nil), attrs...)}
}

// Comment builds a comment node. "--" is not allowed inside XML comments and
// is broken up.
func Comment(text string) *Node {
	for strings.Contains(text, "--") {
		text = strings.ReplaceAll(text, "--", "- -")
	}
	return &Node{kind: comment, text: text}
}

// WithAttr returns a copy of n with the attribute set (replacing an existing
// one of the same name).
func (n *Node) WithAttr(name, value string) *Node {
	c := n.clone()
	for i, a := range c.attrs {
		if a.Name == name {
			c.attrs[i].Value = value
			return c
		}
	}
	c.attrs = append(c.attrs, Attr{Name: name, Value: value})
	return c
}

// Append returns a copy of n with children added at the end.
func (n *Node) Append(children ...*Node) *Node {
	c := n.clone()
	c.children = append(c.children, compact(children)...)
	return c
}

func (n *Node) clone() *Node {
	c := *n
	c.attrs = append([]Attr(nil), n.attrs...)
	c.children = append([]*Node(nil), n.children...)
	return &c
}

func compact(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Name returns the element name, or "" for comments.
func (n *Node) Name() string {
	if n.kind == comment {
		return ""
	}
	return n.name
}

// Namespace returns the resolved namespace URI of a parsed element.
func (n *Node) Namespace() string { return n.space }

// Line returns the 1-based source line of a parsed node, or 0 for built ones.
func (n *Node) Line() int { return n.line }

// IsComment reports whether n is a comment.
func (n *Node) IsComment() bool { return n.kind == comment }

// Text returns the character data of a leaf or the body of a comment.
func (n *Node) Text() string { return n.text }

// Attr returns an attribute value.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns a copy of the attribute list.
func (n *Node) Attrs() []Attr {
	return append([]Attr(nil), n.attrs...)
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Elements returns the child elements, optionally filtered by name.
func (n *Node) Elements(name string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.kind == element && (name == "" || c.name == name) {
			out = append(out, c)
		}
	}
	return out
}

// Find walks a slash-separated path of element names and returns the first
// match, or nil.
func (n *Node) Find(path string) *Node {
	cur := n
	for _, step := range strings.Split(path, "/") {
		if step == "" {
			continue
		}
		matches := cur.Elements(step)
		if len(matches) == 0 {
			return nil
		}
		cur = matches[0]
	}
	return cur
}

// FindAll returns every element reachable by path, where only the last step
// fans out.
func (n *Node) FindAll(path string) []*Node {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return n.Elements(path)
	}
	parent := n.Find(path[:i])
	if parent == nil {
		return nil
	}
	return parent.Elements(path[i+1:])
}
