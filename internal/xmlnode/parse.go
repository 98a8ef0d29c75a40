package xmlnode

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// SyntaxError is a well-formedness error with its source line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse reads a document into a tree. Element names are local names with the
// namespace available from Namespace; attributes keep their prefixed form
// ("xmlns:opex", "xsi:schemaLocation"). Whitespace-only text is dropped.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	var stack []*Node
	var root *Node

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var se *xml.SyntaxError
			if errors.As(err, &se) {
				return nil, &SyntaxError{Line: se.Line, Msg: se.Msg}
			}
			line, _ := dec.InputPos()
			return nil, &SyntaxError{Line: line, Msg: err.Error()}
		}
		line, _ := dec.InputPos()

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{kind: element, name: t.Name.Local, space: t.Name.Space, line: line}
			for _, a := range t.Attr {
				n.attrs = append(n.attrs, Attr{Name: attrName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &SyntaxError{Line: line, Msg: "multiple root elements"}
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		case xml.Comment:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, &Node{kind: comment, text: strings.TrimSpace(string(t)), line: line})
			}
		}
	}

	if root == nil {
		return nil, &SyntaxError{Line: 1, Msg: "no root element"}
	}
	trimText(root)
	return root, nil
}

// attrName restores the conventional prefix for namespace declarations and
// well-known attribute namespaces.
func attrName(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case "xmlns":
		return "xmlns:" + n.Local
	case "http://www.w3.org/2001/XMLSchema-instance":
		return "xsi:" + n.Local
	}
	return n.Local
}

func trimText(n *Node) {
	if strings.TrimSpace(n.text) == "" {
		n.text = ""
	}
	for _, c := range n.children {
		if c.kind == element {
			trimText(c)
		}
	}
}
