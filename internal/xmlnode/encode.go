package xmlnode

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Encode writes the XML declaration and the indented tree to w.
func Encode(w io.Writer, root *Node) error {
	if root == nil || root.kind != element {
		return fmt.Errorf("xmlnode: root must be an element")
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := encodeNode(enc, root); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// String serializes root to a string.
func String(root *Node) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encodeNode(enc *xml.Encoder, n *Node) error {
	if n.kind == comment {
		return enc.EncodeToken(xml.Comment(" " + n.text + " "))
	}
	start := xml.StartElement{Name: xml.Name{Local: n.name}}
	for _, a := range n.attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("encode <%s>: %w", n.name, err)
	}
	if n.text != "" {
		if err := enc.EncodeToken(xml.CharData(n.text)); err != nil {
			return err
		}
	}
	for _, c := range n.children {
		if err := encodeNode(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
