package envelope

import (
	"strings"

	"github.com/beevik/etree"
)

// XSINamespace is the XML Schema instance namespace; its attributes
// (xsi:type, xsi:nil) are type hints and are not copied into the tree.
const XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"

// TextKey holds the character data of elements that also carry attributes
const TextKey = "value"

// FromXML converts an element into the generic tree used by Unwrap.
//
// Attributes and child elements become map keys by local name, repeated
// children become lists and text-only elements become strings. An element
// with neither content nor attributes yields nil.
func FromXML(el *etree.Element) any {
	if el == nil {
		return nil
	}

	attrs := make(map[string]any)
	for _, attr := range el.Attr {
		if attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns") {
			continue
		}
		if attr.NamespaceURI() == XSINamespace {
			continue
		}
		attrs[attr.Key] = attr.Value
	}

	children := el.ChildElements()
	text := strings.TrimSpace(el.Text())

	if len(children) == 0 {
		switch {
		case len(attrs) == 0 && text == "":
			return nil
		case len(attrs) == 0:
			return text
		case text != "":
			attrs[TextKey] = text
		}
		return attrs
	}

	node := attrs
	for _, child := range children {
		key := child.Tag
		value := FromXML(child)
		existing, seen := node[key]
		if !seen {
			node[key] = value
			continue
		}
		if list, ok := existing.([]any); ok {
			node[key] = append(list, value)
			continue
		}
		node[key] = []any{existing, value}
	}
	return node
}
