// Package element builds the lightweight XML-like trees that every tool
// result is rendered into before being handed back to the agent loop.
//
// The format is intended for LLM consumption, not for XML parsers: attributes
// render in insertion order, CDATA bodies pass through verbatim, and an
// element with no body renders as an empty open/close pair. Serialization is
// stable: the same tree always renders to the same string, which is what the
// golden tests rely on.
package element

import (
	"fmt"
	"strings"
)

type attribute struct {
	key   string
	value string
}

type nodeKind int

const (
	nodeElement nodeKind = iota
	nodeText
	nodeCData
)

type node struct {
	kind nodeKind
	elem *Element
	text string
}

// Element is a named tag with ordered attributes and an ordered body of child
// elements, escaped text, and raw CDATA runs. All builder methods mutate the
// receiver and return it for chaining.
type Element struct {
	name     string
	attrs    []attribute
	children []node
}

// New returns an element with the given tag name.
func New(name string) *Element {
	return &Element{name: name}
}

// Attr appends an attribute. Values are formatted with fmt.Sprint, so ints,
// bools, and strings are all fine. Attributes render in the order they were
// added; duplicate keys are kept as-is.
func (e *Element) Attr(key string, value any) *Element {
	e.attrs = append(e.attrs, attribute{key: key, value: fmt.Sprint(value)})
	return e
}

// AttrIfSome appends a string attribute only when value is non-nil.
func (e *Element) AttrIfSome(key string, value *string) *Element {
	if value == nil {
		return e
	}
	return e.Attr(key, *value)
}

// AttrIfSomeInt appends an int attribute only when value is non-nil.
func (e *Element) AttrIfSomeInt(key string, value *int) *Element {
	if value == nil {
		return e
	}
	return e.Attr(key, *value)
}

// Append adds child elements. Nil children are silently dropped, so callers
// can pass optional elements without guarding. Appending nothing is a no-op;
// an empty tag is never emitted on behalf of an absent child.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c == nil {
			continue
		}
		e.children = append(e.children, node{kind: nodeElement, elem: c})
	}
	return e
}

// Text appends an escaped text run to the element body.
func (e *Element) Text(s string) *Element {
	e.children = append(e.children, node{kind: nodeText, text: s})
	return e
}

// CData appends a raw, unescaped text run to the element body. Used for file
// contents, diffs, and command output, where markup-significant characters
// must pass through verbatim.
func (e *Element) CData(s string) *Element {
	e.children = append(e.children, node{kind: nodeCData, text: s})
	return e
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Render serializes the tree. An element with no body renders as
// `<name k="v"></name>`; otherwise the body starts on the line after the open
// tag and the close tag sits on its own line. Text and CDATA runs always end
// with a newline in the output so the close tag never shares a line with
// content.
func (e *Element) Render() string {
	var b strings.Builder
	e.render(&b)
	return b.String()
}

// String implements fmt.Stringer.
func (e *Element) String() string {
	return e.Render()
}

func (e *Element) render(b *strings.Builder) {
	b.WriteString("<")
	b.WriteString(e.name)
	for _, a := range e.attrs {
		b.WriteString(" ")
		b.WriteString(a.key)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.value))
		b.WriteString(`"`)
	}
	b.WriteString(">")

	if len(e.children) > 0 {
		b.WriteString("\n")
		for _, c := range e.children {
			switch c.kind {
			case nodeElement:
				c.elem.render(b)
				b.WriteString("\n")
			case nodeText:
				writeBody(b, textEscaper.Replace(c.text))
			case nodeCData:
				writeBody(b, c.text)
			}
		}
	}

	b.WriteString("</")
	b.WriteString(e.name)
	b.WriteString(">")
}

func writeBody(b *strings.Builder, s string) {
	b.WriteString(s)
	if !strings.HasSuffix(s, "\n") {
		b.WriteString("\n")
	}
}
