package balancesheet

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// element is a namespace-agnostic XML node. Lookups match local names only,
// since the filing schemas are served under several namespace URIs.
type element struct {
	name     string
	text     string
	children []*element
}

func parseTree(text string) (*element, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.CharsetReader = passThroughCharset

	var (
		root  *element
		stack []*element
		buf   strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
			buf.Reset()
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			el := stack[len(stack)-1]
			if len(el.children) == 0 {
				el.text = strings.TrimSpace(buf.String())
			}
			stack = stack[:len(stack)-1]
			buf.Reset()
		}
	}
	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

// child returns the first direct child named name.
func (e *element) child(name string) *element {
	if e == nil {
		return nil
	}
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// path follows a chain of direct children (./A/B/C).
func (e *element) path(names ...string) *element {
	cur := e
	for _, n := range names {
		cur = cur.child(n)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// descendant returns the first element named name below e in document order
// (.//name).
func (e *element) descendant(name string) *element {
	var found *element
	e.walk(func(el *element) bool {
		if el.name == name {
			found = el
			return false
		}
		return true
	})
	return found
}

// find resolves .//first/rest...: the first descendant named first that has
// the child path rest.
func (e *element) find(first string, rest ...string) *element {
	var found *element
	e.walk(func(el *element) bool {
		if el.name != first {
			return true
		}
		if hit := el.path(rest...); hit != nil {
			found = hit
			return false
		}
		return true
	})
	return found
}

// walk visits the descendants of e depth first until fn returns false.
func (e *element) walk(fn func(*element) bool) bool {
	if e == nil {
		return true
	}
	for _, c := range e.children {
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}

// childText returns the trimmed text of a direct child, or "".
func (e *element) childText(name string) string {
	if c := e.child(name); c != nil {
		return c.text
	}
	return ""
}
