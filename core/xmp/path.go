package xmp

import "github.com/beevik/etree"

// step moves from one element to another and reports whether the target
// node exists. Chaining steps through walk turns a missing node at any depth
// into "absent" instead of a failure.
type step func(*etree.Element) (*etree.Element, bool)

func walk(e *etree.Element, steps ...step) (*etree.Element, bool) {
	if e == nil {
		return nil, false
	}
	for _, s := range steps {
		next, ok := s(e)
		if !ok || next == nil {
			return nil, false
		}
		e = next
	}
	return e, true
}

// child selects the first child element with the given namespace URI and
// local name.
func child(space, local string) step {
	return func(e *etree.Element) (*etree.Element, bool) {
		for _, c := range e.ChildElements() {
			if is(c, space, local) {
				return c, true
			}
		}
		return nil, false
	}
}

// firstChild selects the first child element whatever its name.
func firstChild() step {
	return func(e *etree.Element) (*etree.Element, bool) {
		children := e.ChildElements()
		if len(children) == 0 {
			return nil, false
		}
		return children[0], true
	}
}

// descendant selects the first element below e, depth first, with the
// given local name in any namespace.
func descendant(local string) step {
	return func(e *etree.Element) (*etree.Element, bool) {
		for _, c := range e.ChildElements() {
			if c.Tag == local {
				return c, true
			}
			if d, ok := descendant(local)(c); ok {
				return d, true
			}
		}
		return nil, false
	}
}

func is(e *etree.Element, space, local string) bool {
	return e.Tag == local && e.NamespaceURI() == space
}

// attr returns the value of the attribute with the given namespace URI and
// local name.
func attr(e *etree.Element, space, local string) (string, bool) {
	for i := range e.Attr {
		a := &e.Attr[i]
		if a.Key == local && a.NamespaceURI() == space {
			return a.Value, true
		}
	}
	return "", false
}
