package xmldom

import (
	"strings"

	"github.com/wilkmaciej/xpath"
)

// nodeNavigator implements xpath.NodeNavigator directly over the
// doubly-linked Node graph. Because an Attribute is itself a full Node
// sharing the sibling-list fields, it needs no separate "attribute
// index" bookkeeping the way element.go's elementNavigator did over
// XMLElement.Attributes — moving onto an attribute is just moving curr
// to that Node, and MoveToParent works unchanged from there.
type nodeNavigator struct {
	root *Node
	curr *Node
}

func (nav *nodeNavigator) NodeType() xpath.NodeType {
	switch {
	case nav.curr.kind == KindAttribute:
		return xpath.AttributeNode
	case nav.curr.kind == KindDocument:
		return xpath.RootNode
	case nav.curr.kind == KindElement:
		return xpath.ElementNode
	case nav.curr.kind == KindComment:
		return xpath.CommentNode
	default:
		// Data, CData, PI, Doctype all read as text content; the xpath
		// package this module compiles against has no PI/Doctype node
		// type of its own.
		return xpath.TextNode
	}
}

func (nav *nodeNavigator) LocalName() string { return nav.curr.LocalName() }

func (nav *nodeNavigator) Prefix() string { return nav.curr.Prefix() }

// NamespaceURL always reports the empty string: this module does not
// resolve xmlns declarations into URIs (see SPEC_FULL's namespace
// decision), so XPath predicates here only ever match by local name.
func (nav *nodeNavigator) NamespaceURL() string { return "" }

func (nav *nodeNavigator) Value() string {
	if nav.curr.kind == KindElement {
		var sb strings.Builder
		collectText(nav.curr, &sb)
		return sb.String()
	}
	return nav.curr.RawValue()
}

func collectText(n *Node, sb *strings.Builder) {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		switch c.kind {
		case KindData, KindCData:
			sb.WriteString(c.RawValue())
		case KindElement:
			collectText(c, sb)
		}
	}
}

func (nav *nodeNavigator) Copy() xpath.NodeNavigator {
	cp := *nav
	return &cp
}

func (nav *nodeNavigator) MoveToRoot() {
	nav.curr = nav.root
}

func (nav *nodeNavigator) MoveToParent() bool {
	if p := nav.curr.parent; p != nil {
		nav.curr = p
		return true
	}
	return false
}

func (nav *nodeNavigator) MoveToNextAttribute() bool {
	if nav.curr.kind == KindAttribute {
		if next := nav.curr.nextSibling; next != nil {
			nav.curr = next
			return true
		}
		return false
	}
	if nav.curr.kind != KindElement {
		return false
	}
	if first := nav.curr.firstAttr; first != nil {
		nav.curr = first
		return true
	}
	return false
}

func (nav *nodeNavigator) MoveToChild() bool {
	if nav.curr.kind == KindAttribute {
		return false
	}
	if first := nav.curr.firstChild; first != nil {
		nav.curr = first
		return true
	}
	return false
}

func (nav *nodeNavigator) MoveToFirst() bool {
	if nav.curr.prevSibling == nil {
		return false
	}
	for nav.curr.prevSibling != nil {
		nav.curr = nav.curr.prevSibling
	}
	return true
}

func (nav *nodeNavigator) MoveToNext() bool {
	if next := nav.curr.nextSibling; next != nil {
		nav.curr = next
		return true
	}
	return false
}

func (nav *nodeNavigator) MoveToPrevious() bool {
	if prev := nav.curr.prevSibling; prev != nil {
		nav.curr = prev
		return true
	}
	return false
}

func (nav *nodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	if o, ok := other.(*nodeNavigator); ok && o.root == nav.root {
		nav.curr = o.curr
		return true
	}
	return false
}

func (nav *nodeNavigator) String() string {
	return nav.Value()
}

// Evaluate runs an XPath expression with n as the navigator's current
// (and root) node. Node-set results come back as []*Node; string,
// number, and boolean results come back as their native Go types.
func (n *Node) Evaluate(expr *xpath.Expr) any {
	nav := &nodeNavigator{root: n, curr: n}
	result := expr.Evaluate(nav)
	if iter, ok := result.(*xpath.NodeIterator); ok {
		nodes := make([]*Node, 0, 1)
		for iter.MoveNext() {
			if cur, ok := iter.Current().(*nodeNavigator); ok {
				nodes = append(nodes, cur.curr)
			}
		}
		return nodes
	}
	return result
}
