package xmldom

import (
	"bytes"
	"unsafe"
)

// Node is the tree element described in spec §3: a kind tag, name parts,
// a raw value, a parent pointer, a sibling doubly-linked list, and
// separate head/tail pointers for children and attributes. All Nodes for
// one Document come from that Document's arena (node.go never allocates a
// Node directly with new/&Node{} outside of arena.go).
type Node struct {
	kind NodeKind

	// nameStore is the owned backing buffer for a parsed "prefix:local"
	// name; prefix/localName are subslices of it when the node came from
	// Parse, which is what lets ToString take its no-copy fast path.
	// Builder-created nodes leave nameStore nil and give prefix/localName
	// independently-owned buffers instead.
	nameStore []byte
	prefix    []byte
	localName []byte
	rawValue  []byte

	parent      *Node
	prevSibling *Node
	nextSibling *Node
	firstChild  *Node
	lastChild   *Node
	firstAttr   *Node
	lastAttr    *Node

	// sliceStart/sliceEnd are byte offsets into the original parse input;
	// sliceValid is false for anything the serializer must re-render from
	// fields instead of copying verbatim (spec invariant 8).
	sliceStart int
	sliceEnd   int
	sliceValid bool

	owningDocument *Document

	// UserData is an opaque slot, unused by the core (spec §9).
	UserData any
}

// resetForReuse clears every field an arena slot must present as fresh,
// while keeping the backing arrays of nameStore/prefix/localName/rawValue
// at their prior capacity so a similar reparse allocates no new buffers.
func (n *Node) resetForReuse() {
	n.kind = KindElement
	n.nameStore = n.nameStore[:0]
	n.prefix = n.prefix[:0]
	n.localName = n.localName[:0]
	n.rawValue = n.rawValue[:0]
	n.parent = nil
	n.prevSibling = nil
	n.nextSibling = nil
	n.firstChild = nil
	n.lastChild = nil
	n.firstAttr = nil
	n.lastAttr = nil
	n.sliceStart = 0
	n.sliceEnd = 0
	n.sliceValid = false
	n.owningDocument = nil
	n.UserData = nil
}

// Kind returns the node's type tag.
func (n *Node) Kind() NodeKind { return n.kind }

// Prefix returns the namespace prefix, possibly empty.
func (n *Node) Prefix() string { return string(n.prefix) }

// LocalName returns the local name, possibly empty.
func (n *Node) LocalName() string { return string(n.localName) }

// RawValue returns the node's own raw, untranscoded value.
func (n *Node) RawValue() string { return string(n.rawValue) }

// Parent returns the parent node, or nil for the document root or a
// detached subtree.
func (n *Node) Parent() *Node { return n.parent }

// PrevSibling/NextSibling walk the doubly-linked sibling list shared by
// both the child list and the attribute list.
func (n *Node) PrevSibling() *Node { return n.prevSibling }
func (n *Node) NextSibling() *Node { return n.nextSibling }

// FirstChild/LastChild expose the child list head/tail.
func (n *Node) FirstChild() *Node { return n.firstChild }
func (n *Node) LastChild() *Node  { return n.lastChild }

// FirstAttr/LastAttr expose the attribute list head/tail.
func (n *Node) FirstAttr() *Node { return n.firstAttr }
func (n *Node) LastAttr() *Node  { return n.lastAttr }

// OwningDocument returns the Document whose arena allocated this node.
func (n *Node) OwningDocument() *Document { return n.owningDocument }

// SliceRange reports the cached verbatim source range recorded during
// parsing, and whether it is still valid (spec invariant 8). A consumer
// serializer may reuse rawInput[start:end] verbatim only when valid is
// true.
func (n *Node) SliceRange() (start, end int, valid bool) {
	return n.sliceStart, n.sliceEnd, n.sliceValid
}

// setParsedName copies raw ("prefix:local" or just "local") into the
// node's own nameStore and slices prefix/localName out of it, preserving
// the adjacency ToString's fast path looks for.
func setParsedName(n *Node, raw []byte) {
	n.nameStore = append(n.nameStore[:0], raw...)
	if idx := bytes.IndexByte(n.nameStore, ':'); idx >= 0 {
		n.prefix = n.nameStore[:idx]
		n.localName = n.nameStore[idx+1:]
	} else {
		n.prefix = n.nameStore[:0]
		n.localName = n.nameStore
	}
}

// setBuiltName gives a builder-created node independently-owned buffers
// for prefix and localName, deliberately not adjacent in memory.
func setBuiltName(n *Node, prefix, local string) {
	n.nameStore = nil
	if prefix != "" {
		n.prefix = append(n.prefix[:0], prefix...)
	} else {
		n.prefix = n.prefix[:0]
	}
	n.localName = append(n.localName[:0], local...)
}

func setRawValue(n *Node, v string) {
	n.rawValue = append(n.rawValue[:0], v...)
}

func setRawValueBytes(n *Node, v []byte) {
	n.rawValue = append(n.rawValue[:0], v...)
}

// setParsedNameParts is setParsedName's counterpart for a tokenizer that
// hands prefix and local name as two already-split slices: it rebuilds
// the same contiguous "prefix:local" layout in nameStore so ToString's
// no-copy path still applies to parsed nodes.
func setParsedNameParts(n *Node, prefix, local []byte) {
	n.nameStore = n.nameStore[:0]
	if len(prefix) > 0 {
		n.nameStore = append(n.nameStore, prefix...)
		n.nameStore = append(n.nameStore, ':')
		n.nameStore = append(n.nameStore, local...)
		n.prefix = n.nameStore[:len(prefix)]
		n.localName = n.nameStore[len(prefix)+1:]
	} else {
		n.nameStore = append(n.nameStore, local...)
		n.prefix = n.nameStore[:0]
		n.localName = n.nameStore
	}
}

// ---- insertion primitives (spec §4.4) ----

// appendChild requires child.parent == nil; it links child at the tail of
// n's child list. Violating the precondition is a programming error — it
// can only happen by reusing a still-attached node, which none of the
// public builder/copy/move paths do.
func (n *Node) appendChild(child *Node) {
	if child.parent != nil {
		panic(ErrInvalidArgument)
	}
	child.parent = n
	if n.lastChild == nil {
		n.firstChild = child
		n.lastChild = child
		child.prevSibling = nil
		child.nextSibling = nil
	} else {
		child.prevSibling = n.lastChild
		child.nextSibling = nil
		n.lastChild.nextSibling = child
		n.lastChild = child
	}
}

// prependChild requires child.parent == nil; it links child at the head
// of n's child list.
func (n *Node) prependChild(child *Node) {
	if child.parent != nil {
		panic(ErrInvalidArgument)
	}
	child.parent = n
	if n.firstChild == nil {
		n.firstChild = child
		n.lastChild = child
		child.prevSibling = nil
		child.nextSibling = nil
	} else {
		child.nextSibling = n.firstChild
		child.prevSibling = nil
		n.firstChild.prevSibling = child
		n.firstChild = child
	}
}

// appendAttr requires attr.parent == nil and attr.kind == KindAttribute;
// it links attr at the tail of n's attribute list.
func (n *Node) appendAttr(attr *Node) {
	if attr.parent != nil || attr.kind != KindAttribute {
		panic(ErrInvalidArgument)
	}
	attr.parent = n
	if n.lastAttr == nil {
		n.firstAttr = attr
		n.lastAttr = attr
		attr.prevSibling = nil
		attr.nextSibling = nil
	} else {
		attr.prevSibling = n.lastAttr
		attr.nextSibling = nil
		n.lastAttr.nextSibling = attr
		n.lastAttr = attr
	}
}

// ---- builder surface (spec §4.4) ----

// Element appends a new Element child; if a value is passed (even an
// empty one) it also gets a Data grandchild holding it. Returns the new
// Element.
func (n *Node) Element(prefix, local string, value ...string) *Node {
	child := n.owningDocument.arena.allocate()
	child.kind = KindElement
	child.owningDocument = n.owningDocument
	setBuiltName(child, prefix, local)
	n.appendChild(child)
	if len(value) > 0 {
		child.Data(value[0])
	}
	n.mutate()
	return child
}

// Attribute appends an Attribute to n and returns n.
func (n *Node) Attribute(prefix, local string, value ...string) *Node {
	attr := n.owningDocument.arena.allocate()
	attr.kind = KindAttribute
	attr.owningDocument = n.owningDocument
	setBuiltName(attr, prefix, local)
	if len(value) > 0 {
		setRawValue(attr, value[0])
	}
	n.appendAttr(attr)
	n.mutate()
	return n
}

func (n *Node) newValueChild(kind NodeKind, v string) *Node {
	child := n.owningDocument.arena.allocate()
	child.kind = kind
	child.owningDocument = n.owningDocument
	setRawValue(child, v)
	n.appendChild(child)
	n.mutate()
	return child
}

// newValueChildBytes is newValueChild's byte-slice counterpart, used by
// the parse driver to avoid a string round-trip per token.
func (n *Node) newValueChildBytes(kind NodeKind, v []byte) *Node {
	child := n.owningDocument.arena.allocate()
	child.kind = kind
	child.owningDocument = n.owningDocument
	setRawValueBytes(child, v)
	n.appendChild(child)
	n.mutate()
	return child
}

// Data appends a Data child holding v and returns n.
func (n *Node) Data(v string) *Node {
	n.newValueChild(KindData, v)
	return n
}

// CData appends a CData child holding v and returns n.
func (n *Node) CData(v string) *Node {
	n.newValueChild(KindCData, v)
	return n
}

// Comment appends a Comment child holding v and returns n.
func (n *Node) Comment(v string) *Node {
	n.newValueChild(KindComment, v)
	return n
}

// PI appends a PI (processing instruction) child holding v and returns n.
func (n *Node) PI(v string) *Node {
	n.newValueChild(KindPI, v)
	return n
}

// Doctype appends a Doctype child holding v and returns n.
func (n *Node) Doctype(v string) *Node {
	n.newValueChild(KindDoctype, v)
	return n
}

// ---- structural mutation (spec §4.4) ----

func unlinkSibling(n *Node, first, last **Node) {
	switch {
	case n.prevSibling != nil && n.nextSibling != nil:
		n.prevSibling.nextSibling = n.nextSibling
		n.nextSibling.prevSibling = n.prevSibling
	case n.prevSibling != nil:
		n.prevSibling.nextSibling = nil
		*last = n.prevSibling
	case n.nextSibling != nil:
		n.nextSibling.prevSibling = nil
		*first = n.nextSibling
	default:
		*first = nil
		*last = nil
	}
}

// Detach unlinks the node from its parent. It is a no-op on an already
// detached node, and panics with ErrInvalidArgument if the node's sibling
// links are inconsistent. Post-conditions: parent/prevSibling/nextSibling
// are nil, and every ancestor up to the root has its serialization cache
// invalidated.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	if (n.prevSibling != nil && n.prevSibling.nextSibling != n) ||
		(n.nextSibling != nil && n.nextSibling.prevSibling != n) {
		panic(ErrInvalidArgument)
	}
	if n.kind == KindAttribute {
		unlinkSibling(n, &p.firstAttr, &p.lastAttr)
	} else {
		unlinkSibling(n, &p.firstChild, &p.lastChild)
	}
	n.parent = nil
	n.prevSibling = nil
	n.nextSibling = nil
	p.mutate()
}

// Remove is an alias of Detach.
func (n *Node) Remove() { n.Detach() }

// deepClone duplicates src (and, recursively, its attributes and
// children, preserving order) into doc's arena. The clone is returned
// detached; the caller links it in.
func deepClone(doc *Document, src *Node) *Node {
	dst := doc.arena.allocate()
	dst.kind = src.kind
	dst.owningDocument = doc
	dst.nameStore = nil
	dst.prefix = append(dst.prefix[:0], src.prefix...)
	dst.localName = append(dst.localName[:0], src.localName...)
	dst.rawValue = append(dst.rawValue[:0], src.rawValue...)

	for a := src.firstAttr; a != nil; a = a.nextSibling {
		dst.appendAttr(deepClone(doc, a))
	}
	for c := src.firstChild; c != nil; c = c.nextSibling {
		dst.appendChild(deepClone(doc, c))
	}
	return dst
}

// Copy deep-clones subtree into n's document, then appends it as a child
// of n — or, if subtree's root is an Attribute, attaches it to n's
// attribute list instead. Mutating the original afterward leaves the
// clone unaffected, and vice versa.
func (n *Node) Copy(subtree *Node) *Node {
	clone := deepClone(n.owningDocument, subtree)
	if clone.kind == KindAttribute {
		n.appendAttr(clone)
	} else {
		n.appendChild(clone)
	}
	n.mutate()
	return clone
}

// Move re-parents subtree under n. If subtree already belongs to n's
// document it is detached and reattached in place; otherwise Move falls
// back to Copy.
func (n *Node) Move(subtree *Node) *Node {
	if subtree.owningDocument != n.owningDocument {
		return n.Copy(subtree)
	}
	subtree.Detach()
	if subtree.kind == KindAttribute {
		n.appendAttr(subtree)
	} else {
		n.appendChild(subtree)
	}
	n.mutate()
	return subtree
}

// Value returns, for an Element, the rawValue of its first Data/CData
// child (or "" if none); for every other kind, its own rawValue.
func (n *Node) Value() string {
	if n.kind != KindElement {
		return string(n.rawValue)
	}
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.kind == KindData || c.kind == KindCData {
			return string(c.rawValue)
		}
	}
	return ""
}

// SetValue updates, for an Element, the first Data child's value (if one
// exists); otherwise it sets the node's own rawValue. Either way the
// serialization cache is invalidated.
func (n *Node) SetValue(v string) {
	if n.kind == KindElement {
		for c := n.firstChild; c != nil; c = c.nextSibling {
			if c.kind == KindData {
				setRawValue(c, v)
				n.mutate()
				return
			}
		}
		setRawValue(n, v)
		n.mutate()
		return
	}
	setRawValue(n, v)
	n.mutate()
}

// Position counts prior siblings; O(n) in the sibling list's length.
func (n *Node) Position() int {
	pos := 0
	for s := n.prevSibling; s != nil; s = s.prevSibling {
		pos++
	}
	return pos
}

// ToString renders "prefix:local" (or just whichever part is non-empty).
// When prefix and localName are adjacent in memory with a ':' between
// them — the layout Parse leaves behind — it returns that span with no
// copy. Otherwise it composes into buf (if non-nil, reusing its backing
// array) or allocates a new string.
func (n *Node) ToString(buf *[]byte) string {
	if len(n.prefix) == 0 {
		return string(n.localName)
	}
	if len(n.localName) == 0 {
		return string(n.prefix)
	}
	pData := unsafe.Pointer(&n.prefix[0])
	lData := unsafe.Pointer(&n.localName[0])
	sepPos := unsafe.Add(pData, len(n.prefix))
	if sepPos == unsafe.Add(lData, -1) {
		if *(*byte)(sepPos) == ':' {
			total := len(n.prefix) + 1 + len(n.localName)
			return unsafe.String((*byte)(pData), total)
		}
	}
	if buf != nil {
		*buf = append((*buf)[:0], n.prefix...)
		*buf = append(*buf, ':')
		*buf = append(*buf, n.localName...)
		return string(*buf)
	}
	return string(n.prefix) + ":" + string(n.localName)
}

// Query returns a path query rooted at n. Filter callbacks are expected
// to call this on candidate nodes — the owning document's path engine
// save/restore protocol (query.go) keeps such nested queries from
// corrupting whatever outer query is in progress.
func (n *Node) Query() NodeSet {
	return n.owningDocument.query.start(n)
}

// mutate clears the cached serialization range on n and every ancestor up
// to and including the root (spec invariant 8).
func (n *Node) mutate() {
	for cur := n; cur != nil; cur = cur.parent {
		cur.sliceEnd = 0
		cur.sliceValid = false
	}
}
