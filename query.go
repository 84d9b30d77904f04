package xmldom

// pathEngine is the shared, re-entrant scratch buffer backing every
// NodeSet on one Document (spec §4.5). Filter callbacks are free to run
// further queries against the same Document while a candidate is being
// tested; the save/restore protocol around each test keeps that
// recursion from corrupting the outer query's in-progress results.
type pathEngine struct {
	freelist       []*Node
	freeIndex      int
	recursionDepth int
}

func newPathEngine() *pathEngine {
	return &pathEngine{freelist: make([]*Node, 0, 64)}
}

// start begins a top-level query at root. It only rewinds freeIndex to 0
// when no query is already in progress on this engine, so a filter
// callback that itself issues a query does not clobber the outer one.
func (e *pathEngine) start(root *Node) NodeSet {
	if e.recursionDepth == 0 {
		e.freeIndex = 0
	}
	mark := e.freeIndex
	e.push(root)
	return NodeSet{engine: e, nodes: e.freelist[mark:e.freeIndex]}
}

// resetOuter fully rewinds the engine; used by Document.Reset, which
// discards every node the freelist could be holding references to.
func (e *pathEngine) resetOuter() {
	e.freeIndex = 0
	e.recursionDepth = 0
}

func (e *pathEngine) push(n *Node) {
	if e.freeIndex < len(e.freelist) {
		e.freelist[e.freeIndex] = n
	} else {
		e.freelist = append(e.freelist, n)
	}
	e.freeIndex++
}

func (e *pathEngine) containsIdentity(mark int, n *Node) bool {
	for i := mark; i < e.freeIndex; i++ {
		if e.freelist[i] == n {
			return true
		}
	}
	return false
}

// testAndAdmit runs pred under the save/restore protocol: freeIndex is
// saved before the call and restored after, so anything pred allocated
// while recursing is discarded regardless of its own result. Only on a
// true result is n itself pushed, at the now-restored index.
func (e *pathEngine) testAndAdmit(n *Node, pred func(*Node) bool) bool {
	saved := e.freeIndex
	e.recursionDepth++
	ok := pred(n)
	e.freeIndex = saved
	e.recursionDepth--
	if ok {
		e.push(n)
	}
	return ok
}

func nameFilter(name string) func(*Node) bool {
	if name == "" {
		return func(*Node) bool { return true }
	}
	return func(n *Node) bool { return n.LocalName() == name }
}

func valueFilter(value string) func(*Node) bool {
	if value == "" {
		return func(*Node) bool { return true }
	}
	return func(n *Node) bool { return n.RawValue() == value }
}

func optArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// NodeSet is a transient view into the engine's freelist: the slice
// [mark, freeIndex) captured when the producing axis returned. It is
// valid only until the next top-level query() call on the same
// Document; call Dup to escape that window.
type NodeSet struct {
	engine *pathEngine
	nodes  []*Node
}

// Nodes exposes the underlying, non-owning node slice for iteration.
func (ns NodeSet) Nodes() []*Node { return ns.nodes }

// Count reports the number of nodes currently in the set.
func (ns NodeSet) Count() int { return len(ns.nodes) }

// Node returns the first node, or nil if the set is empty. Intended for
// use after First/Nth/Last narrows the set to (at most) one node.
func (ns NodeSet) Node() *Node {
	if len(ns.nodes) == 0 {
		return nil
	}
	return ns.nodes[0]
}

// First narrows to the first node, or an empty set.
func (ns NodeSet) First() NodeSet {
	if len(ns.nodes) == 0 {
		return NodeSet{engine: ns.engine}
	}
	return NodeSet{engine: ns.engine, nodes: ns.nodes[:1]}
}

// Last narrows to the last node, or an empty set.
func (ns NodeSet) Last() NodeSet {
	if len(ns.nodes) == 0 {
		return NodeSet{engine: ns.engine}
	}
	return NodeSet{engine: ns.engine, nodes: ns.nodes[len(ns.nodes)-1:]}
}

// Nth narrows to the i-th node (0-based), or an empty set if out of range.
func (ns NodeSet) Nth(i int) NodeSet {
	if i < 0 || i >= len(ns.nodes) {
		return NodeSet{engine: ns.engine}
	}
	return NodeSet{engine: ns.engine, nodes: ns.nodes[i : i+1]}
}

// Dup heap-copies the current slice so it survives past the next
// top-level query on the same Document.
func (ns NodeSet) Dup() NodeSet {
	cp := make([]*Node, len(ns.nodes))
	copy(cp, ns.nodes)
	return NodeSet{engine: ns.engine, nodes: cp}
}

// Child visits immediate Element children of every node in the set,
// optionally filtered by local name.
func (ns NodeSet) Child(name ...string) NodeSet {
	pred := nameFilter(optArg(name))
	e := ns.engine
	mark := e.freeIndex
	for _, parent := range ns.nodes {
		for c := parent.firstChild; c != nil; c = c.nextSibling {
			if c.kind != KindElement {
				continue
			}
			e.testAndAdmit(c, pred)
		}
	}
	return NodeSet{engine: e, nodes: e.freelist[mark:e.freeIndex]}
}

// Attribute visits each node's attribute list, optionally filtered by
// local name.
func (ns NodeSet) Attribute(name ...string) NodeSet {
	pred := nameFilter(optArg(name))
	e := ns.engine
	mark := e.freeIndex
	for _, parent := range ns.nodes {
		for a := parent.firstAttr; a != nil; a = a.nextSibling {
			e.testAndAdmit(a, pred)
		}
	}
	return NodeSet{engine: e, nodes: e.freelist[mark:e.freeIndex]}
}

// Data visits immediate Data children, optionally filtered by rawValue.
func (ns NodeSet) Data(value ...string) NodeSet {
	pred := valueFilter(optArg(value))
	e := ns.engine
	mark := e.freeIndex
	for _, parent := range ns.nodes {
		for c := parent.firstChild; c != nil; c = c.nextSibling {
			if c.kind != KindData {
				continue
			}
			e.testAndAdmit(c, pred)
		}
	}
	return NodeSet{engine: e, nodes: e.freelist[mark:e.freeIndex]}
}

// CData visits immediate CData children, optionally filtered by rawValue.
func (ns NodeSet) CData(value ...string) NodeSet {
	pred := valueFilter(optArg(value))
	e := ns.engine
	mark := e.freeIndex
	for _, parent := range ns.nodes {
		for c := parent.firstChild; c != nil; c = c.nextSibling {
			if c.kind != KindCData {
				continue
			}
			e.testAndAdmit(c, pred)
		}
	}
	return NodeSet{engine: e, nodes: e.freelist[mark:e.freeIndex]}
}

// Parent visits each node's parent, skipping Document-kind parents and
// de-duplicating by identity, optionally filtered by local name.
func (ns NodeSet) Parent(name ...string) NodeSet {
	pred := nameFilter(optArg(name))
	e := ns.engine
	mark := e.freeIndex
	for _, node := range ns.nodes {
		p := node.parent
		if p == nil || p.kind == KindDocument {
			continue
		}
		if e.containsIdentity(mark, p) {
			continue
		}
		e.testAndAdmit(p, pred)
	}
	return NodeSet{engine: e, nodes: e.freelist[mark:e.freeIndex]}
}

// Ancestor walks each node's parent chain upward, skipping Document and
// de-duplicating by identity, optionally filtered by local name.
func (ns NodeSet) Ancestor(name ...string) NodeSet {
	pred := nameFilter(optArg(name))
	e := ns.engine
	mark := e.freeIndex
	for _, node := range ns.nodes {
		for p := node.parent; p != nil && p.kind != KindDocument; p = p.parent {
			if e.containsIdentity(mark, p) {
				continue
			}
			e.testAndAdmit(p, pred)
		}
	}
	return NodeSet{engine: e, nodes: e.freelist[mark:e.freeIndex]}
}

// Descendant performs a depth-first walk over Element descendants,
// optionally filtered by local name.
func (ns NodeSet) Descendant(name ...string) NodeSet {
	pred := nameFilter(optArg(name))
	e := ns.engine
	mark := e.freeIndex
	var walk func(n *Node)
	walk = func(n *Node) {
		for c := n.firstChild; c != nil; c = c.nextSibling {
			if c.kind != KindElement {
				continue
			}
			e.testAndAdmit(c, pred)
			walk(c)
		}
	}
	for _, node := range ns.nodes {
		walk(node)
	}
	return NodeSet{engine: e, nodes: e.freelist[mark:e.freeIndex]}
}

// Prev walks the prevSibling chain over Elements, optionally filtered by
// local name.
func (ns NodeSet) Prev(name ...string) NodeSet {
	pred := nameFilter(optArg(name))
	e := ns.engine
	mark := e.freeIndex
	for _, node := range ns.nodes {
		for s := node.prevSibling; s != nil; s = s.prevSibling {
			if s.kind != KindElement {
				continue
			}
			e.testAndAdmit(s, pred)
		}
	}
	return NodeSet{engine: e, nodes: e.freelist[mark:e.freeIndex]}
}

// Next walks the nextSibling chain over Elements, optionally filtered by
// local name.
func (ns NodeSet) Next(name ...string) NodeSet {
	pred := nameFilter(optArg(name))
	e := ns.engine
	mark := e.freeIndex
	for _, node := range ns.nodes {
		for s := node.nextSibling; s != nil; s = s.nextSibling {
			if s.kind != KindElement {
				continue
			}
			e.testAndAdmit(s, pred)
		}
	}
	return NodeSet{engine: e, nodes: e.freelist[mark:e.freeIndex]}
}

// Filter narrows the set to nodes for which cb returns true. cb may
// itself issue further queries against the owning Document.
func (ns NodeSet) Filter(cb func(*Node) bool) NodeSet {
	e := ns.engine
	mark := e.freeIndex
	for _, node := range ns.nodes {
		e.testAndAdmit(node, cb)
	}
	return NodeSet{engine: e, nodes: e.freelist[mark:e.freeIndex]}
}
