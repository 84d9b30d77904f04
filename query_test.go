package xmldom

import "testing"

func buildSiblingFixture() (*Document, *Node) {
	doc := newTestDoc()
	parent := doc.Tree().Element("", "parent")
	parent.Element("", "a", "1")
	parent.Element("", "b", "2")
	parent.Element("", "c", "3")
	return doc, parent
}

func TestChildAxisNameFilter(t *testing.T) {
	_, parent := buildSiblingFixture()
	doc := parent.OwningDocument()
	got := doc.Query().Child("parent").Child("b").Count()
	if got != 1 {
		t.Fatalf("expected 1 'b' child, got %d", got)
	}
}

func TestPrevNextAxes(t *testing.T) {
	doc, parent := buildSiblingFixture()
	b := doc.Query().Child("parent").Child("b").Node()

	next := b.Query().Next()
	if got := next.Count(); got != 1 || next.Node().LocalName() != "c" {
		t.Errorf("expected next sibling 'c', got count=%d", got)
	}

	prev := b.Query().Prev()
	if got := prev.Count(); got != 1 || prev.Node().LocalName() != "a" {
		t.Errorf("expected prev sibling 'a', got count=%d", got)
	}
	_ = parent
}

func TestParentAxisSkipsDocument(t *testing.T) {
	doc := newTestDoc()
	root := doc.Tree().Element("", "root")
	child := root.Element("", "child")

	parents := child.Query().Parent()
	if got := parents.Count(); got != 1 || parents.Node() != root {
		t.Fatalf("expected child's parent to be root, got count=%d", got)
	}

	rootParents := root.Query().Parent()
	if got := rootParents.Count(); got != 0 {
		t.Errorf("expected root's Document parent to be skipped, got count=%d", got)
	}
}

func TestFirstLastNth(t *testing.T) {
	_, parent := buildSiblingFixture()
	kids := parent.Query().Child()
	if got := kids.Count(); got != 3 {
		t.Fatalf("expected 3 children, got %d", got)
	}
	if kids.First().Node().LocalName() != "a" {
		t.Errorf("expected First() to be 'a'")
	}
	if kids.Last().Node().LocalName() != "c" {
		t.Errorf("expected Last() to be 'c'")
	}
	if kids.Nth(1).Node().LocalName() != "b" {
		t.Errorf("expected Nth(1) to be 'b'")
	}
	if got := kids.Nth(9).Count(); got != 0 {
		t.Errorf("expected out-of-range Nth to be empty, got count=%d", got)
	}
}

func TestDataAndCDataAxes(t *testing.T) {
	doc := newTestDoc()
	item := doc.Tree().Element("", "item")
	item.Data("hello")
	item.CData("<raw/>")

	if got := item.Query().Data().Count(); got != 1 {
		t.Errorf("expected 1 Data child, got %d", got)
	}
	if got := item.Query().CData().Count(); got != 1 {
		t.Errorf("expected 1 CData child, got %d", got)
	}
	if got := item.Query().Data("hello").Count(); got != 1 {
		t.Errorf("expected value filter to match, got %d", got)
	}
	if got := item.Query().Data("nope").Count(); got != 0 {
		t.Errorf("expected value filter to exclude non-matching value, got %d", got)
	}
}

func TestAttributeAxisNameFilter(t *testing.T) {
	doc := newTestDoc()
	el := doc.Tree().Element("", "item").Attribute("", "id", "1").Attribute("", "class", "x")

	if got := el.Query().Attribute().Count(); got != 2 {
		t.Fatalf("expected 2 attributes, got %d", got)
	}
	if got := el.Query().Attribute("id").Count(); got != 1 {
		t.Errorf("expected 1 'id' attribute, got %d", got)
	}
}

func TestDescendantIsDepthFirst(t *testing.T) {
	doc := newTestDoc()
	root := doc.Tree().Element("", "root")
	a := root.Element("", "a")
	a.Element("", "x")
	root.Element("", "b")

	names := []string{}
	for _, n := range root.Query().Descendant().Nodes() {
		names = append(names, n.LocalName())
	}
	want := []string{"a", "x", "b"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}
