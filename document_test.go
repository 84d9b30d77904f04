package xmldom

import (
	"bytes"
	"strings"
	"testing"
)

// S1 — basic build & print.
func TestScenarioBasicBuildAndPrint(t *testing.T) {
	doc := newTestDoc()
	doc.Header()
	root := doc.Tree().Element("", "root", "123456789")
	root.Element("", "second", "second")
	root.Element("", "third", "third")

	var buf bytes.Buffer
	if err := Print(&buf, doc.Tree()); err != nil {
		t.Fatalf("print failed: %v", err)
	}

	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<root>123456789\n" +
		"  <second>second</second>\n" +
		"  <third>third</third>\n" +
		"</root>"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

// S2 — reset & reuse without allocation.
func TestScenarioResetAndReuse(t *testing.T) {
	doc := newTestDoc()
	doc.Header()
	root := doc.Tree().Element("", "root", "123456789")
	root.Element("", "second", "second")
	root.Element("", "third", "third")

	chunksAfterS1 := doc.ArenaChunks()

	doc.Reset()
	doc.Header()
	root = doc.Tree().Element("", "root", "12345")
	root.Element("", "second", "one")
	root.Element("", "third", "two")

	if got := doc.ArenaChunks(); got != chunksAfterS1 {
		t.Errorf("expected no further chunk growth after reset+rebuild, had %d now have %d", chunksAfterS1, got)
	}

	var buf bytes.Buffer
	if err := Print(&buf, doc.Tree()); err != nil {
		t.Fatalf("print failed: %v", err)
	}
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<root>12345\n" +
		"  <second>one</second>\n" +
		"  <third>two</third>\n" +
		"</root>"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output after reset+rebuild:\n%s", got)
	}
}

// S3 — attributes and nesting.
func TestScenarioAttributesAndNesting(t *testing.T) {
	doc := newTestDoc()
	root := doc.Tree().Element("", "VAST").Attribute("", "version", "3.0")
	inline := root.Element("", "InLine")
	inline.Element("", "AdTitle", "VAST 3.0 Instream Test")
	cr := inline.Element("", "Creatives")
	c := cr.Element("", "Creative").Attribute("", "id", "123456")
	c.Attribute("", "adId", "654321")

	var buf bytes.Buffer
	if err := Print(&buf, doc.Tree()); err != nil {
		t.Fatalf("print failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `<VAST version="3.0">`) {
		t.Errorf("expected VAST opening tag with version attribute, got:\n%s", out)
	}
	if !strings.Contains(out, `<Creative id="123456" adId="654321"/>`) {
		t.Errorf("expected self-closing Creative tag with both attributes, got:\n%s", out)
	}
}

// S4 — query chain.
func TestScenarioQueryChain(t *testing.T) {
	doc := newTestDoc()
	root := doc.Tree().Element("", "VAST").Attribute("", "version", "3.0")
	inline := root.Element("", "InLine")
	inline.Element("", "AdTitle", "VAST 3.0 Instream Test")
	cr := inline.Element("", "Creatives")
	cr.Element("", "Creative").Attribute("", "id", "123456")

	if got := doc.Query().Descendant("Creative").Count(); got != 1 {
		t.Errorf("expected 1 Creative, got %d", got)
	}

	title := doc.Query().Child("VAST").Child("InLine").Child("AdTitle").First()
	if got := title.Node().Value(); got != "VAST 3.0 Instream Test" {
		t.Errorf("expected 'VAST 3.0 Instream Test', got %q", got)
	}
}

// S5 — filter callback.
func TestScenarioFilterCallback(t *testing.T) {
	doc := newTestDoc()
	root := doc.Tree().Element("", "VAST")
	inline := root.Element("", "InLine")
	cr := inline.Element("", "Creatives")
	cr.Element("", "Creative").Attribute("", "id", "123456")
	cr.Element("", "Linear")

	hasID := func(n *Node) bool {
		return n.Query().Attribute("id").Count() > 0
	}
	got := doc.Query().Descendant().Filter(hasID).Count()
	if got != 1 {
		t.Errorf("expected 1 descendant with an 'id' attribute, got %d", got)
	}
}

// Invariant 7: a filter that itself runs a nested query must not corrupt
// the outer query's in-progress result.
func TestQueryReentrancy(t *testing.T) {
	doc := newTestDoc()
	root := doc.Tree().Element("", "root")
	for i := 0; i < 4; i++ {
		item := root.Element("", "item")
		for j := 0; j <= i; j++ {
			item.Element("", "child")
		}
	}

	var nestedCounts []int
	countsAtLeastTwoChildren := func(n *Node) bool {
		nestedCounts = append(nestedCounts, n.Query().Child("child").Count())
		return n.Query().Child("child").Count() >= 2
	}

	outer := doc.Query().Child("root").Child("item").Filter(countsAtLeastTwoChildren)
	if got := outer.Count(); got != 3 {
		t.Fatalf("expected 3 items with >= 2 children, got %d", got)
	}
	if len(nestedCounts) != 4 {
		t.Fatalf("expected the filter to run once per candidate item, got %d calls", len(nestedCounts))
	}
	want := []int{1, 2, 3, 4}
	for i, c := range nestedCounts {
		if c != want[i] {
			t.Errorf("nested count %d: expected %d, got %d", i, want[i], c)
		}
	}
}

// Invariant 6: NodeSet.Dup survives a later top-level query on the same
// document.
func TestNodeSetDup(t *testing.T) {
	doc := newTestDoc()
	root := doc.Tree().Element("", "root")
	root.Element("", "x")
	root.Element("", "x")

	a := doc.Query().Child("root").Child("x").Dup()
	_ = doc.Query().Child("root").Child("y")

	if got := a.Count(); got != 2 {
		t.Errorf("expected dup'd set to retain 2 nodes, got %d", got)
	}
	for _, n := range a.Nodes() {
		if n.LocalName() != "x" {
			t.Errorf("dup'd set corrupted by later query: found %q", n.LocalName())
		}
	}
}

// Invariant 8: ancestor de-dup across a shared lineage.
func TestAncestorDeduplication(t *testing.T) {
	doc := newTestDoc()
	root := doc.Tree().Element("", "root")
	parent := root.Element("", "parent")
	parent.Element("", "a")
	parent.Element("", "b")

	ancestors := doc.Query().Descendant().Ancestor()
	seen := map[*Node]int{}
	for _, n := range ancestors.Nodes() {
		seen[n]++
	}
	for n, count := range seen {
		if count != 1 {
			t.Errorf("ancestor %q appeared %d times, want 1", n.LocalName(), count)
		}
	}
}

// S6 — graft.
func TestScenarioGraft(t *testing.T) {
	docA := newTestDoc()
	a := docA.Tree().Element("", "A")
	a.Element("", "B", "v")

	docB := newTestDoc()
	docB.Tree().Copy(docA.Query().Child("A").First().Node())

	value := docB.Query().Child("A").Child("B").First().Node().Value()
	if value != "v" {
		t.Fatalf("expected grafted B's value to be 'v', got %q", value)
	}

	a.FirstChild().SetValue("changed")
	if got := docB.Query().Child("A").Child("B").First().Node().Value(); got != "v" {
		t.Errorf("mutating docA after graft must not affect docB, got %q", got)
	}
}

func TestElementsReturnsMostRecentTopLevelElement(t *testing.T) {
	doc := newTestDoc()
	doc.Tree().Element("", "first")
	second := doc.Tree().Element("", "second")

	if doc.Elements() != second {
		t.Errorf("expected Elements() to return the most recently appended top-level element")
	}
}

func TestParseRejectsNilInput(t *testing.T) {
	doc := newTestDoc()
	if err := doc.Parse(nil); err != ErrInvalidArgument {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParseBasicDocument(t *testing.T) {
	doc := newTestDoc()
	err := doc.Parse([]byte(`<root a="1"><item>hello</item><item>world</item></root>`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	root := doc.Elements()
	if root == nil || root.LocalName() != "root" {
		t.Fatalf("expected root element, got %#v", root)
	}
	if got := root.FirstAttr().RawValue(); got != "1" {
		t.Errorf("expected attribute a='1', got %q", got)
	}
	items := doc.Query().Child("root").Child("item")
	if got := items.Count(); got != 2 {
		t.Fatalf("expected 2 items, got %d", got)
	}
}

func TestParseSelfClosingElement(t *testing.T) {
	doc := newTestDoc()
	if err := doc.Parse([]byte(`<root><item/></root>`)); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	item := doc.Query().Child("root").Child("item").Node()
	if item == nil {
		t.Fatalf("expected item element")
	}
	if item.Value() != "" {
		t.Errorf("expected empty value for self-closing item, got %q", item.Value())
	}
}

func TestParseCDataAndComment(t *testing.T) {
	doc := newTestDoc()
	xml := `<root><item><![CDATA[<raw/>]]></item><!-- note --></root>`
	if err := doc.Parse([]byte(xml)); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	item := doc.Query().Child("root").Child("item").Node()
	if got := item.Value(); got != "<raw/>" {
		t.Errorf("expected CDATA value '<raw/>', got %q", got)
	}
	comment := doc.Query().Child("root").Node().LastChild()
	if comment == nil || comment.Kind() != KindComment || comment.RawValue() != " note " {
		t.Errorf("expected Comment ' note ' as root's last child, got %#v", comment)
	}
}

func TestParsePI(t *testing.T) {
	doc := newTestDoc()
	xml := `<?xml version="1.0" encoding="UTF-8"?><root/>`
	if err := doc.Parse([]byte(xml)); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	pi := doc.Tree().FirstChild()
	if pi == nil || pi.Kind() != KindPI {
		t.Fatalf("expected a PI as root's first child, got %#v", pi)
	}
}
