package xmldom

import (
	"fmt"
	"io"
)

// Print is a minimal reference serializer: a consumer of the tree, kept
// outside the core DOM/query contract (spec §1 names the pretty-printer
// an external collaborator, not a module of its own). It exists so the
// builder scenarios in this package's tests have something to assert
// against; it does not attempt the full verbatim-slice-reuse
// optimization that sliceStart/sliceEnd/sliceValid exist to support.
func Print(w io.Writer, n *Node) error {
	return printNode(w, n, 0)
}

func tagName(n *Node) string {
	if n.Prefix() != "" {
		return n.Prefix() + ":" + n.LocalName()
	}
	return n.LocalName()
}

func indent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, "  ")
	}
}

func printNode(w io.Writer, n *Node, depth int) error {
	switch n.kind {
	case KindDocument:
		for c := n.firstChild; c != nil; c = c.nextSibling {
			if c.prevSibling != nil {
				io.WriteString(w, "\n")
			}
			if err := printNode(w, c, depth); err != nil {
				return err
			}
		}
		return nil

	case KindElement:
		return printElement(w, n, depth)

	case KindData, KindCData:
		_, err := io.WriteString(w, n.RawValue())
		return err

	case KindComment:
		_, err := fmt.Fprintf(w, "<!--%s-->", n.RawValue())
		return err

	case KindPI:
		_, err := fmt.Fprintf(w, "<?%s?>", n.RawValue())
		return err

	case KindDoctype:
		_, err := fmt.Fprintf(w, "<!DOCTYPE %s>", n.RawValue())
		return err
	}
	return nil
}

func printElement(w io.Writer, n *Node, depth int) error {
	name := tagName(n)
	fmt.Fprintf(w, "<%s", name)
	for a := n.firstAttr; a != nil; a = a.nextSibling {
		fmt.Fprintf(w, ` %s="%s"`, tagName(a), a.RawValue())
	}
	if n.firstChild == nil {
		_, err := io.WriteString(w, "/>")
		return err
	}
	io.WriteString(w, ">")

	lastWasElement := false
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.kind == KindElement || c.kind == KindComment || c.kind == KindPI {
			io.WriteString(w, "\n")
			indent(w, depth+1)
			lastWasElement = true
		} else {
			lastWasElement = false
		}
		if err := printNode(w, c, depth+1); err != nil {
			return err
		}
	}
	if lastWasElement {
		io.WriteString(w, "\n")
		indent(w, depth)
	}
	fmt.Fprintf(w, "</%s>", name)
	return nil
}
