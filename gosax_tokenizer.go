package xmldom

import (
	"bytes"
	"unsafe"

	"github.com/orisano/gosax"
)

// pendingAttr is one attribute parsed out of a start tag's raw attrs
// blob, queued so Next() can surface it as its own TokenAttribute before
// moving on to the element's children.
type pendingAttr struct {
	prefix []byte
	local  []byte
	value  []byte
}

// gosaxTokenSource adapts github.com/orisano/gosax's pull reader to the
// tokenSource contract, surfacing one token per Next() call instead of
// building a tree directly.
type gosaxTokenSource struct {
	input []byte
	r     *gosax.Reader

	kind   TokenKind
	prefix []byte
	local  []byte
	raw    []byte
	point  int

	pendingAttrs    []pendingAttr
	attrIdx         int
	pendingEndEmpty bool
	endEmptyPoint   int

	nameBuf []byte
}

func newGosaxTokenSource() *gosaxTokenSource {
	return &gosaxTokenSource{}
}

// Reset rebinds the input and constructs a fresh underlying gosax.Reader.
// gosax's Reader does not document an in-place rebind, so a new Reader is
// built over a new bytes.Reader each time.
func (t *gosaxTokenSource) Reset(input []byte) {
	t.input = input
	t.r = gosax.NewReaderSize(bytes.NewReader(input), len(input)+1)
	t.pendingAttrs = t.pendingAttrs[:0]
	t.attrIdx = 0
	t.pendingEndEmpty = false
}

func (t *gosaxTokenSource) Kind() TokenKind    { return t.kind }
func (t *gosaxTokenSource) Prefix() []byte     { return t.prefix }
func (t *gosaxTokenSource) LocalName() []byte  { return t.local }
func (t *gosaxTokenSource) RawValue() []byte   { return t.raw }
func (t *gosaxTokenSource) Point() int         { return t.point }

// offsetOf reports sub's byte offset within t.input, assuming sub shares
// t.input's backing array — true as long as gosax's internal buffer is
// sized to hold the whole document in one read, as Reset arranges above.
// Mirrors the adjacency trick Node.ToString already relies on.
func (t *gosaxTokenSource) offsetOf(sub []byte) int {
	if len(t.input) == 0 || len(sub) == 0 {
		return 0
	}
	base := uintptr(unsafe.Pointer(&t.input[0]))
	at := uintptr(unsafe.Pointer(&sub[0]))
	return int(at - base)
}

func splitName(name []byte) (prefix, local []byte) {
	if idx := bytes.IndexByte(name, ':'); idx >= 0 {
		return name[:idx], name[idx+1:]
	}
	return name[:0], name
}

// Next surfaces queued attribute/end-empty tokens first, then pulls the
// next event from gosax.
func (t *gosaxTokenSource) Next() error {
	if t.attrIdx < len(t.pendingAttrs) {
		a := t.pendingAttrs[t.attrIdx]
		t.attrIdx++
		t.kind = TokenAttribute
		t.prefix = a.prefix
		t.local = a.local
		t.raw = a.value
		return nil
	}
	if t.pendingEndEmpty {
		t.pendingEndEmpty = false
		t.kind = TokenEndEmptyElement
		t.point = t.endEmptyPoint
		return nil
	}

	for {
		e, err := t.r.Event()
		if err != nil {
			t.kind = TokenDone
			return err
		}

		switch e.Type() {
		case gosax.EventEOF:
			t.kind = TokenDone
			return nil

		case gosax.EventStart:
			name, attrs := gosax.Name(e.Bytes)
			t.prefix, t.local = splitName(name)
			t.point = t.offsetOf(e.Bytes)
			t.queueAttributes(attrs)
			selfClosing := len(e.Bytes) >= 2 && e.Bytes[len(e.Bytes)-2] == '/' && e.Bytes[len(e.Bytes)-1] == '>'
			t.pendingEndEmpty = selfClosing
			t.endEmptyPoint = t.point + len(e.Bytes)
			t.kind = TokenStartElement
			return nil

		case gosax.EventEnd:
			t.kind = TokenEndElement
			t.point = t.offsetOf(e.Bytes) + len(e.Bytes)
			return nil

		case gosax.EventText:
			if len(e.Bytes) == 0 {
				continue
			}
			t.kind = TokenData
			t.raw = e.Bytes
			t.point = t.offsetOf(e.Bytes) + len(e.Bytes)
			return nil

		case gosax.EventCData:
			content := e.Bytes
			if len(content) <= 12 {
				continue
			}
			t.kind = TokenCData
			t.raw = content[9 : len(content)-3]
			t.point = t.offsetOf(e.Bytes) + len(e.Bytes)
			return nil

		case gosax.EventComment:
			content := e.Bytes
			if len(content) <= 7 {
				continue
			}
			t.kind = TokenComment
			t.raw = content[4 : len(content)-3]
			t.point = t.offsetOf(e.Bytes) + len(e.Bytes)
			return nil

		case gosax.EventProcInst:
			t.kind = TokenPI
			t.raw = e.Bytes
			t.point = t.offsetOf(e.Bytes) + len(e.Bytes)
			return nil

		case gosax.EventDirective:
			t.kind = TokenDoctype
			t.raw = e.Bytes
			t.point = t.offsetOf(e.Bytes) + len(e.Bytes)
			return nil

		default:
			continue
		}
	}
}

// queueAttributes parses a start tag's raw attrs blob into pendingAttrs,
// splitting each attribute name into prefix and local name.
func (t *gosaxTokenSource) queueAttributes(attrs []byte) {
	t.pendingAttrs = t.pendingAttrs[:0]
	t.attrIdx = 0
	if len(attrs) == 0 {
		return
	}

	i := 0
	for i < len(attrs) {
		for i < len(attrs) && (attrs[i] == ' ' || attrs[i] == '\t' || attrs[i] == '\n' || attrs[i] == '\r') {
			i++
		}
		if i >= len(attrs) {
			break
		}

		nameStart := i
		for i < len(attrs) && attrs[i] != '=' {
			i++
		}
		if i >= len(attrs) {
			break
		}
		name := bytes.TrimSpace(attrs[nameStart:i])
		i++ // skip '='

		for i < len(attrs) && (attrs[i] == ' ' || attrs[i] == '\t') {
			i++
		}
		if i >= len(attrs) {
			break
		}

		quote := attrs[i]
		if quote != '"' && quote != '\'' {
			break
		}
		i++
		valueStart := i
		for i < len(attrs) && attrs[i] != quote {
			i++
		}
		value := attrs[valueStart:i]
		i++ // skip closing quote

		prefix, local := splitName(name)
		t.pendingAttrs = append(t.pendingAttrs, pendingAttr{prefix: prefix, local: local, value: value})
	}
}
