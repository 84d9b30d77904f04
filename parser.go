package xmldom

// Parse resets the Document, then drives the tokenizer over input,
// building the tree per the token table in spec §4.3. input must be
// non-nil; tokenizer errors propagate unchanged.
func (d *Document) Parse(input []byte) error {
	if input == nil {
		return ErrInvalidArgument
	}
	d.Reset()
	if d.tokens == nil {
		d.tokens = newGosaxTokenSource()
	}
	d.tokens.Reset(input)

	cursor := d.root
	for {
		if err := d.tokens.Next(); err != nil {
			return err
		}

		switch d.tokens.Kind() {
		case TokenStartElement:
			child := d.arena.allocate()
			child.kind = KindElement
			child.owningDocument = d
			setParsedNameParts(child, d.tokens.Prefix(), d.tokens.LocalName())
			child.sliceStart = d.tokens.Point()
			cursor.appendChild(child)
			cursor = child

		case TokenEndElement, TokenEndEmptyElement:
			if cursor.parent == nil {
				return ErrStructuralMismatch
			}
			cursor.sliceEnd = d.tokens.Point()
			cursor.sliceValid = true
			cursor = cursor.parent

		case TokenAttribute:
			attr := d.arena.allocate()
			attr.kind = KindAttribute
			attr.owningDocument = d
			setParsedNameParts(attr, d.tokens.Prefix(), d.tokens.LocalName())
			setRawValueBytes(attr, d.tokens.RawValue())
			cursor.appendAttr(attr)

		case TokenData:
			cursor.newValueChildBytes(KindData, d.tokens.RawValue())

		case TokenCData:
			cursor.newValueChildBytes(KindCData, d.tokens.RawValue())

		case TokenComment:
			cursor.newValueChildBytes(KindComment, d.tokens.RawValue())

		case TokenPI:
			pi := cursor.newValueChildBytes(KindPI, d.tokens.RawValue())
			pi.sliceEnd = d.tokens.Point()
			pi.sliceStart = pi.sliceEnd - len(d.tokens.RawValue())
			pi.sliceValid = true

		case TokenDoctype:
			cursor.newValueChildBytes(KindDoctype, d.tokens.RawValue())

		case TokenDone:
			return nil

		default:
			// ignore unrecognized token kinds
		}
	}
}
