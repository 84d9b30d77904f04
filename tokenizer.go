package xmldom

// TokenKind enumerates what a tokenSource's current token represents
// (spec §6, "Downward (tokenizer) contract").
type TokenKind uint8

const (
	TokenStartElement TokenKind = iota
	TokenEndElement
	TokenEndEmptyElement
	TokenAttribute
	TokenData
	TokenCData
	TokenComment
	TokenPI
	TokenDoctype
	TokenDone
	TokenOther
)

// tokenSource is the pull-tokenizer contract Parse drives. Any producer
// satisfying this interface is a valid collaborator; gosaxTokenSource is
// the one concrete adapter this module ships.
type tokenSource interface {
	Next() error
	Kind() TokenKind
	Prefix() []byte
	LocalName() []byte
	RawValue() []byte
	Point() int
	Reset(input []byte)
}
