package lexer

// Kind represents the type of token identified by the scanner.
// Tokens carry no text span or value, only their kind.
type Kind uint8

const (
	KindIdent Kind = iota
	KindNumber
	KindLParen // (
	KindRParen // )
)

var kindNames = [...]string{
	KindIdent:  "Ident",
	KindNumber: "Number",
	KindLParen: "LParen",
	KindRParen: "RParen",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}
