package lexer

// Rule scans one lexeme from the front of input. On success it returns the
// remaining text, the token kind and true. On failure it returns input
// unchanged and false.
type Rule func(input string) (string, Kind, bool)

// rules is the ordered choice tried by NextToken. Ident must stay ahead of
// Number.
var rules = []Rule{
	ScanIdent,
	ScanNumber,
	ScanLParen,
	ScanRParen,
}

// SkipSpaces advances past consecutive U+0020 characters. Tabs and newlines
// are not whitespace for this scanner.
func SkipSpaces(input string) string {
	for peek(input) == ' ' {
		input = advance(input)
	}
	return input
}

// ScanNumber matches a maximal run of '-', '+', '.' and ASCII digits. The run
// is not validated, so "--1..2" is a single Number.
func ScanNumber(input string) (string, Kind, bool) {
	if !isNumberChar(peek(input)) {
		return input, 0, false
	}
	for isNumberChar(peek(input)) {
		input = advance(input)
	}
	return input, KindNumber, true
}

// ScanIdent matches an ASCII letter followed by letters and digits.
func ScanIdent(input string) (string, Kind, bool) {
	if !isAlpha(peek(input)) {
		return input, 0, false
	}
	for ch := peek(input); isAlpha(ch) || isDigit(ch); ch = peek(input) {
		input = advance(input)
	}
	return input, KindIdent, true
}

func ScanLParen(input string) (string, Kind, bool) {
	if peek(input) != '(' {
		return input, 0, false
	}
	return advance(input), KindLParen, true
}

func ScanRParen(input string) (string, Kind, bool) {
	if peek(input) != ')' {
		return input, 0, false
	}
	return advance(input), KindRParen, true
}

// NextToken skips spaces and returns the first rule that matches. When
// nothing matches the returned text is the input after the skipped spaces.
func NextToken(input string) (string, Kind, bool) {
	input = SkipSpaces(input)
	for _, rule := range rules {
		if rest, kind, ok := rule(input); ok {
			return rest, kind, true
		}
	}
	return input, 0, false
}

// Tokenize scans input until it is exhausted or an unrecognized character is
// reached. Scanning stops silently at that character and the tokens read so
// far are returned.
func Tokenize(input string) []Kind {
	var tokens []Kind
	for input != "" {
		rest, kind, ok := NextToken(input)
		if !ok {
			break
		}
		tokens = append(tokens, kind)
		input = rest
	}
	return tokens
}

// peek returns the first byte of input, or 0 at end of input. Every byte the
// rules accept is ASCII, so a multi-byte rune never matches.
func peek(input string) byte {
	if input == "" {
		return 0
	}
	return input[0]
}

func advance(input string) string {
	if input == "" {
		return input
	}
	return input[1:]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNumberChar(ch byte) bool {
	return isDigit(ch) || ch == '-' || ch == '+' || ch == '.'
}
