package lexer

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/KimNorgaard/go-phplit/internal/token"
)

// Lexer holds the state for tokenizing PHP literal source.
type Lexer struct {
	input        []byte
	position     int
	readPosition int
	ch           rune
	line         int
	column       int
}

// New creates and returns a new Lexer.
func New(input []byte) *Lexer {
	l := &Lexer{input: input, line: 1, column: 1}
	l.readChar()
	return l
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	tok := token.Token{Line: l.line, Column: l.column}
	switch l.ch {
	case '[', ']', '(', ')', ',', ';':
		tok.Type = token.Type(l.ch)
		tok.Literal = string(l.ch)
	case '=':
		if l.peekChar() == '>' {
			l.advance()
			tok.Type = token.ARROW
			tok.Literal = "=>"
		} else {
			tok.Type = token.ILLEGAL
			tok.Literal = "="
		}
	case '\'':
		tok.Literal, tok.Type = l.readSingleQuotedString()
		return tok
	case '"':
		tok.Literal, tok.Type = l.readDoubleQuotedString()
		return tok
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
		return tok
	case -1:
		tok.Type = token.ILLEGAL
		tok.Literal = "invalid utf-8"
	default:
		if isDigit(l.ch) ||
			(l.ch == '-' && (isDigit(l.peekChar()) || l.peekChar() == '.')) ||
			(l.ch == '.' && isDigit(l.peekChar())) {
			literal := l.readNumber()
			if typ, ok := ParseAsNumber(literal); ok {
				tok.Type = typ
			} else {
				tok.Type = token.IDENT
			}
			tok.Literal = literal
			return tok
		}
		if isIdentifierChar(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			return tok
		}
		tok.Type = token.ILLEGAL
		tok.Literal = string(l.ch)
	}
	l.advance()
	return tok
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition // Important for correct slicing at EOF
	} else {
		r, size := utf8.DecodeRune(l.input[l.readPosition:])
		if r == utf8.RuneError {
			l.ch = -1
		} else {
			l.ch = r
		}
		l.position = l.readPosition
		l.readPosition += size
	}
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.readChar()
	l.column++
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.advance()
	}
}

func (l *Lexer) readIdentifier() string {
	startPos := l.position
	for isIdentifierChar(l.ch) {
		l.advance()
	}
	return string(l.input[startPos:l.position])
}

// readNumber scans the longest run of characters that could form a PHP
// numeric literal: digits in any supported radix, underscores, a decimal
// point, and an exponent sign directly after e/E. Classification happens
// afterwards in ParseAsNumber.
func (l *Lexer) readNumber() string {
	startPos := l.position
	if l.ch == '-' {
		l.advance()
	}
	var prev rune
	for isIdentifierChar(l.ch) || l.ch == '.' ||
		((l.ch == '+' || l.ch == '-') && (prev == 'e' || prev == 'E')) {
		prev = l.ch
		l.advance()
	}
	return string(l.input[startPos:l.position])
}

func (l *Lexer) readSingleQuotedString() (string, token.Type) {
	l.advance() // consume opening quote
	var buf bytes.Buffer
	for {
		switch l.ch {
		case '\'':
			l.advance()
			return buf.String(), token.STRING
		case 0:
			return "unterminated string", token.BADSTRING
		case -1:
			return "invalid utf-8 sequence in string", token.ILLEGAL
		case '\\':
			l.advance()
			switch l.ch {
			case '\\', '\'':
				buf.WriteRune(l.ch)
				l.advance()
			case 0:
				return "unterminated string", token.BADSTRING
			default:
				// Only \\ and \' are escapes in single-quoted strings;
				// any other backslash is literal.
				buf.WriteByte('\\')
			}
		default:
			buf.WriteRune(l.ch)
			l.advance()
		}
	}
}

func (l *Lexer) readDoubleQuotedString() (string, token.Type) {
	l.advance() // consume opening quote
	var buf bytes.Buffer
	for {
		switch l.ch {
		case '"':
			l.advance()
			return buf.String(), token.STRING
		case 0:
			return "unterminated string", token.BADSTRING
		case -1:
			return "invalid utf-8 sequence in string", token.ILLEGAL
		case '\\':
			if msg, typ := l.readDoubleEscape(&buf); typ != token.STRING {
				return msg, typ
			}
		default:
			buf.WriteRune(l.ch)
			l.advance()
		}
	}
}

// readDoubleEscape consumes one escape sequence in a double-quoted string
// and writes its expansion to buf. Escapes follow PHP double-quote rules:
// unknown sequences keep the backslash, \x and \u degrade to literal text
// when not followed by their expected payload.
func (l *Lexer) readDoubleEscape(buf *bytes.Buffer) (string, token.Type) {
	l.advance() // consume backslash
	switch l.ch {
	case 0:
		return "unterminated string", token.BADSTRING
	case -1:
		return "invalid utf-8 sequence in string", token.ILLEGAL
	case '\\', '"', '$':
		buf.WriteRune(l.ch)
		l.advance()
	case 'n':
		buf.WriteByte('\n')
		l.advance()
	case 'r':
		buf.WriteByte('\r')
		l.advance()
	case 't':
		buf.WriteByte('\t')
		l.advance()
	case 'v':
		buf.WriteByte('\x0B')
		l.advance()
	case 'f':
		buf.WriteByte('\x0C')
		l.advance()
	case 'x':
		if hexDigit(l.peekChar()) < 0 {
			buf.WriteString(`\x`)
			l.advance()
			return "", token.STRING
		}
		var val rune
		for i := 0; i < 2; i++ {
			d := hexDigit(l.peekChar())
			if d < 0 {
				break
			}
			l.advance()
			val = val*16 + d
		}
		buf.WriteRune(val)
		l.advance()
	case 'u':
		if l.peekChar() != '{' {
			buf.WriteString(`\u`)
			l.advance()
			return "", token.STRING
		}
		l.advance() // now on '{'
		var val rune
		sawDigit := false
		for {
			d := hexDigit(l.peekChar())
			if d < 0 {
				break
			}
			l.advance()
			val = val*16 + d
			if val > unicode.MaxRune {
				return "invalid unicode escape", token.BADESCAPE
			}
			sawDigit = true
		}
		if !sawDigit || l.peekChar() != '}' {
			return "invalid unicode escape", token.BADESCAPE
		}
		l.advance() // now on '}'
		if !utf8.ValidRune(val) {
			return "invalid unicode escape", token.BADESCAPE
		}
		buf.WriteRune(val)
		l.advance()
	default:
		if l.ch >= '0' && l.ch <= '7' {
			val := l.ch - '0'
			for i := 0; i < 2; i++ {
				p := l.peekChar()
				if p < '0' || p > '7' {
					break
				}
				l.advance()
				val = val*8 + (l.ch - '0')
			}
			buf.WriteRune(val)
			l.advance()
			return "", token.STRING
		}
		// Unknown escapes keep the backslash, as PHP does.
		buf.WriteByte('\\')
		buf.WriteRune(l.ch)
		l.advance()
	}
	return "", token.STRING
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.readPosition:])
	return r
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentifierChar(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || isDigit(ch) || ch == '_'
}

func hexDigit(ch rune) rune {
	switch {
	case '0' <= ch && ch <= '9':
		return ch - '0'
	case 'a' <= ch && ch <= 'f':
		return ch - 'a' + 10
	case 'A' <= ch && ch <= 'F':
		return ch - 'A' + 10
	}
	return -1
}

// digitRun consumes a run of digits starting at i, allowing single
// underscores between digits. It reports the index after the run and
// whether at least one digit was consumed.
func digitRun(s string, i int, digit func(byte) bool) (int, bool) {
	start := i
	for i < len(s) {
		c := s[i]
		if digit(c) {
			i++
			continue
		}
		if c == '_' && i > start && i+1 < len(s) && digit(s[i+1]) {
			i++
			continue
		}
		break
	}
	return i, i > start
}

func isDecDigit(c byte) bool { return '0' <= c && c <= '9' }
func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
func isOctDigit(c byte) bool { return '0' <= c && c <= '7' }
func isBinDigit(c byte) bool { return c == '0' || c == '1' }

// ParseAsNumber validates whether a scanned literal conforms to PHP's
// numeric literal grammar and classifies it as INT or FLOAT.
//
// Integer forms: decimal (no leading zeros), hex 0x1A, octal 0432,
// binary 0b11, each with optional digit-group underscores.
// Float forms: 1.5, .5, 123., 10e2, 1.5e-3.
//
// Invalid examples: "--1", "1.2.3", "5e-", "0x", "089", "1__2".
func ParseAsNumber(s string) (token.Type, bool) {
	if s == "" {
		return token.ILLEGAL, false
	}
	i := 0
	if s[0] == '-' {
		i++
	}
	rest := s[i:]
	if rest == "" {
		return token.ILLEGAL, false
	}

	// Radix-prefixed integer forms.
	if len(rest) > 2 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') {
		if j, ok := digitRun(rest, 2, isHexDigit); ok && j == len(rest) {
			return token.INT, true
		}
		return token.ILLEGAL, false
	}
	if len(rest) > 2 && rest[0] == '0' && (rest[1] == 'b' || rest[1] == 'B') {
		if j, ok := digitRun(rest, 2, isBinDigit); ok && j == len(rest) {
			return token.INT, true
		}
		return token.ILLEGAL, false
	}

	j, intOK := digitRun(rest, 0, isDecDigit)
	intEnd := j
	isFloat := false
	if j < len(rest) && rest[j] == '.' {
		isFloat = true
		j++
		if j2, ok := digitRun(rest, j, isDecDigit); ok {
			j = j2
		} else if !intOK {
			return token.ILLEGAL, false // a bare '.'
		}
	}
	if !isFloat && !intOK {
		return token.ILLEGAL, false
	}
	if j < len(rest) && (rest[j] == 'e' || rest[j] == 'E') {
		isFloat = true
		j++
		if j < len(rest) && (rest[j] == '+' || rest[j] == '-') {
			j++
		}
		j2, ok := digitRun(rest, j, isDecDigit)
		if !ok {
			return token.ILLEGAL, false
		}
		j = j2
	}
	if j != len(rest) {
		return token.ILLEGAL, false
	}
	if isFloat {
		return token.FLOAT, true
	}

	// A decimal integer must not have leading zeros; "0432" is octal
	// and "089" is invalid.
	intPart := rest[:intEnd]
	if len(intPart) > 1 && intPart[0] == '0' {
		if j2, ok := digitRun(intPart, 1, isOctDigit); ok && j2 == len(intPart) {
			return token.INT, true
		}
		return token.ILLEGAL, false
	}
	return token.INT, true
}
