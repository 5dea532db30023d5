package phplit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KimNorgaard/go-phplit/internal/lexer"
	"github.com/KimNorgaard/go-phplit/internal/token"
)

// parser transforms a stream of tokens into a Value tree. Each parse is
// a fresh top-down descent; the parser holds no state across calls.
type parser struct {
	l        *lexer.Lexer
	maxDepth int

	curToken  token.Token
	peekToken token.Token
}

func newParser(l *lexer.Lexer, maxDepth int) *parser {
	p := &parser{l: l, maxDepth: maxDepth}
	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// parseDocument parses exactly one top-level value. Trailing semicolons
// are tolerated: PHP snippets are often pasted with the statement
// terminator attached.
func (p *parser) parseDocument() (*Value, error) {
	v, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == token.SEMICOLON {
		p.nextToken()
	}
	if p.curToken.Type != token.EOF {
		return nil, p.errorf(ErrUnexpectedToken, "unexpected token after top-level value: %s (%q)", p.curToken.Type, p.curToken.Literal)
	}
	return v, nil
}

func (p *parser) parseValue(depth int) (*Value, error) {
	if depth >= p.maxDepth {
		return nil, p.errorf(ErrMaxDepth, "reached max nesting depth %d", p.maxDepth)
	}
	switch p.curToken.Type {
	case token.TRUE, token.FALSE:
		v := BoolValue(p.curToken.Type == token.TRUE)
		p.nextToken()
		return v, nil
	case token.NULL:
		p.nextToken()
		return NullValue(), nil
	case token.INT:
		n, err := parseInt(p.curToken.Literal)
		if err != nil {
			return nil, p.errorf(ErrInvalidNumber, "could not parse %q as integer: %s", p.curToken.Literal, err)
		}
		p.nextToken()
		return IntValue(n), nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(strings.ReplaceAll(p.curToken.Literal, "_", ""), 64)
		if err != nil {
			return nil, p.errorf(ErrInvalidNumber, "could not parse %q as float: %s", p.curToken.Literal, err)
		}
		p.nextToken()
		return FloatValue(f), nil
	case token.STRING:
		v := StringValue(p.curToken.Literal)
		p.nextToken()
		return v, nil
	case token.LBRACK:
		p.nextToken() // consume '['
		return p.parseArray(token.RBRACK, depth)
	case token.ARRAY:
		if p.peekToken.Type != token.LPAREN {
			return nil, &ParseError{
				Kind:    ErrUnexpectedToken,
				Message: fmt.Sprintf("expected '(' after 'array', got %s", p.peekToken.Type),
				Line:    p.peekToken.Line,
				Column:  p.peekToken.Column,
			}
		}
		p.nextToken() // consume 'array'
		p.nextToken() // consume '('
		return p.parseArray(token.RPAREN, depth)
	case token.EOF:
		return nil, p.errorf(ErrUnexpectedEOF, "unexpected end of input, expected a value")
	case token.ILLEGAL:
		msg := p.curToken.Literal
		if utf8.RuneCountInString(msg) == 1 {
			msg = fmt.Sprintf("unexpected character %q", msg)
		}
		return nil, p.errorf(ErrUnexpectedChar, "%s", msg)
	case token.BADSTRING:
		return nil, p.errorf(ErrUnterminatedString, "%s", p.curToken.Literal)
	case token.BADESCAPE:
		return nil, p.errorf(ErrInvalidEscape, "%s", p.curToken.Literal)
	case token.IDENT:
		// An IDENT starting with a digit, '-' or '.' must be a malformed
		// number: a valid number would have been tokenized as INT or FLOAT.
		lit := p.curToken.Literal
		if lit != "" {
			c := lit[0]
			if (c >= '0' && c <= '9') || c == '-' || c == '.' {
				return nil, p.errorf(ErrInvalidNumber, "invalid number format: %s", lit)
			}
		}
		return nil, p.errorf(ErrUnexpectedToken, "unexpected identifier %q, expected a value", lit)
	default:
		return nil, p.errorf(ErrUnexpectedToken, "unexpected token %s (%q), expected a value", p.curToken.Type, p.curToken.Literal)
	}
}

// parseArray parses the pairs of an array literal after the opening
// bracket has been consumed. end is the closing token required by the
// syntax that opened the array: ']' for '[', ')' for 'array('.
func (p *parser) parseArray(end token.Type, depth int) (*Value, error) {
	arr := newArrayData()
	for {
		switch p.curToken.Type {
		case end:
			p.nextToken()
			return &Value{kind: KindArray, arr: arr}, nil
		case otherCloser(end):
			return nil, p.errorf(ErrMismatchedBracket, "mismatched closing bracket: expected %q, got %q", string(end), string(otherCloser(end)))
		case token.EOF:
			return nil, p.errorf(ErrUnexpectedEOF, "unterminated array literal, expected %q", string(end))
		}

		keyTok := p.curToken
		elem, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}

		if p.curToken.Type == token.ARROW {
			p.nextToken() // consume '=>'
			value, err := p.parseValue(depth + 1)
			if err != nil {
				return nil, err
			}
			key, ok := keyOf(elem)
			if !ok {
				return nil, &ParseError{
					Kind:    ErrInvalidArrayKey,
					Message: fmt.Sprintf("invalid array key of type %s, expected int or string", elem.Kind()),
					Line:    keyTok.Line,
					Column:  keyTok.Column,
				}
			}
			arr.set(key, value)
		} else {
			arr.push(elem)
		}

		switch p.curToken.Type {
		case token.COMMA:
			p.nextToken()
		case end:
			// The top of the loop closes the array.
		case otherCloser(end):
			return nil, p.errorf(ErrMismatchedBracket, "mismatched closing bracket: expected %q, got %q", string(end), string(otherCloser(end)))
		case token.EOF:
			return nil, p.errorf(ErrUnexpectedEOF, "unterminated array literal, expected %q", string(end))
		default:
			return nil, p.errorf(ErrUnexpectedToken, "expected ',' or %q, got %s (%q)", string(end), p.curToken.Type, p.curToken.Literal)
		}
	}
}

func otherCloser(end token.Type) token.Type {
	if end == token.RBRACK {
		return token.RPAREN
	}
	return token.RBRACK
}

func (p *parser) errorf(kind ErrKind, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    p.curToken.Line,
		Column:  p.curToken.Column,
	}
}

// parseInt converts a PHP integer literal to an int64. PHP accepts
// decimal, hex (0x), octal (leading zero), and binary (0b) forms, each
// with optional underscores between digits.
func parseInt(s string) (int64, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	radix := int64(10)
	switch {
	case len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X"):
		radix, s = 16, s[2:]
	case len(s) > 2 && (s[:2] == "0b" || s[:2] == "0B"):
		radix, s = 2, s[2:]
	case len(s) > 1 && s[0] == '0':
		radix, s = 8, s[1:]
	}
	var result int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			continue
		}
		d := digitVal(c)
		if d < 0 || d >= radix {
			return 0, fmt.Errorf("invalid digit %q", c)
		}
		if result > (math.MaxInt64-d)/radix {
			return 0, fmt.Errorf("value out of range")
		}
		result = result*radix + d
	}
	if neg {
		result = -result
	}
	return result, nil
}

func digitVal(c byte) int64 {
	switch {
	case '0' <= c && c <= '9':
		return int64(c - '0')
	case 'a' <= c && c <= 'f':
		return int64(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int64(c-'A') + 10
	}
	return -1
}
