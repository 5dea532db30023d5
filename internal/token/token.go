package token

import "strings"

// Type is the type of a token.
type Type string

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string
	Line    int
	Column  int
}

const (
	// Special tokens. For the error tokens the Literal carries a
	// human-readable message rather than source text.
	ILLEGAL   Type = "ILLEGAL"   // An unknown or invalid character
	BADSTRING Type = "BADSTRING" // An unterminated string literal
	BADESCAPE Type = "BADESCAPE" // An invalid escape sequence
	EOF       Type = "EOF"       // End of input

	// Literals
	IDENT  Type = "IDENT"  // an unrecognized word or malformed number
	INT    Type = "INT"    // 12345, 0x1A, 0432, 0b11
	FLOAT  Type = "FLOAT"  // 123.45, .5, 10e2
	STRING Type = "STRING" // 'hello' or "hello\n"

	// Delimiters
	LBRACK    Type = "["
	RBRACK    Type = "]"
	LPAREN    Type = "("
	RPAREN    Type = ")"
	COMMA     Type = ","
	SEMICOLON Type = ";"
	ARROW     Type = "=>"

	// Keywords
	ARRAY Type = "ARRAY"
	TRUE  Type = "TRUE"
	FALSE Type = "FALSE"
	NULL  Type = "NULL"
)

var keywords = map[string]Type{
	"array": ARRAY,
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
}

// LookupIdent checks the keywords table for an identifier. PHP keywords
// are case-insensitive, so True, FALSE and Array resolve to keywords too.
// Anything else is an IDENT.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return IDENT
}
