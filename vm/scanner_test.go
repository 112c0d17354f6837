package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scanAll(src string) []Token {
	s := NewScanner(src)
	var toks []Token
	for {
		tk := s.ScanToken()
		toks = append(toks, tk)
		if tk.Type == TEOF {
			return toks
		}
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll("(){},.-+;/* ! != = == < <= > >=")
	types := make([]TokenType, len(toks))
	for i, tk := range toks {
		types[i] = tk.Type
	}
	assert.Equal(t, []TokenType{
		TLParen, TRParen, TLBrace, TRBrace, TComma, TDot, TMinus, TPlus, TSemi,
		TSlash, TStar, TBang, TBangEqual, TEqual, TEqualEqual, TLess, TLessEqual,
		TGreater, TGreaterEqual, TEOF,
	}, types)
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	toks := scanAll("and break class continue else false for fun if nil or print return super this true var while classy")
	for _, tk := range toks[:len(toks)-2] {
		assert.NotEqual(t, TIdent, tk.Type, "lexeme %q should scan as a keyword", tk.String())
	}
	assert.Equal(t, TIdent, toks[len(toks)-2].Type) // "classy" isn't "class".
}

func TestScanStringLiteral(t *testing.T) {
	toks := scanAll(`"hello world"`)
	assert.Equal(t, TStr, toks[0].Type)
	assert.Equal(t, `"hello world"`, toks[0].String())
}

func TestScanStringLiteralWithEmbeddedNewline(t *testing.T) {
	toks := scanAll("\"line one\nline two\" 1")
	assert.Equal(t, TStr, toks[0].Type)
	assert.Equal(t, "\"line one\nline two\"", toks[0].String())
	// The scan must make forward progress past the embedded newline and
	// reach the token after the string, not hang re-peeking '\n' forever.
	assert.Equal(t, TNum, toks[1].Type)
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanUnterminatedStringIsErrorToken(t *testing.T) {
	toks := scanAll(`"oops`)
	assert.Equal(t, TErr, toks[0].Type)
	assert.Equal(t, "unterminated string", toks[0].String())
}

func TestScanNumberWithFraction(t *testing.T) {
	toks := scanAll("3.14 42")
	assert.Equal(t, TNum, toks[0].Type)
	assert.Equal(t, "3.14", toks[0].String())
	assert.Equal(t, TNum, toks[1].Type)
	assert.Equal(t, "42", toks[1].String())
}

func TestScanSkipsCommentsAndTracksLines(t *testing.T) {
	toks := scanAll("1 // a comment\n2")
	assert.Equal(t, TNum, toks[0].Type)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, TNum, toks[1].Type)
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanUnexpectedCharacterIsErrorToken(t *testing.T) {
	toks := scanAll("@")
	assert.Equal(t, TErr, toks[0].Type)
	assert.Equal(t, "unexpected character", toks[0].String())
}

func TestTokenEq(t *testing.T) {
	a := Token{Type: TIdent, Runes: []rune("foo")}
	b := Token{Type: TIdent, Runes: []rune("foo")}
	c := Token{Type: TIdent, Runes: []rune("bar")}
	assert.True(t, a.Eq(b))
	assert.False(t, a.Eq(c))
}
