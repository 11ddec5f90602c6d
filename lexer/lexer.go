package lexer

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/efu-lang/efugo/errors"
	"github.com/efu-lang/efugo/types"
)

type Lexer struct {
	pos    types.Position
	reader *bufio.Reader
	peeked *types.Token
}

func New(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

// NewFromString lexes an in-memory buffer; used for type-name strings
// and in tests.
func NewFromString(src string, filename string) *Lexer {
	return New(strings.NewReader(src), filename)
}

func (l *Lexer) Pos() types.Position {
	return l.pos
}

func (l *Lexer) newline() {
	l.pos.Line++
	l.pos.Column = 0
}

func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	l.pos.Column--
}

// peekByte looks one byte ahead without consuming. All of the
// language's multi-character lookahead is over ASCII, so a byte is
// enough. Returns 0 at EOF.
func (l *Lexer) peekByte() byte {
	byt, err := l.reader.Peek(1)
	if err != nil {
		if err == io.EOF {
			return 0
		}
		panic(err)
	}

	return byt[0]
}

func (l *Lexer) read() (rune, bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		panic(err)
	}

	l.pos.Column++
	return r, true
}

// Peek returns the upcoming token without consuming it.
func (l *Lexer) Peek() types.Token {
	if l.peeked != nil {
		return *l.peeked
	}

	tok := l.Next()
	l.peeked = &tok

	return tok
}

func (l *Lexer) PeekIs(k ...types.TokenKind) bool {
	token := l.Peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

func (l *Lexer) PeekIsSymbol(syms ...string) bool {
	token := l.Peek()
	for _, s := range syms {
		if token.IsSymbol(s) {
			return true
		}
	}

	return false
}

func (l *Lexer) PeekIsKeyword(kws ...types.KeywordKind) bool {
	token := l.Peek()
	for _, k := range kws {
		if token.IsKeyword(k) {
			return true
		}
	}

	return false
}

// Expect consumes the next token, panicking a typed error unless it is
// one of the wanted kinds.
func (l *Lexer) Expect(k ...types.TokenKind) types.Token {
	token := l.Next()
	for _, kind := range k {
		if token.Kind == kind {
			return token
		}
	}

	panic(errors.ExpectedOneOfKindGotKind{
		Expected: k,
		Got:      token,
		Location: token.Location,
	})
}

// ExpectSymbol consumes the next token, panicking unless it is one of
// the wanted symbols.
func (l *Lexer) ExpectSymbol(syms ...string) types.Token {
	token := l.Next()
	for _, s := range syms {
		if token.IsSymbol(s) {
			return token
		}
	}

	panic(errors.ExpectedSymbolGotToken{
		Expected: syms,
		Got:      token,
		Location: token.Location,
	})
}

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// twoCharSymbols are recognized greedily: when the first rune matches
// and the following byte completes one of these, both are consumed.
var twoCharSymbols = map[string]struct{}{
	"&&": {},
	"||": {},
	"==": {},
	"=>": {},
	"!=": {},
	">>": {},
	">=": {},
	"<<": {},
	"<=": {},
	"|>": {},
	"->": {},
}

// Next consumes and returns one token. Past end of input it keeps
// returning EOF.
func (l *Lexer) Next() types.Token {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok
	}

	for {
		r, ok := l.read()
		if !ok {
			return types.Token{Kind: types.EOF, Location: types.SingleCharSpan(l.pos)}
		}

		switch r {
		case '\n':
			l.newline()
			continue
		case ' ', '\t', '\r':
			continue
		}

		if r == '/' && l.peekByte() == '/' {
			l.skipLineComment()
			continue
		}

		from := l.pos

		switch {
		case r == '`':
			return l.lexString(from)
		case r == '-' && isDigit(rune(l.peekByte())):
			return l.lexInt(from, true)
		case isDigit(r):
			l.backup()
			return l.lexInt(from, false)
		case isIdentStart(r):
			l.backup()
			return l.lexIdent(from)
		}

		return l.lexSymbol(from, r)
	}
}

func (l *Lexer) skipLineComment() {
	for {
		r, ok := l.read()
		if !ok {
			return
		}
		if r == '\n' {
			l.newline()
			return
		}
	}
}

func (l *Lexer) lexSymbol(from types.Position, r rune) types.Token {
	sym := string(r)
	if next := l.peekByte(); next != 0 {
		if _, ok := twoCharSymbols[sym+string(rune(next))]; ok {
			l.read()
			sym += string(rune(next))
		}
	}

	return types.Token{
		Kind:     types.SYMBOL,
		Text:     sym,
		Location: types.Span{From: from, To: l.pos},
	}
}

func (l *Lexer) lexInt(from types.Position, negative bool) types.Token {
	var digits strings.Builder
	for {
		r, ok := l.read()
		if !ok {
			break
		}
		if !isDigit(r) {
			l.backup()
			break
		}
		digits.WriteRune(r)
	}

	value, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		panic(err)
	}
	if negative {
		value = -value
	}

	return types.Token{
		Kind:     types.INT,
		Int:      value,
		Location: types.Span{From: from, To: l.pos},
	}
}

func (l *Lexer) lexIdent(from types.Position) types.Token {
	var word strings.Builder
	for {
		r, ok := l.read()
		if !ok {
			break
		}
		if !isIdentPart(r) {
			l.backup()
			break
		}
		word.WriteRune(r)
	}

	lit := word.String()
	if kind, ok := types.Keywords[lit]; ok {
		return types.Token{
			Kind:     types.KEYWORD,
			Keyword:  kind,
			Text:     lit,
			Location: types.Span{From: from, To: l.pos},
		}
	}

	return types.Token{
		Kind:     types.IDENT,
		Text:     lit,
		Location: types.Span{From: from, To: l.pos},
	}
}

// lexString is entered after the opening backtick. Strings close with a
// single quote; an unterminated string reads to EOF and is tolerated.
func (l *Lexer) lexString(from types.Position) types.Token {
	var lit strings.Builder
	for {
		r, ok := l.read()
		if !ok {
			break
		}

		if r == '\'' {
			break
		}

		if r == '\n' {
			l.newline()
			lit.WriteRune(r)
			continue
		}

		if r == '\\' {
			esc, ok := l.read()
			if !ok {
				break
			}
			switch esc {
			case 'n':
				lit.WriteRune('\n')
			case 'r':
				lit.WriteRune('\r')
			case 't':
				lit.WriteRune('\t')
			default:
				lit.WriteRune(esc)
			}
			continue
		}

		lit.WriteRune(r)
	}

	return types.Token{
		Kind:     types.STRING,
		Text:     lit.String(),
		Location: types.Span{From: from, To: l.pos},
	}
}
