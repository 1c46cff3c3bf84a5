// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"unicode"
	"unicode/utf8"
)

// Token types.
//
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Word
	Dot
	Comma
	Equal
)

func (t Type) String() string {
	switch t {
	case EOF:
		return "end of input"
	case Word:
		return "name"
	case Dot:
		return "'.'"
	case Comma:
		return "','"
	case Equal:
		return "'='"
	}
	return "character"
}

// Item is a lexed token. Pos is the byte offset of the token in the input.
//
type Item struct {
	Type  Type
	Pos   int
	Value string
}

func (i Item) String() string {
	if i.Type == Word || i.Type == Raw {
		return i.Type.String() + " " + "\"" + i.Value + "\""
	}
	return i.Type.String()
}

type stateFn func(l *lexer) stateFn

type lexer struct {
	input string
	pos   int
	start int
	items []Item
	state stateFn
}

func newLexer(input string) *lexer {
	return &lexer{input: input, state: lexInit}
}

// Lex returns the next token.
//
func (l *lexer) Lex() Item {
	for len(l.items) == 0 {
		l.state = l.state(l)
	}
	i := l.items[0]
	l.items = l.items[1:]
	return i
}

const eof = -1

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, sz := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += sz
	return r
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *lexer) emit(t Type) {
	l.items = append(l.items, Item{Type: t, Pos: l.start, Value: l.input[l.start:l.pos]})
	l.start = l.pos
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func lexInit(l *lexer) stateFn {
	l.start = l.pos
	r := l.next()
	switch {
	case r == eof:
		return lexEOF
	case unicode.IsSpace(r):
		for unicode.IsSpace(l.peek()) {
			l.next()
		}
		l.start = l.pos
	case isWord(r):
		return lexWord
	case r == '.':
		l.emit(Dot)
	case r == ',':
		l.emit(Comma)
	case r == '=':
		l.emit(Equal)
	default:
		l.emit(Raw)
		return lexEOF
	}
	return lexInit
}

func lexWord(l *lexer) stateFn {
	for isWord(l.peek()) {
		l.next()
	}
	l.emit(Word)
	return lexInit
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *lexer) stateFn {
	l.start = len(l.input)
	l.pos = l.start
	l.emit(EOF)
	return lexEOF
}
