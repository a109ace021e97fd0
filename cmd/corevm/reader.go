package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	core "github.com/emberlang/evalcore"
)

// reader is a minimal embedder-side scanner for the engine's surface
// syntax: words, set-words, get-words, integers, decimals, strings and
// bracketed blocks/groups. It lives outside the core package entirely
// - spec.md places the lexer/molder out of scope for the engine itself
// (§1 "Out of scope"), treating text-to-Cell translation as one of the
// narrow external collaborators that call into the core through
// alloc/read/write primitives, exactly the role this file plays.
type reader struct {
	in   *core.Interpreter
	src  []rune
	pos  int
}

func newReader(in *core.Interpreter, text string) *reader {
	return &reader{in: in, src: []rune(text)}
}

// ReadAll scans text to its end and returns the top-level cells as a
// Source block.
func (r *reader) ReadAll() (core.Cell, error) {
	cells, err := r.readUntil(0)
	if err != nil {
		return core.Cell{}, err
	}
	return r.in.MakeSource(cells...), nil
}

func (r *reader) readUntil(close rune) ([]core.Cell, error) {
	var out []core.Cell
	for {
		r.skipSpace()
		if r.atEnd() {
			if close != 0 {
				return nil, fmt.Errorf("unexpected end of input, wanted %q", close)
			}
			return out, nil
		}
		if r.peek() == close {
			r.pos++
			return out, nil
		}
		cell, err := r.readOne()
		if err != nil {
			return nil, err
		}
		out = append(out, cell)
	}
}

func (r *reader) readOne() (core.Cell, error) {
	ch := r.peek()
	switch {
	case ch == '[':
		r.pos++
		cells, err := r.readUntil(']')
		if err != nil {
			return core.Cell{}, err
		}
		return r.in.MakeSource(cells...), nil

	case ch == '(':
		r.pos++
		cells, err := r.readUntil(')')
		if err != nil {
			return core.Cell{}, err
		}
		block := r.in.MakeSource(cells...)
		return core.GroupCell(block.Array()), nil

	case ch == '"':
		return r.readString()

	case unicode.IsDigit(ch) || (ch == '-' && r.pos+1 < len(r.src) && unicode.IsDigit(r.src[r.pos+1])):
		return r.readNumber()

	default:
		return r.readWord()
	}
}

func (r *reader) readString() (core.Cell, error) {
	r.pos++ // opening quote
	var sb strings.Builder
	for {
		if r.atEnd() {
			return core.Cell{}, fmt.Errorf("unterminated string")
		}
		ch := r.src[r.pos]
		r.pos++
		if ch == '"' {
			return r.in.MakeText(sb.String()), nil
		}
		sb.WriteRune(ch)
	}
}

func (r *reader) readNumber() (core.Cell, error) {
	start := r.pos
	if r.peek() == '-' {
		r.pos++
	}
	isDecimal := false
	for !r.atEnd() && (unicode.IsDigit(r.peek()) || r.peek() == '.') {
		if r.peek() == '.' {
			isDecimal = true
		}
		r.pos++
	}
	text := string(r.src[start:r.pos])
	if isDecimal {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return core.Cell{}, err
		}
		return core.Decimal(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return core.Cell{}, err
	}
	return core.Integer(i), nil
}

func (r *reader) readWord() (core.Cell, error) {
	start := r.pos
	for !r.atEnd() && !unicode.IsSpace(r.peek()) && !strings.ContainsRune("[]()\"", r.peek()) {
		r.pos++
	}
	text := string(r.src[start:r.pos])
	if text == "" {
		return core.Cell{}, fmt.Errorf("unreadable input at position %d", r.pos)
	}

	if strings.HasSuffix(text, ":") && len(text) > 1 {
		body := strings.TrimSuffix(text, ":")
		if strings.Contains(body, ".") {
			return r.readPath(body, core.SetPathCell)
		}
		return core.SetWord(r.in.Sym(body)), nil
	}
	if (strings.HasPrefix(text, ":") || strings.HasPrefix(text, "$")) && len(text) > 1 {
		body := text[1:]
		if strings.Contains(body, ".") {
			return r.readPath(body, core.GetPathCell)
		}
		return core.GetWord(r.in.Sym(body)), nil
	}
	if strings.Contains(text, ".") {
		return r.readPath(text, core.PathCell)
	}
	sym := r.in.Sym(text)
	return core.Word(sym), nil
}

// readPath turns a dotted token into a path-shaped cell over plain-word
// steps - the surface syntax for the generalized get/set location
// argument (obj.member.sub). wrap picks the Heart: a bare `obj.a.b` is
// a Path (evaluation fetches it and calls an action found there), `:obj.a.b`/`$obj.a.b` a non-evaluating
// GetPath, and `obj.a.b:` a SetPath assignment target. Every step here
// is a bare word; groups and refinements mid-path have no reader syntax
// yet, matching the restriction CompileSteps already enforces.
func (r *reader) readPath(text string, wrap func(*core.Stub) core.Cell) (core.Cell, error) {
	parts := strings.Split(text, ".")
	cells := make([]core.Cell, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return core.Cell{}, fmt.Errorf("empty path step in %q", text)
		}
		cells = append(cells, core.Word(r.in.Sym(part)))
	}
	block := r.in.MakeSource(cells...)
	return wrap(block.Array()), nil
}

func (r *reader) skipSpace() {
	for !r.atEnd() && unicode.IsSpace(r.peek()) {
		r.pos++
	}
}

func (r *reader) peek() rune {
	if r.atEnd() {
		return 0
	}
	return r.src[r.pos]
}

func (r *reader) atEnd() bool { return r.pos >= len(r.src) }
