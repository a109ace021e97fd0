package core

import (
	"fmt"
	"math"
)

// Heart is the fundamental datatype tag of a Cell, independent of its
// Lift state. It is stored as a single byte in the real implementation
// this package is modeled after; here it is its own type so switches
// over it are exhaustive-checkable by vet/staticcheck.
type Heart uint8

const (
	HeartTrash Heart = iota
	HeartNull
	HeartLogic
	HeartInteger
	HeartDecimal
	HeartChar
	HeartText
	HeartBinary
	HeartWord
	HeartGetWord
	HeartSetWord
	HeartSource // block: an ordered array of Cells
	HeartGroup
	HeartPath
	HeartGetPath // non-evaluating path fetch, the path analogue of GetWord
	HeartSetPath // path assignment target, the path analogue of SetWord
	HeartPair
	HeartTypeset
	HeartObject
	HeartFrame
	HeartModule
	HeartError
	HeartPort
	HeartAction
	HeartHandle
)

var heartNames = map[Heart]string{
	HeartTrash:   "trash",
	HeartNull:    "null",
	HeartLogic:   "logic",
	HeartInteger: "integer",
	HeartDecimal: "decimal",
	HeartChar:    "char",
	HeartText:    "text",
	HeartBinary:  "binary",
	HeartWord:    "word",
	HeartGetWord: "get-word",
	HeartSetWord: "set-word",
	HeartSource:  "block",
	HeartGroup:   "group",
	HeartPath:    "path",
	HeartGetPath: "get-path",
	HeartSetPath: "set-path",
	HeartPair:    "pair",
	HeartTypeset: "typeset",
	HeartObject:  "object",
	HeartFrame:   "frame",
	HeartModule:  "module",
	HeartError:   "error",
	HeartPort:    "port",
	HeartAction:  "action",
	HeartHandle:  "handle",
}

func (h Heart) String() string {
	if n, ok := heartNames[h]; ok {
		return n
	}
	return fmt.Sprintf("heart(%d)", uint8(h))
}

// Lift is the quote/quasi/anti transformation applied on top of a
// Cell's fundamental heart. See spec.md §3.
type Lift uint8

const (
	LiftFundamental Lift = iota
	LiftQuasi
	LiftAnti
)

func (l Lift) String() string {
	switch l {
	case LiftFundamental:
		return "fundamental"
	case LiftQuasi:
		return "quasi"
	case LiftAnti:
		return "anti"
	default:
		return "lift(?)"
	}
}

// CellFlags are the flag bits carried in a Cell's header word.
type CellFlags uint16

const (
	CellFlagNewlineBefore CellFlags = 1 << iota
	CellFlagProtected
	CellFlagStackHeld // transient value pushed to the data stack
)

// Cell is the uniform value representation: a header (heart, lift,
// flags) plus a fixed payload. The real engine packs this into four
// machine words; we emulate that footprint with one integer-ish word,
// one pointer-to-Stub word and one pointer-to-Symbol word, so that the
// *shape* of "three payload words whose meaning depends on heart"
// survives even though Go can't express an untagged union directly.
//
// All collection slots and variable slots hold Cells by value, never
// by pointer-to-Cell - that is the whole point of a uniform
// representation. Copying a Cell is always a plain struct copy.
type Cell struct {
	heart Heart
	lift  Lift
	flags CellFlags

	word  uint64  // integer / decimal-bits / char codepoint / logic
	stub  *Stub   // Source/Varlist/Paramlist/Details/Binary/String backing, or a word's binding
	extra *Symbol // word spelling, action label, error id
}

// Trash is the cheapest possible Cell: an uninitialized placeholder
// that must never be observed by ordinary evaluation. Scratch and
// spare Level slots default to it between ticks.
func Trash() Cell { return Cell{heart: HeartTrash} }

func (c Cell) IsTrash() bool { return c.heart == HeartTrash }

func Null() Cell { return Cell{heart: HeartNull, lift: LiftAnti} }

func (c Cell) IsNull() bool { return c.heart == HeartNull }

func Logic(b bool) Cell {
	w := uint64(0)
	if b {
		w = 1
	}
	return Cell{heart: HeartLogic, lift: LiftAnti, word: w}
}

func (c Cell) IsTruthy() bool {
	return !(c.heart == HeartNull || (c.heart == HeartLogic && c.word == 0))
}

func Integer(i int64) Cell {
	return Cell{heart: HeartInteger, word: uint64(i)}
}

func (c Cell) AsInteger() int64 {
	mustHeart(c, HeartInteger)
	return int64(c.word)
}

func Decimal(f float64) Cell {
	return Cell{heart: HeartDecimal, word: math.Float64bits(f)}
}

func (c Cell) AsDecimal() float64 {
	mustHeart(c, HeartDecimal)
	return math.Float64frombits(c.word)
}

func Char(r rune) Cell {
	return Cell{heart: HeartChar, word: uint64(r)}
}

func (c Cell) AsChar() rune {
	mustHeart(c, HeartChar)
	return rune(c.word)
}

// Word makes a word Cell bound to an (initially unbound) context. Use
// BindWord to attach a binding afterwards.
func Word(sym *Symbol) Cell {
	return Cell{heart: HeartWord, extra: sym}
}

// SetWord and GetWord build the two sigil variants of a word Cell -
// exported so embedder-side readers (outside this package) can
// construct them without reaching into unexported fields.
func SetWord(sym *Symbol) Cell {
	return Cell{heart: HeartSetWord, extra: sym}
}

func GetWord(sym *Symbol) Cell {
	return Cell{heart: HeartGetWord, extra: sym}
}

func (c Cell) WordSymbol() *Symbol {
	mustAnyHeart(c, HeartWord, HeartGetWord, HeartSetWord)
	return c.extra
}

// Binding returns the Stub (Varlist or Use) a word cell resolves
// through, or nil if unbound.
func (c Cell) Binding() *Stub {
	mustAnyHeart(c, HeartWord, HeartGetWord, HeartSetWord)
	return c.stub
}

// BindWord returns a copy of a word cell carrying a new binding.
// Binding is virtual: the spelling Symbol is untouched, only the
// carried context changes - see spec.md §4.6.
func (c Cell) BindWord(ctx *Stub) Cell {
	mustAnyHeart(c, HeartWord, HeartGetWord, HeartSetWord)
	c.stub = ctx
	return c
}

// SourceCell makes a block Cell: an ordered array of Cells backed by a
// Source-flavored Stub.
func SourceCell(s *Stub) Cell {
	if s.Flavor != FlavorSource {
		panic("SourceCell: stub is not flavor Source")
	}
	return Cell{heart: HeartSource, stub: s}
}

// GroupCell wraps a Source-flavored Stub as a Group cell (parenthesized
// source, evaluated to a single value at the point it is encountered
// rather than left as data) - the same backing Stub shape as a block,
// distinguished only by Heart.
func GroupCell(s *Stub) Cell {
	if s.Flavor != FlavorSource {
		panic("GroupCell: stub is not flavor Source")
	}
	return Cell{heart: HeartGroup, stub: s}
}

// PathCell wraps a Source-flavored Stub as a dotted/slashed access path
// - spec.md §4.5's "sequence of steps". Its first element is the
// location root, every following element a picker.
func PathCell(s *Stub) Cell {
	if s.Flavor != FlavorSource {
		panic("PathCell: stub is not flavor Source")
	}
	return Cell{heart: HeartPath, stub: s}
}

// GetPathCell and SetPathCell share PathCell's backing array shape,
// distinguished only by Heart - the path analogues of GetWord/SetWord.
// A get-path fetches without ever invoking an action found at the final
// step; a set-path names the location a statement pokes into.
func GetPathCell(s *Stub) Cell {
	if s.Flavor != FlavorSource {
		panic("GetPathCell: stub is not flavor Source")
	}
	return Cell{heart: HeartGetPath, stub: s}
}

func SetPathCell(s *Stub) Cell {
	if s.Flavor != FlavorSource {
		panic("SetPathCell: stub is not flavor Source")
	}
	return Cell{heart: HeartSetPath, stub: s}
}

func (c Cell) Array() *Stub {
	mustAnyHeart(c, HeartSource, HeartGroup, HeartPath, HeartGetPath, HeartSetPath)
	return c.stub
}

// ObjectCell wraps a Varlist Stub as an object-heart Cell (the
// Varlist's own archetype cell).
func ObjectCell(heart Heart, v *Stub) Cell {
	if v.Flavor != FlavorVarlist {
		panic("ObjectCell: stub is not flavor Varlist")
	}
	return Cell{heart: heart, stub: v}
}

func (c Cell) Varlist() *Stub {
	mustAnyHeart(c, HeartObject, HeartFrame, HeartModule, HeartError, HeartPort)
	return c.stub
}

// ActionCell builds an Action cell out of a Details stub. The Details
// stub's Link slot holds the owning Paramlist (see stub.go).
func ActionCell(details *Stub, label *Symbol) Cell {
	if details.Flavor != FlavorDetails {
		panic("ActionCell: stub is not flavor Details")
	}
	return Cell{heart: HeartAction, lift: LiftAnti, stub: details, extra: label}
}

func (c Cell) Details() *Stub {
	mustHeart(c, HeartAction)
	return c.stub
}

func (c Cell) Paramlist() *Stub {
	mustHeart(c, HeartAction)
	return c.stub.Link
}

func (c Cell) ActionLabel() *Symbol { return c.extra }

// Text/Binary cells back onto a String/Binary-flavored Stub holding
// the bytes.
func TextCell(s *Stub) Cell {
	if s.Flavor != FlavorString {
		panic("TextCell: stub is not flavor String")
	}
	return Cell{heart: HeartText, stub: s}
}

func BinaryCell(s *Stub) Cell {
	if s.Flavor != FlavorBinary {
		panic("BinaryCell: stub is not flavor Binary")
	}
	return Cell{heart: HeartBinary, stub: s}
}

func (c Cell) Bytes() []byte {
	mustAnyHeart(c, HeartText, HeartBinary)
	return c.stub.bytes
}

// ErrorCell lifts a definitional error (an antiform ERROR!) so it can
// travel as an ordinary Go value until something `try`s or re-raises
// it. See spec.md §7.
func ErrorCell(v *Stub) Cell {
	c := ObjectCell(HeartError, v)
	c.lift = LiftAnti
	return c
}

func (c Cell) IsErrorAntiform() bool {
	return c.heart == HeartError && c.lift == LiftAnti
}

// --- Lifting state ---

func (c Cell) Heart() Heart { return c.heart }
func (c Cell) Lift() Lift   { return c.lift }
func (c Cell) Flags() CellFlags { return c.flags }

func (c Cell) WithFlag(f CellFlags) Cell {
	c.flags |= f
	return c
}

func (c Cell) HasFlag(f CellFlags) bool { return c.flags&f != 0 }

// IsAntiform reports whether a cell is in the forbidden-in-arrays
// isotopic state. Invariant I-3 (spec.md §8): no Cell stored inside a
// Source array may have lift == LiftAnti.
func (c Cell) IsAntiform() bool { return c.lift == LiftAnti }

// Quasi produces the two-sided-tilde visible form of an antiform, the
// only form in which an antiform may be written into an array slot.
func (c Cell) Quasi() Cell {
	if c.lift != LiftAnti {
		panic("Quasi: cell is not an antiform")
	}
	c.lift = LiftQuasi
	return c
}

// Anti reconstitutes the antiform from its quasi visible form. This is
// the inverse of Quasi and is what `reify`/`degrade` do at slot
// boundaries (spec.md's "lifting" transform).
func (c Cell) Anti() Cell {
	if c.lift != LiftQuasi {
		panic("Anti: cell is not a quasiform")
	}
	c.lift = LiftAnti
	return c
}

// LiftDual and UnliftDual implement the generic `lift`/`unlift` pair from
// spec.md §8's round-trip property: unlift(lift(x)) == x for any
// fundamental x. Lifting an antiform, or a fundamental value that
// "would need" to be an antiform in variable position (logic, null,
// action, error, trash), produces its quasiform; otherwise the value
// is returned untouched (already safely fundamental).
func LiftDual(c Cell) Cell {
	switch c.heart {
	case HeartNull, HeartLogic, HeartAction, HeartError, HeartTrash:
		if c.lift != LiftQuasi {
			c.lift = LiftQuasi
		}
		return c
	default:
		return c
	}
}

func UnliftDual(c Cell) Cell {
	if c.lift == LiftQuasi {
		switch c.heart {
		case HeartNull, HeartLogic, HeartAction, HeartError, HeartTrash:
			c.lift = LiftAnti
		}
	}
	return c
}

func mustHeart(c Cell, h Heart) {
	if c.heart != h {
		panic(fmt.Sprintf("cell heart mismatch: want %s, got %s", h, c.heart))
	}
}

func mustAnyHeart(c Cell, hs ...Heart) {
	for _, h := range hs {
		if c.heart == h {
			return
		}
	}
	panic(fmt.Sprintf("cell heart %s not among %v", c.heart, hs))
}
