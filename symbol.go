package core

// Canon is the process-wide interned-identifier table. Equal spelling
// bytes always resolve to the same *Symbol, so word comparison reduces
// to pointer comparison - spec.md §4.6 and the testable property "for
// every Symbol in the canon table, interning a fresh UTF-8 buffer with
// the same byte content returns the same Stub pointer" (spec.md §8).
type Canon struct {
	pool    *Pool
	symbols map[string]*Symbol
}

func NewCanon(pool *Pool) *Canon {
	return &Canon{pool: pool, symbols: make(map[string]*Symbol)}
}

// Intern returns the canonical Symbol for name, allocating and
// managing a new one on first sight. Symbols are process-wide and
// survive until interpreter shutdown (spec.md §3 "Lifecycles"), so
// they are managed immediately rather than going through the ordinary
// guard/root dance other Stubs need.
func (c *Canon) Intern(name string) *Symbol {
	if sym, ok := c.symbols[name]; ok {
		return sym
	}
	stub := c.pool.MakeStub(FlavorSymbol)
	stub.bytes = []byte(name)
	stub.manage()
	sym := &Symbol{Stub: *stub, Name: name}
	// The symbol's own Stub must be the one tracked by the pool for GC
	// purposes; re-point the pool's unit at the Symbol's embedded Stub.
	stub.pool.units[stub.poolIndex] = &sym.Stub
	sym.Stub.pool = stub.pool
	sym.Stub.poolIndex = stub.poolIndex
	c.symbols[name] = sym
	return sym
}

// All returns every interned symbol - the GC root listed in spec.md
// §4.2 item 6 ("Symbol canon table").
func (c *Canon) All() []*Symbol {
	out := make([]*Symbol, 0, len(c.symbols))
	for _, s := range c.symbols {
		out = append(out, s)
	}
	return out
}

func (s *Symbol) String() string { return s.Name }

// SameSymbol compares two word spellings by identity, as required by
// spec.md §8's canon-group invariant.
func SameSymbol(a, b *Symbol) bool { return a == b }
