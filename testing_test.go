package core

// Shared helpers for this package's tests - one evaluation entry point
// every _test.go file in this package builds programs around, mirroring
// the teacher's own single `run` helper in vm_test.go.

// runBlock evaluates cells as a top-level program bound to in's
// Globals, returning the last statement's value.
func runBlock(in *Interpreter, cells ...Cell) (Cell, error) {
	block := in.MakeSource(cells...)
	lvl := in.PushLevel(NewFeed(block.Array()), EvaluatorExecutor, in.Globals)
	return in.Run(lvl)
}

// call builds a word-cell call `name arg1 arg2 ...` as a statement list
// ready to hand to runBlock.
func call(in *Interpreter, name string, args ...Cell) []Cell {
	out := make([]Cell, 0, len(args)+1)
	out = append(out, Word(in.Sym(name)))
	out = append(out, args...)
	return out
}
