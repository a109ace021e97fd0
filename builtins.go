package core

import "fmt"

// registerBuiltinNatives installs the small arithmetic/logic core that
// every example and test in this package exercises - grounded on the
// same idea as the teacher's built-in opcode table (vm_instructions.go
// dispatched a fixed set of byte opcodes to Go functions), reworked
// here into ordinary native Actions registered into Globals rather
// than VM opcodes.
func registerBuiltinNatives(in *Interpreter) {
	num := TypesetOf(HeartInteger, HeartDecimal)

	value1 := ParamDesc{Name: in.Sym("value1"), Class: ParamNormal, Types: num}
	value2 := ParamDesc{Name: in.Sym("value2"), Class: ParamNormal, Types: num}
	value := ParamDesc{Name: in.Sym("value"), Class: ParamNormal, Types: num}

	in.DefineGlobal("add", in.RegisterNative("add", []ParamDesc{value1, value2}, arith(func(a, b float64) float64 { return a + b })))
	in.DefineGlobal("subtract", in.RegisterNative("subtract", []ParamDesc{value1, value2}, arith(func(a, b float64) float64 { return a - b })))
	in.DefineGlobal("multiply", in.RegisterNative("multiply", []ParamDesc{value1, value2}, arith(func(a, b float64) float64 { return a * b })))
	in.DefineGlobal("divide", in.RegisterNative("divide", []ParamDesc{value1, value2}, func(in *Interpreter, args *Stub) (Cell, error) {
		a, b := numOf(args.At(1)), numOf(args.At(2))
		if b == 0 {
			return Cell{}, &AbruptFailure{Message: "divide by zero"}
		}
		return wrapNum(args.At(1), args.At(2), a/b), nil
	}))


	in.DefineGlobal("negate", in.RegisterNative("negate", []ParamDesc{value}, func(in *Interpreter, args *Stub) (Cell, error) {
		v := args.At(1)
		if v.Heart() == HeartDecimal {
			return Decimal(-v.AsDecimal()), nil
		}
		return Integer(-v.AsInteger()), nil
	}))

	boolParams := []ParamDesc{value1, value2}
	in.DefineGlobal("equal?", in.RegisterNative("equal?", boolParams, func(in *Interpreter, args *Stub) (Cell, error) {
		return Logic(numOf(args.At(1)) == numOf(args.At(2))), nil
	}))
	in.DefineGlobal("lesser?", in.RegisterNative("lesser?", boolParams, func(in *Interpreter, args *Stub) (Cell, error) {
		return Logic(numOf(args.At(1)) < numOf(args.At(2))), nil
	}))
	in.DefineGlobal("greater?", in.RegisterNative("greater?", boolParams, func(in *Interpreter, args *Stub) (Cell, error) {
		return Logic(numOf(args.At(1)) > numOf(args.At(2))), nil
	}))

	notParam := ParamDesc{Name: in.Sym("value"), Class: ParamNormal, AcceptsNull: true, Types: AnyTypeset}
	in.DefineGlobal("not", in.RegisterNative("not", []ParamDesc{notParam}, func(in *Interpreter, args *Stub) (Cell, error) {
		return Logic(!args.At(1).IsTruthy()), nil
	}))
}

func numOf(c Cell) float64 {
	if c.Heart() == HeartDecimal {
		return c.AsDecimal()
	}
	return float64(c.AsInteger())
}

func wrapNum(a, b Cell, result float64) Cell {
	if a.Heart() == HeartDecimal || b.Heart() == HeartDecimal {
		return Decimal(result)
	}
	return Integer(int64(result))
}

func arith(op func(a, b float64) float64) NativeFunc {
	return func(in *Interpreter, args *Stub) (Cell, error) {
		a, b := args.At(1), args.At(2)
		r := op(numOf(a), numOf(b))
		if a.Heart() == HeartDecimal || b.Heart() == HeartDecimal {
			return Decimal(r), nil
		}
		if r != float64(int64(r)) {
			return Cell{}, &AbruptFailure{Message: fmt.Sprintf("integer arithmetic overflowed to %v", r)}
		}
		return Integer(int64(r)), nil
	}
}
