package smt

import (
	"fmt"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
)

// Function is an uninterpreted function dom1,dom2,... -> rng. Relations
// are functions into bool, clocks are functions into int.
type Function struct {
	raw yices2.TermT
}

func NewFunction(name string, domain []yices2.TypeT, rng yices2.TypeT) *Function {
	funcType := yices2.FunctionType(domain, rng)
	f := &Function{
		raw: yices2.NewUninterpretedTerm(funcType),
	}
	errcode := yices2.SetTermName(f.raw, name)
	if errcode < 0 {
		fmt.Println("set term name ", errcode)
	}
	return f
}

// NewRelation declares an uninterpreted binary relation over dom.
func NewRelation(name string, dom yices2.TypeT) *Function {
	return NewFunction(name, []yices2.TypeT{dom, dom}, yices2.BoolType())
}

// NewClock declares an uninterpreted integer-valued function over dom.
func NewClock(name string, dom yices2.TypeT) *Function {
	return NewFunction(name, []yices2.TypeT{dom}, yices2.IntType())
}

func (f *Function) Apply(args ...yices2.TermT) yices2.TermT {
	return yices2.Application(f.raw, args)
}
