package smt

import (
	"testing"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SolverPushPop(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	solver := NewSolver()
	events := yices2.NewScalarType(2)
	a := yices2.Constant(events, 0)
	b := yices2.Constant(events, 1)
	rel := NewRelation("edge", events)

	err := solver.Assert(rel.Apply(a, b))
	assert.Nil(t, err)
	status, model, err := solver.Check()
	require.Nil(t, err)
	require.Equal(t, yices2.StatusSat, status)
	holds, err := TermHolds(model, rel.Apply(a, b))
	assert.Nil(t, err)
	assert.True(t, holds)
	yices2.CloseModel(model)

	// Contradiction inside a scope disappears with the scope.
	err = solver.Push()
	require.Nil(t, err)
	err = solver.Assert(yices2.Not(rel.Apply(a, b)))
	assert.Nil(t, err)
	status, _, err = solver.Check()
	require.Nil(t, err)
	assert.Equal(t, yices2.StatusUnsat, status)
	err = solver.Pop()
	require.Nil(t, err)

	status, model, err = solver.Check()
	require.Nil(t, err)
	assert.Equal(t, yices2.StatusSat, status)
	yices2.CloseModel(model)
}

func Test_ModelValues(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	solver := NewSolver()
	events := yices2.NewScalarType(3)
	clk := NewClock("clk", events)
	pick := NewFunction("pick", []yices2.TypeT{events}, events)

	e0 := yices2.Constant(events, 0)
	e1 := yices2.Constant(events, 1)
	err := solver.Assert(
		yices2.Eq(clk.Apply(e0), yices2.Int64(7)),
		yices2.Eq(pick.Apply(e0), e1),
	)
	require.Nil(t, err)
	status, model, err := solver.Check()
	require.Nil(t, err)
	require.Equal(t, yices2.StatusSat, status)
	defer yices2.CloseModel(model)

	val, err := GetInt64Value(model, clk.Apply(e0))
	assert.Nil(t, err)
	assert.Equal(t, int64(7), val)

	idx, err := GetScalarValue(model, pick.Apply(e0))
	assert.Nil(t, err)
	assert.Equal(t, int32(1), idx)
}
