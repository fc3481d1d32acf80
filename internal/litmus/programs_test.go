package litmus

import (
	"testing"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scuellar/cerberus/internal/axiomatic"
	"github.com/scuellar/cerberus/internal/smt"
)

// Runs every built-in litmus test end to end and checks the report
// against its declared expectation.
func Test_Programs(t *testing.T) {
	for _, prog := range Programs() {
		prog := prog
		t.Run(prog.Name, func(t *testing.T) {
			yices2.Init()
			defer yices2.Exit()

			pre, returnTerm := prog.Build()
			enc := axiomatic.ComputeExecutions(pre)
			result, err := axiomatic.ExtractExecutions(smt.NewSolver(), enc, returnTerm, "")
			require.Nil(t, err)

			if prog.Expect.Executions >= 0 {
				assert.Equal(t, prog.Expect.Executions, len(result.Executions))
			}
			assert.Equal(t, prog.Expect.HasRace, result.RaceCount() > 0)
			if prog.Expect.Returns != nil {
				assert.ElementsMatch(t, prog.Expect.Returns, result.ReturnValues())
			}
		})
	}
}

func Test_Lookup(t *testing.T) {
	_, ok := Lookup("sb")
	assert.True(t, ok)
	_, ok = Lookup("no-such-test")
	assert.False(t, ok)
}
