package zk

import (
	"fmt"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"gridclaim-zk/internal/game"
)

func assignment(pos, ct, cv int, expected bool) *ClaimCircuit {
	e := 0
	if expected {
		e = 1
	}
	return &ClaimCircuit{
		Position:       pos,
		ClaimType:      ct,
		ClaimValue:     cv,
		ExpectedResult: e,
	}
}

// claimDomains yields every reachable (claimType, claimValue) pair.
func claimDomains() [][2]int {
	var out [][2]int
	for cv := 0; cv <= 2; cv++ {
		out = append(out, [2]int{int(game.ClaimRow), cv}, [2]int{int(game.ClaimColumn), cv})
	}
	for cv := 1; cv <= 9; cv++ {
		out = append(out, [2]int{int(game.ClaimAdjacent), cv})
	}
	return out
}

// The circuit must agree with the local evaluator on every reachable
// input, and must reject the opposite truth value every time.
func TestClaimCircuitMatchesEvaluator(t *testing.T) {
	field := ecc.BN254.ScalarField()
	var circuit ClaimCircuit

	for pos := 1; pos <= 9; pos++ {
		for _, dom := range claimDomains() {
			ct, cv := dom[0], dom[1]
			want, err := game.Evaluate(game.Position(pos), game.ClaimType(ct), cv)
			require.NoError(t, err)

			label := fmt.Sprintf("pos=%d ct=%d cv=%d", pos, ct, cv)
			err = test.IsSolved(&circuit, assignment(pos, ct, cv, want), field)
			require.NoError(t, err, "circuit rejected the ground truth: %s", label)

			err = test.IsSolved(&circuit, assignment(pos, ct, cv, !want), field)
			require.Error(t, err, "circuit accepted the wrong truth value: %s", label)
		}
	}
}

func TestClaimCircuitRejectsBadInputs(t *testing.T) {
	field := ecc.BN254.ScalarField()
	var circuit ClaimCircuit

	// Off-grid positions cannot satisfy the one-hot decode.
	for _, pos := range []int{0, 10, 100} {
		require.Error(t, test.IsSolved(&circuit, assignment(pos, 0, 0, true), field))
		require.Error(t, test.IsSolved(&circuit, assignment(pos, 0, 0, false), field))
	}

	// Unknown claim types fail the selector sum.
	require.Error(t, test.IsSolved(&circuit, assignment(5, 3, 0, true), field))
	require.Error(t, test.IsSolved(&circuit, assignment(5, 3, 0, false), field))

	// An adjacent claim naming an off-grid cell is false, never true.
	require.Error(t, test.IsSolved(&circuit, assignment(5, 2, 0, true), field))
	require.NoError(t, test.IsSolved(&circuit, assignment(5, 2, 0, false), field))
}

func TestClaimCircuitGroth16(t *testing.T) {
	assert := test.NewAssert(t)
	assert.CheckCircuit(&ClaimCircuit{},
		test.WithValidAssignment(assignment(5, 2, 2, true)),   // orthogonal neighbor
		test.WithValidAssignment(assignment(5, 2, 1, false)),  // diagonal
		test.WithValidAssignment(assignment(5, 0, 1, true)),   // row claim
		test.WithInvalidAssignment(assignment(5, 0, 0, true)), // wrong row claimed true
		test.WithCurves(ecc.BN254),
		test.WithBackends(backend.GROTH16),
	)
}
