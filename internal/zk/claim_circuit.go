package zk

import (
	"github.com/consensys/gnark/frontend"
)

// Grid geometry shared with internal/game: 3x3, positions 1..9,
// row-major.
const (
	gridSize = 3
	numCells = 9
)

// ClaimCircuit proves that a claim about a hidden grid position has the
// declared truth value. The claim type encoding (row=0, column=1,
// adjacent=2) and the public input order (ClaimType, ClaimValue,
// ExpectedResult) are fixed by the on-chain contract.
type ClaimCircuit struct {
	Position frontend.Variable `gnark:",secret"`

	ClaimType      frontend.Variable `gnark:",public"`
	ClaimValue     frontend.Variable `gnark:",public"`
	ExpectedResult frontend.Variable `gnark:",public"`
}

// cellRowCol decodes a cell variable into (indicator sum, row, col) via
// a one-hot selector over the nine cells. The indicator sum is 1 iff the
// variable is a valid position, 0 otherwise.
func cellRowCol(api frontend.API, cell frontend.Variable) (frontend.Variable, frontend.Variable, frontend.Variable) {
	sum := frontend.Variable(0)
	row := frontend.Variable(0)
	col := frontend.Variable(0)
	for p := 1; p <= numCells; p++ {
		isP := api.IsZero(api.Sub(cell, p))
		sum = api.Add(sum, isP)
		row = api.Add(row, api.Mul(isP, (p-1)/gridSize))
		col = api.Add(col, api.Mul(isP, (p-1)%gridSize))
	}
	return sum, row, col
}

func (c *ClaimCircuit) Define(api frontend.API) error {
	// Position must be one of the nine cells.
	posValid, row, col := cellRowCol(api, c.Position)
	api.AssertIsEqual(posValid, 1)

	// Exactly one claim type.
	isRow := api.IsZero(c.ClaimType)
	isCol := api.IsZero(api.Sub(c.ClaimType, 1))
	isAdj := api.IsZero(api.Sub(c.ClaimType, 2))
	api.AssertIsEqual(api.Add(isRow, api.Add(isCol, isAdj)), 1)

	rowMatch := api.IsZero(api.Sub(row, c.ClaimValue))
	colMatch := api.IsZero(api.Sub(col, c.ClaimValue))

	// For adjacency the claim value is a second cell. Orthogonal
	// adjacency on integer deltas is dr^2 + dc^2 == 1; the claimed
	// neighbor must also decode to a valid cell.
	otherValid, otherRow, otherCol := cellRowCol(api, c.ClaimValue)
	dr := api.Sub(row, otherRow)
	dc := api.Sub(col, otherCol)
	distSq := api.Add(api.Mul(dr, dr), api.Mul(dc, dc))
	adjMatch := api.Mul(api.IsZero(api.Sub(distSq, 1)), otherValid)

	result := api.Add(
		api.Mul(isRow, rowMatch),
		api.Mul(isCol, colMatch),
		api.Mul(isAdj, adjMatch),
	)

	api.AssertIsBoolean(c.ExpectedResult)
	api.AssertIsEqual(result, c.ExpectedResult)
	return nil
}
