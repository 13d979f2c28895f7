package game

import (
	"errors"
	"fmt"
)

// Position is a cell on the 3x3 grid, row-major, 1-indexed.
// row = (p-1)/3, col = (p-1)%3.
type Position int

const (
	MinPosition Position = 1
	MaxPosition Position = 9
)

// ClaimType enumerates the claims a player can make about a hidden
// position. The numeric values are baked into the circuit and the
// on-chain contract; do not renumber.
type ClaimType int

const (
	ClaimRow      ClaimType = 0
	ClaimColumn   ClaimType = 1
	ClaimAdjacent ClaimType = 2
)

var (
	ErrInvalidPosition      = errors.New("position out of range [1,9]")
	ErrUnsupportedClaimType = errors.New("unsupported claim type")
)

func (c ClaimType) String() string {
	switch c {
	case ClaimRow:
		return "row"
	case ClaimColumn:
		return "column"
	case ClaimAdjacent:
		return "adjacent"
	default:
		return fmt.Sprintf("claimtype(%d)", int(c))
	}
}

// ParseClaimType maps the wire encoding (0|1|2) to a ClaimType.
func ParseClaimType(v int) (ClaimType, error) {
	switch ClaimType(v) {
	case ClaimRow, ClaimColumn, ClaimAdjacent:
		return ClaimType(v), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedClaimType, v)
	}
}

// Valid reports whether p is on the grid.
func (p Position) Valid() bool {
	return p >= MinPosition && p <= MaxPosition
}

// Row returns the zero-based row index of p.
func (p Position) Row() int { return (int(p) - 1) / 3 }

// Col returns the zero-based column index of p.
func (p Position) Col() int { return (int(p) - 1) % 3 }

// Evaluate computes the ground truth of a claim about a hidden position.
// The circuit reproduces this exact function; the two must never diverge.
//
// Row/Column: claimValue is a zero-based row/column index in [0,2].
// Adjacent: claimValue is a second Position; true iff the taxicab
// distance between the two cells is exactly 1 (orthogonal neighbors
// only, diagonals are not adjacent).
func Evaluate(pos Position, claimType ClaimType, claimValue int) (bool, error) {
	if !pos.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidPosition, int(pos))
	}
	switch claimType {
	case ClaimRow:
		return pos.Row() == claimValue, nil
	case ClaimColumn:
		return pos.Col() == claimValue, nil
	case ClaimAdjacent:
		// The claimed neighbor is itself a grid position.
		other := Position(claimValue)
		if !other.Valid() {
			return false, fmt.Errorf("%w: adjacent cell %d", ErrInvalidPosition, claimValue)
		}
		dr := pos.Row() - other.Row()
		dc := pos.Col() - other.Col()
		return abs(dr)+abs(dc) == 1, nil
	default:
		return false, fmt.Errorf("%w: %d", ErrUnsupportedClaimType, int(claimType))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
