package codec

import (
	"testing"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/stretchr/testify/require"
)

func TestStringsToG1Generator(t *testing.T) {
	_, _, g1, _ := curve.Generators()

	p, err := StringsToG1([]string{"1", "2", "1"})
	require.NoError(t, err)
	require.True(t, p.Equal(&g1))
}

func TestStringsToG2Generator(t *testing.T) {
	_, _, _, g2 := curve.Generators()

	p, err := StringsToG2(g2GenAxes)
	require.NoError(t, err)
	require.True(t, p.Equal(&g2))
}

func TestStringsToG1RejectsOffCurve(t *testing.T) {
	_, err := StringsToG1([]string{"1", "3", "1"})
	require.Error(t, err)

	_, err = StringsToG1([]string{"1"})
	require.Error(t, err)
}

func TestStringsToG2AxisOrderMatters(t *testing.T) {
	// Swapping (real, imaginary) within each axis must not silently
	// produce another valid point.
	swapped := [][]string{
		{g2GenAxes[0][1], g2GenAxes[0][0]},
		{g2GenAxes[1][1], g2GenAxes[1][0]},
	}
	_, err := StringsToG2(swapped)
	require.Error(t, err)
}

func TestPublicInputsToFr(t *testing.T) {
	elems, err := PublicInputsToFr([]string{"0", "1", "42"})
	require.NoError(t, err)
	require.Len(t, elems, 3)
	require.True(t, elems[0].IsZero())
	require.True(t, elems[1].IsOne())

	_, err = PublicInputsToFr([]string{"nope"})
	require.Error(t, err)
}

func TestHexCoordinatesAccepted(t *testing.T) {
	p, err := StringsToG1([]string{"0x1", "0x2", "1"})
	require.NoError(t, err)
	_, _, g1, _ := curve.Generators()
	require.True(t, p.Equal(&g1))
}
