// Package codec converts Groth16 proofs between the prover's native
// decimal-string representation, the fixed-width byte layout consumed by
// the on-chain verifier, and gnark's bn254 structures for local
// verification.
package codec

import (
	"fmt"
	"math/big"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// DecimalToBytes32 encodes a decimal field-element string as 32 bytes,
// most significant byte first, zero-padded on the left.
//
// Values outside [0, 2^256) are not rejected: the result is the low 256
// bits in two's complement, matching repeated byte extraction on an
// unbounded integer. Callers are expected to pass already-reduced field
// elements; the truncation is deliberately left unguarded.
func DecimalToBytes32(value string) ([32]byte, error) {
	var out [32]byte
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return out, fmt.Errorf("not a decimal integer: %q", value)
	}
	new(big.Int).And(v, maxUint256).FillBytes(out[:])
	return out, nil
}

// G1ToBytes encodes a base-field point as x ‖ y. The input is the
// prover's coordinate array; entries beyond the first two (the
// projective tail snarkjs emits) are ignored.
func G1ToBytes(point []string) ([64]byte, error) {
	var out [64]byte
	if len(point) < 2 {
		return out, fmt.Errorf("G1 point needs 2 coordinates, got %d", len(point))
	}
	x, err := DecimalToBytes32(point[0])
	if err != nil {
		return out, fmt.Errorf("G1 x: %w", err)
	}
	y, err := DecimalToBytes32(point[1])
	if err != nil {
		return out, fmt.Errorf("G1 y: %w", err)
	}
	copy(out[:32], x[:])
	copy(out[32:], y[:])
	return out, nil
}

// G2ToBytes encodes an extension-field point as
// x_imag ‖ x_real ‖ y_imag ‖ y_real.
//
// The prover emits each axis as (real, imaginary); the verifying
// platform wants the imaginary part first. Getting this swap wrong
// produces a structurally valid 128-byte value that fails verification
// with no localized diagnostic, so the ordering here is load-bearing.
func G2ToBytes(point [][]string) ([128]byte, error) {
	var out [128]byte
	if len(point) < 2 || len(point[0]) < 2 || len(point[1]) < 2 {
		return out, fmt.Errorf("G2 point needs 2 axes of 2 coordinates")
	}
	coords := [4]string{point[0][1], point[0][0], point[1][1], point[1][0]}
	for i, c := range coords {
		b, err := DecimalToBytes32(c)
		if err != nil {
			return out, fmt.Errorf("G2 coordinate %d: %w", i, err)
		}
		copy(out[i*32:], b[:])
	}
	return out, nil
}

// ConvertProof re-encodes a native proof into the on-chain byte layout.
func ConvertProof(proof *NativeProof) (*ProofBytes, error) {
	if proof == nil {
		return nil, fmt.Errorf("nil proof")
	}
	a, err := G1ToBytes(proof.PiA)
	if err != nil {
		return nil, fmt.Errorf("pi_a: %w", err)
	}
	b, err := G2ToBytes(proof.PiB)
	if err != nil {
		return nil, fmt.Errorf("pi_b: %w", err)
	}
	c, err := G1ToBytes(proof.PiC)
	if err != nil {
		return nil, fmt.Errorf("pi_c: %w", err)
	}
	return &ProofBytes{A: a, B: b, C: c}, nil
}

// PublicSignalsToBytes encodes each public input the same way the proof
// coordinates are encoded, for submission alongside the proof.
func PublicSignalsToBytes(signals []string) ([][32]byte, error) {
	out := make([][32]byte, len(signals))
	for i, s := range signals {
		b, err := DecimalToBytes32(s)
		if err != nil {
			return nil, fmt.Errorf("public signal %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}
