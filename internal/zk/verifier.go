package zk

import (
	"context"
	"fmt"

	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"

	"gridclaim-zk/internal/codec"
)

// Groth16Verifier checks claim proofs against a snarkjs-format
// verification key using gnark's bn254 pairing check.
type Groth16Verifier struct{}

func NewVerifier() Groth16Verifier { return Groth16Verifier{} }

// Verify returns whether the proof is valid for the given public
// signals. A failed pairing check is (false, nil); an error means the
// key, proof or signals could not be interpreted at all.
func (Groth16Verifier) Verify(ctx context.Context, vk *codec.VerificationKey, publicSignals []string, proof *codec.NativeProof) (bool, error) {
	if vk == nil || proof == nil {
		return false, fmt.Errorf("nil verification key or proof")
	}
	gvk, err := codec.ToGnarkVerifyingKey(vk)
	if err != nil {
		return false, fmt.Errorf("malformed verification key: %w", err)
	}
	gproof, err := codec.ToGnarkProof(proof)
	if err != nil {
		return false, fmt.Errorf("malformed proof: %w", err)
	}
	inputs, err := codec.PublicInputsToFr(publicSignals)
	if err != nil {
		return false, fmt.Errorf("malformed public signals: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := groth16_bn254.Verify(gproof, gvk, inputs); err != nil {
		return false, nil
	}
	return true, nil
}
