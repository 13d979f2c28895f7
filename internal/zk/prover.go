package zk

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/frontend"

	"gridclaim-zk/internal/codec"
)

// ClaimInputs is the prover's input contract: the secret position plus
// the public claim and its declared truth value.
type ClaimInputs struct {
	Position       int
	ClaimType      int
	ClaimValue     int
	ExpectedResult bool
}

// PublicSignals returns the decimal-string public inputs in circuit
// order: claim type, claim value, expected result.
func (in ClaimInputs) PublicSignals() []string {
	return []string{
		strconv.Itoa(in.ClaimType),
		strconv.Itoa(in.ClaimValue),
		boolSignal(in.ExpectedResult),
	}
}

func boolSignal(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Groth16Prover produces claim proofs with gnark's Groth16 backend and
// emits them in the native decimal-string representation.
type Groth16Prover struct {
	keysDir string
}

func NewProver(keysDir string) *Groth16Prover {
	return &Groth16Prover{keysDir: keysDir}
}

// FullProve compiles the claim circuit, loads the proving key and
// proves the assignment. CPU-bound; can take seconds. The context is
// checked between phases, but a phase already running is not
// interrupted.
func (p *Groth16Prover) FullProve(ctx context.Context, in ClaimInputs) (*codec.NativeProof, []string, error) {
	cs, err := compileClaimCircuit()
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	pk, err := readPK(filepath.Join(p.keysDir, pkFile))
	if err != nil {
		return nil, nil, err
	}

	assign := ClaimCircuit{
		Position:       in.Position,
		ClaimType:      in.ClaimType,
		ClaimValue:     in.ClaimValue,
		ExpectedResult: boolSignal(in.ExpectedResult),
	}
	wit, err := frontend.NewWitness(&assign, ecc.BN254.ScalarField())
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	proof, err := groth16.Prove(cs, pk, wit)
	if err != nil {
		return nil, nil, err
	}

	native, err := nativeFromGnark(proof)
	if err != nil {
		return nil, nil, err
	}
	return native, in.PublicSignals(), nil
}

// nativeFromGnark renders a gnark bn254 proof as decimal strings in the
// snarkjs shape, projective tails included.
func nativeFromGnark(proof groth16.Proof) (*codec.NativeProof, error) {
	bp, ok := proof.(*groth16_bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("unexpected proof type %T", proof)
	}
	return &codec.NativeProof{
		PiA: []string{bp.Ar.X.String(), bp.Ar.Y.String(), "1"},
		PiB: [][]string{
			{bp.Bs.X.A0.String(), bp.Bs.X.A1.String()},
			{bp.Bs.Y.A0.String(), bp.Bs.Y.A1.String()},
			{"1", "0"},
		},
		PiC:      []string{bp.Krs.X.String(), bp.Krs.Y.String(), "1"},
		Protocol: "groth16",
		Curve:    "bn128",
	}, nil
}
