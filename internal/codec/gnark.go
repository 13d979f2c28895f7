package codec

import (
	"fmt"
	"math/big"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
)

// This file binds the native decimal-string representation to gnark's
// bn254 structures so a proof can be checked locally without going
// through the on-chain verifier.

func stringToBigInt(s string) (*big.Int, error) {
	if len(s) >= 2 && s[:2] == "0x" {
		bi, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return nil, fmt.Errorf("failed to parse hex string %q", s)
		}
		return bi, nil
	}
	bi, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("failed to parse decimal string %q", s)
	}
	return bi, nil
}

func coordBytes(s string) ([]byte, error) {
	bi, err := stringToBigInt(s)
	if err != nil {
		return nil, err
	}
	if bi.Sign() < 0 || bi.BitLen() > 256 {
		return nil, fmt.Errorf("coordinate %q out of range", s)
	}
	out := make([]byte, 32)
	bi.FillBytes(out)
	return out, nil
}

// StringsToG1 parses a prover coordinate array into an affine G1 point.
// Unmarshal enforces that the point is on the curve.
func StringsToG1(h []string) (*curve.G1Affine, error) {
	if len(h) < 2 {
		return nil, fmt.Errorf("not enough coordinates for a G1 point")
	}
	b := make([]byte, 0, 64)
	for _, s := range h[:2] {
		cb, err := coordBytes(s)
		if err != nil {
			return nil, err
		}
		b = append(b, cb...)
	}
	p := new(curve.G1Affine)
	if err := p.Unmarshal(b); err != nil {
		return nil, err
	}
	return p, nil
}

// StringsToG2 parses a prover (real, imaginary) coordinate matrix into
// an affine G2 point. gnark-crypto's marshal order puts the imaginary
// part of each axis first, hence the index swap.
func StringsToG2(h [][]string) (*curve.G2Affine, error) {
	if len(h) < 2 || len(h[0]) < 2 || len(h[1]) < 2 {
		return nil, fmt.Errorf("not enough coordinates for a G2 point")
	}
	b := make([]byte, 0, 128)
	for _, s := range []string{h[0][1], h[0][0], h[1][1], h[1][0]} {
		cb, err := coordBytes(s)
		if err != nil {
			return nil, err
		}
		b = append(b, cb...)
	}
	p := new(curve.G2Affine)
	if err := p.Unmarshal(b); err != nil {
		return nil, err
	}
	return p, nil
}

// PublicInputsToFr parses public signals into scalar-field elements.
func PublicInputsToFr(signals []string) ([]bn254fr.Element, error) {
	out := make([]bn254fr.Element, len(signals))
	for i, s := range signals {
		bi, err := stringToBigInt(s)
		if err != nil {
			return nil, fmt.Errorf("public input %d: %w", i, err)
		}
		out[i].SetBigInt(bi)
	}
	return out, nil
}

// ToGnarkProof converts a native proof into a gnark bn254 Groth16 proof.
func ToGnarkProof(proof *NativeProof) (*groth16_bn254.Proof, error) {
	ar, err := StringsToG1(proof.PiA)
	if err != nil {
		return nil, fmt.Errorf("pi_a: %w", err)
	}
	krs, err := StringsToG1(proof.PiC)
	if err != nil {
		return nil, fmt.Errorf("pi_c: %w", err)
	}
	bs, err := StringsToG2(proof.PiB)
	if err != nil {
		return nil, fmt.Errorf("pi_b: %w", err)
	}
	return &groth16_bn254.Proof{Ar: *ar, Krs: *krs, Bs: *bs}, nil
}

// ToGnarkVerifyingKey converts the snarkjs-format artifact into a gnark
// verifying key ready for pairing checks.
func ToGnarkVerifyingKey(nvk *VerificationKey) (*groth16_bn254.VerifyingKey, error) {
	alpha, err := StringsToG1(nvk.VkAlpha1)
	if err != nil {
		return nil, fmt.Errorf("vk_alpha_1: %w", err)
	}
	beta, err := StringsToG2(nvk.VkBeta2)
	if err != nil {
		return nil, fmt.Errorf("vk_beta_2: %w", err)
	}
	gamma, err := StringsToG2(nvk.VkGamma2)
	if err != nil {
		return nil, fmt.Errorf("vk_gamma_2: %w", err)
	}
	delta, err := StringsToG2(nvk.VkDelta2)
	if err != nil {
		return nil, fmt.Errorf("vk_delta_2: %w", err)
	}
	k := make([]curve.G1Affine, len(nvk.IC))
	for i, ic := range nvk.IC {
		p, err := StringsToG1(ic)
		if err != nil {
			return nil, fmt.Errorf("IC[%d]: %w", i, err)
		}
		k[i] = *p
	}

	vk := new(groth16_bn254.VerifyingKey)
	vk.G1.Alpha = *alpha
	vk.G1.K = k
	vk.G2.Beta = *beta
	vk.G2.Gamma = *gamma
	vk.G2.Delta = *delta
	if err := vk.Precompute(); err != nil {
		return nil, fmt.Errorf("precompute verifying key: %w", err)
	}
	return vk, nil
}
