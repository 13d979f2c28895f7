package zk

import (
	"encoding/json"
	"fmt"
	"os"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"

	"gridclaim-zk/internal/codec"
)

// ExportVerificationKey renders a gnark verifying key in the
// snarkjs-format JSON shape that remote verifiers fetch. Coordinates
// are decimal strings; each axis of a G2 point is (real, imaginary).
func ExportVerificationKey(vk groth16.VerifyingKey) (*codec.VerificationKey, error) {
	bvk, ok := vk.(*groth16_bn254.VerifyingKey)
	if !ok {
		return nil, fmt.Errorf("unexpected verifying key type %T", vk)
	}
	ic := make([][]string, len(bvk.G1.K))
	for i := range bvk.G1.K {
		ic[i] = g1Strings(&bvk.G1.K[i])
	}
	return &codec.VerificationKey{
		Protocol:      "groth16",
		Curve:         "bn128",
		NPublic:       len(bvk.G1.K) - 1,
		VkAlpha1:      g1Strings(&bvk.G1.Alpha),
		VkBeta2:       g2Strings(&bvk.G2.Beta),
		VkGamma2:      g2Strings(&bvk.G2.Gamma),
		VkDelta2:      g2Strings(&bvk.G2.Delta),
		VkAlphabeta12: [][][]string{},
		IC:            ic,
	}, nil
}

func g1Strings(p *curve.G1Affine) []string {
	return []string{p.X.String(), p.Y.String(), "1"}
}

func g2Strings(p *curve.G2Affine) [][]string {
	return [][]string{
		{p.X.A0.String(), p.X.A1.String()},
		{p.Y.A0.String(), p.Y.A1.String()},
		{"1", "0"},
	}
}

func writeVKJSON(path string, vk groth16.VerifyingKey) error {
	nvk, err := ExportVerificationKey(vk)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(nvk)
}
