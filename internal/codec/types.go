package codec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// NativeProof is a Groth16 proof in the prover's native representation:
// decimal-string field elements, snarkjs field names. PiA and PiC are G1
// points (x, y, plus a projective tail the codec ignores); PiB is a G2
// point with each axis given as (real, imaginary).
type NativeProof struct {
	PiA      []string   `json:"pi_a"`
	PiB      [][]string `json:"pi_b"`
	PiC      []string   `json:"pi_c"`
	Protocol string     `json:"protocol"`
	Curve    string     `json:"curve"`
}

// VerificationKey is the snarkjs-format verification key artifact
// fetched from the fixed remote location.
type VerificationKey struct {
	Protocol      string       `json:"protocol"`
	Curve         string       `json:"curve"`
	NPublic       int          `json:"nPublic"`
	VkAlpha1      []string     `json:"vk_alpha_1"`
	VkBeta2       [][]string   `json:"vk_beta_2"`
	VkGamma2      [][]string   `json:"vk_gamma_2"`
	VkDelta2      [][]string   `json:"vk_delta_2"`
	VkAlphabeta12 [][][]string `json:"vk_alphabeta_12"` // not used in verification
	IC            [][]string   `json:"IC"`
}

// ProofBytes is the canonical on-chain proof layout: fixed-width
// big-endian coordinates, G2 axes imaginary-before-real.
type ProofBytes struct {
	A [64]byte
	B [128]byte
	C [64]byte
}

type proofBytesJSON struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
}

func (p ProofBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(proofBytesJSON{
		A: "0x" + hex.EncodeToString(p.A[:]),
		B: "0x" + hex.EncodeToString(p.B[:]),
		C: "0x" + hex.EncodeToString(p.C[:]),
	})
}

func (p *ProofBytes) UnmarshalJSON(data []byte) error {
	var raw proofBytesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := decodeHexInto(raw.A, p.A[:]); err != nil {
		return fmt.Errorf("proof bytes a: %w", err)
	}
	if err := decodeHexInto(raw.B, p.B[:]); err != nil {
		return fmt.Errorf("proof bytes b: %w", err)
	}
	if err := decodeHexInto(raw.C, p.C[:]); err != nil {
		return fmt.Errorf("proof bytes c: %w", err)
	}
	return nil
}

func decodeHexInto(s string, dst []byte) error {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return fmt.Errorf("want %d bytes, got %d", len(dst), len(b))
	}
	copy(dst, b)
	return nil
}

// ProofPayload is the unit moved across a message boundary: the native
// proof plus its public signals.
type ProofPayload struct {
	Proof         *NativeProof `json:"proof"`
	PublicSignals []string     `json:"publicSignals"`
}

// ClaimSubmission is the outbound message to the game server/contract.
type ClaimSubmission struct {
	ClaimType      int        `json:"claimType"`
	ClaimValue     int        `json:"claimValue"`
	ExpectedResult bool       `json:"expectedResult"`
	Proof          ProofBytes `json:"proof"`
	PublicSignals  []string   `json:"publicSignals"`
}
