// Package app orchestrates claim evaluation, proof generation and
// verification on top of the external prover/verifier capabilities.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"gridclaim-zk/internal/codec"
	"gridclaim-zk/internal/game"
	"gridclaim-zk/internal/logger"
	"gridclaim-zk/internal/zk"
)

var (
	// ErrProofGeneration wraps any failure from the external prover.
	// Never retried here; no partial proof is ever returned.
	ErrProofGeneration = errors.New("proof generation failed")

	// ErrArtifactLoad wraps a failed verification-key fetch or parse.
	// Surfaced to the caller; retrying is the caller's decision.
	ErrArtifactLoad = errors.New("verification artifact load failed")
)

// Prover is the external proving capability: witness computation and
// proof construction for the claim circuit.
type Prover interface {
	FullProve(ctx context.Context, inputs zk.ClaimInputs) (*codec.NativeProof, []string, error)
}

// Verifier is the external verifying capability: the pairing check.
type Verifier interface {
	Verify(ctx context.Context, vk *codec.VerificationKey, publicSignals []string, proof *codec.NativeProof) (bool, error)
}

// Orchestrator composes the claim evaluator with the prover/verifier.
// Stateless except for the process-wide verification-key cache: first
// successful fetch wins, concurrent fetches collapse into one request,
// and there is no invalidation path.
type Orchestrator struct {
	prover   Prover
	verifier Verifier
	vkURL    string
	client   *http.Client
	log      zerolog.Logger

	vkMu    sync.RWMutex
	vk      *codec.VerificationKey
	vkGroup singleflight.Group
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHTTPClient replaces the client used to fetch the verification key.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Orchestrator) { o.client = c }
}

// New returns an Orchestrator fetching the verification-key artifact
// from vkURL on first verification.
func New(prover Prover, verifier Verifier, vkURL string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		prover:   prover,
		verifier: verifier,
		vkURL:    vkURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      logger.Logger().With().Str("component", "orchestrator").Logger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GenerateResult is a produced proof together with the truth value it
// attests to. IsTrue == false is a successful proof of a false claim,
// not an error.
type GenerateResult struct {
	Proof         *codec.NativeProof
	PublicSignals []string
	IsTrue        bool
}

type proveOutcome struct {
	proof   *codec.NativeProof
	signals []string
	err     error
}

// GenerateProof evaluates the claim locally, then has the prover attest
// that the circuit reproduces that truth value. The evaluation runs
// first because its result is a declared public input of the proof, and
// because invoking the prover with malformed inputs would waste seconds
// of work.
//
// The prover runs as a background task: cancelling ctx abandons the
// wait, but the computation, once dispatched, is not stopped.
func (o *Orchestrator) GenerateProof(ctx context.Context, pos game.Position, claimType game.ClaimType, claimValue int) (*GenerateResult, error) {
	isTrue, err := game.Evaluate(pos, claimType, claimValue)
	if err != nil {
		return nil, err
	}

	inputs := zk.ClaimInputs{
		Position:       int(pos),
		ClaimType:      int(claimType),
		ClaimValue:     claimValue,
		ExpectedResult: isTrue,
	}

	ch := make(chan proveOutcome, 1)
	go func() {
		proof, signals, err := o.prover.FullProve(context.WithoutCancel(ctx), inputs)
		ch <- proveOutcome{proof: proof, signals: signals, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-ch:
		if out.err != nil {
			o.log.Error().Err(out.err).Int("position", int(pos)).
				Stringer("claim", claimType).Msg("prover failed")
			return nil, fmt.Errorf("%w: %v", ErrProofGeneration, out.err)
		}
		return &GenerateResult{Proof: out.proof, PublicSignals: out.signals, IsTrue: isTrue}, nil
	}
}

// Verify checks a proof against the cached verification key, fetching
// the artifact on first use.
func (o *Orchestrator) Verify(ctx context.Context, proof *codec.NativeProof, publicSignals []string) (bool, error) {
	vk, err := o.verificationKey(ctx)
	if err != nil {
		return false, err
	}
	return o.verifier.Verify(ctx, vk, publicSignals, proof)
}

// Submission packages a generated proof into the on-chain claim
// submission message, running the byte codec on the way out.
func (o *Orchestrator) Submission(res *GenerateResult, claimType game.ClaimType, claimValue int) (*codec.ClaimSubmission, error) {
	pb, err := codec.ConvertProof(res.Proof)
	if err != nil {
		return nil, err
	}
	return &codec.ClaimSubmission{
		ClaimType:      int(claimType),
		ClaimValue:     claimValue,
		ExpectedResult: res.IsTrue,
		Proof:          *pb,
		PublicSignals:  res.PublicSignals,
	}, nil
}

func (o *Orchestrator) verificationKey(ctx context.Context) (*codec.VerificationKey, error) {
	o.vkMu.RLock()
	vk := o.vk
	o.vkMu.RUnlock()
	if vk != nil {
		return vk, nil
	}

	v, err, _ := o.vkGroup.Do("vk", func() (any, error) {
		// Re-check under the group: a racing caller may have stored it.
		o.vkMu.RLock()
		cached := o.vk
		o.vkMu.RUnlock()
		if cached != nil {
			return cached, nil
		}
		fetched, err := o.fetchVK(ctx)
		if err != nil {
			return nil, err
		}
		o.vkMu.Lock()
		o.vk = fetched
		o.vkMu.Unlock()
		o.log.Info().Str("url", o.vkURL).Msg("verification key cached")
		return fetched, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactLoad, err)
	}
	return v.(*codec.VerificationKey), nil
}

func (o *Orchestrator) fetchVK(ctx context.Context) (*codec.VerificationKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.vkURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %s", o.vkURL, resp.Status)
	}
	var vk codec.VerificationKey
	if err := json.NewDecoder(resp.Body).Decode(&vk); err != nil {
		return nil, fmt.Errorf("decoding verification key: %w", err)
	}
	return &vk, nil
}

// ResetVKCacheForTesting drops the cached verification key. Production
// code has no invalidation path; tests need one.
func (o *Orchestrator) ResetVKCacheForTesting() {
	o.vkMu.Lock()
	o.vk = nil
	o.vkMu.Unlock()
}
