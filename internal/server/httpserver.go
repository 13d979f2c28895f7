package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"gridclaim-zk/internal/app"
	"gridclaim-zk/internal/codec"
	"gridclaim-zk/internal/game"
	"gridclaim-zk/internal/logger"
	"gridclaim-zk/internal/zk"
)

// Server exposes the claim pipeline over a JSON HTTP API. It also
// serves the exported verification-key artifact, playing the "fixed
// remote location" that verifiers fetch it from.
type Server struct {
	KeysDir string

	orc *app.Orchestrator
	log zerolog.Logger
}

func New(keysDir string, orc *app.Orchestrator) *Server {
	return &Server{
		KeysDir: keysDir,
		orc:     orc,
		log:     logger.Logger().With().Str("component", "server").Logger(),
	}
}

func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/claim/eval", s.handleEval)
	mux.HandleFunc("/v1/claim/prove", s.handleProve)
	mux.HandleFunc("/v1/claim/verify", s.handleVerify)
	mux.HandleFunc("/v1/vk", s.handleVK)
}

// WithCORS wraps a handler with permissive CORS headers so the browser
// client can talk to a locally running server.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the pipeline's error taxonomy onto status codes.
// Prover/artifact failures are transient and retryable; they are not
// the same thing as a false claim, which is a successful proof.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidPosition), errors.Is(err, game.ErrUnsupportedClaimType):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
	case errors.Is(err, app.ErrProofGeneration), errors.Is(err, app.ErrArtifactLoad):
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error(), "retryable": true})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
}

type claimReq struct {
	Position   int `json:"position"`
	ClaimType  int `json:"claimType"`
	ClaimValue int `json:"claimValue"`
}

func (r claimReq) parse() (game.Position, game.ClaimType, int, error) {
	ct, err := game.ParseClaimType(r.ClaimType)
	if err != nil {
		return 0, 0, 0, err
	}
	return game.Position(r.Position), ct, r.ClaimValue, nil
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req claimReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	pos, ct, cv, err := req.parse()
	if err != nil {
		writeError(w, err)
		return
	}
	isTrue, err := game.Evaluate(pos, ct, cv)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"isTrue": isTrue})
}

func (s *Server) handleProve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req claimReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	pos, ct, cv, err := req.parse()
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.orc.GenerateProof(r.Context(), pos, ct, cv)
	if err != nil {
		writeError(w, err)
		return
	}
	sub, err := s.orc.Submission(res, ct, cv)
	if err != nil {
		writeError(w, err)
		return
	}
	payload, err := codec.Serialize(&codec.ProofPayload{Proof: res.Proof, PublicSignals: res.PublicSignals})
	if err != nil {
		writeError(w, err)
		return
	}
	s.log.Info().Int("position", int(pos)).Stringer("claim", ct).
		Bool("isTrue", res.IsTrue).Msg("proof generated")
	writeJSON(w, http.StatusOK, map[string]any{
		"isTrue":     res.IsTrue,
		"submission": sub,
		"payload":    payload,
	})
}

type verifyReq struct {
	Payload string `json:"payload"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req verifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	payload, err := codec.Deserialize(req.Payload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	valid, err := s.orc.Verify(r.Context(), payload.Proof, payload.PublicSignals)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": valid})
}

func (s *Server) handleVK(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	b, err := os.ReadFile(zk.VKArtifactPath(s.KeysDir))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "verification key not generated"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}
