package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"gridclaim-zk/internal/app"
	"gridclaim-zk/internal/codec"
	"gridclaim-zk/internal/zk"
)

type stubProver struct{ err error }

func (s stubProver) FullProve(ctx context.Context, in zk.ClaimInputs) (*codec.NativeProof, []string, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return &codec.NativeProof{
		PiA:      []string{"1", "2", "1"},
		PiB:      [][]string{{"1", "0"}, {"1", "0"}, {"1", "0"}},
		PiC:      []string{"1", "2", "1"},
		Protocol: "groth16",
		Curve:    "bn128",
	}, in.PublicSignals(), nil
}

type stubVerifier struct{ valid bool }

func (s stubVerifier) Verify(ctx context.Context, vk *codec.VerificationKey, signals []string, proof *codec.NativeProof) (bool, error) {
	return s.valid, nil
}

func newTestServer(t *testing.T, prover app.Prover, verifier app.Verifier) (*httptest.Server, string) {
	t.Helper()
	keysDir := t.TempDir()

	vkSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(&codec.VerificationKey{Protocol: "groth16"})
	}))
	t.Cleanup(vkSrv.Close)

	orc := app.New(prover, verifier, vkSrv.URL)
	srv := New(keysDir, orc)
	mux := http.NewServeMux()
	srv.Routes(mux)
	ts := httptest.NewServer(WithCORS(mux))
	t.Cleanup(ts.Close)
	return ts, keysDir
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	return resp, doc
}

func TestHandleEval(t *testing.T) {
	ts, _ := newTestServer(t, stubProver{}, stubVerifier{valid: true})

	resp, doc := postJSON(t, ts.URL+"/v1/claim/eval", map[string]int{
		"position": 5, "claimType": 2, "claimValue": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, doc["isTrue"])

	resp, doc = postJSON(t, ts.URL+"/v1/claim/eval", map[string]int{
		"position": 5, "claimType": 2, "claimValue": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, doc["isTrue"])

	resp, _ = postJSON(t, ts.URL+"/v1/claim/eval", map[string]int{
		"position": 12, "claimType": 0, "claimValue": 0,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, ts.URL+"/v1/claim/eval", map[string]int{
		"position": 5, "claimType": 9, "claimValue": 0,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleProve(t *testing.T) {
	ts, _ := newTestServer(t, stubProver{}, stubVerifier{valid: true})

	resp, doc := postJSON(t, ts.URL+"/v1/claim/prove", map[string]int{
		"position": 5, "claimType": 0, "claimValue": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, doc["isTrue"])
	require.NotEmpty(t, doc["payload"])

	sub, ok := doc["submission"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(0), sub["claimType"])
	require.Equal(t, true, sub["expectedResult"])

	// The payload string round-trips through the transport codec.
	payload, err := codec.Deserialize(doc["payload"].(string))
	require.NoError(t, err)
	require.Equal(t, []string{"0", "1", "1"}, payload.PublicSignals)
}

func TestHandleProveFailureIsRetryable(t *testing.T) {
	ts, _ := newTestServer(t, stubProver{err: fmt.Errorf("prover crashed")}, stubVerifier{})

	resp, doc := postJSON(t, ts.URL+"/v1/claim/prove", map[string]int{
		"position": 5, "claimType": 0, "claimValue": 1,
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, true, doc["retryable"])
}

func TestHandleVerify(t *testing.T) {
	ts, _ := newTestServer(t, stubProver{}, stubVerifier{valid: true})

	payload, err := codec.Serialize(&codec.ProofPayload{
		Proof:         &codec.NativeProof{PiA: []string{"1", "2", "1"}},
		PublicSignals: []string{"0", "1", "1"},
	})
	require.NoError(t, err)

	resp, doc := postJSON(t, ts.URL+"/v1/claim/verify", map[string]string{"payload": payload})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, doc["valid"])

	resp, _ = postJSON(t, ts.URL+"/v1/claim/verify", map[string]string{"payload": "{broken"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleVK(t *testing.T) {
	ts, keysDir := newTestServer(t, stubProver{}, stubVerifier{valid: true})

	resp, err := http.Get(ts.URL + "/v1/vk")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, os.WriteFile(zk.VKArtifactPath(keysDir), []byte(`{"protocol":"groth16"}`), 0o644))
	resp, err = http.Get(ts.URL + "/v1/vk")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var vk codec.VerificationKey
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&vk))
	require.Equal(t, "groth16", vk.Protocol)
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := newTestServer(t, stubProver{}, stubVerifier{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/v1/claim/eval", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
