package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"gridclaim-zk/internal/app"
	"gridclaim-zk/internal/codec"
	"gridclaim-zk/internal/game"
	"gridclaim-zk/internal/logger"
	"gridclaim-zk/internal/server"
	"gridclaim-zk/internal/zk"
)

var (
	keysDir string
	vkURL   string
)

var rootCmd = &cobra.Command{
	Use:   "gridclaim",
	Short: "Zero-knowledge claim proofs for the hidden-position grid game",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&keysDir, "keys", "./keys", "proving/verifying keys directory")
	rootCmd.PersistentFlags().StringVar(&vkURL, "vk-url", "http://localhost:8080/v1/vk", "verification key artifact URL")

	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(proveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(serveCmd)
}

func newOrchestrator() *app.Orchestrator {
	return app.New(zk.NewProver(keysDir), zk.NewVerifier(), vkURL)
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Run Groth16 setup and export the verification key artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := zk.EnsureClaimKeys(keysDir); err != nil {
			return err
		}
		fmt.Println("keys ready in", keysDir)
		return nil
	},
}

var (
	flagPosition   int
	flagClaimType  int
	flagClaimValue int
)

func addClaimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagPosition, "position", 0, "hidden position [1,9]")
	_ = cmd.MarkFlagRequired("position")
	cmd.Flags().IntVar(&flagClaimType, "claim-type", 0, "claim type: 0=row 1=column 2=adjacent")
	cmd.Flags().IntVar(&flagClaimValue, "claim-value", 0, "claim value: row/column index [0,2] or adjacent cell [1,9]")
	_ = cmd.MarkFlagRequired("claim-type")
	_ = cmd.MarkFlagRequired("claim-value")
}

func parseClaimFlags() (game.Position, game.ClaimType, int, error) {
	ct, err := game.ParseClaimType(flagClaimType)
	if err != nil {
		return 0, 0, 0, err
	}
	return game.Position(flagPosition), ct, flagClaimValue, nil
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a claim locally without proving",
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, ct, cv, err := parseClaimFlags()
		if err != nil {
			return err
		}
		isTrue, err := game.Evaluate(pos, ct, cv)
		if err != nil {
			return err
		}
		fmt.Println(isTrue)
		return nil
	},
}

var proveOut string

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Generate a claim proof and the on-chain submission message",
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, ct, cv, err := parseClaimFlags()
		if err != nil {
			return err
		}
		if err := zk.EnsureClaimKeys(keysDir); err != nil {
			return err
		}
		orc := newOrchestrator()
		res, err := orc.GenerateProof(cmd.Context(), pos, ct, cv)
		if err != nil {
			return err
		}
		sub, err := orc.Submission(res, ct, cv)
		if err != nil {
			return err
		}
		payload, err := codec.Serialize(&codec.ProofPayload{Proof: res.Proof, PublicSignals: res.PublicSignals})
		if err != nil {
			return err
		}
		if err := saveJSON(proveOut, map[string]any{
			"isTrue":     res.IsTrue,
			"submission": sub,
			"payload":    payload,
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s (claim is %v)\n", proveOut, res.IsTrue)
		return nil
	},
}

var verifyIn string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a proof payload against the verification key artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		var doc struct {
			Payload string `json:"payload"`
		}
		if err := loadJSON(verifyIn, &doc); err != nil {
			return err
		}
		payload, err := codec.Deserialize(doc.Payload)
		if err != nil {
			return err
		}
		valid, err := newOrchestrator().Verify(cmd.Context(), payload.Proof, payload.PublicSignals)
		if err != nil {
			return err
		}
		if !valid {
			fmt.Println("INVALID")
			os.Exit(1)
		}
		fmt.Println("VALID")
		return nil
	},
}

var encodeIn string

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Re-encode a proof payload into the fixed-width on-chain bytes",
	RunE: func(cmd *cobra.Command, args []string) error {
		var doc struct {
			Payload string `json:"payload"`
		}
		if err := loadJSON(encodeIn, &doc); err != nil {
			return err
		}
		payload, err := codec.Deserialize(doc.Payload)
		if err != nil {
			return err
		}
		pb, err := codec.ConvertProof(payload.Proof)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(pb, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the claim pipeline over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := zk.EnsureClaimKeys(keysDir); err != nil {
			return err
		}
		srv := server.New(keysDir, newOrchestrator())
		mux := http.NewServeMux()
		srv.Routes(mux)
		log := logger.Logger()
		log.Info().Str("addr", serveAddr).Msg("serving")
		return http.ListenAndServe(serveAddr, server.WithCORS(mux))
	},
}

func init() {
	addClaimFlags(evalCmd)
	addClaimFlags(proveCmd)
	proveCmd.Flags().StringVar(&proveOut, "out", "proof.json", "proof output file")
	verifyCmd.Flags().StringVar(&verifyIn, "proof", "proof.json", "proof payload json")
	encodeCmd.Flags().StringVar(&encodeIn, "proof", "proof.json", "proof payload json")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func saveJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loadJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	return dec.Decode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.Logger()
		log.Fatal().Err(err).Msg("command failed")
	}
}
