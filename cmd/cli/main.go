package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/coinsync/internal/infrastructure/auth"
)

var (
	baseURL string
	secret  string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coinsync-cli",
		Short: "CoinSync CLI tool",
		Long:  `A command line client for the CoinSync balance synchronization API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the CoinSync API")
	rootCmd.PersistentFlags().StringVar(&secret, "secret", os.Getenv("SIGNING_SECRET"), "Shared signing secret")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(newSignCmd())
	rootCmd.AddCommand(newMutateCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newBalanceCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func newSignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign <external_id> <amount> <source> [timestamp]",
		Short: "Compute a request token",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			timestamp := time.Now().Unix()
			if len(args) == 4 {
				timestamp, err = strconv.ParseInt(args[3], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid timestamp %q: %w", args[3], err)
				}
			}

			token := signToken(secret, args[0], amount, args[2], timestamp)
			cmd.Printf("timestamp: %d\ntoken: %s\n", timestamp, token)

			return nil
		},
	}
}

func newMutateCmd() *cobra.Command {
	var (
		externalID string
		source     string
		reason     string
		reference  string
		amount     int64
	)

	cmd := &cobra.Command{
		Use:   "mutate",
		Short: "Apply a signed balance mutation",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := mutatePayload(secret, externalID, amount, source, reason, reference, time.Now().Unix())
			return postJSON(cmd, "/api/v1/ledger/mutate", payload)
		},
	}

	cmd.Flags().StringVar(&externalID, "external-id", "", "External identity id")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Signed delta to apply")
	cmd.Flags().StringVar(&source, "source", "", "Source system tag")
	cmd.Flags().StringVar(&reason, "reason", "", "Human-readable reason")
	cmd.Flags().StringVar(&reference, "reference", "", "External reference for replay protection")
	cmd.MarkFlagRequired("external-id")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("source")

	return cmd
}

func newBatchCmd() *cobra.Command {
	var (
		source string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Apply a signed batch of mutations from a JSON file",
		Long: `Reads a JSON array of items ({"external_id", "amount", "reason",
"external_reference"}) and submits them as one signed batch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var reader io.Reader = cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				reader = f
			}

			var items []batchItem
			if err := json.NewDecoder(reader).Decode(&items); err != nil {
				return fmt.Errorf("failed to parse items: %w", err)
			}
			if len(items) == 0 {
				return fmt.Errorf("no items to submit")
			}

			payload := batchPayload(secret, source, items, time.Now().Unix())
			return postJSON(cmd, "/api/v1/ledger/batch", payload)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source system tag")
	cmd.Flags().StringVar(&file, "file", "", "Path to the items file (defaults to stdin)")
	cmd.MarkFlagRequired("source")

	return cmd
}

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <external_id>",
		Short: "Show the current balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON(cmd, "/api/v1/identities/"+args[0]+"/balance")
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "history <external_id>",
		Short: "Show recent ledger records, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/identities/%s/records?limit=%d&offset=%d", args[0], limit, offset)
			return getJSON(cmd, path)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of records")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")

	return cmd
}

type batchItem struct {
	ExternalID        string `json:"external_id"`
	Reason            string `json:"reason,omitempty"`
	ExternalReference string `json:"external_reference,omitempty"`
	Amount            int64  `json:"amount"`
}

// signToken computes the request token for the given wire fields.
func signToken(secret, externalID string, amount int64, source string, timestamp int64) string {
	return auth.NewSigner(secret, 0).Token(externalID, amount, source, timestamp)
}

// mutatePayload builds the signed body for a single mutation.
func mutatePayload(secret, externalID string, amount int64, source, reason, reference string, timestamp int64) map[string]any {
	payload := map[string]any{
		"external_id": externalID,
		"amount":      amount,
		"source":      source,
		"timestamp":   timestamp,
		"token":       signToken(secret, externalID, amount, source, timestamp),
	}
	if reason != "" {
		payload["reason"] = reason
	}
	if reference != "" {
		payload["external_reference"] = reference
	}

	return payload
}

// batchPayload builds the signed body for a batch. The token is computed
// over the first item's fields.
func batchPayload(secret, source string, items []batchItem, timestamp int64) map[string]any {
	return map[string]any{
		"source":    source,
		"timestamp": timestamp,
		"token":     signToken(secret, items[0].ExternalID, items[0].Amount, source, timestamp),
		"items":     items,
	}
}

func postJSON(cmd *cobra.Command, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(cmd, resp)
}

func getJSON(cmd *cobra.Command, path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(cmd, resp)
}

func printResponse(cmd *cobra.Command, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		pretty.Write(body)
	}

	cmd.Printf("%s\n", pretty.String())

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return nil
}
