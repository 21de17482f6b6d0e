package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rocksti/pagafacil/internal/domain"
	"github.com/rocksti/pagafacil/internal/infrastructure/auth"
)

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	client := &apiClient{http: &http.Client{}}
	var timeout time.Duration

	rootCmd := &cobra.Command{
		Use:           "pagafacil-cli",
		Short:         "PagaFácil CLI tool",
		Long:          `A command line interface for the PagaFácil payable accounts API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.http.Timeout = timeout
			client.baseURL = strings.TrimRight(client.baseURL, "/")
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&client.baseURL, "url", "http://localhost:8080", "Base URL of the PagaFácil API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&client.token, "token", os.Getenv("PAGAFACIL_TOKEN"), "Bearer token (defaults to $PAGAFACIL_TOKEN)")

	rootCmd.AddCommand(importCmd(client), totalPaidCmd(client), getCmd(client), tokenCmd())
	return rootCmd
}

func importCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import accounts from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, contentType, err := multipartFile("arquivo", args[0])
			if err != nil {
				return err
			}

			var result struct {
				BatchID  string `json:"batchId"`
				Imported int    `json:"imported"`
			}
			if err := client.do(http.MethodPost, "/contas/importar-csv", body, contentType, &result); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts (batch %s)\n", result.Imported, result.BatchID)
			return nil
		},
	}
}

func totalPaidCmd(client *apiClient) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "total-paid",
		Short: "Show the total paid between two dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range []string{start, end} {
				if _, err := domain.ParseDate(d); err != nil {
					return fmt.Errorf("invalid date %q, expected yyyy-MM-dd", d)
				}
			}

			q := url.Values{"dataInicio": {start}, "dataFim": {end}}
			var result map[string]json.Number
			if err := client.do(http.MethodGet, "/contas/valor-total-pago?"+q.Encode(), nil, "", &result); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Total paid %s to %s: %s\n", start, end, result["totalPaid"])
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (yyyy-MM-dd)")
	cmd.Flags().StringVar(&end, "end", "", "End date (yyyy-MM-dd)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func getCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one account as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account json.RawMessage
			if err := client.do(http.MethodGet, "/contas/buscar/"+url.PathEscape(args[0]), nil, "", &account); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), account)
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		secret  string
		subject string
		email   string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or $JWT_SECRET is required")
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(&domain.User{
				ID:    subject,
				Email: email,
				Role:  domain.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret (defaults to $JWT_SECRET)")
	cmd.Flags().StringVar(&subject, "subject", "cli", "User id placed in the token subject")
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "Role (admin or user)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

func (c *apiClient) do(method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var problem struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &problem) == nil && problem.Detail != "" {
			return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, problem.Detail)
		}
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func multipartFile(field, path string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
