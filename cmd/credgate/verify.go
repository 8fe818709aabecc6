// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/credgate/credgate/internal/auth"
)

const (
	defaultVerifyWorkers = 4
	maxVerifyLineBytes   = 64 * 1024
)

// verifyRequest is one input line.
type verifyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// verifyResult is one output line.
type verifyResult struct {
	Email         string `json:"email"`
	Authenticated bool   `json:"authenticated"`
	Token         string `json:"token,omitempty"`
	Error         string `json:"error,omitempty"`
}

type authenticator interface {
	Authenticate(ctx context.Context, email, password string) (string, bool, error)
}

func newVerifyCmd(a *app) *cobra.Command {
	var (
		workers int
		input   string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Authenticate JSON lines of credentials concurrently",
		Long: `Read {"email","password"} objects, one per line, from --input or stdin,
authenticate them with a bounded worker pool, and write one
{"email","authenticated","token","error"} line per request in input order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if workers < 1 {
				return oops.Code("CONFIG_INVALID").With("key", "workers").Errorf("workers must be at least 1, got %d", workers)
			}

			in := cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return oops.Code("VERIFY_INPUT_FAILED").With("path", input).Wrap(err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			return a.runVerify(cmd.Context(), in, cmd.OutOrStdout(), workers)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", defaultVerifyWorkers, "concurrent authentications")
	cmd.Flags().StringVar(&input, "input", "", "input file (default: stdin)")

	return cmd
}

func (a *app) runVerify(ctx context.Context, in io.Reader, out io.Writer, workers int) error {
	var ready atomic.Bool
	if a.cfg.MetricsAddr != "" {
		stop, err := a.startObservability(ready.Load)
		if err != nil {
			return err
		}
		defer stop()
	}

	pool, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	authn, cleanup, err := a.newAuthenticator(pool)
	if err != nil {
		return err
	}
	defer cleanup()
	ready.Store(true)

	return verifyBatch(ctx, authn, in, out, workers)
}

func (a *app) startObservability(ready func() bool) (func(), error) {
	server := a.deps.NewObservabilityServer(a.cfg.MetricsAddr, ready)
	auth.RegisterMetrics(server.Registry())

	errCh, err := server.Start()
	if err != nil {
		return nil, oops.Code("OBSERVABILITY_START_FAILED").With("addr", a.cfg.MetricsAddr).Wrap(err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for serveErr := range errCh {
			a.logger.Error("observability server error", "error", serveErr)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			a.logger.Warn("failed to stop observability server", "error", err)
		}
		<-done
	}, nil
}

// verifyBatch authenticates every line of in with at most workers calls in
// flight and writes results to out in input order. A line that fails carries
// its error in the result; only read and write failures abort the batch.
func verifyBatch(ctx context.Context, authn authenticator, in io.Reader, out io.Writer, workers int) error {
	lines, err := readLines(in)
	if err != nil {
		return err
	}

	results := make([]verifyResult, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, line := range lines {
		g.Go(func() error {
			results[i] = verifyLine(gctx, authn, line)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err //nolint:wrapcheck // workers never fail
	}

	enc := json.NewEncoder(out)
	for _, result := range results {
		if err := enc.Encode(result); err != nil {
			return oops.Code("VERIFY_OUTPUT_FAILED").Wrap(err)
		}
	}
	return nil
}

func verifyLine(ctx context.Context, authn authenticator, line []byte) verifyResult {
	var req verifyRequest
	if err := json.Unmarshal(line, &req); err != nil {
		return verifyResult{Error: "malformed request: " + err.Error()}
	}

	token, ok, err := authn.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return verifyResult{Email: req.Email, Error: err.Error()}
	}
	return verifyResult{Email: req.Email, Authenticated: ok, Token: token}
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([][]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxVerifyLineBytes)

	var lines [][]byte
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		lines = append(lines, append([]byte(nil), line...))
	}
	if err := scanner.Err(); err != nil {
		return nil, oops.Code("VERIFY_INPUT_FAILED").Wrap(err)
	}
	return lines, nil
}
