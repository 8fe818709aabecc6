// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package main

import (
	"bufio"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// passwordFlags holds --password and --password-stdin.
type passwordFlags struct {
	value     string
	fromStdin bool
}

func (p *passwordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.value, "password", "", "user password (visible in process listings; prefer --password-stdin)")
	cmd.Flags().BoolVar(&p.fromStdin, "password-stdin", false, "read the password from the first line of stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
}

// resolve returns the password from the flag or, with --password-stdin, from
// the first line of the command's input.
func (p *passwordFlags) resolve(cmd *cobra.Command) (string, error) {
	if !p.fromStdin {
		return p.value, nil
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", oops.Code("PASSWORD_READ_FAILED").With("operation", "read password from stdin").Wrap(err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
