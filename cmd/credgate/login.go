// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var (
		email    string
		password passwordFlags
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate a user and print a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			secret, err := password.resolve(cmd)
			if err != nil {
				return err
			}

			pool, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			authenticator, cleanup, err := a.newAuthenticator(pool)
			if err != nil {
				return err
			}
			defer cleanup()

			token, ok, err := authenticator.Authenticate(ctx, email, secret)
			if err != nil {
				return err
			}
			if !ok {
				return oops.Code("AUTH_REJECTED").Errorf("invalid email or password")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err //nolint:wrapcheck // stdout write
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	password.register(cmd)

	return cmd
}
