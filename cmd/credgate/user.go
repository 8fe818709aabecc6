// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/credgate/credgate/internal/auth"
	"github.com/credgate/credgate/internal/auth/postgres"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var (
		email    string
		password passwordFlags
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user with an argon2id password hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := password.resolve(cmd)
			if err != nil {
				return err
			}
			if secret == "" {
				return oops.Code("USER_INVALID_PASSWORD").Errorf("password cannot be empty")
			}
			hash, err := auth.NewPasswordHasher().Hash(secret)
			if err != nil {
				return err
			}
			user, err := auth.NewUser(email, hash)
			if err != nil {
				return err
			}

			pool, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.NewUserRepository(pool).Create(cmd.Context(), user); err != nil {
				return err
			}
			a.logger.Info("user created", "user_id", user.ID.String(), "email", user.Email)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), user.ID.String())
			return err //nolint:wrapcheck // stdout write
		},
	}
	create.Flags().StringVar(&email, "email", "", "user email")
	password.register(create)
	_ = create.MarkFlagRequired("email")
	create.MarkFlagsOneRequired("password", "password-stdin")

	cmd.AddCommand(create)
	return cmd
}
