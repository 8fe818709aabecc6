// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/credgate/credgate/internal/config"
	"github.com/credgate/credgate/internal/logging"
	"github.com/credgate/credgate/internal/xdg"
)

// app carries state shared by subcommands once flags are parsed.
type app struct {
	deps   *Deps
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd creates the root command for the credgate CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(deps *Deps) *cobra.Command {
	a := &app{deps: deps.withDefaults()}

	cmd := &cobra.Command{
		Use:   "credgate",
		Short: "credgate - credential verification and access token issuance",
		Long: `credgate checks an email and password against stored users and,
when they match, issues an access token and records it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().String("config", "", "config file path (default: $XDG_CONFIG_HOME/credgate/config.yaml if present)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newUserCmd(a))
	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newVerifyCmd(a))

	return cmd
}

// setup loads configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err //nolint:wrapcheck // flag registered above
	}
	if path == "" {
		if path, err = xdg.FindConfigFile(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.SetDefault(logging.Options{
		Service: "credgate",
		Version: version,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}
