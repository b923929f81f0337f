// Package main mints signed development bearer tokens for the /auth and
// /admin routes using the signing key of a config profile.
//
//	APP_PROFILE=local go run ./cmd/token --sub alice --role admin --ttl 1h
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/auth"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/config"
)

type tokenOptions struct {
	profile   string
	configDir string
	subject   string
	roles     []string
	ttl       time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:          "token",
		Short:        "Print a signed development bearer token",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := issueToken(opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.profile, "profile", os.Getenv("APP_PROFILE"), "config profile (defaults to $APP_PROFILE)")
	flags.StringVar(&opts.configDir, "config-dir", "", "directory holding base.yaml and profile files")
	flags.StringVar(&opts.subject, "sub", "", "token subject")
	flags.StringSliceVar(&opts.roles, "role", nil, "role claim; repeat or comma-separate for several")
	flags.DurationVar(&opts.ttl, "ttl", 0, "token lifetime (defaults to auth.token_ttl)")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}

func issueToken(opts *tokenOptions) (string, error) {
	if opts.profile == "" {
		return "", errors.New("a profile is required: pass --profile or set APP_PROFILE")
	}

	var loadOpts []config.Option
	if opts.configDir != "" {
		loadOpts = append(loadOpts, config.WithConfigDir(opts.configDir))
	}

	cfg, err := config.Load(opts.profile, loadOpts...)
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}

	ttl := opts.ttl
	if ttl == 0 {
		ttl = cfg.Auth.TokenTTL
	}

	tok, err := auth.NewAuthenticator(cfg.Auth.SigningKey, cfg.Auth.Issuer).Issue(opts.subject, opts.roles, ttl)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}
	return tok, nil
}
