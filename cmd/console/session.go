package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hongminglow/all-in-console/internal/session"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log an identity in and persist it to the session slot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, logger, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer app.Close()

			identity, err := app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				if errors.Is(err, session.ErrInvalidCredentials) {
					return fmt.Errorf("no identity with email %q", email)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s <%s> (%s)\n", identity.Name, identity.Email, identity.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "identity email")
	cmd.Flags().StringVar(&password, "password", "", "password (only checked when AUTH_VERIFY_PASSWORD is set)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, logger, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer app.Close()

			app.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity in the session slot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, logger, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer app.Close()

			identity, ok := app.Session.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\nrole: %s\npermissions: %v\n", identity.Name, identity.Email, identity.Role, identity.Permissions)
			return nil
		},
	}
}

func newIdentitiesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "identities",
		Short: "List identities known to the directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, logger, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer app.Close()

			all, err := app.Directory.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
			for _, identity := range all {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", identity.ID, identity.Name, identity.Email, identity.Role)
			}
			return tw.Flush()
		},
	}
}
