package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/proposals-console/internal/api"
	"github.com/ignatzorin/proposals-console/internal/search"
	"github.com/ignatzorin/proposals-console/internal/service"
)

var errNoToken = errors.New("token required: pass --token or set CONSOLE_TOKEN")

func loginCmd(opts *globalOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange email and password for an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := opts.client().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func whoamiCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user behind --token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.token == "" {
				return errNoToken
			}
			user, err := opts.client().Me(cmd.Context(), opts.token)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", user.FullName(), user.Email, user.Role)
			return nil
		},
	}
}

func proposalsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposals",
		Short: "Browse proposals",
	}

	var q search.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "List proposals with optional filters and sort",
		RunE: func(cmd *cobra.Command, args []string) error {
			proposals := service.NewProposalService(opts.client())
			items, err := proposals.List(cmd.Context(), q.Filter(), service.ParseSort(q.Sort))
			if err != nil {
				return err
			}
			return printProposals(cmd.OutOrStdout(), items)
		},
	}
	list.Flags().StringVar(&q.Name, "name", "", "Filter by proposal name")
	list.Flags().StringVar(&q.Client, "client", "", "Filter by client")
	list.Flags().StringVar(&q.ClientName, "client-name", "", "Filter by client name")
	list.Flags().StringVar(&q.Sort, "sort", "", "Sort column, prefix with - for descending (e.g. -budget)")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := service.NewProposalService(opts.client()).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printProposal(cmd.OutOrStdout(), p)
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func usersCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	var filter api.UserFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := opts.client().ListUsers(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printUsers(cmd.OutOrStdout(), users)
		},
	}
	list.Flags().StringVar(&filter.Role, "role", "", "Filter by role (user, moderator, admin)")
	list.Flags().StringVar(&filter.IsActive, "active", "", "Filter by active flag (true, false)")
	list.Flags().StringVar(&filter.Email, "email", "", "Filter by email")
	list.Flags().StringVar(&filter.Username, "username", "", "Filter by username")

	cmd.AddCommand(list, toggleCmd(opts, "disable", false), toggleCmd(opts, "enable", true))
	return cmd
}

func toggleCmd(opts *globalOptions, verb string, active bool) *cobra.Command {
	short := "Disable a user account"
	if active {
		short = "Enable a user account"
	}
	return &cobra.Command{
		Use:   verb + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.token == "" {
				return errNoToken
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			client := opts.client()
			if active {
				err = client.EnableUser(cmd.Context(), opts.token, id)
			} else {
				err = client.DisableUser(cmd.Context(), opts.token, id)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d %sd\n", id, verb)
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
