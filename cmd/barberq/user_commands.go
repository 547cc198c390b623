package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"barberq/internal/api"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newUserListCommand(ctx))
	cmd.AddCommand(newUserAddCommand(ctx))
	cmd.AddCommand(newUserEditCommand(ctx))
	cmd.AddCommand(newUserRemoveCommand(ctx))
	return cmd
}

func newUserListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			list, err := client.Users(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, list)
			}

			rows := make([][]string, 0, len(list))
			for _, u := range list {
				rows = append(rows, []string{
					strconv.FormatInt(u.ID, 10), u.Name, u.Email, u.Username, u.Role,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "NAME", "EMAIL", "USERNAME", "ROLE"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit raw JSON")
	return cmd
}

func newUserAddCommand(ctx *commandContext) *cobra.Command {
	var req api.UpsertUserRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			user, err := client.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (id %d, role %s)\n", user.Email, user.ID, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email (login identifier)")
	cmd.Flags().StringVar(&req.Username, "username", "", "Optional short login name")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&req.Role, "role", "viewer", "Role: viewer, frontdesk, admin, or owner")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUserEditCommand(ctx *commandContext) *cobra.Command {
	var req api.UpsertUserRequest

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a staff account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			user, err := client.UpdateUser(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s (role %s)\n", user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "New display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "New email")
	cmd.Flags().StringVar(&req.Username, "username", "", "New username")
	cmd.Flags().StringVar(&req.Password, "password", "", "New password")
	cmd.Flags().StringVar(&req.Role, "role", "", "New role")
	return cmd
}

func newUserRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a staff account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if err := client.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed user %d\n", id)
			return nil
		},
	}
}
