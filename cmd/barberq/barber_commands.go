package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"barberq/internal/api"
)

func newBarberCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "barber",
		Short: "Manage the barber roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newBarberAddCommand(ctx))
	cmd.AddCommand(newBarberEditCommand(ctx))
	cmd.AddCommand(newBarberRemoveCommand(ctx))
	return cmd
}

func newBarberAddCommand(ctx *commandContext) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a barber at the end of the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			entry, err := client.CreateBarber(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (id %d, position %d)\n", entry.Name, entry.ID, entry.Position)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Initial status (defaults to available)")
	return cmd
}

func newBarberEditCommand(ctx *commandContext) *cobra.Command {
	var name string
	var status string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a barber's name or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req := api.UpdateBarberRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("status") {
				req.Status = &status
			}
			if req.Name == nil && req.Status == nil {
				return fmt.Errorf("nothing to change: pass --name and/or --status")
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			entry, err := client.UpdateBarber(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s (id %d)\n", entry.Name, entry.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&status, "status", "", "New status")
	return cmd
}

func newBarberRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a barber from the roster",
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
			if err := client.DeleteBarber(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed barber %d\n", id)
			return nil
		},
	}
}
