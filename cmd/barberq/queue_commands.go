package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the current serving queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Queue(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, resp)
			}

			rows := make([][]string, 0, len(resp.Data))
			for _, b := range resp.Data {
				rows = append(rows, []string{
					strconv.Itoa(b.Position),
					strconv.FormatInt(b.ID, 10),
					b.Name,
					strings.ReplaceAll(b.Status, "_", " "),
					busyDuration(b.BusySince, resp.ServerTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Settings.ShopName)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"POS", "ID", "NAME", "STATUS", "BUSY FOR"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit raw JSON")
	return cmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <available|busy_walkin|busy_appointment|inactive>",
		Short: "Set a barber's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			entry, err := client.SetStatus(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s (position %d)\n",
				entry.Name, strings.ReplaceAll(entry.Status, "_", " "), entry.Position)
			return nil
		},
	}
}

func newCycleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <id>",
		Short: "Advance a barber one step around the tap rotation",
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
			entry, err := client.Cycle(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s (position %d)\n",
				entry.Name, strings.ReplaceAll(entry.Status, "_", " "), entry.Position)
			return nil
		},
	}
}

func newOrderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "order <id> [id...]",
		Short: "Reorder the queue; omitted barbers keep their relative order after the listed ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if err := client.Reorder(cmd.Context(), ids); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "queue reordered")
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// busyDuration renders how long a barber has been with a client, relative to
// the server clock so a skewed local clock cannot show negative spans.
func busyDuration(busySince, serverTime string) string {
	if busySince == "" {
		return ""
	}
	started, err := time.Parse(time.RFC3339, busySince)
	if err != nil {
		return ""
	}
	now, err := time.Parse(time.RFC3339, serverTime)
	if err != nil {
		now = time.Now().UTC()
	}
	elapsed := now.Sub(started)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed.Round(time.Minute).String()
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that barberqd is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if err := client.Health(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
