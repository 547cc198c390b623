package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"barberq/internal/api"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change shop settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newSettingsShowCommand(ctx))
	cmd.AddCommand(newSettingsSetCommand(ctx))
	cmd.AddCommand(newTVTokenCommand(ctx))
	return cmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings and the TV link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Settings(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "shop name:      %s\n", resp.Settings.ShopName)
			if resp.Settings.LogoURL != "" {
				fmt.Fprintf(out, "logo url:       %s\n", resp.Settings.LogoURL)
			}
			fmt.Fprintf(out, "theme:          %s\n", resp.Settings.Theme)
			fmt.Fprintf(out, "poll interval:  %dms\n", resp.Settings.PollIntervalMS)
			if resp.TVToken != "" {
				fmt.Fprintf(out, "tv link:        %s\n", client.TVURL(resp.TVToken))
			}
			return nil
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var (
		shopName string
		logoURL  string
		theme    string
		pollMS   int
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change shop settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.UpdateSettingsRequest{}
			if cmd.Flags().Changed("shop-name") {
				req.ShopName = &shopName
			}
			if cmd.Flags().Changed("logo-url") {
				req.LogoURL = &logoURL
			}
			if cmd.Flags().Changed("theme") {
				req.Theme = &theme
			}
			if cmd.Flags().Changed("poll-ms") {
				req.PollIntervalMS = &pollMS
			}
			if req.ShopName == nil && req.LogoURL == nil && req.Theme == nil && req.PollIntervalMS == nil {
				return fmt.Errorf("nothing to change: pass at least one flag")
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.UpdateSettings(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "settings updated: %s, theme %s, poll %dms\n",
				resp.Settings.ShopName, resp.Settings.Theme, resp.Settings.PollIntervalMS)
			return nil
		},
	}
	cmd.Flags().StringVar(&shopName, "shop-name", "", "Display name on queue and TV pages")
	cmd.Flags().StringVar(&logoURL, "logo-url", "", "Logo URL (empty to clear)")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme: light or dark")
	cmd.Flags().IntVar(&pollMS, "poll-ms", 0, "Page poll interval in milliseconds")
	return cmd
}

func newTVTokenCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rotate-tv-token",
		Short: "Invalidate the current TV link and print a fresh one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			token, err := client.RotateTVToken(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.TVURL(token))
			return nil
		},
	}
}
