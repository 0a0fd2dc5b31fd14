package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/minglemakers/minglemakers-api/internal/app/api"
	ordersnotify "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/notify"
)

var errNoPostgres = errors.New("notifications are stored in PostgreSQL; set POSTGRES_DSN")

func newNotificationsCmd(state *cli) *cobra.Command {
	notifications := &cobra.Command{
		Use:   "notifications",
		Short: "Read order notifications from the PostgreSQL outbox",
	}
	notifications.AddCommand(
		newNotificationsWatchCmd(state),
		newNotificationsRecentCmd(state),
	)
	return notifications
}

func newNotificationsWatchCmd(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print notifications as they are published until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if state.cfg.PostgresDSN == "" {
				return errNoPostgres
			}
			out := cmd.OutOrStdout()
			return ordersnotify.Listen(cmd.Context(), state.cfg.PostgresDSN, state.cfg.NotifyChannel, state.logger, func(message string) {
				fmt.Fprintf(out, "%s  %s\n", time.Now().Format(time.TimeOnly), message)
			})
		},
	}
}

func newNotificationsRecentCmd(state *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the latest stored notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if state.cfg.OrderStore != api.StorePostgres {
				return errNoPostgres
			}
			state.cfg.SeedFixtures = false
			return state.withComponents(cmd.Context(), func(c *api.Components) error {
				outbox := ordersnotify.NewOutbox(c.DB, state.cfg.NotifyChannel, state.logger)
				records, err := outbox.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if state.jsonOutput {
					return state.printJSON(cmd, records)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, r := range records {
					fmt.Fprintf(w, "%s\t%s\n", r.CreatedAt.Format(time.DateTime), r.Message)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of notifications to show")
	return cmd
}
