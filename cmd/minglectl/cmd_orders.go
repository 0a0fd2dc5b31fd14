package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/minglemakers/minglemakers-api/internal/app/api"
	orderfixture "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/fixture"
	orderhttpmapper "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
)

func newOrdersCmd(state *cli) *cobra.Command {
	orders := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and advance supplier orders",
	}
	orders.AddCommand(
		newOrdersListCmd(state),
		newOrdersAdvanceCmd(state),
		newOrdersSummaryCmd(state),
		newOrdersSeedCmd(state),
	)
	return orders
}

func newOrdersListCmd(state *cli) *cobra.Command {
	var status, text string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, optionally filtered by status and material or buyer text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ordertypes.ListOrdersFilter{Text: text}
			if status != "" && status != "all" {
				parsed, err := domain.ParseStatus(status)
				if err != nil {
					return err
				}
				filter.Status = &parsed
			}
			return state.withComponents(cmd.Context(), func(c *api.Components) error {
				orders, err := c.Orders.ListOrders(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if state.jsonOutput {
					return state.printJSON(cmd, orderhttpmapper.FromDomainList(orders))
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tMATERIAL\tBUYER\tSTATUS\tESCROW\tPRICE\tETA")
				for _, o := range orders {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", o.ID, o.Material, o.Buyer, o.Status, o.Escrow(), o.Price.StringFixed(2), o.ETA)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only orders in this status (Pending, Shipped, In Transit, Delivered)")
	cmd.Flags().StringVar(&text, "q", "", "case-insensitive match on material or buyer")
	return cmd
}

func newOrdersAdvanceCmd(state *cli) *cobra.Command {
	var expect string
	cmd := &cobra.Command{
		Use:   "advance <order-id>",
		Short: "Move an order one step forward in its lifecycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ordertypes.OrderIdentifier{ID: args[0]}
			if expect != "" {
				parsed, err := domain.ParseStatus(expect)
				if err != nil {
					return err
				}
				id.ExpectedStatus = parsed
			}
			return state.withComponents(cmd.Context(), func(c *api.Components) error {
				order, err := c.Orders.AdvanceStatus(cmd.Context(), id)
				if err != nil {
					return err
				}
				if state.jsonOutput {
					return state.printJSON(cmd, orderhttpmapper.FromDomain(order))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is %s (escrow %s)\n", order.ID, order.Status, order.Escrow())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&expect, "expect", "", "refuse to advance unless the order is currently in this status")
	return cmd
}

func newOrdersSummaryCmd(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count orders per status and total escrow held and released",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withComponents(cmd.Context(), func(c *api.Components) error {
				summary, err := c.Orders.Summary(cmd.Context())
				if err != nil {
					return err
				}
				if state.jsonOutput {
					return state.printJSON(cmd, orderhttpmapper.FromSummary(summary))
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, status := range domain.Statuses() {
					fmt.Fprintf(w, "%s\t%d\n", status, summary.Counts[status])
				}
				fmt.Fprintf(w, "Held\t%s\n", summary.HeldValue.StringFixed(2))
				fmt.Fprintf(w, "Released\t%s\n", summary.ReleasedValue.StringFixed(2))
				return w.Flush()
			})
		},
	}
}

func newOrdersSeedCmd(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the order fixture into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state.cfg.SeedFixtures = false
			return state.withComponents(cmd.Context(), func(c *api.Components) error {
				seed, err := loadOrderFixture(state.cfg)
				if err != nil {
					return err
				}
				seeded, err := c.Orders.Seed(cmd.Context(), seed)
				if err != nil {
					return err
				}
				if seeded {
					fmt.Fprintf(cmd.OutOrStdout(), "seeded %d orders\n", len(seed))
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "store already has orders; nothing seeded")
				}
				return nil
			})
		},
	}
}

func loadOrderFixture(cfg api.Config) ([]*domain.Order, error) {
	return orderfixture.LoadFile(cfg.OrdersFixture)
}
