package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	marketplaceserver "github.com/minglemakers/minglemakers-api/go"
	"github.com/minglemakers/minglemakers-api/internal/app/api"
	clusterdomain "github.com/minglemakers/minglemakers-api/internal/domains/clusters/domain"
)

func newMembersCmd(state *cli) *cobra.Command {
	members := &cobra.Command{
		Use:   "members",
		Short: "Browse cluster members",
	}
	members.AddCommand(newMembersNearbyCmd(state))
	return members
}

func newMembersNearbyCmd(state *cli) *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "nearby <cluster-id>",
		Short: "List cluster members closest first from --lat/--lon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
			if latSet != lonSet {
				return fmt.Errorf("--lat and --lon must be given together")
			}
			var reference *clusterdomain.Coordinates
			if latSet {
				reference = &clusterdomain.Coordinates{Lat: lat, Lon: lon}
				if err := reference.Validate(); err != nil {
					return err
				}
			}
			return state.withComponents(cmd.Context(), func(c *api.Components) error {
				ranked, err := c.Clusters.Nearby(cmd.Context(), args[0], reference)
				if err != nil {
					return err
				}
				if state.jsonOutput {
					return state.printJSON(cmd, marketplaceserver.FromNearbyMembers(ranked))
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tSPECIALTY\tLOCATION\tDISTANCE")
				for _, m := range ranked {
					distance := "-"
					if m.DistanceKm != nil {
						distance = fmt.Sprintf("%.1f km", *m.DistanceKm)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Member.Name, m.Member.Specialty, m.Member.Location, distance)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "reference latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "reference longitude in degrees")
	return cmd
}
