package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/minglemakers/minglemakers-api/internal/app/api"
	platformobservability "github.com/minglemakers/minglemakers-api/internal/platform/observability"
)

// cli holds what the persistent flags resolve to for a single invocation.
type cli struct {
	configPath string
	jsonOutput bool
	verbose    bool

	cfg    api.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	state := &cli{}
	root := &cobra.Command{
		Use:           "minglectl",
		Short:         "Operate the MingleMakers supplier order service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := api.LoadConfigFile(state.configPath)
			if err != nil {
				return err
			}
			state.cfg = cfg
			level := slog.LevelWarn
			if state.verbose {
				level = slog.LevelDebug
			}
			state.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&state.configPath, "config", "", "YAML config file (environment variables still override it)")
	root.PersistentFlags().BoolVar(&state.jsonOutput, "json", false, "print results as JSON")
	root.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newServeCmd(state),
		newOrdersCmd(state),
		newMembersCmd(state),
		newNotificationsCmd(state),
	)
	return root
}

func newServeCmd(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return api.Run(cmd.Context(), state.cfg)
		},
	}
}

// withComponents builds the order and cluster services for one command and tears them down
// afterwards so queued notifications are flushed before the process exits.
func (s *cli) withComponents(ctx context.Context, fn func(*api.Components) error) error {
	instruments := &platformobservability.Instruments{Logger: s.logger}
	components, err := api.BuildComponents(ctx, s.cfg, instruments)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := components.Close(closeCtx); err != nil {
			s.logger.Warn("pending notifications not delivered", slog.String("error", err.Error()))
		}
	}()
	if s.cfg.SeedFixtures {
		if err := api.SeedOrders(ctx, s.cfg, components.Orders, s.logger); err != nil {
			return err
		}
	}
	return fn(components)
}

func (s *cli) printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
