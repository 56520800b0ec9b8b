// Command bisquery runs gear queries, sweeps and locator checks from a shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kapu/azerite-bot-go/internal/adapter"
	"github.com/kapu/azerite-bot-go/internal/app"
	"github.com/kapu/azerite-bot-go/internal/config"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/service/bis"
	"github.com/kapu/azerite-bot-go/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logLevel   string
	jsonOutput bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bisquery",
		Short:        "Query best-in-slot gear from the report page",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")

	root.AddCommand(newQueryCmd(), newSweepCmd(), newLocatorsCmd())
	return root
}

func newQueryCmd() *cobra.Command {
	var q domain.BISQuery
	cmd := &cobra.Command{
		Use:   "query [class] [spec] [hero] [slot]",
		Short: "Run one gear query",
		Example: "  bisquery query dk blood san head\n" +
			"  bisquery query --class mage --slot trinket",
		Args: cobra.MaximumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			positional := adapter.ParseBISArgs(args)
			q.Class = firstNonEmpty(q.Class, positional.Class)
			q.Spec = firstNonEmpty(q.Spec, positional.Spec)
			q.HeroTalent = firstNonEmpty(q.HeroTalent, positional.HeroTalent)
			q.Slot = firstNonEmpty(q.Slot, positional.Slot)

			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				payload := bis.BuildPayload(c.Engine.Query(ctx, q))
				if jsonOutput {
					return printJSON(payload)
				}
				fmt.Println(adapter.NewResponseFormatter(c.Config.Bot.Prefix).FormatPayload(payload))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&q.Class, "class", "", "class name or alias")
	cmd.Flags().StringVar(&q.Spec, "spec", "", "spec name or alias")
	cmd.Flags().StringVar(&q.HeroTalent, "hero", "", "hero talent name or alias")
	cmd.Flags().StringVar(&q.Slot, "slot", "", "slot name or family")
	return cmd
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Refetch every build once and report the counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				run := c.Scheduler.Sweep(ctx)
				if jsonOutput {
					return printJSON(run)
				}
				fmt.Printf("run %s (%s): %d builds in %s\n", run.ID,
					util.FormatKST(run.StartedAt, "2006-01-02 15:04:05 MST"),
					run.Attempted, run.Duration().Round(time.Millisecond))
				fmt.Printf("  succeeded %d, empty %d, failed %d\n", run.Succeeded, run.Empty, run.Failed)
				if len(run.FailedBuilds) > 0 {
					fmt.Printf("  failed: %s\n", strings.Join(run.FailedBuilds, ", "))
				}
				return nil
			})
		},
	}
}

func newLocatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locators",
		Short: "List the report section of every build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd.Context(), func(_ context.Context, c *app.Container) error {
				all := c.Locators.All()
				if jsonOutput {
					return printJSON(all)
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "CLASS\tSPEC\tHERO\tSECTION\tSELECTOR")
				for _, loc := range all {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						domain.DisplayName(loc.Key.Class), loc.Key.Spec,
						firstNonEmpty(loc.Key.HeroTalent, "-"), loc.Section, loc.Selector)
				}
				return w.Flush()
			})
		},
	}
}

func withContainer(ctx context.Context, run func(ctx context.Context, c *app.Container) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Cache.SweepOnStart = false

	logger, err := util.NewLogger(logLevel, "")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	c, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble services", zap.Error(err))
		return err
	}
	defer c.Close()

	return run(ctx, c)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
