package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/mailkit/mailerlite"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Count the records of every resource",
	Long:  `Fetch the first page of every resource concurrently and print the totals MailerLite reports.`,
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

type counter struct {
	name  string
	count func(ctx context.Context) (int, error)
}

func total[T any](list func(context.Context, mailerlite.Filters) (*mailerlite.Page[T], error)) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		page, err := list(ctx, mailerlite.Filters{"limit": 1})
		if err != nil {
			return 0, err
		}
		return page.Total(), nil
	}
}

func runOverview(cmd *cobra.Command, args []string) error {
	svc := mgr.Services()
	counters := []counter{
		{"subscribers", total(svc.Subscribers.List)},
		{"campaigns", total(svc.Campaigns.List)},
		{"groups", total(svc.Groups.List)},
		{"fields", total(svc.Fields.List)},
		{"segments", total(svc.Segments.List)},
		{"automations", total(svc.Automations.List)},
		{"webhooks", total(svc.Webhooks.List)},
	}

	counts := make([]int, len(counters))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)
	for i, c := range counters {
		g.Go(func() error {
			n, err := c.count(ctx)
			if err != nil {
				return fmt.Errorf("failed to count %s: %w", c.name, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOURCE\tTOTAL")
	for i, c := range counters {
		fmt.Fprintf(w, "%s\t%d\n", c.name, counts[i])
	}
	return w.Flush()
}
