package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/mailkit/filter"
	"github.com/s0up4200/mailkit/mailerlite"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List the filters defined in the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := filters.ListFilters()
		if len(names) == 0 && output == "table" {
			fmt.Println("No filters configured.")
			return nil
		}

		defined := make([]filterInfo, 0, len(names))
		for _, name := range names {
			f, _ := filters.GetFilter(name)
			defined = append(defined, filterInfo{Name: name, Expression: f.Expression()})
		}
		return printTable([]string{"NAME", "EXPRESSION"}, defined, func(f filterInfo) []string {
			return []string{f.Name, f.Expression}
		})
	},
}

func init() {
	rootCmd.AddCommand(filtersCmd)
}

type filterInfo struct {
	Name       string `json:"name" yaml:"name"`
	Expression string `json:"expression" yaml:"expression"`
}

type filterCount struct {
	Filter  string `json:"filter" yaml:"filter"`
	Matches int    `json:"matches" yaml:"matches"`
	Total   int    `json:"total" yaml:"total"`
}

func runCount[T any](ctx context.Context, r resource[T], names []string) error {
	records, _, err := fetch(ctx, r, mailerlite.Filters{"limit": 100}, true)
	if err != nil {
		return err
	}
	logger.Debug().Int("fetched", len(records)).Msgf("Counting %s", r.name)

	counts, err := countMatches(ctx, records, names)
	if err != nil {
		return err
	}
	if len(counts) == 0 && output == "table" {
		fmt.Println("No filters configured.")
		return nil
	}
	return printTable([]string{"FILTER", "MATCHES", "OF"}, counts, func(c filterCount) []string {
		return []string{c.Filter, strconv.Itoa(c.Matches), strconv.Itoa(c.Total)}
	})
}

// countMatches evaluates the named filters, or every configured one when
// names is empty, against records in one batch.
func countMatches[T any](ctx context.Context, records []T, names []string) ([]filterCount, error) {
	items, err := filter.ToItems(records)
	if err != nil {
		return nil, err
	}

	var matches map[string][]int
	if len(names) == 0 {
		names = filters.ListFilters()
		matches, err = filters.EvaluateAll(ctx, items)
	} else {
		matches, err = filters.EvaluateSelected(ctx, names, items)
	}
	if err != nil {
		return nil, err
	}

	counts := make([]filterCount, 0, len(names))
	for _, name := range names {
		counts = append(counts, filterCount{Filter: name, Matches: len(matches[name]), Total: len(items)})
	}
	return counts, nil
}

func printTable[T any](columns []string, rows []T, row func(T) []string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(columns, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(row(r), "\t"))
	}
	return w.Flush()
}
