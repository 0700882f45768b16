package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/mailkit/errs"
	"github.com/s0up4200/mailkit/filter"
	"github.com/s0up4200/mailkit/mailerlite"
)

// maxPages bounds --all so a runaway cursor cannot loop forever
const maxPages = 1000

// resource describes how the generic list/get/delete commands reach one
// MailerLite resource. The funcs are called after initializeApp, so they
// may use mgr.
type resource[T any] struct {
	name     string
	singular string
	columns  []string
	row      func(T) []string
	list     func(ctx context.Context, f mailerlite.Filters) (*mailerlite.Page[T], error)
	get      func(ctx context.Context, id string) (*T, error)
	missing  func(id string) error
	del      func(ctx context.Context, id string) (bool, error)

	// optional
	byName      func(ctx context.Context, name string) (*T, error)
	missingName func(name string) error
	status      bool
	subcommands []*cobra.Command
}

type listFlags struct {
	filter string
	limit  int
	page   int
	all    bool
	status string
}

func newResourceCmd[T any](r resource[T]) *cobra.Command {
	parent := &cobra.Command{
		Use:   r.name,
		Short: fmt.Sprintf("Manage %s", r.name),
	}

	var lf listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s, optionally narrowed by a filter", r.name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, r, lf)
		},
	}
	listCmd.Flags().StringVarP(&lf.filter, "filter", "f", "", "filter expression or the name of a configured filter")
	listCmd.Flags().IntVar(&lf.limit, "limit", 25, "records per page")
	listCmd.Flags().IntVar(&lf.page, "page", 0, "page to fetch")
	listCmd.Flags().BoolVar(&lf.all, "all", false, "fetch every page")
	if r.status {
		listCmd.Flags().StringVar(&lf.status, "status", "", "only records with this status")
	}

	var name string
	getCmd := &cobra.Command{
		Use:   "get [id]",
		Short: fmt.Sprintf("Show one %s", r.singular),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := lookup(cmd.Context(), r, args, name)
			if err != nil {
				return err
			}
			return printRecords(r, []T{*record})
		},
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: fmt.Sprintf("Delete one %s", r.singular),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), r, args, name, yes)
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")

	for _, c := range []*cobra.Command{getCmd, deleteCmd} {
		if r.byName != nil {
			c.Flags().StringVar(&name, "name", "", fmt.Sprintf("look the %s up by name instead of id", r.singular))
		}
	}

	countCmd := &cobra.Command{
		Use:   "count [filter...]",
		Short: fmt.Sprintf("Count %s matching each configured filter", r.name),
		Long:  fmt.Sprintf("Fetch every %s once and report how many match each configured filter, or only the named ones.", r.singular),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd.Context(), r, args)
		},
	}

	parent.AddCommand(listCmd, getCmd, deleteCmd, countCmd)
	parent.AddCommand(r.subcommands...)
	return parent
}

func runList[T any](cmd *cobra.Command, r resource[T], lf listFlags) error {
	ctx := cmd.Context()
	query := mailerlite.Filters{"limit": lf.limit}
	if lf.page > 0 {
		query["page"] = lf.page
	}
	if lf.status != "" {
		query["filter"] = map[string]any{"status": lf.status}
	}

	records, total, err := fetch(ctx, r, query, lf.all)
	if err != nil {
		return err
	}

	if lf.filter != "" {
		logger.Info().Str("filter", lf.filter).Int("fetched", len(records)).Msgf("Filtering %s", r.name)
		records, err = filter.Select(ctx, filters, lf.filter, records)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	if len(records) == 0 && output == "table" {
		fmt.Printf("No %s found.\n", r.name)
		return nil
	}

	if err := printRecords(r, records); err != nil {
		return err
	}
	if output == "table" {
		fmt.Printf("\nShowing %d of %d %s\n", len(records), total, r.name)
	}
	return nil
}

// fetch returns the first page, or every page when all is set. Offset and
// cursor pagination are both followed.
func fetch[T any](ctx context.Context, r resource[T], query mailerlite.Filters, all bool) ([]T, int, error) {
	page, err := r.list(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	records := page.Data
	total := page.Total()
	if !all {
		return records, total, nil
	}

	current := max(mailerlite.Record(query).Int("page"), 1)
	for range maxPages {
		next := query.Clone()
		switch {
		case page.NextCursor() != "":
			next["cursor"] = page.NextCursor()
		case current < page.LastPage():
			current++
			next["page"] = current
		default:
			return records, max(total, len(records)), nil
		}

		page, err = r.list(ctx, next)
		if err != nil {
			return nil, 0, err
		}
		if len(page.Data) == 0 {
			break
		}
		records = append(records, page.Data...)
		query = next
	}
	return records, max(total, len(records)), nil
}

func lookup[T any](ctx context.Context, r resource[T], args []string, name string) (*T, error) {
	switch {
	case name != "":
		record, err := r.byName(ctx, name)
		if err != nil {
			return nil, err
		}
		if record == nil {
			if r.missingName != nil {
				return nil, r.missingName(name)
			}
			return nil, errs.NotFoundWithName(r.singular, name)
		}
		return record, nil
	case len(args) == 1:
		record, err := r.get(ctx, args[0])
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, r.missing(args[0])
		}
		return record, nil
	default:
		return nil, errs.ArgumentRequired(r.singular, "id")
	}
}

func runDelete[T any](ctx context.Context, r resource[T], args []string, name string, yes bool) error {
	record, err := lookup(ctx, r, args, name)
	if err != nil {
		return err
	}
	cells := r.row(*record)
	id, label := cells[0], strings.Join(cells[1:min(len(cells), 3)], " ")

	if dryRun {
		logger.Info().Str("id", id).Msgf("[DRY RUN] Would delete %s %s", r.singular, label)
		return nil
	}
	if !yes && !confirm("Delete %s %s (%s)?", r.singular, label, id) {
		logger.Info().Msg("Deletion cancelled")
		return nil
	}

	if _, err := r.del(ctx, id); err != nil {
		return err
	}
	logger.Info().Str("id", id).Msgf("Deleted %s", r.singular)
	return nil
}

func printRecords[T any](r resource[T], records []T) error {
	if output == "yaml" {
		// through the JSON shape so keys match the API's snake_case names
		items, err := filter.ToItems(records)
		if err != nil {
			return err
		}
		return printTable(r.columns, items, nil)
	}
	return printTable(r.columns, records, r.row)
}
