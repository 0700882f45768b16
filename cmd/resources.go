package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/mailkit/automations"
	"github.com/s0up4200/mailkit/campaigns"
	"github.com/s0up4200/mailkit/fields"
	"github.com/s0up4200/mailkit/groups"
	"github.com/s0up4200/mailkit/mailerlite"
	"github.com/s0up4200/mailkit/segments"
	"github.com/s0up4200/mailkit/subscribers"
	"github.com/s0up4200/mailkit/webhooks"
)

func init() {
	rootCmd.AddCommand(
		subscribersCmd(),
		campaignsCmd(),
		groupsCmd(),
		fieldsCmd(),
		segmentsCmd(),
		automationsCmd(),
		webhooksCmd(),
	)
}

func percent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}

func subscribersCmd() *cobra.Command {
	return newResourceCmd(resource[subscribers.Info]{
		name:     "subscribers",
		singular: "subscriber",
		columns:  []string{"ID", "EMAIL", "NAME", "STATUS", "OPENS", "CLICKS", "SUBSCRIBED"},
		row: func(s subscribers.Info) []string {
			name, _ := s.Fields["name"].(string)
			return []string{s.ID, s.Email, name, s.Status, strconv.Itoa(s.OpensCount), strconv.Itoa(s.ClicksCount), s.SubscribedAt}
		},
		list: func(ctx context.Context, f mailerlite.Filters) (*mailerlite.Page[subscribers.Info], error) {
			return mgr.Services().Subscribers.List(ctx, f)
		},
		get: func(ctx context.Context, idOrEmail string) (*subscribers.Info, error) {
			return mgr.Services().Subscribers.GetByID(ctx, idOrEmail)
		},
		missing: func(id string) error {
			if strings.Contains(id, "@") {
				return subscribers.NotFoundByEmail(id, nil)
			}
			return subscribers.NotFound(id, nil)
		},
		del: func(ctx context.Context, id string) (bool, error) {
			return mgr.Services().Subscribers.Delete(ctx, id)
		},
		status: true,
		subcommands: []*cobra.Command{
			subscribersAddCmd(),
			subscribersUnsubscribeCmd(),
			subscribersResubscribeCmd(),
		},
	})
}

func subscribersAddCmd() *cobra.Command {
	var (
		name      string
		lastName  string
		groupIDs  []string
		fieldArgs []string
	)
	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Create a subscriber",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := mgr.Subscribers().Email(args[0])
			if name != "" {
				b.Named(name)
			}
			if lastName != "" {
				b.WithLastName(lastName)
			}
			for _, kv := range fieldArgs {
				key, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --field %q, expected key=value", kv)
				}
				b.WithField(key, value)
			}
			for _, id := range groupIDs {
				b.ToGroup(id)
			}

			if dryRun {
				dto, err := b.ToDTO()
				if err != nil {
					return err
				}
				logger.Info().Interface("payload", dto.ToArray()).Msg("[DRY RUN] Would create subscriber")
				return nil
			}

			info, err := b.Subscribe(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info().Str("id", info.ID).Str("email", info.Email).Msg("Subscriber created")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringSliceVar(&groupIDs, "group", nil, "group id to add the subscriber to (repeatable)")
	cmd.Flags().StringArrayVar(&fieldArgs, "field", nil, "custom field as key=value (repeatable)")
	return cmd
}

func subscribersUnsubscribeCmd() *cobra.Command {
	return actionCmd("unsubscribe <id|email>", "Unsubscribe a subscriber", "Unsubscribed",
		func(ctx context.Context, ref string) (string, error) {
			info, err := resolveSubscriber(ctx, ref)
			if err != nil {
				return "", err
			}
			info, err = mgr.Services().Subscribers.Unsubscribe(ctx, info.ID)
			if err != nil {
				return "", err
			}
			return info.Status, nil
		})
}

func subscribersResubscribeCmd() *cobra.Command {
	return actionCmd("resubscribe <id|email>", "Reactivate an unsubscribed subscriber", "Resubscribed",
		func(ctx context.Context, ref string) (string, error) {
			info, err := resolveSubscriber(ctx, ref)
			if err != nil {
				return "", err
			}
			info, err = mgr.Services().Subscribers.Resubscribe(ctx, info.ID)
			if err != nil {
				return "", err
			}
			return info.Status, nil
		})
}

func resolveSubscriber(ctx context.Context, ref string) (*subscribers.Info, error) {
	info, err := mgr.Services().Subscribers.GetByID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if info == nil {
		if strings.Contains(ref, "@") {
			return nil, subscribers.NotFoundByEmail(ref, nil)
		}
		return nil, subscribers.NotFound(ref, nil)
	}
	return info, nil
}

func campaignsCmd() *cobra.Command {
	return newResourceCmd(resource[campaigns.Info]{
		name:     "campaigns",
		singular: "campaign",
		columns:  []string{"ID", "NAME", "SUBJECT", "STATUS", "SENT", "OPEN RATE", "CLICK RATE"},
		row: func(c campaigns.Info) []string {
			return []string{c.ID, c.Name, c.Subject, c.Status, strconv.Itoa(c.Stats.Sent), percent(c.Stats.OpenRate), percent(c.Stats.ClickRate)}
		},
		list: func(ctx context.Context, f mailerlite.Filters) (*mailerlite.Page[campaigns.Info], error) {
			return mgr.Services().Campaigns.List(ctx, f)
		},
		get: func(ctx context.Context, id string) (*campaigns.Info, error) {
			return mgr.Services().Campaigns.GetByID(ctx, id)
		},
		missing: func(id string) error { return campaigns.NotFound(id, nil) },
		del: func(ctx context.Context, id string) (bool, error) {
			return mgr.Services().Campaigns.Delete(ctx, id)
		},
		missingName: func(name string) error { return campaigns.NotFoundByName(name) },
		byName: func(ctx context.Context, name string) (*campaigns.Info, error) {
			return mgr.Services().Campaigns.FindByName(ctx, name)
		},
		status: true,
		subcommands: []*cobra.Command{
			actionCmd("send <id>", "Send a campaign now", "Campaign sent", func(ctx context.Context, id string) (string, error) {
				info, err := mgr.Services().Campaigns.Send(ctx, id)
				if err != nil {
					return "", err
				}
				return info.Status, nil
			}),
			actionCmd("cancel <id>", "Return a scheduled campaign to draft", "Campaign cancelled", func(ctx context.Context, id string) (string, error) {
				info, err := mgr.Services().Campaigns.Cancel(ctx, id)
				if err != nil {
					return "", err
				}
				return info.Status, nil
			}),
		},
	})
}

func groupsCmd() *cobra.Command {
	return newResourceCmd(resource[groups.Info]{
		name:     "groups",
		singular: "group",
		columns:  []string{"ID", "NAME", "ACTIVE", "UNSUBSCRIBED", "OPEN RATE", "CREATED"},
		row: func(g groups.Info) []string {
			return []string{g.ID, g.Name, strconv.Itoa(g.ActiveCount), strconv.Itoa(g.UnsubscribedCount), percent(g.OpenRate), g.CreatedAt}
		},
		list: func(ctx context.Context, f mailerlite.Filters) (*mailerlite.Page[groups.Info], error) {
			return mgr.Services().Groups.List(ctx, f)
		},
		get: func(ctx context.Context, id string) (*groups.Info, error) {
			return mgr.Services().Groups.GetByID(ctx, id)
		},
		missing: func(id string) error { return groups.NotFound(id, nil) },
		del: func(ctx context.Context, id string) (bool, error) {
			return mgr.Services().Groups.Delete(ctx, id)
		},
		missingName: func(name string) error { return groups.NotFoundByName(name) },
		byName: func(ctx context.Context, name string) (*groups.Info, error) {
			return mgr.Services().Groups.FindByName(ctx, name)
		},
		subcommands: []*cobra.Command{groupsCreateCmd()},
	})
}

func groupsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := mgr.Groups().Named(args[0])
			if dryRun {
				if _, err := b.ToDTO(); err != nil {
					return err
				}
				logger.Info().Str("name", args[0]).Msg("[DRY RUN] Would create group")
				return nil
			}
			info, err := b.Create(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info().Str("id", info.ID).Str("name", info.Name).Msg("Group created")
			return nil
		},
	}
}

func fieldsCmd() *cobra.Command {
	return newResourceCmd(resource[fields.Info]{
		name:     "fields",
		singular: "field",
		columns:  []string{"ID", "NAME", "KEY", "TYPE", "DEFAULT"},
		row: func(f fields.Info) []string {
			return []string{f.ID, f.Name, f.Key, f.Type, strconv.FormatBool(f.IsDefault)}
		},
		list: func(ctx context.Context, f mailerlite.Filters) (*mailerlite.Page[fields.Info], error) {
			return mgr.Services().Fields.List(ctx, f)
		},
		get: func(ctx context.Context, id string) (*fields.Info, error) {
			return mgr.Services().Fields.GetByID(ctx, id)
		},
		missing: func(id string) error { return fields.NotFound(id, nil) },
		del: func(ctx context.Context, id string) (bool, error) {
			return mgr.Services().Fields.Delete(ctx, id)
		},
		missingName: func(name string) error { return fields.NotFoundByName(name) },
		byName: func(ctx context.Context, name string) (*fields.Info, error) {
			return mgr.Services().Fields.FindByName(ctx, name)
		},
	})
}

func segmentsCmd() *cobra.Command {
	return newResourceCmd(resource[segments.Info]{
		name:     "segments",
		singular: "segment",
		columns:  []string{"ID", "NAME", "STATUS", "TOTAL", "OPEN RATE", "CREATED"},
		row: func(s segments.Info) []string {
			return []string{s.ID, s.Name, s.Status, strconv.Itoa(s.Total), percent(s.OpenRate), s.CreatedAt}
		},
		list: func(ctx context.Context, f mailerlite.Filters) (*mailerlite.Page[segments.Info], error) {
			return mgr.Services().Segments.List(ctx, f)
		},
		get: func(ctx context.Context, id string) (*segments.Info, error) {
			return mgr.Services().Segments.GetByID(ctx, id)
		},
		missing: func(id string) error { return segments.NotFound(id, nil) },
		del: func(ctx context.Context, id string) (bool, error) {
			return mgr.Services().Segments.Delete(ctx, id)
		},
		subcommands: []*cobra.Command{
			actionCmd("refresh <id>", "Recalculate a segment", "Segment refreshed", func(ctx context.Context, id string) (string, error) {
				info, err := mgr.Services().Segments.Refresh(ctx, id)
				if err != nil {
					return "", err
				}
				return info.Status, nil
			}),
		},
	})
}

func automationsCmd() *cobra.Command {
	return newResourceCmd(resource[automations.Info]{
		name:     "automations",
		singular: "automation",
		columns:  []string{"ID", "NAME", "STATUS", "STEPS", "COMPLETED", "QUEUED"},
		row: func(a automations.Info) []string {
			return []string{a.ID, a.Name, a.Status, strconv.Itoa(a.StepsCount),
				strconv.Itoa(a.Stats.CompletedSubscribersCount), strconv.Itoa(a.Stats.SubscribersInQueueCount)}
		},
		list: func(ctx context.Context, f mailerlite.Filters) (*mailerlite.Page[automations.Info], error) {
			return mgr.Services().Automations.List(ctx, f)
		},
		get: func(ctx context.Context, id string) (*automations.Info, error) {
			return mgr.Services().Automations.GetByID(ctx, id)
		},
		missing: func(id string) error { return automations.NotFound(id, nil) },
		del: func(ctx context.Context, id string) (bool, error) {
			return mgr.Services().Automations.Delete(ctx, id)
		},
		missingName: func(name string) error { return automations.NotFoundByName(name) },
		byName: func(ctx context.Context, name string) (*automations.Info, error) {
			return mgr.Services().Automations.FindByName(ctx, name)
		},
		status: true,
		subcommands: []*cobra.Command{
			automationActionCmd("start", "Start an automation", (*automations.Service).Start),
			automationActionCmd("stop", "Stop an automation", (*automations.Service).Stop),
			automationActionCmd("pause", "Pause an automation", (*automations.Service).Pause),
			automationActionCmd("resume", "Resume a paused automation", (*automations.Service).Resume),
		},
	})
}

func automationActionCmd(verb, short string, call func(*automations.Service, context.Context, string) (*automations.Info, error)) *cobra.Command {
	return actionCmd(verb+" <id>", short, "Automation "+verb, func(ctx context.Context, id string) (string, error) {
		info, err := call(mgr.Services().Automations, ctx, id)
		if err != nil {
			return "", err
		}
		return info.Status, nil
	})
}

func webhooksCmd() *cobra.Command {
	return newResourceCmd(resource[webhooks.Info]{
		name:     "webhooks",
		singular: "webhook",
		columns:  []string{"ID", "NAME", "URL", "ENABLED", "EVENTS"},
		row: func(w webhooks.Info) []string {
			return []string{w.ID, w.Name, w.URL, strconv.FormatBool(w.Enabled), strings.Join(w.Events, ",")}
		},
		list: func(ctx context.Context, f mailerlite.Filters) (*mailerlite.Page[webhooks.Info], error) {
			return mgr.Services().Webhooks.List(ctx, f)
		},
		get: func(ctx context.Context, id string) (*webhooks.Info, error) {
			return mgr.Services().Webhooks.GetByID(ctx, id)
		},
		missing: func(id string) error { return webhooks.NotFound(id, nil) },
		del: func(ctx context.Context, id string) (bool, error) {
			return mgr.Services().Webhooks.Delete(ctx, id)
		},
		subcommands: []*cobra.Command{
			actionCmd("test <id>", "Send a test delivery to a webhook", "Webhook test sent", func(ctx context.Context, id string) (string, error) {
				if _, err := mgr.Services().Webhooks.Test(ctx, id); err != nil {
					return "", err
				}
				return "", nil
			}),
			actionCmd("enable <id>", "Enable a webhook", "Webhook enabled", func(ctx context.Context, id string) (string, error) {
				_, err := mgr.Services().Webhooks.Enable(ctx, id)
				return "", err
			}),
			actionCmd("disable <id>", "Disable a webhook", "Webhook disabled", func(ctx context.Context, id string) (string, error) {
				_, err := mgr.Services().Webhooks.Disable(ctx, id)
				return "", err
			}),
		},
	})
}

// actionCmd builds a one-argument command around a state change. The
// returned status, when not empty, is logged alongside done.
func actionCmd(use, short, done string, run func(ctx context.Context, ref string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				logger.Info().Str("ref", args[0]).Msgf("[DRY RUN] Would run %s", strings.Fields(use)[0])
				return nil
			}
			status, err := run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			event := logger.Info().Str("ref", args[0])
			if status != "" {
				event = event.Str("status", status)
			}
			event.Msg(done)
			return nil
		},
	}
}
