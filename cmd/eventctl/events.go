package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"evently/internal/auth"
	"evently/internal/events"
	"evently/internal/shared/validation"
)

var organizerRoles = []string{auth.RoleOrganizer, auth.RoleAdmin}

func eventsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse and manage events",
	}

	cmd.AddCommand(
		eventsListCommand(c),
		eventsSearchCommand(c),
		eventsShowCommand(c),
		eventsFeaturedCommand(c),
		pagedEventsCommand(c, "upcoming", "List upcoming events", nil,
			func(ctx context.Context, p events.ListParams) (*events.Page, error) {
				return c.app.Events.FetchUpcoming(ctx, p)
			}),
		pagedEventsCommand(c, "mine", "List the events you organize", organizerRoles,
			func(ctx context.Context, p events.ListParams) (*events.Page, error) {
				return c.app.Events.FetchOrganizer(ctx, p)
			}),
		eventsCreateCommand(c),
		eventActionCommand(c, "publish", "Publish a draft event", (*events.Store).Publish),
		eventActionCommand(c, "cancel", "Cancel an event", (*events.Store).Cancel),
		eventActionCommand(c, "feature", "Toggle the featured flag", (*events.Store).ToggleFeatured),
		eventsDeleteCommand(c),
	)
	return cmd
}

func addPageFlags(cmd *cobra.Command, p *events.ListParams) {
	cmd.Flags().IntVar(&p.Page, "page", 0, "page number, from 0")
	cmd.Flags().IntVar(&p.Size, "size", 0, "page size; the server default when 0")
}

func eventsListCommand(c *cli) *cobra.Command {
	var (
		params         events.ListParams
		category, city string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var (
				page *events.Page
				err  error
			)
			switch {
			case category != "":
				page, err = c.app.Events.FetchByCategory(ctx, category, params)
			case city != "":
				page, err = c.app.Events.FetchByCity(ctx, city, params)
			default:
				page, err = c.app.Events.Fetch(ctx, params)
			}
			if err != nil {
				return err
			}
			return c.printEventPage(page)
		},
	}
	addPageFlags(cmd, &params)
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().StringVar(&city, "city", "", "only this city")
	return cmd
}

func eventsSearchCommand(c *cli) *cobra.Command {
	var params events.ListParams

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search published events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := c.app.Events.Search(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return c.printEventPage(page)
		},
	}
	addPageFlags(cmd, &params)
	return cmd
}

func pagedEventsCommand(c *cli, use, short string, roles []string, fetch func(context.Context, events.ListParams) (*events.Page, error)) *cobra.Command {
	var params events.ListParams

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := fetch(cmd.Context(), params)
			if err != nil {
				return err
			}
			return c.printEventPage(page)
		},
	}
	if roles != nil {
		cmd.PreRunE = c.requireRoles(roles...)
	}
	addPageFlags(cmd, &params)
	return cmd
}

func eventsFeaturedCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "featured",
		Short: "List featured events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.app.Events.FetchFeatured(cmd.Context())
			if err != nil {
				return err
			}
			return c.printEvents(list)
		},
	}
}

func eventsShowCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one event with its ticket types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := c.app.Events.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(event, func(w io.Writer) {
				fmt.Fprintf(w, "%s\t%s\n", event.Name, event.Status)
				fmt.Fprintf(w, "When\t%s\n", event.EventDate)
				fmt.Fprintf(w, "Where\t%s, %s\n", event.Venue, event.City)
				fmt.Fprintln(w)
				fmt.Fprintf(w, "TICKET TYPE\tID\tPRICE\tAVAILABLE\n")
				for _, tt := range event.TicketTypes {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\n", tt.Name, tt.ID, tt.Price.StringFixed(2), tt.AvailableQuantity, tt.TotalQuantity)
				}
			})
		},
	}
}

func eventsCreateCommand(c *cli) *cobra.Command {
	var (
		form        events.EventForm
		ticketTypes []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event through the wizard",
		Long: `Create an event. Each --ticket-type is NAME:PRICE:QUANTITY, for example
--ticket-type "General:499:200". Tags are comma separated.`,
		Args:    cobra.NoArgs,
		PreRunE: c.requireRoles(organizerRoles...),
		RunE: func(cmd *cobra.Command, _ []string) error {
			wizard := events.NewWizard(c.app.Events)
			*wizard.Form() = form
			for _, value := range ticketTypes {
				tt, err := parseTicketType(value)
				if err != nil {
					return err
				}
				wizard.AddTicketType(tt)
			}

			event, err := wizard.Submit(cmd.Context())
			if err != nil {
				var verr *validation.Error
				if errors.As(err, &verr) {
					return fmt.Errorf("%s step: %w", wizard.Step(), err)
				}
				return err
			}
			return c.printEvents([]events.Event{*event})
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "event name")
	f.StringVar(&form.Description, "description", "", "description")
	f.StringVar(&form.Category, "category", "", "category")
	f.StringVar(&form.EventImage, "image", "", "image URL")
	f.StringVar(&form.Tags, "tags", "", `comma separated tags, e.g. "music, live"`)
	f.StringVar(&form.EventDate, "date", "", "start, YYYY-MM-DDTHH:MM")
	f.StringVar(&form.EndDate, "end-date", "", "end, YYYY-MM-DDTHH:MM")
	f.StringVar(&form.Venue, "venue", "", "venue")
	f.StringVar(&form.Address, "address", "", "street address")
	f.StringVar(&form.City, "city", "", "city")
	f.StringVar(&form.State, "state", "", "state")
	f.StringVar(&form.Country, "country", "", "country")
	f.StringVar(&form.PostalCode, "postal-code", "", "postal code")
	f.StringArrayVar(&ticketTypes, "ticket-type", nil, "NAME:PRICE:QUANTITY, repeatable")
	return cmd
}

func parseTicketType(value string) (events.TicketTypeForm, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return events.TicketTypeForm{}, fmt.Errorf("ticket type %q: want NAME:PRICE:QUANTITY", value)
	}
	return events.TicketTypeForm{
		Name:          strings.TrimSpace(parts[0]),
		Price:         strings.TrimSpace(parts[1]),
		TotalQuantity: strings.TrimSpace(parts[2]),
	}, nil
}

func eventActionCommand(c *cli, use, short string, action func(*events.Store, context.Context, string) (*events.Event, error)) *cobra.Command {
	return &cobra.Command{
		Use:     use + " ID",
		Short:   short,
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireRoles(organizerRoles...),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := action(c.app.Events, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printEvents([]events.Event{*event})
		},
	}
}

func eventsDeleteCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireRoles(organizerRoles...),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Events.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) printEventPage(page *events.Page) error {
	if c.jsonOutput {
		return c.print(page, nil)
	}
	if err := c.printEvents(page.Items()); err != nil {
		return err
	}
	if page.TotalPages > 1 {
		fmt.Fprintf(c.out, "page %d of %d, %d events\n", page.Number+1, page.TotalPages, page.TotalElements)
	}
	return nil
}

func (c *cli) printEvents(list []events.Event) error {
	return c.print(list, func(w io.Writer) {
		fmt.Fprintf(w, "ID\tNAME\tDATE\tCITY\tSTATUS\tFROM\n")
		for _, e := range list {
			from := "-"
			if price, ok := e.LowestPrice(); ok {
				from = price.StringFixed(2)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.EventDate, e.City, e.Status, from)
		}
	})
}
