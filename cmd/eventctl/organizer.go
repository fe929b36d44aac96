package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"evently/internal/analytics"
	"evently/internal/tickets"
)

func organizerCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organizer",
		Short: "Sales, attendees and refunds for your events",
	}

	refunds := &cobra.Command{
		Use:     "refunds",
		Short:   "List pending refund requests",
		Args:    cobra.NoArgs,
		PreRunE: c.requireRoles(organizerRoles...),
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.app.Tickets.FetchRefundRequests(cmd.Context())
			if err != nil {
				return err
			}
			return c.printTickets(list)
		},
	}

	processRefund := &cobra.Command{
		Use:     "process-refund TICKET_ID",
		Short:   "Approve a refund request",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireRoles(organizerRoles...),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticket, err := c.app.Tickets.ProcessRefund(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printTickets([]tickets.Ticket{*ticket})
		},
	}

	var status string
	attendees := &cobra.Command{
		Use:     "attendees EVENT_ID",
		Short:   "List an event's tickets",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireRoles(organizerRoles...),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				list []tickets.Ticket
				err  error
			)
			switch status {
			case "active":
				list, err = c.app.Tickets.FetchActiveByEvent(ctx, args[0])
			case "used":
				list, err = c.app.Tickets.FetchUsedByEvent(ctx, args[0])
			case "":
				list, err = c.app.Tickets.FetchByEvent(ctx, args[0])
			default:
				return fmt.Errorf("unknown --status %q, want active or used", status)
			}
			if err != nil {
				return err
			}
			return c.printTickets(list)
		},
	}
	attendees.Flags().StringVar(&status, "status", "", "only active or used tickets")

	expired := &cobra.Command{
		Use:     "expired",
		Short:   "List expired tickets",
		Args:    cobra.NoArgs,
		PreRunE: c.requireRoles(organizerRoles...),
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.app.Tickets.FetchExpired(cmd.Context())
			if err != nil {
				return err
			}
			return c.printTickets(list)
		},
	}

	overview := &cobra.Command{
		Use:     "overview",
		Short:   "Totals across your events",
		Args:    cobra.NoArgs,
		PreRunE: c.requireRoles(organizerRoles...),
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := c.app.Analytics.OrganizerOverview(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(o, func(w io.Writer) {
				fmt.Fprintf(w, "EVENTS\tACTIVE\tSOLD\tREVENUE\n")
				fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", o.TotalEvents, o.ActiveEvents, o.TicketsSold, o.Revenue.StringFixed(2))
			})
		},
	}

	metrics := &cobra.Command{
		Use:     "metrics EVENT_ID",
		Short:   "Ticket counts for one event",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireRoles(organizerRoles...),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.app.Analytics.EventMetrics(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(m, func(w io.Writer) {
				fmt.Fprintf(w, "SOLD\tUSED\tREFUNDED\tREVENUE\tCHECK-IN\n")
				fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s%%\n", m.Sold, m.Used, m.Refunded, m.Revenue.StringFixed(2), m.CheckInRate().Shift(2).StringFixed(1))
			})
		},
	}

	var days int
	sales := &cobra.Command{
		Use:     "sales",
		Short:   "Daily sales",
		Args:    cobra.NoArgs,
		PreRunE: c.requireRoles(organizerRoles...),
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.app.Analytics.SalesByDate(cmd.Context(), days)
			if err != nil {
				return err
			}
			return c.print(list, func(w io.Writer) {
				fmt.Fprintf(w, "DATE\tSALES\n")
				for _, d := range list {
					fmt.Fprintf(w, "%s\t%s\n", d.Date, d.TotalSales.StringFixed(2))
				}
				fmt.Fprintf(w, "total\t%s\n", analytics.SalesTotal(list).StringFixed(2))
			})
		},
	}
	sales.Flags().IntVar(&days, "days", 30, "days of history")

	cmd.AddCommand(refunds, processRefund, attendees, expired, overview, metrics, sales)
	return cmd
}
