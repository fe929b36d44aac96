package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"evently/internal/auth"
	"evently/internal/payments"
	"evently/internal/tickets"
)

var validationRoles = []string{auth.RoleOrganizer, auth.RoleStaff, auth.RoleAdmin}

func ticketsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Your tickets, refunds and check-in",
	}
	cmd.AddCommand(
		ticketsListCommand(c),
		ticketsShowCommand(c),
		ticketsRefundCommand(c),
		ticketsQRCommand(c),
		ticketsValidateCommand(c),
	)
	return cmd
}

func ticketsListCommand(c *cli) *cobra.Command {
	var params tickets.ListParams

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List your tickets",
		Args:    cobra.NoArgs,
		PreRunE: c.requireRoles(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := c.app.Tickets.FetchMine(cmd.Context(), params)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.print(page, nil)
			}
			return c.printTickets(page.Items())
		},
	}
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number, from 0")
	cmd.Flags().IntVar(&params.Size, "size", 0, "page size; the server default when 0")
	return cmd
}

func ticketsShowCommand(c *cli) *cobra.Command {
	var byNumber bool

	cmd := &cobra.Command{
		Use:     "show ID",
		Short:   "Show one ticket",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireRoles(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ticket *tickets.Ticket
				err    error
			)
			if byNumber {
				ticket, err = c.app.Tickets.GetByNumber(cmd.Context(), args[0])
			} else {
				ticket, err = c.app.Tickets.Get(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			return c.printTickets([]tickets.Ticket{*ticket})
		},
	}
	cmd.Flags().BoolVar(&byNumber, "number", false, "treat the argument as a ticket number")
	return cmd
}

func ticketsRefundCommand(c *cli) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:     "refund ID",
		Short:   "Ask the organizer for a refund",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireRoles(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticket, err := c.app.Tickets.RequestRefund(cmd.Context(), args[0], reason)
			if err != nil {
				return err
			}
			return c.printTickets([]tickets.Ticket{*ticket})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "why you want a refund")
	return cmd
}

func ticketsQRCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "qr ID",
		Short:   "Print the ticket's QR code payload",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireRoles(),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := c.app.Tickets.QRCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.print(map[string]string{"qrCode": code}, nil)
			}
			fmt.Fprintln(c.out, code)
			return nil
		},
	}
}

func ticketsValidateCommand(c *cli) *cobra.Command {
	var req tickets.ValidateRequest

	cmd := &cobra.Command{
		Use:     "validate",
		Short:   "Check a ticket in at the door",
		Args:    cobra.NoArgs,
		PreRunE: c.requireRoles(validationRoles...),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.ValidatedBy == "" {
				req.ValidatedBy = c.app.Session.Email()
			}
			result, err := c.app.Tickets.Validate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := c.print(result, func(w io.Writer) {
				fmt.Fprintf(w, "VALID\tMESSAGE\n%t\t%s\n", result.Valid, result.Message)
			}); err != nil {
				return err
			}
			if !result.Valid {
				return errors.New("ticket rejected")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.TicketNumber, "number", "", "ticket number")
	cmd.Flags().StringVar(&req.QRCode, "qr", "", "scanned QR code payload")
	cmd.Flags().StringVar(&req.ValidatedBy, "by", "", "validator; defaults to your email")
	return cmd
}

func checkoutCommand(c *cli) *cobra.Command {
	var req payments.PurchaseRequest

	cmd := &cobra.Command{
		Use:     "checkout EVENT_ID",
		Short:   "Buy tickets through the payment gateway",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.requireRoles(),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := c.app.Events.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			req.Event = event

			receipt, err := c.app.Checkout.Purchase(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.print(receipt, func(w io.Writer) {
				fmt.Fprintf(w, "ORDER\tPAYMENT\tQUANTITY\tAMOUNT\n")
				fmt.Fprintf(w, "%s\t%s\t%d\t%s %s\n", receipt.OrderID, receipt.PaymentID, receipt.Quantity, receipt.Amount.StringFixed(2), receipt.Currency)
			})
		},
	}
	cmd.Flags().StringVar(&req.TicketTypeID, "ticket-type", "", "ticket type id, as listed by events show")
	cmd.Flags().IntVar(&req.Quantity, "quantity", 1, "number of tickets")
	cmd.Flags().StringVar(&req.Currency, "currency", "", "currency; defaults to PAYMENT_CURRENCY")
	return cmd
}

func (c *cli) printTickets(list []tickets.Ticket) error {
	return c.print(list, func(w io.Writer) {
		fmt.Fprintf(w, "ID\tNUMBER\tEVENT\tTYPE\tPRICE\tSTATUS\n")
		for _, t := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.TicketNumber, t.EventName, t.TicketTypeName, t.Price.StringFixed(2), t.DisplayStatus())
		}
	})
}
