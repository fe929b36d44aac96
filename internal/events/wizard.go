package events

import (
	"context"
	"errors"
	"fmt"

	"evently/internal/shared/validation"
)

// Step is a page of the create-event wizard
type Step int

const (
	StepBasics Step = iota
	StepSchedule
	StepTickets
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepBasics:
		return "basics"
	case StepSchedule:
		return "schedule"
	case StepTickets:
		return "tickets"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// Creator is where a finished wizard sends its form
type Creator interface {
	Create(ctx context.Context, form EventForm) (*Event, error)
}

// Wizard walks an organizer through event creation one step at a time.
// Next validates the current step, Back never does. A Wizard belongs to one
// user and is not safe for concurrent use.
type Wizard struct {
	creator Creator
	form    EventForm
	step    Step
}

func NewWizard(creator Creator) *Wizard {
	return &Wizard{creator: creator, step: StepBasics}
}

// Form returns the form for editing
func (w *Wizard) Form() *EventForm {
	return &w.form
}

// Step returns the current step
func (w *Wizard) Step() Step {
	return w.step
}

// AddTicketType appends a ticket type row
func (w *Wizard) AddTicketType(tt TicketTypeForm) {
	w.form.TicketTypes = append(w.form.TicketTypes, tt)
}

// RemoveTicketType drops the row at i
func (w *Wizard) RemoveTicketType(i int) {
	if i < 0 || i >= len(w.form.TicketTypes) {
		return
	}
	w.form.TicketTypes = append(w.form.TicketTypes[:i], w.form.TicketTypes[i+1:]...)
}

// Next validates the current step and advances when it passes
func (w *Wizard) Next() error {
	if err := w.Validate(w.step); err != nil {
		return err
	}
	if w.step < StepReview {
		w.step++
	}
	return nil
}

// Back returns to the previous step without validating
func (w *Wizard) Back() {
	if w.step > StepBasics {
		w.step--
	}
}

// Submit validates every step and creates the event. On a validation failure
// the wizard moves to the first failing step.
func (w *Wizard) Submit(ctx context.Context) (*Event, error) {
	for step := StepBasics; step < StepReview; step++ {
		if err := w.Validate(step); err != nil {
			w.step = step
			return nil, err
		}
	}
	return w.creator.Create(ctx, w.form)
}

type basicsStep struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
	Category    string `json:"category" validate:"omitempty,max=100"`
	EventImage  string `json:"eventImage" validate:"omitempty,url"`
}

type scheduleStep struct {
	EventDate  string `json:"eventDate" validate:"required"`
	EndDate    string `json:"endDate"`
	Venue      string `json:"venue" validate:"required,max=200"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	Country    string `json:"country" validate:"required"`
	PostalCode string `json:"postalCode" validate:"omitempty,max=20"`
}

type ticketsStep struct {
	TicketTypes []ticketTypeStep `json:"ticketTypes" validate:"required,min=1,dive"`
}

type ticketTypeStep struct {
	Name          string `json:"name" validate:"required,max=100"`
	Price         string `json:"price" validate:"required"`
	TotalQuantity string `json:"totalQuantity" validate:"required"`
}

// Validate checks one step of the form
func (w *Wizard) Validate(step Step) error {
	f := w.form
	switch step {
	case StepBasics:
		return validation.Struct(basicsStep{
			Name:        f.Name,
			Description: f.Description,
			Category:    f.Category,
			EventImage:  f.EventImage,
		})
	case StepSchedule:
		return validateSchedule(f)
	case StepTickets:
		return validateTickets(f)
	default:
		return nil
	}
}

func validateSchedule(f EventForm) error {
	err := validation.Struct(scheduleStep{
		EventDate:  f.EventDate,
		EndDate:    f.EndDate,
		Venue:      f.Venue,
		Address:    f.Address,
		City:       f.City,
		State:      f.State,
		Country:    f.Country,
		PostalCode: f.PostalCode,
	})
	verr := &validation.Error{}
	if err != nil && !errors.As(err, &verr) {
		return err
	}

	if f.EventDate != "" {
		start, perr := ParseLocalDateTime(f.EventDate)
		if perr != nil {
			verr.Add("eventDate", "must be a date and time like 2025-01-31T19:30")
		} else if f.EndDate != "" {
			end, eerr := ParseLocalDateTime(f.EndDate)
			switch {
			case eerr != nil:
				verr.Add("endDate", "must be a date and time like 2025-01-31T22:00")
			case !end.After(start):
				verr.Add("endDate", "must be after the event starts")
			}
		}
	}
	return verr.Err()
}

func validateTickets(f EventForm) error {
	rows := make([]ticketTypeStep, 0, len(f.TicketTypes))
	for _, tt := range f.TicketTypes {
		rows = append(rows, ticketTypeStep{Name: tt.Name, Price: tt.Price, TotalQuantity: tt.TotalQuantity})
	}

	err := validation.Struct(ticketsStep{TicketTypes: rows})
	verr := &validation.Error{}
	if err != nil && !errors.As(err, &verr) {
		return err
	}

	for i, tt := range f.TicketTypes {
		field := fmt.Sprintf("ticketTypes[%d]", i)
		if tt.Price != "" {
			price, perr := ParsePrice(tt.Price)
			switch {
			case perr != nil:
				verr.Add(field+".price", perr.Error())
			case price.IsNegative():
				verr.Add(field+".price", "must not be negative")
			}
		}
		if tt.TotalQuantity != "" {
			qty, qerr := ParseQuantity(tt.TotalQuantity)
			switch {
			case qerr != nil:
				verr.Add(field+".totalQuantity", qerr.Error())
			case qty < 1:
				verr.Add(field+".totalQuantity", "must be at least 1")
			}
		}
		if tt.SaleEndDate != "" {
			if _, derr := ParseLocalDateTime(tt.SaleEndDate); derr != nil {
				verr.Add(field+".saleEndDate", "must be a date and time like 2025-01-31T18:00")
			}
		}
	}
	return verr.Err()
}
