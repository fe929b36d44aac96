package views

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"evently/internal/app"
	"evently/internal/auth"
	"evently/internal/events"
	"evently/internal/payments"
	"evently/internal/shared/constants"
	"evently/internal/shared/utils/response"
	"evently/internal/shared/validation"
	"evently/internal/tickets"
)

// Controller defines the web shell handlers
type Controller interface {
	// Session
	GetSession(c *gin.Context)
	Login(c *gin.Context)
	Register(c *gin.Context)
	Logout(c *gin.Context)
	ResolveRoute(c *gin.Context)

	// Public views
	Home(c *gin.Context)
	ListEvents(c *gin.Context)
	GetEvent(c *gin.Context)

	// Signed-in views
	Dashboard(c *gin.Context)
	Checkout(c *gin.Context)
	MyTickets(c *gin.Context)
	RequestRefund(c *gin.Context)
	TicketQRCode(c *gin.Context)
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	ChangePassword(c *gin.Context)

	// Organizer views
	CreateEvent(c *gin.Context)
	PublishEvent(c *gin.Context)
	CancelEvent(c *gin.Context)
	UploadImage(c *gin.Context)
	Sales(c *gin.Context)
	RefundRequests(c *gin.Context)
	ProcessRefund(c *gin.Context)
	Attendees(c *gin.Context)

	// Door staff
	ValidateTicket(c *gin.Context)
}

// controller implements the Controller interface
type controller struct {
	app *app.App
}

// NewController creates a new views controller instance
func NewController(a *app.App) Controller {
	return &controller{app: a}
}

// GetSession godoc
// @Summary  Current session
// @Tags     session
// @Produce  json
// @Success  200 {object} response.StandardApiResponse
// @Router   /session [get]
func (ctrl *controller) GetSession(c *gin.Context) {
	response.RespondJSON(c, "success", http.StatusOK, "Session retrieved successfully", ctrl.app.Session.Snapshot(), nil)
}

// Login godoc
// @Summary  Sign in
// @Tags     session
// @Accept   json
// @Produce  json
// @Param    body body auth.LoginRequest true "credentials"
// @Success  200 {object} response.StandardApiResponse
// @Failure  400 {object} response.StandardApiResponse
// @Failure  401 {object} response.StandardApiResponse
// @Router   /session/login [post]
func (ctrl *controller) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if _, err := ctrl.app.Session.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Login successful", ctrl.app.Session.Snapshot(), nil)
}

// Register godoc
// @Summary  Create an account and sign in
// @Tags     session
// @Accept   json
// @Produce  json
// @Param    body body auth.RegisterRequest true "registration form"
// @Success  201 {object} response.StandardApiResponse
// @Failure  400 {object} response.StandardApiResponse
// @Router   /session/register [post]
func (ctrl *controller) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if _, err := ctrl.app.Session.Register(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Registration successful", ctrl.app.Session.Snapshot(), nil)
}

func (ctrl *controller) Logout(c *gin.Context) {
	if err := ctrl.app.Session.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Logged out", nil, nil)
}

// ResolveRoute tells the caller what a navigation to ?path= would do
func (ctrl *controller) ResolveRoute(c *gin.Context) {
	result, err := ctrl.app.Routes.Resolve(ctrl.app.Session, c.Query("path"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, result.Decision.String(), result, nil)
}

// Home godoc
// @Summary  Featured and upcoming events
// @Tags     views
// @Produce  json
// @Success  200 {object} response.StandardApiResponse
// @Router   /views/home [get]
func (ctrl *controller) Home(c *gin.Context) {
	ctx := c.Request.Context()

	load := func() (interface{}, error) {
		view := HomeView{}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			featured, err := ctrl.app.Events.FetchFeatured(gctx)
			view.Featured = featured
			return err
		})
		g.Go(func() error {
			page, err := ctrl.app.Events.FetchUpcoming(gctx, events.ListParams{})
			if err == nil {
				view.Upcoming = page.Items()
			}
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return view, nil
	}

	var view HomeView
	if ctrl.app.Cache != nil {
		err := ctrl.app.Cache.GetOrSet(ctx, constants.BuildViewKey("home"), constants.TTL_VIEW_HOME, load, &view)
		if err != nil {
			respondError(c, errors.Unwrap(err))
			return
		}
	} else {
		v, err := load()
		if err != nil {
			respondError(c, err)
			return
		}
		view = v.(HomeView)
	}
	response.RespondJSON(c, "success", http.StatusOK, "Home retrieved successfully", view, nil)
}

// ListEvents godoc
// @Summary  Browse or search published events
// @Tags     views
// @Produce  json
// @Param    query query string false "search text"
// @Param    page  query int    false "page number"
// @Param    size  query int    false "page size"
// @Success  200 {object} response.StandardApiResponse
// @Router   /views/events [get]
func (ctrl *controller) ListEvents(c *gin.Context) {
	params := events.ListParams{Page: queryInt(c, "page", 0), Size: queryInt(c, "size", 0)}
	ctx := c.Request.Context()

	var (
		page *events.Page
		err  error
	)
	switch {
	case c.Query("query") != "":
		page, err = ctrl.app.Events.Search(ctx, c.Query("query"), params)
	case c.Query("category") != "":
		page, err = ctrl.app.Events.FetchByCategory(ctx, c.Query("category"), params)
	case c.Query("city") != "":
		page, err = ctrl.app.Events.FetchByCity(ctx, c.Query("city"), params)
	default:
		page, err = ctrl.app.Events.Fetch(ctx, params)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", page, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	event, err := ctrl.app.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

// Dashboard loads the holder's tickets, and the overview for organizers
func (ctrl *controller) Dashboard(c *gin.Context) {
	view := DashboardView{User: ctrl.app.Session.User()}
	role := ctrl.app.Session.Role()

	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		page, err := ctrl.app.Tickets.FetchMine(gctx, tickets.ListParams{})
		if err == nil {
			view.Tickets = page.Items()
		}
		return err
	})
	if role == auth.RoleOrganizer || role == auth.RoleAdmin {
		g.Go(func() error {
			overview, err := ctrl.app.Analytics.OrganizerOverview(gctx)
			view.Overview = overview
			return err
		})
	}
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Dashboard retrieved successfully", view, nil)
}

// Checkout godoc
// @Summary  Buy tickets through the payment gateway
// @Tags     views
// @Accept   json
// @Produce  json
// @Param    id   path string          true "event id"
// @Param    body body CheckoutRequest true "selection"
// @Success  200 {object} response.StandardApiResponse
// @Failure  400 {object} response.StandardApiResponse
// @Router   /views/events/{id}/checkout [post]
func (ctrl *controller) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := validation.Struct(&req); err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()

	event, err := ctrl.app.Events.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	receipt, err := ctrl.app.Checkout.Purchase(ctx, payments.PurchaseRequest{
		Event:        event,
		TicketTypeID: req.TicketTypeID,
		Quantity:     req.Quantity,
		Currency:     req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Payment verified", receipt, nil)
}

func (ctrl *controller) MyTickets(c *gin.Context) {
	page, err := ctrl.app.Tickets.FetchMine(c.Request.Context(), tickets.ListParams{
		Page: queryInt(c, "page", 0),
		Size: queryInt(c, "size", 0),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Tickets retrieved successfully", page, nil)
}

func (ctrl *controller) RequestRefund(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ticket, err := ctrl.app.Tickets.RequestRefund(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Refund requested", ticket, nil)
}

func (ctrl *controller) TicketQRCode(c *gin.Context) {
	code, err := ctrl.app.Tickets.QRCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "QR code generated", gin.H{"qrCode": code}, nil)
}

func (ctrl *controller) GetProfile(c *gin.Context) {
	user, err := ctrl.app.Session.RefreshProfile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Profile retrieved successfully", user, nil)
}

func (ctrl *controller) UpdateProfile(c *gin.Context) {
	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	user, err := ctrl.app.Session.UpdateProfile(c.Request.Context(), changes)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Profile updated successfully", user, nil)
}

func (ctrl *controller) ChangePassword(c *gin.Context) {
	var req PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.app.Session.ChangePassword(c.Request.Context(), req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Password changed successfully", nil, nil)
}

// CreateEvent godoc
// @Summary  Run the create-event wizard over a complete form
// @Tags     organizer
// @Accept   json
// @Produce  json
// @Param    body body events.EventForm true "event form"
// @Success  201 {object} response.StandardApiResponse
// @Failure  400 {object} response.StandardApiResponse
// @Router   /views/create-event [post]
func (ctrl *controller) CreateEvent(c *gin.Context) {
	var form events.EventForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	wizard := events.NewWizard(ctrl.app.Events)
	*wizard.Form() = form

	event, err := wizard.Submit(c.Request.Context())
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil,
				WizardFailure{Step: wizard.Step().String(), Fields: verr.Fields})
			return
		}
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", event, nil)
}

func (ctrl *controller) PublishEvent(c *gin.Context) {
	event, err := ctrl.app.Events.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event published", event, nil)
}

func (ctrl *controller) CancelEvent(c *gin.Context) {
	event, err := ctrl.app.Events.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Event cancelled", event, nil)
}

// UploadImage forwards a multipart "file" to the backend's image store
func (ctrl *controller) UploadImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "file is required", nil, err.Error())
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	url, err := ctrl.app.Uploads.UploadImage(c.Request.Context(), header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Image uploaded", gin.H{"url": url}, nil)
}

// Sales godoc
// @Summary  Organizer overview, sales by date and own events
// @Tags     organizer
// @Produce  json
// @Param    days query int false "days of sales history" default(30)
// @Success  200 {object} response.StandardApiResponse
// @Router   /views/organizer/sales [get]
func (ctrl *controller) Sales(c *gin.Context) {
	days := queryInt(c, "days", 30)
	var view SalesView

	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		overview, err := ctrl.app.Analytics.OrganizerOverview(gctx)
		view.Overview = overview
		return err
	})
	g.Go(func() error {
		sales, err := ctrl.app.Analytics.SalesByDate(gctx, days)
		view.Sales = sales
		return err
	})
	g.Go(func() error {
		page, err := ctrl.app.Events.FetchOrganizer(gctx, events.ListParams{})
		if err == nil {
			view.Events = page.Items()
		}
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Sales retrieved successfully", view, nil)
}

func (ctrl *controller) RefundRequests(c *gin.Context) {
	list, err := ctrl.app.Tickets.FetchRefundRequests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Refund requests retrieved successfully", list, nil)
}

func (ctrl *controller) ProcessRefund(c *gin.Context) {
	ticket, err := ctrl.app.Tickets.ProcessRefund(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Refund processed", ticket, nil)
}

func (ctrl *controller) Attendees(c *gin.Context) {
	eventID := c.Param("eventId")
	ctx := c.Request.Context()

	var (
		list []tickets.Ticket
		err  error
	)
	switch c.Query("status") {
	case "active":
		list, err = ctrl.app.Tickets.FetchActiveByEvent(ctx, eventID)
	case "used":
		list, err = ctrl.app.Tickets.FetchUsedByEvent(ctx, eventID)
	default:
		list, err = ctrl.app.Tickets.FetchByEvent(ctx, eventID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Attendees retrieved successfully", list, nil)
}

// ValidateTicket godoc
// @Summary  Check a ticket in at the door
// @Tags     staff
// @Accept   json
// @Produce  json
// @Param    body body tickets.ValidateRequest true "ticket number or QR code"
// @Success  200 {object} response.StandardApiResponse
// @Router   /views/validate-tickets [post]
func (ctrl *controller) ValidateTicket(c *gin.Context) {
	var req tickets.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if req.ValidatedBy == "" {
		req.ValidatedBy = ctrl.app.Session.Email()
	}

	result, err := ctrl.app.Tickets.Validate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, result.Message, result, nil)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return fallback
}
