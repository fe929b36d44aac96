package guard

import (
	"errors"
	"net/url"
	"strings"

	"evently/internal/auth"
)

// View paths
const (
	PathHome            = "/"
	PathLogin           = "/login"
	PathRegister        = "/register"
	PathForgotPassword  = "/forgot-password"
	PathEvents          = "/events"
	PathEventDetail     = "/events/:id"
	PathDashboard       = "/dashboard"
	PathMyTickets       = "/my-tickets"
	PathProfile         = "/profile"
	PathSettings        = "/settings"
	PathCreateEvent     = "/create-event"
	PathOrganizerSales  = "/organizer/sales"
	PathOrganizerAttend = "/organizer/attendees"
	PathValidateTickets = "/validate-tickets"
)

var ErrRouteNotFound = errors.New("route not found")

// Route is one view and the access it requires
type Route struct {
	Path      string
	Name      string
	Protected bool
	Roles     []string
}

var (
	organizerRoles  = []string{auth.RoleOrganizer, auth.RoleAdmin}
	validationRoles = []string{auth.RoleOrganizer, auth.RoleStaff, auth.RoleAdmin}
)

// DefaultRoutes returns the client's view table
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathHome, Name: "home"},
		{Path: PathLogin, Name: "login"},
		{Path: PathRegister, Name: "register"},
		{Path: PathForgotPassword, Name: "forgot-password"},
		{Path: PathEvents, Name: "events"},
		{Path: PathEventDetail, Name: "event-detail"},
		{Path: PathDashboard, Name: "dashboard", Protected: true},
		{Path: PathMyTickets, Name: "my-tickets", Protected: true},
		{Path: PathProfile, Name: "profile", Protected: true},
		{Path: PathSettings, Name: "settings", Protected: true},
		{Path: PathCreateEvent, Name: "create-event", Protected: true, Roles: organizerRoles},
		{Path: PathOrganizerSales, Name: "organizer-sales", Protected: true, Roles: organizerRoles},
		{Path: PathOrganizerAttend, Name: "organizer-attendees", Protected: true, Roles: organizerRoles},
		{Path: PathValidateTickets, Name: "validate-tickets", Protected: true, Roles: validationRoles},
	}
}

// Result is where a navigation ends up
type Result struct {
	Decision Decision
	Route    Route
	// Location is the path to render or redirect to
	Location string
	// From is the originally requested path, kept on a login redirect
	From string
}

// Router resolves paths against a route table
type Router struct {
	routes []Route
}

func NewRouter(routes []Route) *Router {
	return &Router{routes: routes}
}

// Match finds the route for path. Segments starting with ':' match any value.
func (r *Router) Match(path string) (Route, bool) {
	path = cleanPath(path)
	for _, route := range r.routes {
		if matches(route.Path, path) {
			return route, true
		}
	}
	return Route{}, false
}

// Resolve guards a navigation to path
func (r *Router) Resolve(state SessionState, path string) (Result, error) {
	route, ok := r.Match(path)
	if !ok {
		return Result{}, ErrRouteNotFound
	}

	if !route.Protected {
		return Result{Decision: Allow, Route: route, Location: path}, nil
	}

	decision := DecideFor(state, route.Roles)
	res := Result{Decision: decision, Route: route}
	switch decision {
	case Pending, Allow:
		res.Location = path
	case RedirectLogin:
		res.Location = PathLogin
		res.From = path
	case RedirectHome:
		res.Location = PathHome
	}
	return res, nil
}

// LoginRedirect builds the login location carrying the requested path
func LoginRedirect(from string) string {
	if from == "" {
		return PathLogin
	}
	return PathLogin + "?from=" + url.QueryEscape(from)
}

func cleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}

func matches(pattern, path string) bool {
	if pattern == path {
		return true
	}
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}

// Navigate resolves path and records where the user ends up in h.
// A pending decision records nothing; the caller retries once loading ends.
func (r *Router) Navigate(state SessionState, h *History, path string) (Result, error) {
	res, err := r.Resolve(state, path)
	if err != nil {
		return res, err
	}
	switch res.Decision {
	case Pending:
	case RedirectLogin:
		h.Navigate(LoginRedirect(res.From))
	default:
		h.Navigate(res.Location)
	}
	return res, nil
}
