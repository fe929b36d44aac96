package views

import (
	"github.com/gin-gonic/gin"

	"evently/internal/auth"
	"evently/internal/guard"
	"evently/internal/shared/middleware"
)

func SetupViewRoutes(router *gin.RouterGroup, state guard.SessionState, controller Controller) {
	// Session routes - sign in, sign out, current state
	session := router.Group("/session")
	{
		session.GET("", controller.GetSession)         // GET /session - Current session
		session.POST("/login", controller.Login)       // POST /session/login - Sign in
		session.POST("/register", controller.Register) // POST /session/register - Create account
		session.POST("/logout", controller.Logout)     // POST /session/logout - Sign out
	}

	// Public views - anyone can browse
	public := router.Group("/views")
	{
		public.GET("/home", controller.Home)            // GET /views/home - Featured and upcoming
		public.GET("/events", controller.ListEvents)    // GET /views/events - Browse and search
		public.GET("/events/:id", controller.GetEvent)  // GET /views/events/:id - Event details
		public.GET("/resolve", controller.ResolveRoute) // GET /views/resolve?path= - Guard a navigation
	}

	// Signed-in views - any role
	member := router.Group("/views")
	member.Use(middleware.RequireSession(state))
	{
		member.GET("/dashboard", controller.Dashboard)
		member.POST("/events/:id/checkout", controller.Checkout)
		member.GET("/my-tickets", controller.MyTickets)
		member.POST("/my-tickets/:id/refund", controller.RequestRefund)
		member.GET("/my-tickets/:id/qr", controller.TicketQRCode)
		member.GET("/profile", controller.GetProfile)
		member.PUT("/profile", controller.UpdateProfile)
		member.PUT("/settings/password", controller.ChangePassword)
	}

	// Organizer views - organizers and admins
	organizer := router.Group("/views")
	organizer.Use(middleware.RequireRoles(state, auth.RoleOrganizer, auth.RoleAdmin))
	{
		organizer.POST("/create-event", controller.CreateEvent)
		organizer.POST("/events/:id/publish", controller.PublishEvent)
		organizer.POST("/events/:id/cancel", controller.CancelEvent)
		organizer.POST("/uploads/image", controller.UploadImage)
		organizer.GET("/organizer/sales", controller.Sales)
		organizer.GET("/organizer/refunds", controller.RefundRequests)
		organizer.POST("/organizer/refunds/:id", controller.ProcessRefund)
		organizer.GET("/organizer/attendees/:eventId", controller.Attendees)
	}

	// Door staff - check-in
	staff := router.Group("/views")
	staff.Use(middleware.RequireRoles(state, auth.RoleOrganizer, auth.RoleStaff, auth.RoleAdmin))
	{
		staff.POST("/validate-tickets", controller.ValidateTicket)
	}
}
