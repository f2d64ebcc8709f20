package routes

import (
	"net/http"
	"time"

	"mechanio/handlers"
	"mechanio/middleware"
	"mechanio/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSchedulingRoutes registers the appointment workflow endpoints.
func RegisterSchedulingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedulings")
	{
		api.Use(middleware.RequireRole())
		api.GET("", hb.Scheduling.List)
		api.GET("/:id", hb.Scheduling.Get)
		api.GET("/:id/history", hb.Scheduling.GetHistory)

		customer := api.Group("")
		customer.Use(middleware.RequireRole(models.RoleCustomer))
		customer.POST("", hb.Scheduling.Register)
		customer.DELETE("/:id", hb.Scheduling.Delete)
		customer.PUT("/:id/budget/confirm", hb.Scheduling.ConfirmBudget)
		customer.PUT("/:id/service/confirm", hb.Scheduling.ConfirmService)
		customer.PUT("/:id/free-repair/schedule", hb.Scheduling.ScheduleFreeRepair)

		workshop := api.Group("")
		workshop.Use(middleware.RequireRole(models.RoleWorkshop))
		workshop.PUT("/:id/suggest-time", hb.Scheduling.SuggestTime)
		workshop.PUT("/:id/budget", hb.Scheduling.SendBudget)
		workshop.PUT("/:id/status", hb.Scheduling.ChangeStatus)
		workshop.PUT("/:id/dispute", hb.Scheduling.Dispute)
		workshop.PUT("/:id/free-repair", hb.Scheduling.SuggestFreeRepair)

		// ConfirmScheduling is shared: the workshop answers the initial
		// request, the customer answers a suggested time.
		both := api.Group("")
		both.Use(middleware.RequireRole(models.RoleCustomer, models.RoleWorkshop))
		both.PUT("/:id/confirm", hb.Scheduling.ConfirmScheduling)

		admin := api.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.PUT("/:id/payment", hb.Scheduling.ConfirmPayment)
		admin.PUT("/:id/resolve", hb.Scheduling.Resolve)
	}
}

// RegisterAvailabilityRoutes registers the slot lookup endpoint.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/workshops")
	{
		api.Use(middleware.RequireRole())
		api.GET("/:workshopID/availability", hb.Scheduling.GetAvailability)
	}
}

// RegisterAgendaRoutes registers the workshop agenda endpoints.
func RegisterAgendaRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/agenda")
	{
		api.Use(middleware.RequireRole(models.RoleWorkshop))
		api.GET("", hb.Agenda.Get)
		api.PUT("", hb.Agenda.Put)
		api.GET("/blocked", hb.Agenda.ListBlockedSlots)
		api.POST("/blocked", hb.Agenda.BlockSlot)
		api.DELETE("/blocked", hb.Agenda.UnblockSlot)
	}
}

// RegisterStorageRoutes registers the evidence image endpoints.
func RegisterStorageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/storage")
	{
		api.Use(middleware.RequireRole())
		api.POST("/:bucket", hb.Storage.UploadImageHandler)
		api.GET("/:bucket/:filename", hb.Storage.GetDownloadURLHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Mechanio"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSchedulingRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterAgendaRoutes(r, hb)
	RegisterStorageRoutes(r, hb)
	RegisterHealthRoute(r)
}
