package handlers

import (
	"github.com/gin-gonic/gin"
	portssvc "github.com/mikopo/ledger_service/internal/core/ports/services"
	"github.com/mikopo/ledger_service/internal/middleware"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// Every v1 operation is tenant-scoped
	v1 := r.Group("/api/v1", middleware.TenantMiddleware())

	registerAccountRoutes(v1, services.Account)
	registerBalanceRoutes(v1, services.Balance)
	registerJournalRoutes(v1, services.Journal)
	registerTrialBalanceRoutes(v1, services.TrialBalance)
}
