package router

import (
	"database/sql"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/handlers"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/middleware"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, cuotaPorDefecto float64) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	clienteRepo := repositories.NewClienteRepository(db)
	pagoRepo := repositories.NewPagoRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	clienteService := services.NewClienteService(clienteRepo, pagoRepo, db)
	pagoService := services.NewPagoService(pagoRepo, clienteRepo, db)
	metricasService := services.NewMetricasService(clienteRepo, pagoRepo, cuotaPorDefecto)
	recordatorioService := services.NewRecordatorioService(clienteRepo)
	importService := services.NewImportService(clienteRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	clienteHandler := handlers.NewClienteHandler(clienteService)
	pagoHandler := handlers.NewPagoHandler(pagoService)
	reportHandler := handlers.NewReportHandler(metricasService, recordatorioService)
	importHandler := handlers.NewImportHandler(importService)

	apiV1 := engine.Group("/api/v1")

	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupClienteRoutes(authenticated, clienteHandler, pagoHandler)
		SetupPagoRoutes(authenticated, pagoHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupImportRoutes(authenticated, importHandler)
	}
}
