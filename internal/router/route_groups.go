package router

import (
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPublicAuthRoutes sets up the authentication routes open to anyone.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.Login)
}

// SetupAuthenticatedAuthRoutes sets up the auth routes that need a token.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.Logout)
	group.GET("/me", authHandler.GetCurrentUser)
}

// SetupClienteRoutes sets up the client routes.
func SetupClienteRoutes(authenticatedGroup *gin.RouterGroup, clienteHandler *handlers.ClienteHandler, pagoHandler *handlers.PagoHandler) {
	clienteRoutes := authenticatedGroup.Group("/clientes")
	{
		clienteRoutes.POST("", clienteHandler.CreateCliente)
		clienteRoutes.GET("", clienteHandler.GetClientes)
		clienteRoutes.GET("/resumen", clienteHandler.GetClientesResumen)
		clienteRoutes.GET("/:id", clienteHandler.GetClienteByID)
		clienteRoutes.PUT("/:id", clienteHandler.UpdateCliente)
		clienteRoutes.DELETE("/:id", clienteHandler.DeleteCliente)
		clienteRoutes.GET("/:id/pagos", pagoHandler.GetPagosByCliente)
		clienteRoutes.POST("/refresh-activos", clienteHandler.RefreshActivos)
		clienteRoutes.POST("/batch-estado", clienteHandler.SetEstadoBatch)
		clienteRoutes.POST("/batch-vencimiento", clienteHandler.SetVencimientoBatch)
	}
}

// SetupPagoRoutes sets up the payment routes.
func SetupPagoRoutes(authenticatedGroup *gin.RouterGroup, pagoHandler *handlers.PagoHandler) {
	pagoRoutes := authenticatedGroup.Group("/pagos")
	{
		pagoRoutes.POST("", pagoHandler.RegistrarPago)
		pagoRoutes.GET("", pagoHandler.GetPagos)
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	{
		reportRoutes.GET("/resumen", reportHandler.GetResumen)
		reportRoutes.GET("/ingresos", reportHandler.GetIngresosPorMes)
		reportRoutes.GET("/recordatorios", reportHandler.GetRecordatorios)
	}
}

// SetupImportRoutes sets up the spreadsheet import routes.
func SetupImportRoutes(authenticatedGroup *gin.RouterGroup, importHandler *handlers.ImportHandler) {
	importRoutes := authenticatedGroup.Group("/import")
	{
		importRoutes.POST("/clientes", importHandler.ImportarClientes)
	}
}
