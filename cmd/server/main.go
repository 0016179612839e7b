package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/database"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/router"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/services"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	utils.InitLogger()

	dbPath := utils.Getenv("DB_PATH", "clientes.db")
	db, err := database.Open(dbPath)
	if err != nil {
		utils.LogError(err, "Failed to open database")
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		utils.LogError(err, "Failed to run migrations")
		log.Fatalf("Failed to run migrations: %v", err)
	}
	utils.LogInfo("Database initialized", map[string]interface{}{"path": dbPath})

	authService := services.NewAuthService(repositories.NewAuthRepository(db), db)
	if err := authService.EnsureDefaultAdmin(); err != nil {
		utils.LogError(err, "Failed to ensure default admin")
		log.Fatalf("Failed to ensure default admin: %v", err)
	}

	// Bring cached active flags in line with today. Advisory: a failure here
	// is logged and the server still starts, statuses derive from dates anyway.
	clienteRepo := repositories.NewClienteRepository(db)
	clienteService := services.NewClienteService(clienteRepo, repositories.NewPagoRepository(db), db)
	if updated, err := clienteService.RefreshActivos(); err != nil {
		utils.LogError(err, "Startup refresh of activo flags failed")
	} else if updated > 0 {
		utils.LogInfo("Refreshed activo flags", map[string]interface{}{"clientes_actualizados": updated})
	}

	cuotaPorDefecto := float64(services.CuotaMensualPorDefecto)
	if raw := os.Getenv("DEFAULT_MONTHLY_QUOTA"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			utils.LogWarn("Ignoring invalid DEFAULT_MONTHLY_QUOTA", map[string]interface{}{"value": raw})
		} else {
			cuotaPorDefecto = parsed
		}
	}

	engine := gin.Default()
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, db, cuotaPorDefecto)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
