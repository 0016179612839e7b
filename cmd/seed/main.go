package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/database"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/services"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/pkg/utils"

	"github.com/joho/godotenv"
)

// seedCliente is one demo row covering a distinct status situation.
type seedCliente struct {
	nombre    string
	apellidos string
	telefono  string
	edad      int
	peso      float64
	altaDias  int // days before today
	vencDias  int // days after today, negative means already expired
	estado    string
	pago      float64 // 0 means no payment seeded
}

var seedClientes = []seedCliente{
	{"Laura", "García Pérez", "600111222", 29, 61.5, 40, 20, "", 35.0},
	{"Carlos", "Martín Ruiz", "600333444", 41, 82.0, 90, -12, "", 30.0},
	{"Ana", "López Soto", "600555666", 35, 58.2, 10, 0, "", 35.0},
	{"Miguel", "Santos Vidal", "600777888", 24, 74.8, 65, 5, "", 30.0},
	{"Elena", "Navarro Gil", "600999000", 52, 66.0, 120, -30, "Pendiente", 0},
	{"Javier", "Ortega Ramos", "611222333", 19, 70.3, 5, 25, "", 35.0},
	{"Lucía", "Moreno Díaz", "611444555", 33, 55.9, 200, 2, "Activo", 0},
}

func main() {
	_ = godotenv.Load()

	wipe := flag.Bool("wipe", false, "delete all clientes and pagos before seeding")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	utils.InitLogger()

	if *wipe && !*yes && !confirm("This will DELETE every cliente and pago before seeding. Continue? [y/N] ") {
		fmt.Println("Aborted.")
		return
	}

	dbPath := utils.Getenv("DB_PATH", "clientes.db")
	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	clienteRepo := repositories.NewClienteRepository(db)
	pagoRepo := repositories.NewPagoRepository(db)

	if *wipe {
		if err := clienteRepo.DeleteAll(); err != nil {
			log.Fatalf("Failed to wipe database: %v", err)
		}
		fmt.Println("Database wiped.")
	}

	authService := services.NewAuthService(repositories.NewAuthRepository(db), db)
	if err := authService.EnsureDefaultAdmin(); err != nil {
		log.Fatalf("Failed to ensure default admin: %v", err)
	}

	clienteService := services.NewClienteService(clienteRepo, pagoRepo, db)
	pagoService := services.NewPagoService(pagoRepo, clienteRepo, db)

	hoy := time.Now()
	created := 0
	for _, sc := range seedClientes {
		edad := sc.edad
		peso := sc.peso
		req := services.CreateClienteRequest{
			Nombre:           sc.nombre,
			Apellidos:        sc.apellidos,
			Edad:             &edad,
			Peso:             &peso,
			Telefono:         sc.telefono,
			FechaAlta:        hoy.AddDate(0, 0, -sc.altaDias).Format("2006-01-02"),
			FechaVencimiento: hoy.AddDate(0, 0, sc.vencDias).Format("2006-01-02"),
			Estado:           sc.estado,
		}
		cliente, err := clienteService.CreateCliente(req)
		if err != nil {
			log.Fatalf("Failed to seed cliente %s: %v", sc.nombre, err)
		}
		created++

		if sc.pago > 0 {
			// Backdate the payment so the expiration seeded above survives.
			fechaPago := hoy.AddDate(0, 0, sc.vencDias-services.DiasRenovacion).Format("2006-01-02")
			if _, err := pagoService.RegistrarPago(services.RegistrarPagoRequest{
				ClienteID: cliente.ID,
				FechaPago: fechaPago,
				Cantidad:  sc.pago,
			}); err != nil {
				log.Fatalf("Failed to seed pago for %s: %v", sc.nombre, err)
			}
		}
	}

	fmt.Printf("Seeded %d clientes into %s. Login with admin/admin123.\n", created, dbPath)
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes" || answer == "s" || answer == "si"
}
