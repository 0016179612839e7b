package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/database"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/services"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/pkg/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "CLIENTES.ods", "path to the ODS spreadsheet to import")
	wipe := flag.Bool("wipe", false, "delete all clientes and pagos before importing")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	utils.InitLogger()

	if *wipe && !*yes && !confirm(fmt.Sprintf("This will DELETE every cliente and pago before importing %s. Continue? [y/N] ", *file)) {
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

	importService := services.NewImportService(repositories.NewClienteRepository(db), db)
	result := importService.ImportarDesdeODS(*file, *wipe)

	fmt.Printf("Clientes importados:  %d\n", result.ClientesImportados)
	fmt.Printf("Duplicados omitidos:  %d\n", result.DuplicadosOmitidos)
	fmt.Printf("Filas omitidas:       %d\n", result.FilasOmitidas)
	fmt.Printf("Filas con error:      %d\n", result.FilasConError)
	if result.TieneErrores() {
		fmt.Println("\nNotas y errores:")
		for _, e := range result.Errores {
			fmt.Printf("  - %s\n", e)
		}
	}
	if result.ClientesImportados == 0 && result.FilasConError > 0 {
		os.Exit(1)
	}
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
