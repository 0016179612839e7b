package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/ods"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"
)

// ImportResult is the outcome of one import run. A structural failure (bad
// file, no header, no name column) shows up as a single entry in Errores with
// every counter at zero; row-level problems only add to FilasConError and
// never stop the batch. Nothing is rolled back on partial failure.
type ImportResult struct {
	ClientesImportados int      `json:"clientes_importados"`
	DuplicadosOmitidos int      `json:"duplicados_omitidos"`
	FilasOmitidas      int      `json:"filas_omitidas"`
	FilasConError      int      `json:"filas_con_error"`
	Errores            []string `json:"errores"`
}

// TieneErrores reports whether any error or note was recorded.
func (r *ImportResult) TieneErrores() bool {
	return len(r.Errores) > 0
}

// Semantic column keys of the import mapping.
const (
	colNombre           = "Nombre"
	colApellidos        = "Apellidos"
	colTelefono         = "Telefono"
	colEdad             = "Edad"
	colPeso             = "Peso"
	colFechaAlta        = "FechaAlta"
	colFechaVencimiento = "FechaVencimiento"
)

// maxHeaderScanRows bounds the search for the header row.
const maxHeaderScanRows = 10

// --- ImportService Interface ---
type ImportService interface {
	ImportarDesdeODS(path string, limpiarAntes bool) *ImportResult
}

type importService struct {
	clienteRepo repositories.ClienteRepository
	db          *sql.DB
}

// NewImportService creates a new instance of ImportService.
func NewImportService(clienteRepo repositories.ClienteRepository, db *sql.DB) ImportService {
	return &importService{clienteRepo: clienteRepo, db: db}
}

// ImportarDesdeODS loads the spreadsheet at path and inserts one client per
// valid data row.
func (s *importService) ImportarDesdeODS(path string, limpiarAntes bool) *ImportResult {
	result := &ImportResult{}

	if limpiarAntes {
		if err := s.clienteRepo.DeleteAll(); err != nil {
			result.Errores = append(result.Errores, fmt.Sprintf("Error al limpiar la base de datos: %v", err))
			return result
		}
		result.Errores = append(result.Errores, "Base de datos limpiada antes de la importación.")
	}

	doc, err := ods.Read(path)
	if err != nil {
		result.Errores = append(result.Errores, fmt.Sprintf("Error al leer el archivo: %v", err))
		return result
	}
	s.importarFilas(doc.Rows, result)
	return result
}

func (s *importService) importarFilas(rows [][]ods.Cell, result *ImportResult) {
	if len(rows) == 0 {
		result.Errores = append(result.Errores, "El archivo está vacío.")
		return
	}

	headerIndex := -1
	var columnMap map[string]int
	limit := maxHeaderScanRows
	if len(rows) < limit {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		m := mapearColumnas(rows[i])
		if _, ok := m[colNombre]; ok {
			headerIndex = i
			columnMap = m
			break
		}
		if _, ok := m[colTelefono]; ok {
			headerIndex = i
			columnMap = m
			break
		}
	}
	if headerIndex == -1 {
		result.Errores = append(result.Errores, "No se encontró la fila de encabezados. Buscando columnas: Nombre, Telefono, etc.")
		return
	}
	if _, ok := columnMap[colNombre]; !ok {
		result.Errores = append(result.Errores, "No se encontró la columna 'Nombre' en el archivo.")
		return
	}

	hoy := time.Now()
	for i := headerIndex + 1; i < len(rows); i++ {
		filaNum := i + 1 // 1-based for the operator
		cliente, err := mapearFilaACliente(rows[i], columnMap, hoy)
		if err != nil {
			result.Errores = append(result.Errores, fmt.Sprintf("Fila %d: %v", filaNum, err))
			result.FilasConError++
			continue
		}
		if cliente == nil {
			result.FilasOmitidas++
			continue
		}

		existe, err := s.clienteRepo.ExistsByNombreAndTelefono(cliente.Nombre, cliente.Telefono, nil)
		if err != nil {
			result.Errores = append(result.Errores, fmt.Sprintf("Fila %d: %v", filaNum, err))
			result.FilasConError++
			continue
		}
		if existe {
			result.DuplicadosOmitidos++
			continue
		}

		if _, err := s.clienteRepo.Create(s.db, cliente); err != nil {
			result.Errores = append(result.Errores, fmt.Sprintf("Fila %d: %v", filaNum, err))
			result.FilasConError++
			continue
		}
		result.ClientesImportados++
	}
}

// mapearColumnas matches header cell text against known keywords, assigning a
// semantic column index. Matching is case-insensitive substring; the
// Nombre-but-not-Apellido rule keeps "Apellidos" from claiming the name slot.
func mapearColumnas(cells []ods.Cell) map[string]int {
	m := make(map[string]int)
	for i, cell := range cells {
		header := strings.ToLower(strings.TrimSpace(cell.Text))
		if header == "" {
			continue
		}
		switch {
		case (strings.Contains(header, "nombre") && !strings.Contains(header, "apellido")) ||
			strings.Contains(header, "alumno"):
			m[colNombre] = i
		case strings.Contains(header, "apellido"):
			m[colApellidos] = i
		case strings.Contains(header, "tel") || strings.Contains(header, "phone"):
			m[colTelefono] = i
		case strings.Contains(header, "edad") || strings.Contains(header, "age"):
			m[colEdad] = i
		case strings.Contains(header, "peso") || strings.Contains(header, "weight"):
			m[colPeso] = i
		case strings.Contains(header, "alta"):
			m[colFechaAlta] = i
		case strings.Contains(header, "vencimiento"):
			m[colFechaVencimiento] = i
		}
	}
	return m
}

func valorCelda(cells []ods.Cell, columnMap map[string]int, col string) (string, bool) {
	idx, ok := columnMap[col]
	if !ok || idx >= len(cells) {
		return "", false
	}
	return strings.TrimSpace(cells[idx].String()), true
}

// fechaLayouts are the accepted explicit date formats, tried in order.
var fechaLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006", "2006/01/02"}

func parseFechaImport(s string) (time.Time, error) {
	for _, layout := range fechaLayouts {
		if fecha, err := time.Parse(layout, s); err == nil {
			return fecha, nil
		}
	}
	return time.Time{}, fmt.Errorf("formato de fecha inválido: %s", s)
}

// mapearFilaACliente converts one data row into a client. A nil client with a
// nil error means the row is blank and should be counted as skipped. Optional
// numeric fields parse leniently and are omitted when unparsable; an explicit
// but garbled date, or an expiration before the enrollment, is a row error.
func mapearFilaACliente(cells []ods.Cell, columnMap map[string]int, hoy time.Time) (*models.Cliente, error) {
	if len(cells) == 0 {
		return nil, nil
	}

	nombre, ok := valorCelda(cells, columnMap, colNombre)
	if !ok || nombre == "" {
		return nil, nil
	}

	cliente := &models.Cliente{Nombre: nombre}

	if apellidos, ok := valorCelda(cells, columnMap, colApellidos); ok {
		cliente.Apellidos = apellidos
	}
	if telefono, ok := valorCelda(cells, columnMap, colTelefono); ok {
		cliente.Telefono = telefono
	}
	if edadStr, ok := valorCelda(cells, columnMap, colEdad); ok && edadStr != "" {
		// Age cells may arrive as float serials ("25" or "25.0").
		if edad, err := strconv.ParseFloat(strings.Replace(edadStr, ",", ".", 1), 64); err == nil {
			e := int(edad)
			cliente.Edad = &e
		}
	}
	if pesoStr, ok := valorCelda(cells, columnMap, colPeso); ok && pesoStr != "" {
		if peso, err := strconv.ParseFloat(strings.Replace(pesoStr, ",", ".", 1), 64); err == nil {
			cliente.Peso = &peso
		}
	}

	cliente.FechaAlta = dateOnly(hoy)
	if altaStr, ok := valorCelda(cells, columnMap, colFechaAlta); ok && altaStr != "" {
		alta, err := parseFechaImport(altaStr)
		if err != nil {
			return nil, fmt.Errorf("FechaAlta: %v", err)
		}
		cliente.FechaAlta = alta
	}

	cliente.FechaVencimiento = cliente.FechaAlta.AddDate(0, 0, DiasRenovacion)
	if vencStr, ok := valorCelda(cells, columnMap, colFechaVencimiento); ok && vencStr != "" {
		venc, err := parseFechaImport(vencStr)
		if err != nil {
			return nil, fmt.Errorf("FechaVencimiento: %v", err)
		}
		cliente.FechaVencimiento = venc
	}

	if cliente.FechaVencimiento.Before(cliente.FechaAlta) {
		return nil, fmt.Errorf("la fecha de vencimiento (%s) no puede ser anterior a la fecha de alta (%s)",
			cliente.FechaVencimiento.Format("2006-01-02"), cliente.FechaAlta.Format("2006-01-02"))
	}

	cliente.Activo = EsActivo(cliente, hoy)
	return cliente, nil
}
