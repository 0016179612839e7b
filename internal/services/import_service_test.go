package services

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const odsContentHeader = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content
    xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
    xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
    xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
  <office:body><office:spreadsheet><table:table table:name="Clientes">`

const odsContentFooter = `</table:table></office:spreadsheet></office:body></office:document-content>`

func textCell(s string) string {
	return `<table:table-cell office:value-type="string"><text:p>` + s + `</text:p></table:table-cell>`
}

func floatCell(v string) string {
	return fmt.Sprintf(`<table:table-cell office:value-type="float" office:value="%s"><text:p>%s</text:p></table:table-cell>`, v, v)
}

func dateSerialCell(serial int) string {
	return fmt.Sprintf(`<table:table-cell office:value-type="date" office:value="%d"><text:p>serial</text:p></table:table-cell>`, serial)
}

func textRow(cells ...string) string {
	var b strings.Builder
	b.WriteString("<table:table-row>")
	for _, c := range cells {
		b.WriteString(textCell(c))
	}
	b.WriteString("</table:table-row>")
	return b.String()
}

func rawRow(cellsXML ...string) string {
	return "<table:table-row>" + strings.Join(cellsXML, "") + "</table:table-row>"
}

func writeODS(t *testing.T, rowsXML ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clientes.ods")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("content.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(odsContentHeader + strings.Join(rowsXML, "") + odsContentFooter))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func newImportServiceForTest(t *testing.T) (ImportService, repositories.ClienteRepository, ClienteService) {
	t.Helper()
	db := setupTestDB(t)
	clienteRepo := repositories.NewClienteRepository(db)
	return NewImportService(clienteRepo, db),
		clienteRepo,
		NewClienteService(clienteRepo, repositories.NewPagoRepository(db), db)
}

func TestImportBasico(t *testing.T) {
	svc, clienteRepo, _ := newImportServiceForTest(t)

	path := writeODS(t,
		textRow("Nombre", "Apellidos", "Telefono", "Edad", "Peso", "Fecha Alta", "Fecha Vencimiento"),
		textRow("Laura", "García", "600111222", "29", "61.5", "2026-06-01", "2026-09-20"),
		rawRow(textCell("Carlos"), textCell("Martín"), textCell("600333444"), floatCell("41"), floatCell("82.5"), textCell("01/07/2026"), textCell("2026-10-01")),
	)

	result := svc.ImportarDesdeODS(path, false)
	assert.Equal(t, 2, result.ClientesImportados)
	assert.Zero(t, result.FilasConError)
	assert.False(t, result.TieneErrores(), "errores: %v", result.Errores)

	clientes, err := clienteRepo.GetAll(nil)
	require.NoError(t, err)
	require.Len(t, clientes, 2)

	carlos := clientes[0] // ordered by name
	assert.Equal(t, "Carlos", carlos.Nombre)
	assert.Equal(t, "Martín", carlos.Apellidos)
	require.NotNil(t, carlos.Edad)
	assert.Equal(t, 41, *carlos.Edad)
	require.NotNil(t, carlos.Peso)
	assert.Equal(t, 82.5, *carlos.Peso)
	assert.Equal(t, "2026-07-01", carlos.FechaAlta.Format("2006-01-02"), "dd/MM/yyyy accepted")
	assert.Equal(t, "2026-10-01", carlos.FechaVencimiento.Format("2006-01-02"))
}

func TestImportHeaderEnTerceraFila(t *testing.T) {
	svc, _, _ := newImportServiceForTest(t)

	path := writeODS(t,
		textRow("LISTADO DE CLIENTES"),
		textRow(""),
		textRow("Alumno", "Tel."),
		textRow("Laura", "600111222"),
	)

	result := svc.ImportarDesdeODS(path, false)
	assert.Equal(t, 1, result.ClientesImportados)
	assert.False(t, result.TieneErrores(), "errores: %v", result.Errores)
}

func TestImportSinColumnaNombre(t *testing.T) {
	svc, _, _ := newImportServiceForTest(t)

	path := writeODS(t,
		textRow("Telefono", "Edad"),
		textRow("600111222", "30"),
	)

	result := svc.ImportarDesdeODS(path, false)
	assert.Zero(t, result.ClientesImportados)
	require.Len(t, result.Errores, 1)
	assert.Contains(t, result.Errores[0], "No se encontró la columna 'Nombre'")
}

func TestImportSinEncabezados(t *testing.T) {
	svc, _, _ := newImportServiceForTest(t)

	path := writeODS(t,
		textRow("dato", "dato"),
		textRow("dato", "dato"),
	)

	result := svc.ImportarDesdeODS(path, false)
	assert.Zero(t, result.ClientesImportados)
	require.Len(t, result.Errores, 1)
	assert.Contains(t, result.Errores[0], "No se encontró la fila de encabezados")
}

func TestImportArchivoVacio(t *testing.T) {
	svc, _, _ := newImportServiceForTest(t)

	path := writeODS(t)
	result := svc.ImportarDesdeODS(path, false)
	assert.Zero(t, result.ClientesImportados)
	require.Len(t, result.Errores, 1)
	assert.Contains(t, result.Errores[0], "El archivo está vacío")
}

func TestImportArchivoInexistente(t *testing.T) {
	svc, _, _ := newImportServiceForTest(t)

	result := svc.ImportarDesdeODS(filepath.Join(t.TempDir(), "no-existe.ods"), false)
	assert.Zero(t, result.ClientesImportados)
	require.Len(t, result.Errores, 1)
	assert.Contains(t, result.Errores[0], "Error al leer el archivo")
}

func TestImportDuplicadosOmitidos(t *testing.T) {
	svc, _, _ := newImportServiceForTest(t)

	path := writeODS(t,
		textRow("Nombre", "Telefono"),
		textRow("Laura", "600111222"),
		textRow("Carlos", "600333444"),
	)

	first := svc.ImportarDesdeODS(path, false)
	assert.Equal(t, 2, first.ClientesImportados)

	second := svc.ImportarDesdeODS(path, false)
	assert.Zero(t, second.ClientesImportados)
	assert.Equal(t, 2, second.DuplicadosOmitidos)
}

func TestImportFilaInvalidaContinua(t *testing.T) {
	svc, clienteRepo, _ := newImportServiceForTest(t)

	path := writeODS(t,
		textRow("Nombre", "Fecha Alta", "Fecha Vencimiento"),
		textRow("Laura", "2026-06-01", "2026-05-01"), // expiration before enrollment
		textRow("Carlos", "2026-06-01", "2026-07-01"),
	)

	result := svc.ImportarDesdeODS(path, false)
	assert.Equal(t, 1, result.ClientesImportados)
	assert.Equal(t, 1, result.FilasConError)
	require.Len(t, result.Errores, 1)
	assert.Contains(t, result.Errores[0], "Fila 2:")

	clientes, err := clienteRepo.GetAll(nil)
	require.NoError(t, err)
	require.Len(t, clientes, 1)
	assert.Equal(t, "Carlos", clientes[0].Nombre)
}

func TestImportFilasEnBlancoOmitidas(t *testing.T) {
	svc, _, _ := newImportServiceForTest(t)

	path := writeODS(t,
		textRow("Nombre", "Telefono"),
		textRow("", ""),
		textRow("Laura", "600111222"),
		textRow(""),
	)

	result := svc.ImportarDesdeODS(path, false)
	assert.Equal(t, 1, result.ClientesImportados)
	assert.Equal(t, 2, result.FilasOmitidas)
	assert.Zero(t, result.FilasConError)
}

func TestImportFechaSerial(t *testing.T) {
	svc, clienteRepo, _ := newImportServiceForTest(t)

	// 46196 days after 1899-12-30 is 2026-06-18.
	alta := time.Date(2026, time.June, 18, 0, 0, 0, 0, time.UTC)
	serial := int(alta.Sub(time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)).Hours() / 24)

	path := writeODS(t,
		textRow("Nombre", "Fecha Alta"),
		rawRow(textCell("Laura"), dateSerialCell(serial)),
	)

	result := svc.ImportarDesdeODS(path, false)
	require.Equal(t, 1, result.ClientesImportados, "errores: %v", result.Errores)

	clientes, err := clienteRepo.GetAll(nil)
	require.NoError(t, err)
	require.Len(t, clientes, 1)
	assert.Equal(t, "2026-06-18", clientes[0].FechaAlta.Format("2006-01-02"))
	assert.Equal(t, alta.AddDate(0, 0, DiasRenovacion).Format("2006-01-02"), clientes[0].FechaVencimiento.Format("2006-01-02"), "missing expiration defaults to alta plus the renewal period")
}

func TestImportLimpiarAntes(t *testing.T) {
	svc, clienteRepo, clienteSvc := newImportServiceForTest(t)

	_, err := clienteSvc.CreateCliente(CreateClienteRequest{Nombre: "Preexistente"})
	require.NoError(t, err)

	path := writeODS(t,
		textRow("Nombre", "Telefono"),
		textRow("Laura", "600111222"),
	)

	result := svc.ImportarDesdeODS(path, true)
	assert.Equal(t, 1, result.ClientesImportados)
	require.NotEmpty(t, result.Errores)
	assert.Contains(t, result.Errores[0], "Base de datos limpiada")

	clientes, err := clienteRepo.GetAll(nil)
	require.NoError(t, err)
	require.Len(t, clientes, 1)
	assert.Equal(t, "Laura", clientes[0].Nombre)
}
