package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metricasFixture struct {
	svc         MetricasService
	clienteRepo repositories.ClienteRepository
	pagoRepo    repositories.PagoRepository
	db          repositories.SQLExecutor
}

func newMetricasFixture(t *testing.T, cuota float64) *metricasFixture {
	t.Helper()
	db := setupTestDB(t)
	clienteRepo := repositories.NewClienteRepository(db)
	pagoRepo := repositories.NewPagoRepository(db)
	return &metricasFixture{
		svc:         NewMetricasService(clienteRepo, pagoRepo, cuota),
		clienteRepo: clienteRepo,
		pagoRepo:    pagoRepo,
		db:          db,
	}
}

func (f *metricasFixture) seedCliente(t *testing.T, nombre string, vencDias int) *models.Cliente {
	t.Helper()
	cliente := &models.Cliente{
		Nombre:           nombre,
		FechaAlta:        time.Now().AddDate(0, 0, -60),
		FechaVencimiento: time.Now().AddDate(0, 0, vencDias),
	}
	if _, err := f.clienteRepo.Create(f.db, cliente); err != nil {
		t.Fatalf("seed cliente: %v", err)
	}
	return cliente
}

func (f *metricasFixture) seedPago(t *testing.T, clienteID int64, fecha time.Time, cantidad float64) {
	t.Helper()
	if _, err := f.pagoRepo.Create(f.db, &models.Pago{ClienteID: clienteID, FechaPago: fecha, Cantidad: cantidad}); err != nil {
		t.Fatalf("seed pago: %v", err)
	}
}

func TestConteosDeClientes(t *testing.T) {
	f := newMetricasFixture(t, 0)

	f.seedCliente(t, "Laura", 10)
	f.seedCliente(t, "Carlos", 0)
	f.seedCliente(t, "Elena", -5)

	total, err := f.svc.TotalClientes()
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	activos, err := f.svc.ClientesActivos()
	require.NoError(t, err)
	assert.Equal(t, 2, activos, "expiring today still counts as active")

	vencidos, err := f.svc.ClientesVencidos()
	require.NoError(t, err)
	assert.Equal(t, 1, vencidos)
}

func TestIngresosDelMes(t *testing.T) {
	f := newMetricasFixture(t, 0)
	cliente := f.seedCliente(t, "Laura", 10)

	hoy := time.Now()
	f.seedPago(t, cliente.ID, hoy, 30)
	f.seedPago(t, cliente.ID, time.Date(hoy.Year(), hoy.Month(), 1, 0, 0, 0, 0, time.UTC), 20)
	// Previous month must not count.
	f.seedPago(t, cliente.ID, time.Date(hoy.Year(), hoy.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1), 99)

	ingresos, err := f.svc.IngresosDelMes()
	require.NoError(t, err)
	assert.Equal(t, 50.0, ingresos)
}

func TestIngresosEsperadosConPromedio(t *testing.T) {
	f := newMetricasFixture(t, 100)
	c1 := f.seedCliente(t, "Laura", 10)
	f.seedCliente(t, "Carlos", 20)
	f.seedCliente(t, "Vencida", -5)

	hoy := time.Now()
	f.seedPago(t, c1.ID, hoy.AddDate(0, 0, -10), 30)
	f.seedPago(t, c1.ID, hoy.AddDate(0, 0, -40), 50)

	// Two active clients times the 40 average of the last three months.
	esperados, err := f.svc.IngresosEsperados()
	require.NoError(t, err)
	assert.Equal(t, 80.0, esperados)
}

func TestIngresosEsperadosFallbackCuota(t *testing.T) {
	f := newMetricasFixture(t, 40)
	f.seedCliente(t, "Laura", 10)
	f.seedCliente(t, "Carlos", 20)

	esperados, err := f.svc.IngresosEsperados()
	require.NoError(t, err)
	assert.Equal(t, 80.0, esperados, "no payments: actives times the default quota")
}

func TestIngresosEsperadosSinActivos(t *testing.T) {
	f := newMetricasFixture(t, 40)
	f.seedCliente(t, "Vencida", -5)

	esperados, err := f.svc.IngresosEsperados()
	require.NoError(t, err)
	assert.Zero(t, esperados)
}

func TestIngresosPorUltimosMeses(t *testing.T) {
	f := newMetricasFixture(t, 0)
	cliente := f.seedCliente(t, "Laura", 10)

	hoy := time.Now()
	primeroDeMes := time.Date(hoy.Year(), hoy.Month(), 1, 0, 0, 0, 0, time.UTC)
	f.seedPago(t, cliente.ID, primeroDeMes, 30)
	f.seedPago(t, cliente.ID, primeroDeMes.AddDate(0, -2, 0), 45)

	ingresos, err := f.svc.IngresosPorUltimosMeses(3)
	require.NoError(t, err)
	require.Len(t, ingresos, 3)

	// Oldest first, empty months present with a zero total.
	assert.Equal(t, 45.0, ingresos[0].Total)
	assert.Zero(t, ingresos[1].Total)
	assert.Equal(t, 30.0, ingresos[2].Total)

	mes := primeroDeMes.AddDate(0, -2, 0)
	assert.Equal(t, fmt.Sprintf("%s %d", mesesCortos[mes.Month()-1], mes.Year()), ingresos[0].Mes)
	assert.Equal(t, fmt.Sprintf("%s %d", mesesCortos[primeroDeMes.Month()-1], primeroDeMes.Year()), ingresos[2].Mes)
}

func TestResumen(t *testing.T) {
	f := newMetricasFixture(t, 40)
	cliente := f.seedCliente(t, "Laura", 10)
	f.seedCliente(t, "Vencida", -5)
	f.seedPago(t, cliente.ID, time.Now(), 30)

	resumen, err := f.svc.Resumen()
	require.NoError(t, err)
	assert.Equal(t, 2, resumen.TotalClientes)
	assert.Equal(t, 1, resumen.ClientesActivos)
	assert.Equal(t, 1, resumen.ClientesVencidos)
	assert.Equal(t, 30.0, resumen.IngresosDelMes)
	assert.Equal(t, 30.0, resumen.IngresosEsperados, "one active client times the recent average")
}
