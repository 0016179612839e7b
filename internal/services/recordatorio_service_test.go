package services

import (
	"testing"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordatorioFixture(t *testing.T) (RecordatorioService, ClienteService) {
	t.Helper()
	db := setupTestDB(t)
	clienteRepo := repositories.NewClienteRepository(db)
	return NewRecordatorioService(clienteRepo),
		NewClienteService(clienteRepo, repositories.NewPagoRepository(db), db)
}

func seedConVencimiento(t *testing.T, svc ClienteService, nombre string, vencDias int) {
	t.Helper()
	_, err := svc.CreateCliente(CreateClienteRequest{
		Nombre:           nombre,
		FechaAlta:        time.Now().AddDate(0, 0, -60).Format("2006-01-02"),
		FechaVencimiento: time.Now().AddDate(0, 0, vencDias).Format("2006-01-02"),
	})
	require.NoError(t, err)
}

func TestClientesVencidos(t *testing.T) {
	recordatorioSvc, clienteSvc := newRecordatorioFixture(t)

	seedConVencimiento(t, clienteSvc, "Vencida", -3)
	seedConVencimiento(t, clienteSvc, "HoyVence", 0)
	seedConVencimiento(t, clienteSvc, "Vigente", 20)

	vencidos, err := recordatorioSvc.ClientesVencidos()
	require.NoError(t, err)
	require.Len(t, vencidos, 1)
	assert.Equal(t, "Vencida", vencidos[0].Nombre)
}

func TestClientesProximosAVencer(t *testing.T) {
	recordatorioSvc, clienteSvc := newRecordatorioFixture(t)

	seedConVencimiento(t, clienteSvc, "Vencida", -3)
	seedConVencimiento(t, clienteSvc, "HoyVence", 0)
	seedConVencimiento(t, clienteSvc, "EnSiete", 7)
	seedConVencimiento(t, clienteSvc, "EnOcho", 8)

	proximos, err := recordatorioSvc.ClientesProximosAVencer(7)
	require.NoError(t, err)
	require.Len(t, proximos, 2)

	nombres := []string{proximos[0].Nombre, proximos[1].Nombre}
	assert.Contains(t, nombres, "HoyVence")
	assert.Contains(t, nombres, "EnSiete")
}

func TestClientesProximosAVencerVentanaPorDefecto(t *testing.T) {
	recordatorioSvc, clienteSvc := newRecordatorioFixture(t)

	seedConVencimiento(t, clienteSvc, "EnSiete", 7)
	seedConVencimiento(t, clienteSvc, "EnOcho", 8)

	// Non-positive windows fall back to the default.
	proximos, err := recordatorioSvc.ClientesProximosAVencer(0)
	require.NoError(t, err)
	require.Len(t, proximos, 1)
	assert.Equal(t, "EnSiete", proximos[0].Nombre)
}

func TestRecordatorios(t *testing.T) {
	recordatorioSvc, clienteSvc := newRecordatorioFixture(t)

	seedConVencimiento(t, clienteSvc, "Vencida", -3)
	seedConVencimiento(t, clienteSvc, "EnTres", 3)

	recordatorios, err := recordatorioSvc.Recordatorios(7)
	require.NoError(t, err)
	require.Len(t, recordatorios.Vencidos, 1)
	require.Len(t, recordatorios.ProximosAVencer, 1)

	assert.Equal(t, "Vencida", recordatorios.Vencidos[0].NombreCompleto)
	assert.Equal(t, "Vencido", recordatorios.Vencidos[0].DiasRestantesVisual)
	assert.Equal(t, "EnTres", recordatorios.ProximosAVencer[0].NombreCompleto)
	assert.Equal(t, ColorPorVencer, recordatorios.ProximosAVencer[0].Color)
}
