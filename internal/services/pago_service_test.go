package services

import (
	"errors"
	"testing"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPagoServiceForTest(t *testing.T) (PagoService, ClienteService, repositories.PagoRepository) {
	t.Helper()
	db := setupTestDB(t)
	clienteRepo := repositories.NewClienteRepository(db)
	pagoRepo := repositories.NewPagoRepository(db)
	return NewPagoService(pagoRepo, clienteRepo, db),
		NewClienteService(clienteRepo, pagoRepo, db),
		pagoRepo
}

func TestRegistrarPagoRenuevaCliente(t *testing.T) {
	pagoSvc, clienteSvc, _ := newPagoServiceForTest(t)

	// Expired client with a manual override pending payment.
	cliente, err := clienteSvc.CreateCliente(CreateClienteRequest{
		Nombre:           "Carlos",
		FechaAlta:        time.Now().AddDate(0, 0, -90).Format("2006-01-02"),
		FechaVencimiento: time.Now().AddDate(0, 0, -10).Format("2006-01-02"),
		Estado:           models.EstadoPendiente,
	})
	require.NoError(t, err)
	require.False(t, cliente.Activo)

	fechaPago := time.Now().Format("2006-01-02")
	pago, err := pagoSvc.RegistrarPago(RegistrarPagoRequest{
		ClienteID: cliente.ID,
		FechaPago: fechaPago,
		Cantidad:  35,
	})
	require.NoError(t, err)
	assert.NotZero(t, pago.ID)
	assert.Equal(t, 35.0, pago.Cantidad)

	reloaded, err := clienteSvc.GetClienteByID(cliente.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.FechaUltimoPago)
	assert.Equal(t, fechaPago, reloaded.FechaUltimoPago.Format("2006-01-02"))
	assert.Equal(t, pago.FechaPago.AddDate(0, 0, DiasRenovacion).Format("2006-01-02"), reloaded.FechaVencimiento.Format("2006-01-02"))
	assert.True(t, reloaded.Activo)
	assert.Empty(t, reloaded.Estado, "payment clears the manual override")
}

func TestRegistrarPagoFechaPorDefectoEsHoy(t *testing.T) {
	pagoSvc, clienteSvc, _ := newPagoServiceForTest(t)

	cliente, err := clienteSvc.CreateCliente(CreateClienteRequest{Nombre: "Laura"})
	require.NoError(t, err)

	pago, err := pagoSvc.RegistrarPago(RegistrarPagoRequest{ClienteID: cliente.ID, Cantidad: 30})
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), pago.FechaPago.Format("2006-01-02"))
}

func TestRegistrarPagoValidation(t *testing.T) {
	pagoSvc, clienteSvc, _ := newPagoServiceForTest(t)

	cliente, err := clienteSvc.CreateCliente(CreateClienteRequest{Nombre: "Laura"})
	require.NoError(t, err)

	_, err = pagoSvc.RegistrarPago(RegistrarPagoRequest{ClienteID: cliente.ID, Cantidad: 0})
	assert.True(t, errors.Is(err, ErrCantidadInvalida))

	_, err = pagoSvc.RegistrarPago(RegistrarPagoRequest{ClienteID: cliente.ID, Cantidad: -5})
	assert.True(t, errors.Is(err, ErrCantidadInvalida))

	_, err = pagoSvc.RegistrarPago(RegistrarPagoRequest{ClienteID: cliente.ID, Cantidad: 30, FechaPago: "15/08/2026"})
	assert.True(t, errors.Is(err, ErrFechaFormato))

	_, err = pagoSvc.RegistrarPago(RegistrarPagoRequest{ClienteID: 9999, Cantidad: 30})
	assert.True(t, errors.Is(err, ErrClienteNotFound))
}

func TestGetPagosByCliente(t *testing.T) {
	pagoSvc, clienteSvc, _ := newPagoServiceForTest(t)

	cliente, err := clienteSvc.CreateCliente(CreateClienteRequest{Nombre: "Laura"})
	require.NoError(t, err)
	otro, err := clienteSvc.CreateCliente(CreateClienteRequest{Nombre: "Carlos"})
	require.NoError(t, err)

	_, err = pagoSvc.RegistrarPago(RegistrarPagoRequest{ClienteID: cliente.ID, Cantidad: 30, FechaPago: "2026-07-01"})
	require.NoError(t, err)
	_, err = pagoSvc.RegistrarPago(RegistrarPagoRequest{ClienteID: cliente.ID, Cantidad: 35, FechaPago: "2026-08-01"})
	require.NoError(t, err)
	_, err = pagoSvc.RegistrarPago(RegistrarPagoRequest{ClienteID: otro.ID, Cantidad: 99, FechaPago: "2026-08-15"})
	require.NoError(t, err)

	pagos, err := pagoSvc.GetPagosByCliente(cliente.ID)
	require.NoError(t, err)
	require.Len(t, pagos, 2)
	assert.Equal(t, 35.0, pagos[0].Cantidad, "most recent first")
	assert.Equal(t, 30.0, pagos[1].Cantidad)

	_, err = pagoSvc.GetPagosByCliente(9999)
	assert.True(t, errors.Is(err, ErrClienteNotFound))
}
