package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"
)

// ErrCantidadInvalida is returned when a payment amount is not positive.
var ErrCantidadInvalida = errors.New("la cantidad del pago debe ser mayor que cero")

// --- Pago DTOs ---

type RegistrarPagoRequest struct {
	ClienteID int64   `json:"cliente_id" binding:"required"`
	FechaPago string  `json:"fecha_pago"` // YYYY-MM-DD, empty means today
	Cantidad  float64 `json:"cantidad" binding:"required"`
}

// --- PagoService Interface ---
type PagoService interface {
	RegistrarPago(req RegistrarPagoRequest) (*models.Pago, error)
	GetPagos() ([]models.Pago, error)
	GetPagosByCliente(clienteID int64) ([]models.Pago, error)
}

type pagoService struct {
	pagoRepo    repositories.PagoRepository
	clienteRepo repositories.ClienteRepository
	db          *sql.DB
}

// NewPagoService creates a new instance of PagoService.
func NewPagoService(pagoRepo repositories.PagoRepository, clienteRepo repositories.ClienteRepository, db *sql.DB) PagoService {
	return &pagoService{
		pagoRepo:    pagoRepo,
		clienteRepo: clienteRepo,
		db:          db,
	}
}

// RegistrarPago records a payment and renews the client's membership in one
// transaction: last-payment date set, expiration moved to the payment date
// plus the renewal period, active flag set, manual override cleared.
func (s *pagoService) RegistrarPago(req RegistrarPagoRequest) (*models.Pago, error) {
	if req.Cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}

	fechaPago := time.Now()
	if strings.TrimSpace(req.FechaPago) != "" {
		var err error
		fechaPago, err = time.Parse("2006-01-02", strings.TrimSpace(req.FechaPago))
		if err != nil {
			return nil, ErrFechaFormato
		}
	}

	cliente, err := s.clienteRepo.GetByID(req.ClienteID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClienteNotFound
		}
		return nil, fmt.Errorf("failed to find cliente for payment: %w", err)
	}

	pago := &models.Pago{
		ClienteID: req.ClienteID,
		FechaPago: fechaPago,
		Cantidad:  req.Cantidad,
	}

	cliente.FechaUltimoPago = &pago.FechaPago
	cliente.FechaVencimiento = fechaPago.AddDate(0, 0, DiasRenovacion)
	cliente.Activo = true
	cliente.Estado = ""

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin payment transaction: %w", err)
	}
	if _, err := s.pagoRepo.Create(tx, pago); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create pago: %w", err)
	}
	if err := s.clienteRepo.Update(tx, cliente); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to renew cliente after payment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment transaction: %w", err)
	}
	return pago, nil
}

func (s *pagoService) GetPagos() ([]models.Pago, error) {
	pagos, err := s.pagoRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get pagos: %w", err)
	}
	return pagos, nil
}

func (s *pagoService) GetPagosByCliente(clienteID int64) ([]models.Pago, error) {
	if _, err := s.clienteRepo.GetByID(clienteID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClienteNotFound
		}
		return nil, fmt.Errorf("failed to find cliente for payments: %w", err)
	}
	pagos, err := s.pagoRepo.GetByClienteID(clienteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pagos of cliente: %w", err)
	}
	return pagos, nil
}
