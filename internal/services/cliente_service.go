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

// --- Custom Service Errors for Cliente ---
var (
	ErrClienteNotFound = errors.New("cliente not found")
	ErrFechaFormato    = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrFechasOrden     = errors.New("la fecha de vencimiento no puede ser anterior a la fecha de alta")
	ErrEstadoInvalido  = errors.New("estado must be Activo, Pendiente, Vencido or empty")
)

// --- Cliente DTOs ---

type CreateClienteRequest struct {
	Nombre           string   `json:"nombre" binding:"required"`
	Apellidos        string   `json:"apellidos"`
	Edad             *int     `json:"edad"`
	Peso             *float64 `json:"peso"`
	Telefono         string   `json:"telefono"`
	FechaAlta        string   `json:"fecha_alta"`        // YYYY-MM-DD, empty means today
	FechaVencimiento string   `json:"fecha_vencimiento"` // YYYY-MM-DD, empty means alta + 30 days
	Estado           string   `json:"estado"`
}

type UpdateClienteRequest struct {
	Nombre           *string  `json:"nombre"`
	Apellidos        *string  `json:"apellidos"`
	Edad             *int     `json:"edad"`
	Peso             *float64 `json:"peso"`
	Telefono         *string  `json:"telefono"`
	FechaAlta        *string  `json:"fecha_alta"`
	FechaVencimiento *string  `json:"fecha_vencimiento"`
	Estado           *string  `json:"estado"`
}

// --- ClienteService Interface ---
type ClienteService interface {
	CreateCliente(req CreateClienteRequest) (*models.Cliente, error)
	GetClienteByID(clienteID int64) (*models.Cliente, error)
	GetClientes(searchTerm *string) ([]models.Cliente, error)
	GetClientesResumen(searchTerm *string) ([]models.ClienteResumen, error)
	UpdateCliente(clienteID int64, req UpdateClienteRequest) (*models.Cliente, error)
	DeleteCliente(clienteID int64) error
	RefreshActivos() (int, error)
	SetEstadoBatch(ids []int64, estado string) error
	SetVencimientoBatch(ids []int64, fecha string) error
}

type clienteService struct {
	clienteRepo repositories.ClienteRepository
	pagoRepo    repositories.PagoRepository
	db          *sql.DB
}

// NewClienteService creates a new instance of ClienteService.
func NewClienteService(clienteRepo repositories.ClienteRepository, pagoRepo repositories.PagoRepository, db *sql.DB) ClienteService {
	return &clienteService{
		clienteRepo: clienteRepo,
		pagoRepo:    pagoRepo,
		db:          db,
	}
}

func parseFechaOpcional(s string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	fecha, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrFechaFormato
	}
	return fecha, nil
}

func validarEstado(estado string) error {
	switch estado {
	case "", models.EstadoActivo, models.EstadoPendiente, models.EstadoVencido:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrEstadoInvalido, estado)
	}
}

func validarDatosCliente(nombre, telefono string, edad *int, peso *float64) error {
	if err := ValidarNombre(nombre); err != nil {
		return err
	}
	if err := ValidarTelefono(telefono); err != nil {
		return err
	}
	if edad != nil && *edad < 0 {
		return fmt.Errorf("%w: la edad no puede ser negativa", ErrValidacion)
	}
	if peso != nil && *peso <= 0 {
		return fmt.Errorf("%w: el peso debe ser mayor que cero", ErrValidacion)
	}
	return nil
}

func (s *clienteService) CreateCliente(req CreateClienteRequest) (*models.Cliente, error) {
	if err := validarDatosCliente(req.Nombre, req.Telefono, req.Edad, req.Peso); err != nil {
		return nil, err
	}
	if err := validarEstado(req.Estado); err != nil {
		return nil, err
	}

	hoy := time.Now()
	alta, err := parseFechaOpcional(req.FechaAlta, hoy)
	if err != nil {
		return nil, err
	}
	venc, err := parseFechaOpcional(req.FechaVencimiento, alta.AddDate(0, 0, DiasRenovacion))
	if err != nil {
		return nil, err
	}
	if venc.Before(alta) {
		return nil, ErrFechasOrden
	}

	cliente := &models.Cliente{
		Nombre:           strings.TrimSpace(req.Nombre),
		Apellidos:        strings.TrimSpace(req.Apellidos),
		Edad:             req.Edad,
		Peso:             req.Peso,
		Telefono:         strings.TrimSpace(req.Telefono),
		FechaAlta:        alta,
		FechaVencimiento: venc,
		Estado:           req.Estado,
	}
	cliente.Activo = EsActivo(cliente, hoy)

	id, err := s.clienteRepo.Create(s.db, cliente)
	if err != nil {
		return nil, fmt.Errorf("failed to create cliente in repository: %w", err)
	}
	return s.clienteRepo.GetByID(id)
}

func (s *clienteService) GetClienteByID(clienteID int64) (*models.Cliente, error) {
	cliente, err := s.clienteRepo.GetByID(clienteID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClienteNotFound
		}
		return nil, fmt.Errorf("failed to get cliente by ID: %w", err)
	}
	return cliente, nil
}

func (s *clienteService) GetClientes(searchTerm *string) ([]models.Cliente, error) {
	clientes, err := s.clienteRepo.GetAll(searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to get clientes: %w", err)
	}
	return clientes, nil
}

func (s *clienteService) GetClientesResumen(searchTerm *string) ([]models.ClienteResumen, error) {
	clientes, err := s.clienteRepo.GetAll(searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to get clientes: %w", err)
	}

	hoy := time.Now()
	resumen := make([]models.ClienteResumen, 0, len(clientes))
	for i := range clientes {
		resumen = append(resumen, NuevoResumen(&clientes[i], hoy))
	}
	return resumen, nil
}

func (s *clienteService) UpdateCliente(clienteID int64, req UpdateClienteRequest) (*models.Cliente, error) {
	cliente, err := s.clienteRepo.GetByID(clienteID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClienteNotFound
		}
		return nil, fmt.Errorf("failed to find cliente for update: %w", err)
	}

	if req.Nombre != nil {
		cliente.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Apellidos != nil {
		cliente.Apellidos = strings.TrimSpace(*req.Apellidos)
	}
	if req.Edad != nil {
		cliente.Edad = req.Edad
	}
	if req.Peso != nil {
		cliente.Peso = req.Peso
	}
	if req.Telefono != nil {
		cliente.Telefono = strings.TrimSpace(*req.Telefono)
	}
	if err := validarDatosCliente(cliente.Nombre, cliente.Telefono, cliente.Edad, cliente.Peso); err != nil {
		return nil, err
	}

	if req.FechaAlta != nil {
		alta, parseErr := parseFechaOpcional(*req.FechaAlta, cliente.FechaAlta)
		if parseErr != nil {
			return nil, parseErr
		}
		cliente.FechaAlta = alta
	}
	if req.FechaVencimiento != nil {
		venc, parseErr := parseFechaOpcional(*req.FechaVencimiento, cliente.FechaVencimiento)
		if parseErr != nil {
			return nil, parseErr
		}
		cliente.FechaVencimiento = venc
	}
	if cliente.FechaVencimiento.Before(cliente.FechaAlta) {
		return nil, ErrFechasOrden
	}

	if req.Estado != nil {
		if err := validarEstado(*req.Estado); err != nil {
			return nil, err
		}
		cliente.Estado = *req.Estado
	}
	cliente.Activo = EsActivo(cliente, time.Now())

	if err := s.clienteRepo.Update(s.db, cliente); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClienteNotFound
		}
		return nil, fmt.Errorf("failed to update cliente in repository: %w", err)
	}
	return s.clienteRepo.GetByID(clienteID)
}

// DeleteCliente removes a client and its payments in one transaction; the
// payments go first to satisfy referential integrity.
func (s *clienteService) DeleteCliente(clienteID int64) error {
	if _, err := s.clienteRepo.GetByID(clienteID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClienteNotFound
		}
		return fmt.Errorf("failed to find cliente for deletion: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	if err := s.pagoRepo.DeleteByClienteID(tx, clienteID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete pagos of cliente: %w", err)
	}
	if err := s.clienteRepo.Delete(tx, clienteID); err != nil {
		tx.Rollback()
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClienteNotFound
		}
		return fmt.Errorf("failed to delete cliente: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete transaction: %w", err)
	}
	return nil
}

// RefreshActivos recomputes the cached Activo flag of every client against
// today and persists only the rows that changed, atomically. It returns how
// many rows were updated.
func (s *clienteService) RefreshActivos() (int, error) {
	clientes, err := s.clienteRepo.GetAll(nil)
	if err != nil {
		return 0, fmt.Errorf("failed to load clientes for refresh: %w", err)
	}

	hoy := time.Now()
	var updates []repositories.ActivoUpdate
	for i := range clientes {
		activo := EsActivo(&clientes[i], hoy)
		if activo != clientes[i].Activo {
			updates = append(updates, repositories.ActivoUpdate{ID: clientes[i].ID, Activo: activo})
		}
	}
	if len(updates) == 0 {
		return 0, nil
	}
	if err := s.clienteRepo.UpdateActivoBatch(updates); err != nil {
		return 0, fmt.Errorf("failed to persist refreshed activo flags: %w", err)
	}
	return len(updates), nil
}

// SetEstadoBatch applies a manual status override to a set of clients in one
// all-or-nothing transaction.
func (s *clienteService) SetEstadoBatch(ids []int64, estado string) error {
	if err := validarEstado(estado); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	// Load everything before the transaction starts: the store runs on a
	// single connection, so reads cannot interleave with an open write tx.
	clientes := make([]*models.Cliente, 0, len(ids))
	for _, id := range ids {
		cliente, err := s.clienteRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrClienteNotFound, id)
			}
			return fmt.Errorf("failed to load cliente %d for estado batch: %w", id, err)
		}
		clientes = append(clientes, cliente)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin estado batch: %w", err)
	}
	for _, cliente := range clientes {
		cliente.Estado = estado
		if err := s.clienteRepo.Update(tx, cliente); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update estado of cliente %d: %w", cliente.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit estado batch: %w", err)
	}
	return nil
}

// SetVencimientoBatch sets a new expiration date on a set of clients and
// clears their manual override, so the status derives from the new date.
// Runs in one all-or-nothing transaction.
func (s *clienteService) SetVencimientoBatch(ids []int64, fecha string) error {
	venc, err := time.Parse("2006-01-02", strings.TrimSpace(fecha))
	if err != nil {
		return ErrFechaFormato
	}
	if len(ids) == 0 {
		return nil
	}

	hoy := time.Now()
	clientes := make([]*models.Cliente, 0, len(ids))
	for _, id := range ids {
		cliente, err := s.clienteRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrClienteNotFound, id)
			}
			return fmt.Errorf("failed to load cliente %d for vencimiento batch: %w", id, err)
		}
		if venc.Before(cliente.FechaAlta) {
			return fmt.Errorf("%w: cliente %d", ErrFechasOrden, id)
		}
		clientes = append(clientes, cliente)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin vencimiento batch: %w", err)
	}
	for _, cliente := range clientes {
		cliente.FechaVencimiento = venc
		cliente.Estado = ""
		cliente.Activo = EsActivo(cliente, hoy)
		if err := s.clienteRepo.Update(tx, cliente); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update vencimiento of cliente %d: %w", cliente.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vencimiento batch: %w", err)
	}
	return nil
}
