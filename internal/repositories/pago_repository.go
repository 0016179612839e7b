package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"
)

// PagoRepository defines the interface for payment-related database operations.
// Payments are insert-only; there is no update or delete of individual rows.
type PagoRepository interface {
	Create(executor SQLExecutor, pago *models.Pago) (int64, error)
	GetAll() ([]models.Pago, error)
	GetByClienteID(clienteID int64) ([]models.Pago, error)
	GetByFechaRange(desde, hasta time.Time) ([]models.Pago, error)
	DeleteByClienteID(executor SQLExecutor, clienteID int64) error
}

type pagoRepository struct {
	db *sql.DB
}

// NewPagoRepository creates a new instance of PagoRepository.
func NewPagoRepository(db *sql.DB) PagoRepository {
	return &pagoRepository{db: db}
}

func scanPago(sc interface{ Scan(dest ...interface{}) error }) (*models.Pago, error) {
	pago := &models.Pago{}
	var fecha string
	if err := sc.Scan(&pago.ID, &pago.ClienteID, &fecha, &pago.Cantidad); err != nil {
		return nil, err
	}
	var err error
	if pago.FechaPago, err = parseDate(fecha); err != nil {
		return nil, fmt.Errorf("parsing fecha_pago %q: %w", fecha, err)
	}
	return pago, nil
}

// Create inserts a new payment row.
func (r *pagoRepository) Create(executor SQLExecutor, pago *models.Pago) (int64, error) {
	query := `INSERT INTO pagos (cliente_id, fecha_pago, cantidad)
	          VALUES (?, ?, ?)
	          RETURNING id`

	err := executor.QueryRow(query, pago.ClienteID, formatDate(pago.FechaPago), pago.Cantidad).Scan(&pago.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating pago: %v", ErrDatabaseError, err)
	}
	return pago.ID, nil
}

func (r *pagoRepository) queryPagos(query string, args ...interface{}) ([]models.Pago, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying pagos: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	pagos := []models.Pago{}
	for rows.Next() {
		pago, err := scanPago(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning pago: %v", ErrDatabaseError, err)
		}
		pagos = append(pagos, *pago)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating pago rows: %v", ErrDatabaseError, err)
	}
	return pagos, nil
}

// GetAll retrieves every payment, most recent first.
func (r *pagoRepository) GetAll() ([]models.Pago, error) {
	return r.queryPagos(`SELECT id, cliente_id, fecha_pago, cantidad FROM pagos ORDER BY fecha_pago DESC`)
}

// GetByClienteID retrieves the payments of one client, most recent first.
func (r *pagoRepository) GetByClienteID(clienteID int64) ([]models.Pago, error) {
	return r.queryPagos(`SELECT id, cliente_id, fecha_pago, cantidad FROM pagos WHERE cliente_id = ? ORDER BY fecha_pago DESC`, clienteID)
}

// GetByFechaRange retrieves payments whose date falls in [desde, hasta], inclusive.
func (r *pagoRepository) GetByFechaRange(desde, hasta time.Time) ([]models.Pago, error) {
	return r.queryPagos(
		`SELECT id, cliente_id, fecha_pago, cantidad FROM pagos WHERE fecha_pago >= ? AND fecha_pago <= ? ORDER BY fecha_pago DESC`,
		formatDate(desde), formatDate(hasta),
	)
}

// DeleteByClienteID removes all payments of a client. Used by the cascading
// client delete, which runs it inside the same transaction.
func (r *pagoRepository) DeleteByClienteID(executor SQLExecutor, clienteID int64) error {
	if _, err := executor.Exec(`DELETE FROM pagos WHERE cliente_id = ?`, clienteID); err != nil {
		return fmt.Errorf("%w: deleting pagos for cliente ID %d: %v", ErrDatabaseError, clienteID, err)
	}
	return nil
}
