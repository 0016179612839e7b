package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"
)

// ActivoUpdate is one entry of a batch active-flag recomputation.
type ActivoUpdate struct {
	ID     int64
	Activo bool
}

// ClienteRepository defines the interface for client-related database operations.
type ClienteRepository interface {
	Create(executor SQLExecutor, cliente *models.Cliente) (int64, error)
	GetByID(id int64) (*models.Cliente, error)
	GetAll(searchTerm *string) ([]models.Cliente, error)
	Count() (int, error)
	Update(executor SQLExecutor, cliente *models.Cliente) error
	Delete(executor SQLExecutor, id int64) error
	ExistsByNombreAndTelefono(nombre, telefono string, excludeID *int64) (bool, error)
	UpdateActivoBatch(updates []ActivoUpdate) error
	DeleteAll() error
}

type clienteRepository struct {
	db *sql.DB
}

// NewClienteRepository creates a new instance of ClienteRepository.
func NewClienteRepository(db *sql.DB) ClienteRepository {
	return &clienteRepository{db: db}
}

const clienteColumns = `id, nombre, apellidos, edad, peso, telefono, fecha_alta, fecha_vencimiento, fecha_ultimo_pago, activo, estado`

func scanCliente(sc interface{ Scan(dest ...interface{}) error }) (*models.Cliente, error) {
	cliente := &models.Cliente{}
	var (
		edad       sql.NullInt64
		peso       sql.NullFloat64
		alta       string
		venc       string
		ultimoPago sql.NullString
		activo     int
	)
	if err := sc.Scan(
		&cliente.ID, &cliente.Nombre, &cliente.Apellidos, &edad, &peso, &cliente.Telefono,
		&alta, &venc, &ultimoPago, &activo, &cliente.Estado,
	); err != nil {
		return nil, err
	}
	if edad.Valid {
		e := int(edad.Int64)
		cliente.Edad = &e
	}
	if peso.Valid {
		p := peso.Float64
		cliente.Peso = &p
	}
	var err error
	if cliente.FechaAlta, err = parseDate(alta); err != nil {
		return nil, fmt.Errorf("parsing fecha_alta %q: %w", alta, err)
	}
	if cliente.FechaVencimiento, err = parseDate(venc); err != nil {
		return nil, fmt.Errorf("parsing fecha_vencimiento %q: %w", venc, err)
	}
	if ultimoPago.Valid && ultimoPago.String != "" {
		var up time.Time
		if up, err = parseDate(ultimoPago.String); err != nil {
			return nil, fmt.Errorf("parsing fecha_ultimo_pago %q: %w", ultimoPago.String, err)
		}
		cliente.FechaUltimoPago = &up
	}
	cliente.Activo = activo == 1
	return cliente, nil
}

func clienteArgs(cliente *models.Cliente) []interface{} {
	var edad interface{}
	if cliente.Edad != nil {
		edad = *cliente.Edad
	}
	var peso interface{}
	if cliente.Peso != nil {
		peso = *cliente.Peso
	}
	var ultimoPago interface{}
	if cliente.FechaUltimoPago != nil {
		ultimoPago = formatDate(*cliente.FechaUltimoPago)
	}
	activo := 0
	if cliente.Activo {
		activo = 1
	}
	return []interface{}{
		cliente.Nombre, cliente.Apellidos, edad, peso, cliente.Telefono,
		formatDate(cliente.FechaAlta), formatDate(cliente.FechaVencimiento),
		ultimoPago, activo, cliente.Estado,
	}
}

// Create inserts a new client into the database.
func (r *clienteRepository) Create(executor SQLExecutor, cliente *models.Cliente) (int64, error) {
	query := `INSERT INTO clientes (nombre, apellidos, edad, peso, telefono, fecha_alta, fecha_vencimiento, fecha_ultimo_pago, activo, estado)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	          RETURNING id`

	err := executor.QueryRow(query, clienteArgs(cliente)...).Scan(&cliente.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating cliente: %v", ErrDatabaseError, err)
	}
	return cliente.ID, nil
}

// GetByID retrieves a client by their ID.
func (r *clienteRepository) GetByID(id int64) (*models.Cliente, error) {
	query := `SELECT ` + clienteColumns + ` FROM clientes WHERE id = ?`
	cliente, err := scanCliente(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting cliente by ID %d: %v", ErrDatabaseError, id, err)
	}
	return cliente, nil
}

// GetAll retrieves every client ordered by name, optionally filtered by a
// case-insensitive search over name, family name and phone.
func (r *clienteRepository) GetAll(searchTerm *string) ([]models.Cliente, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + clienteColumns + ` FROM clientes`)

	var args []interface{}
	if searchTerm != nil && *searchTerm != "" {
		pattern := "%" + strings.ToLower(*searchTerm) + "%"
		queryBuilder.WriteString(` WHERE LOWER(nombre) LIKE ? OR LOWER(apellidos) LIKE ? OR telefono LIKE ?`)
		args = append(args, pattern, pattern, pattern)
	}
	queryBuilder.WriteString(` ORDER BY nombre ASC`)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clientes: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	clientes := []models.Cliente{}
	for rows.Next() {
		cliente, err := scanCliente(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning cliente: %v", ErrDatabaseError, err)
		}
		clientes = append(clientes, *cliente)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating cliente rows: %v", ErrDatabaseError, err)
	}
	return clientes, nil
}

// Count returns the total number of clients.
func (r *clienteRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM clientes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting clientes: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// Update updates an existing client in the database.
func (r *clienteRepository) Update(executor SQLExecutor, cliente *models.Cliente) error {
	query := `UPDATE clientes SET
	            nombre = ?, apellidos = ?, edad = ?, peso = ?, telefono = ?,
	            fecha_alta = ?, fecha_vencimiento = ?, fecha_ultimo_pago = ?, activo = ?, estado = ?
	          WHERE id = ?`

	args := append(clienteArgs(cliente), cliente.ID)
	result, err := executor.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating cliente ID %d: %v", ErrDatabaseError, cliente.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating cliente ID %d: %v", ErrDatabaseError, cliente.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a client from the database. Dependent payments must be
// deleted first to satisfy the foreign key.
func (r *clienteRepository) Delete(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM clientes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting cliente ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting cliente ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExistsByNombreAndTelefono reports whether a client with the same trimmed
// (nombre, telefono) pair already exists, optionally excluding one ID.
func (r *clienteRepository) ExistsByNombreAndTelefono(nombre, telefono string, excludeID *int64) (bool, error) {
	query := `SELECT COUNT(*) FROM clientes WHERE nombre = ? AND telefono = ?`
	args := []interface{}{strings.TrimSpace(nombre), strings.TrimSpace(telefono)}
	if excludeID != nil {
		query += ` AND id != ?`
		args = append(args, *excludeID)
	}

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: checking cliente existence: %v", ErrDatabaseError, err)
	}
	return count > 0, nil
}

// UpdateActivoBatch persists recomputed active flags in a single transaction;
// a mid-batch failure leaves no partial update.
func (r *clienteRepository) UpdateActivoBatch(updates []ActivoUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning activo batch: %v", ErrDatabaseError, err)
	}
	for _, u := range updates {
		activo := 0
		if u.Activo {
			activo = 1
		}
		if _, err := tx.Exec(`UPDATE clientes SET activo = ? WHERE id = ?`, activo, u.ID); err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: updating activo for cliente ID %d: %v", ErrDatabaseError, u.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing activo batch: %v", ErrDatabaseError, err)
	}
	return nil
}

// DeleteAll wipes payments first and then clients, in one transaction, so the
// foreign key is never violated.
func (r *clienteRepository) DeleteAll() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning delete all: %v", ErrDatabaseError, err)
	}
	if _, err := tx.Exec(`DELETE FROM pagos`); err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: deleting pagos: %v", ErrDatabaseError, err)
	}
	if _, err := tx.Exec(`DELETE FROM clientes`); err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: deleting clientes: %v", ErrDatabaseError, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing delete all: %v", ErrDatabaseError, err)
	}
	return nil
}
