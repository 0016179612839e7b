package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"

	"github.com/mattn/go-sqlite3"
)

// AuthRepository defines the interface for credential-related database operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, usuario *models.Usuario) (int64, error)
	FindUserByUsername(username string) (*models.Usuario, error)
	FindUserByID(userID int64) (*models.Usuario, error)
	UserExists(username string) (bool, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts a new credential row.
func (r *authRepository) CreateUser(executor SQLExecutor, usuario *models.Usuario) (int64, error) {
	query := `INSERT INTO usuarios (username, password_hash)
	          VALUES (?, ?)
	          RETURNING id`

	err := executor.QueryRow(query, usuario.Username, usuario.PasswordHash).Scan(&usuario.ID)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, fmt.Errorf("%w: username %q", ErrDuplicateKey, usuario.Username)
		}
		return 0, fmt.Errorf("%w: creating usuario: %v", ErrDatabaseError, err)
	}
	return usuario.ID, nil
}

// FindUserByUsername retrieves a credential row by username.
func (r *authRepository) FindUserByUsername(username string) (*models.Usuario, error) {
	usuario := &models.Usuario{}
	query := `SELECT id, username, password_hash FROM usuarios WHERE username = ?`

	err := r.db.QueryRow(query, username).Scan(&usuario.ID, &usuario.Username, &usuario.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding usuario %q: %v", ErrDatabaseError, username, err)
	}
	return usuario, nil
}

// FindUserByID retrieves a credential row by ID.
func (r *authRepository) FindUserByID(userID int64) (*models.Usuario, error) {
	usuario := &models.Usuario{}
	query := `SELECT id, username, password_hash FROM usuarios WHERE id = ?`

	err := r.db.QueryRow(query, userID).Scan(&usuario.ID, &usuario.Username, &usuario.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding usuario ID %d: %v", ErrDatabaseError, userID, err)
	}
	return usuario, nil
}

// UserExists reports whether a credential with the given username exists.
func (r *authRepository) UserExists(username string) (bool, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM usuarios WHERE username = ?`, username).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: checking usuario existence: %v", ErrDatabaseError, err)
	}
	return count > 0, nil
}
