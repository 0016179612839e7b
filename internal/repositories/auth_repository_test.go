package repositories

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/database"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepoTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewAuthRepository(db)

	_, err := repo.CreateUser(db, &models.Usuario{Username: "admin", PasswordHash: "hash1"})
	require.NoError(t, err)

	_, err = repo.CreateUser(db, &models.Usuario{Username: "admin", PasswordHash: "hash2"})
	assert.True(t, errors.Is(err, ErrDuplicateKey), "got %v", err)
}

func TestFindUserByUsername(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewAuthRepository(db)

	id, err := repo.CreateUser(db, &models.Usuario{Username: "admin", PasswordHash: "hash"})
	require.NoError(t, err)
	require.NotZero(t, id)

	usuario, err := repo.FindUserByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, id, usuario.ID)
	assert.Equal(t, "hash", usuario.PasswordHash)

	_, err = repo.FindUserByUsername("nadie")
	assert.True(t, errors.Is(err, ErrNotFound))

	exists, err := repo.UserExists("admin")
	require.NoError(t, err)
	assert.True(t, exists)
}
