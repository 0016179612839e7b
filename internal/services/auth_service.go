package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// Default administrator seeded on first run.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// --- DTOs ---

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User        *models.Usuario `json:"user"`
	AccessToken string          `json:"access_token"`
}

// --- AuthService Interface ---
type AuthService interface {
	Login(req LoginRequest) (*AuthResponse, error)
	GetUserProfile(userID int64) (*models.Usuario, error)
	EnsureDefaultAdmin() error
}

type authService struct {
	authRepo repositories.AuthRepository
	db       *sql.DB
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, db *sql.DB) AuthService {
	return &authService{
		authRepo: authRepo,
		db:       db,
	}
}

// Login verifies the credential pair and issues an access token.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	usuario, err := s.authRepo.FindUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateAccessToken(usuario.ID, usuario.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	usuario.PasswordHash = ""
	return &AuthResponse{
		User:        usuario,
		AccessToken: accessToken,
	}, nil
}

// GetUserProfile retrieves a user's profile by their ID.
func (s *authService) GetUserProfile(userID int64) (*models.Usuario, error) {
	usuario, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	usuario.PasswordHash = ""
	return usuario, nil
}

// EnsureDefaultAdmin lazily creates the single administrator account on first
// run. Existing credentials are never touched.
func (s *authService) EnsureDefaultAdmin() error {
	exists, err := s.authRepo.UserExists(defaultAdminUsername)
	if err != nil {
		return fmt.Errorf("failed to check admin existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}
	usuario := &models.Usuario{
		Username:     defaultAdminUsername,
		PasswordHash: string(hash),
	}
	if _, err := s.authRepo.CreateUser(s.db, usuario); err != nil {
		// A concurrent first run may have seeded it already.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	return nil
}
