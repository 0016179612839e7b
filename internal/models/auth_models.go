package models

// Usuario represents the single administrative login of the application.
type Usuario struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
