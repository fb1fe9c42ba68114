package entity

import "time"

// User usuario del back-office (para autenticación del API).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin, operator
	CreatedAt    time.Time
}
