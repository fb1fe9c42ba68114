package repository

import "github.com/kirodsllc/inventario-contable/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios (DIP).
type UserRepository interface {
	GetByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
	Create(user *entity.User) error
}
