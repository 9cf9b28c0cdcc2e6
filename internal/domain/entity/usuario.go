package entity

import "time"

// Roles de usuario.
const (
	RolAdmin     = "admin"
	RolBodeguero = "bodeguero"
	RolVendedor  = "vendedor"
)

// Usuario representa un usuario de la API. Solo autenticación: ninguna
// decisión de inventario vive aquí.
type Usuario struct {
	ID           string
	Email        string
	PasswordHash string
	Nombre       string
	Rol          string // admin | bodeguero | vendedor
	Estado       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
