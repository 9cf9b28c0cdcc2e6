package entity

import "time"

// Almacen representa una bodega o sucursal donde se almacena inventario.
// No contiene lógica de inventario: es una llave de ubicación.
type Almacen struct {
	ID        string
	Nombre    string
	Direccion string
	Activo    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
