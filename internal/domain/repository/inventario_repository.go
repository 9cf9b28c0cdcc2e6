package repository

import "github.com/abastio/inventario-api/internal/domain/entity"

// InventarioRepository define el puerto para la fila autoritativa de cantidad
// por (producto, bodega). Usado dentro de transacciones para garantizar
// consistencia.
type InventarioRepository interface {
	// Get devuelve la fila o una fila en cero si aún no existe (creación perezosa).
	Get(productoID, almacenID string) (*entity.Inventario, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) antes de evaluar la
	// guarda de stock negativo: "leer, verificar, decrementar" debe ser atómico
	// frente a escritores concurrentes.
	GetForUpdate(productoID, almacenID string) (*entity.Inventario, error)
	Upsert(inv *entity.Inventario) error
	ListPorProducto(productoID string) ([]*entity.Inventario, error)
	// ListBajoMinimo lista filas con cantidad por debajo de su stock mínimo.
	ListBajoMinimo(limit, offset int) ([]*entity.Inventario, error)
}
