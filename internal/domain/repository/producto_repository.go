package repository

import (
	"github.com/shopspring/decimal"

	"github.com/abastio/inventario-api/internal/domain/entity"
)

// ProductoRepository define el puerto de persistencia para Producto (DIP).
type ProductoRepository interface {
	Create(producto *entity.Producto) error
	GetByID(id string) (*entity.Producto, error)
	GetBySKU(sku string) (*entity.Producto, error)
	Update(producto *entity.Producto) error
	UpdateCosto(productoID string, costo decimal.Decimal) error
	List(limit, offset int) ([]*entity.Producto, error)
	// SincronizarStock recalcula el agregado desnormalizado stock como
	// SUM(inventario.cantidad) del producto. Debe invocarse dentro de la misma
	// transacción que mutó el inventario, nunca por hooks implícitos.
	SincronizarStock(productoID string) error
	// AjustarReservado suma delta al apartado blando. Falla con
	// ErrReservaInsuficiente si el resultado sería negativo.
	AjustarReservado(productoID string, delta int64) error
}
