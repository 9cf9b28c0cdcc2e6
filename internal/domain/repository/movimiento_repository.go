package repository

import (
	"time"

	"github.com/abastio/inventario-api/internal/domain/entity"
)

// MovimientoRepository define el puerto para el log append-only de movimientos.
// No existe Update ni Delete: la pista de auditoría nunca se muta.
type MovimientoRepository interface {
	Create(movimiento *entity.InventarioMovimiento) error
	GetByID(id string) (*entity.InventarioMovimiento, error)
	ListPorProducto(productoID string, from, to *time.Time, limit, offset int) ([]*entity.InventarioMovimiento, error)
	ListPorAlmacen(almacenID string, from, to *time.Time, limit, offset int) ([]*entity.InventarioMovimiento, error)
	// ListPorReferencia devuelve, en orden cronológico ascendente, todos los
	// movimientos ligados a un documento. Es la base del motor de reversas.
	ListPorReferencia(tipo, id string) ([]*entity.InventarioMovimiento, error)
}
