package repository

import "github.com/abastio/inventario-api/internal/domain/entity"

// LoteRepository define el puerto para lotes con caducidad.
type LoteRepository interface {
	Create(lote *entity.Lote) error
	// GetForUpdate busca y bloquea el lote por (producto, bodega, numero_lote).
	// Devuelve nil si no existe.
	GetForUpdate(productoID, almacenID, numeroLote string) (*entity.Lote, error)
	// PrimeroPorCaducidad devuelve, bloqueado, el lote con cantidad disponible
	// y fecha de caducidad más próxima (política FIFO por vencimiento cuando el
	// caller no elige lote). Devuelve nil si no queda ninguno.
	PrimeroPorCaducidad(productoID, almacenID string) (*entity.Lote, error)
	ActualizarCantidad(id string, cantidad int64) error
	ListPorProducto(productoID string) ([]*entity.Lote, error)
	// ListPorVencer lista lotes con existencia que caducan dentro de `dias`.
	ListPorVencer(dias, limit, offset int) ([]*entity.Lote, error)
	SumPorProductoAlmacen(productoID, almacenID string) (int64, error)
}
