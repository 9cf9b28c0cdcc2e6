package repository

import "github.com/abastio/inventario-api/internal/domain/entity"

// SerieRepository define el puerto para unidades serializadas.
type SerieRepository interface {
	// Create persiste la unidad. Devuelve ErrSerieDuplicada si el serial ya
	// existe para el producto (constraint único).
	Create(serie *entity.ProductoSerie) error
	// GetPorSerie busca por (producto, serial). Devuelve nil si no existe.
	GetPorSerie(productoID, serie string) (*entity.ProductoSerie, error)
	// ActualizarEstado cambia el estado y el vínculo a la venta que la consumió
	// (nil para limpiarlo al restaurar).
	ActualizarEstado(id, estado string, ventaID *string) error
	// MoverAlmacen reescribe la bodega en la misma fila: un traspaso preserva
	// la identidad y el historial de la unidad, no la recrea.
	MoverAlmacen(id, almacenID string) error
	// Eliminar borra físicamente la fila. Solo lo usa la cancelación de la
	// compra que la creó: esa unidad nunca entró legítimamente al inventario.
	Eliminar(id string) error
	ListPorProducto(productoID, estado string, limit, offset int) ([]*entity.ProductoSerie, error)
	ContarEnStock(productoID, almacenID string) (int64, error)
}
