package inventario

import (
	"context"

	"github.com/abastio/inventario-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción de BD.
// Todo lo que mute inventario, series, lotes o movimientos dentro de una
// operación debe pasar por el mismo conjunto.
type Repos struct {
	Inventario  repository.InventarioRepository
	Movimientos repository.MovimientoRepository
	Series      repository.SerieRepository
	Lotes       repository.LoteRepository
	Productos   repository.ProductoRepository
	Kits        repository.KitItemRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: si fn devuelve error se hace rollback completo, nunca queda un
// estado parcial. Los flujos que componen varias operaciones (traspasos,
// reversas, ventas) llaman a los métodos *EnTx dentro de un único Run.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
