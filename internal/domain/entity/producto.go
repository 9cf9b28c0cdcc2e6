package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de seguimiento de un producto. Mutuamente excluyentes.
const (
	SeguimientoNormal      = "normal"      // solo cantidad
	SeguimientoSerializado = "serializado" // una unidad física = un serial
	SeguimientoLote        = "lote"        // lotes con fecha de caducidad
)

// Producto representa un producto o SKU del inventario (multi-bodega).
// Stock es el agregado desnormalizado: siempre igual a la suma de
// inventario.cantidad en todas las bodegas (se recalcula dentro de la misma
// transacción de cada movimiento). Reservado es un apartado blando,
// independiente del stock físico. Un producto kit nunca tiene filas de
// inventario propias: sus movimientos se descomponen en componentes.
type Producto struct {
	ID          string
	SKU         string // código único
	Nombre      string
	Descripcion string
	Seguimiento string // normal | serializado | lote
	EsKit       bool
	Stock       int64           // Σ inventario.cantidad (desnormalizado)
	Reservado   int64           // apartado blando, no es movimiento de ledger
	Precio      decimal.Decimal // precio de venta
	Costo       decimal.Decimal // costo promedio ponderado (inicia en 0)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
