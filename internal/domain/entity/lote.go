package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lote representa un lote de stock con fecha de caducidad y costo unitario.
// Llave natural (ProductoID, AlmacenID, NumeroLote). Se crea con la primera
// entrada que lleva datos de lote y se decrementa en cada salida.
// Invariante: Σ lote.cantidad_actual == inventario.cantidad para productos
// de seguimiento por lote en esa (producto, bodega).
type Lote struct {
	ID             string
	ProductoID     string
	AlmacenID      string
	NumeroLote     string
	CantidadActual int64
	FechaCaducidad time.Time
	CostoUnitario  decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Vencido indica si el lote ya pasó su fecha de caducidad.
func (l *Lote) Vencido(ahora time.Time) bool {
	return ahora.After(l.FechaCaducidad)
}
