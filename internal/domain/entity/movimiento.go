package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de un movimiento de inventario.
const (
	DireccionEntrada = "entrada"
	DireccionSalida  = "salida"
)

// Tipos de documento a los que puede apuntar una referencia.
const (
	ReferenciaCompra   = "compra"
	ReferenciaVenta    = "venta"
	ReferenciaTraspaso = "traspaso"
	ReferenciaAjuste   = "ajuste"
)

// Referencia es un puntero etiquetado al documento que originó un movimiento.
// Unión cerrada {Tipo, ID}: compra, venta, traspaso o ajuste.
type Referencia struct {
	Tipo string `json:"tipo"`
	ID   string `json:"id"`
}

// DetallesMovimiento lleva datos estructurados adicionales del movimiento:
// el serial cuando el producto es serializado (un movimiento por unidad) y el
// lote afectado cuando es de seguimiento por lote. Se persiste como JSONB.
type DetallesMovimiento struct {
	Serie          string     `json:"serie,omitempty"`
	NumeroLote     string     `json:"numero_lote,omitempty"`
	FechaCaducidad *time.Time `json:"fecha_caducidad,omitempty"`
}

// InventarioMovimiento es el registro append-only de un cambio de stock: la
// pista de auditoría de verdad. Nunca se muta ni se elimina. Cantidad lleva
// signo (negativa en salidas) de modo que el replay desde cero sea una suma
// directa por (producto, bodega).
type InventarioMovimiento struct {
	ID            string
	ProductoID    string
	AlmacenID     string
	Direccion     string // entrada | salida
	Cantidad      int64  // positiva en entrada, negativa en salida
	Motivo        string
	Referencia    *Referencia
	Detalles      *DetallesMovimiento
	CostoUnitario decimal.Decimal
	CostoTotal    decimal.Decimal
	Fecha         time.Time
	CreatedAt     time.Time
	CreadoPor     string
}
