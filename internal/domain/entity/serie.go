package entity

import "time"

// Estados de una unidad serializada.
//
//	en_stock ──venta──▶ vendido ──cancelación de venta──▶ en_stock
//	en_stock ──ajuste──▶ ajuste_baja ──cancelación de ajuste──▶ en_stock
//	en_stock ──cancelación de compra──▶ retirado (+ eliminación física)
//
// Un traspaso entre bodegas no cambia el estado: reescribe AlmacenID en la
// misma fila, preservando la identidad y el historial completo de la unidad.
const (
	SerieEnStock    = "en_stock"
	SerieVendido    = "vendido"
	SerieAjusteBaja = "ajuste_baja"
	SerieRetirado   = "retirado"
)

// ProductoSerie representa una unidad física serializada. Una fila por unidad.
// Invariante continuo: count(estado=en_stock, producto, bodega) ==
// inventario.cantidad(producto, bodega). Romperlo es el "doble conteo",
// la clase de bug más grave del motor.
type ProductoSerie struct {
	ID         string
	ProductoID string
	AlmacenID  string
	Serie      string // única por producto
	Estado     string
	CompraID   *string // compra que creó la unidad
	VentaID    *string // venta que la consumió (nil mientras esté en stock)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Disponible indica si la unidad puede salir de inventario desde la bodega dada.
func (s *ProductoSerie) Disponible(almacenID string) bool {
	return s.Estado == SerieEnStock && s.AlmacenID == almacenID
}
