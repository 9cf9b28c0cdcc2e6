package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductoRequest body para POST /api/productos.
type CreateProductoRequest struct {
	SKU         string          `json:"sku"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion,omitempty"`
	Seguimiento string          `json:"seguimiento"` // normal | serializado | lote
	EsKit       bool            `json:"es_kit"`
	Precio      decimal.Decimal `json:"precio"`
}

// UpdateProductoRequest body para PUT /api/productos/{id}. Campos opcionales.
type UpdateProductoRequest struct {
	Nombre      *string          `json:"nombre,omitempty"`
	Descripcion *string          `json:"descripcion,omitempty"`
	Precio      *decimal.Decimal `json:"precio,omitempty"`
}

// KitItemRequest una línea de la composición de un kit.
type KitItemRequest struct {
	ItemTipo      string `json:"item_tipo"` // producto | servicio
	ItemID        string `json:"item_id"`
	Multiplicador int64  `json:"multiplicador"`
}

// DefinirKitRequest body para PUT /api/productos/{id}/kit.
type DefinirKitRequest struct {
	Items []KitItemRequest `json:"items"`
}

// ReservaRequest body para las operaciones de reserva de un producto.
type ReservaRequest struct {
	Cantidad int64 `json:"cantidad"`
}

// ProductoResponse representación pública de un producto.
type ProductoResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion,omitempty"`
	Seguimiento string          `json:"seguimiento"`
	EsKit       bool            `json:"es_kit"`
	Stock       int64           `json:"stock"`
	Reservado   int64           `json:"reservado"`
	Precio      decimal.Decimal `json:"precio"`
	Costo       decimal.Decimal `json:"costo"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductoListResponse lista paginada de productos.
type ProductoListResponse struct {
	Items []ProductoResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// SerieResponse representación pública de una unidad serializada.
type SerieResponse struct {
	ID        string  `json:"id"`
	AlmacenID string  `json:"almacen_id"`
	Serie     string  `json:"serie"`
	Estado    string  `json:"estado"`
	CompraID  *string `json:"compra_id,omitempty"`
	VentaID   *string `json:"venta_id,omitempty"`
}

// LoteResponse representación pública de un lote.
type LoteResponse struct {
	ID             string          `json:"id"`
	AlmacenID      string          `json:"almacen_id"`
	NumeroLote     string          `json:"numero_lote"`
	CantidadActual int64           `json:"cantidad_actual"`
	FechaCaducidad time.Time       `json:"fecha_caducidad"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
}
