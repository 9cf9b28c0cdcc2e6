package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abastio/inventario-api/internal/domain/entity"
)

// ReferenciaDTO puntero etiquetado al documento origen de un movimiento.
type ReferenciaDTO struct {
	Tipo string `json:"tipo"` // compra | venta | traspaso | ajuste
	ID   string `json:"id"`
}

// RegistrarMovimientoRequest body para POST /api/inventario/entradas y
// POST /api/inventario/salidas.
type RegistrarMovimientoRequest struct {
	ProductoID     string           `json:"producto_id"`
	AlmacenID      string           `json:"almacen_id"`
	Cantidad       int64            `json:"cantidad"`
	Motivo         string           `json:"motivo"`
	Referencia     *ReferenciaDTO   `json:"referencia,omitempty"`
	Seriales       []string         `json:"seriales,omitempty"`
	NumeroLote     string           `json:"numero_lote,omitempty"`
	FechaCaducidad *time.Time       `json:"fecha_caducidad,omitempty"`
	CostoUnitario  *decimal.Decimal `json:"costo_unitario,omitempty"`
	EsVenta        bool             `json:"es_venta,omitempty"`
}

// MovimientoResponse representación pública de un movimiento del ledger.
type MovimientoResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	AlmacenID     string          `json:"almacen_id"`
	Direccion     string          `json:"direccion"`
	Cantidad      int64           `json:"cantidad"`
	Motivo        string          `json:"motivo"`
	Referencia    *ReferenciaDTO  `json:"referencia,omitempty"`
	Serie         string          `json:"serie,omitempty"`
	NumeroLote    string          `json:"numero_lote,omitempty"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Fecha         time.Time       `json:"fecha"`
	CreadoPor     string          `json:"creado_por,omitempty"`
}

// MovimientosResponse respuesta con los movimientos creados por una operación.
type MovimientosResponse struct {
	Total       int                  `json:"total"`
	Movimientos []MovimientoResponse `json:"movimientos"`
}

// StockResponse cantidad actual por producto y bodega.
type StockResponse struct {
	ProductoID  string    `json:"producto_id"`
	AlmacenID   string    `json:"almacen_id"`
	Cantidad    int64     `json:"cantidad"`
	StockMinimo int64     `json:"stock_minimo"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DiscrepanciaDTO una desviación detectada por el job de conciliación.
type DiscrepanciaDTO struct {
	Regla      string `json:"regla"`
	ProductoID string `json:"producto_id"`
	AlmacenID  string `json:"almacen_id,omitempty"`
	Esperado   int64  `json:"esperado"`
	Observado  int64  `json:"observado"`
}

// ToMovimientoResponse convierte la entidad al DTO público.
func ToMovimientoResponse(m *entity.InventarioMovimiento) MovimientoResponse {
	out := MovimientoResponse{
		ID:            m.ID,
		ProductoID:    m.ProductoID,
		AlmacenID:     m.AlmacenID,
		Direccion:     m.Direccion,
		Cantidad:      m.Cantidad,
		Motivo:        m.Motivo,
		CostoUnitario: m.CostoUnitario,
		Fecha:         m.Fecha,
		CreadoPor:     m.CreadoPor,
	}
	if m.Referencia != nil {
		out.Referencia = &ReferenciaDTO{Tipo: m.Referencia.Tipo, ID: m.Referencia.ID}
	}
	if m.Detalles != nil {
		out.Serie = m.Detalles.Serie
		out.NumeroLote = m.Detalles.NumeroLote
	}
	return out
}

// ToMovimientosResponse convierte la lista de movimientos de un resultado.
func ToMovimientosResponse(movs []*entity.InventarioMovimiento) MovimientosResponse {
	out := MovimientosResponse{Total: len(movs), Movimientos: make([]MovimientoResponse, 0, len(movs))}
	for _, m := range movs {
		out.Movimientos = append(out.Movimientos, ToMovimientoResponse(m))
	}
	return out
}
