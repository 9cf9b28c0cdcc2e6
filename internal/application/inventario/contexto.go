package inventario

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abastio/inventario-api/internal/domain/entity"
)

// DatosLote lleva la información de lote de un componente dentro de un kit.
type DatosLote struct {
	NumeroLote     string
	FechaCaducidad *time.Time
	CostoUnitario  *decimal.Decimal
}

// ContextoMovimiento describe una entrada o salida: bodega, motivo, documento
// de origen y los datos propios del modo de seguimiento del producto.
//
//   - Seriales: obligatorio si el producto es serializado; len == cantidad.
//   - NumeroLote/FechaCaducidad: obligatorios en entradas de productos por
//     lote. En salidas, NumeroLote vacío selecciona lotes por FIFO de caducidad.
//   - CostoUnitario: costo de la entrada; alimenta el costo promedio ponderado
//     del producto y el costo del lote.
//   - EsVenta: en salidas serializadas decide el estado destino de la unidad
//     (vendido) frente a una baja por ajuste (ajuste_baja).
//   - SerialesPorComponente / LotesPorComponente: metadatos por componente
//     cuando el producto es un kit.
type ContextoMovimiento struct {
	AlmacenID  string
	Motivo     string
	Referencia *entity.Referencia

	Seriales              []string
	SerialesPorComponente map[string][]string

	NumeroLote         string
	FechaCaducidad     *time.Time
	CostoUnitario      *decimal.Decimal
	LotesPorComponente map[string]DatosLote

	EsVenta   bool
	CreadoPor string
}

// contextoComponente deriva el contexto de un componente de kit: hereda bodega,
// motivo y referencia, y toma seriales y lote del mapa por componente.
func (cx ContextoMovimiento) contextoComponente(itemID string) ContextoMovimiento {
	ccx := cx
	ccx.Seriales = nil
	ccx.NumeroLote = ""
	ccx.FechaCaducidad = nil
	ccx.CostoUnitario = nil
	if s, ok := cx.SerialesPorComponente[itemID]; ok {
		ccx.Seriales = s
	}
	if dl, ok := cx.LotesPorComponente[itemID]; ok {
		ccx.NumeroLote = dl.NumeroLote
		ccx.FechaCaducidad = dl.FechaCaducidad
		ccx.CostoUnitario = dl.CostoUnitario
	}
	return ccx
}

// ResultadoMovimiento devuelve los movimientos creados por una operación
// (uno por unidad en productos serializados, uno por tramo de lote consumido,
// uno en bloque en el resto).
type ResultadoMovimiento struct {
	Movimientos []*entity.InventarioMovimiento
}

// TraspasoItem es una línea de un traspaso entre bodegas.
type TraspasoItem struct {
	ProductoID string
	Cantidad   int64
	Seriales   []string // requerido si el producto es serializado
	NumeroLote string   // opcional: vacío = FIFO por caducidad en el origen
}

// TraspasoInput describe un traspaso completo origen → destino.
type TraspasoInput struct {
	TraspasoID string // se genera si viene vacío
	OrigenID   string
	DestinoID  string
	Motivo     string
	Items      []TraspasoItem
	CreadoPor  string
}
