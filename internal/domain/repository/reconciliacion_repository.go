package repository

import "context"

// Reglas de conciliación verificadas por el job de auditoría.
const (
	ReglaReplay   = "replay_movimientos" // Σ movimientos firmados == inventario.cantidad
	ReglaSeries   = "series_en_stock"    // count(series en_stock) == inventario.cantidad
	ReglaLotes    = "suma_lotes"         // Σ lote.cantidad_actual == inventario.cantidad
	ReglaAgregado = "stock_producto"     // producto.stock == Σ inventario.cantidad
)

// Discrepancia reporta una desviación entre dos vistas que deberían coincidir.
// El job solo reporta: nunca corrige automáticamente.
type Discrepancia struct {
	Regla      string
	ProductoID string
	AlmacenID  string // vacío para la regla de agregado por producto
	Esperado   int64
	Observado  int64
}

// ReconciliacionRepository ejecuta las comparaciones de solo lectura en SQL.
// Es una red de seguridad: la corrección del motor no depende de él.
type ReconciliacionRepository interface {
	ReplayVsInventario(ctx context.Context) ([]Discrepancia, error)
	SeriesVsInventario(ctx context.Context) ([]Discrepancia, error)
	LotesVsInventario(ctx context.Context) ([]Discrepancia, error)
	StockVsInventario(ctx context.Context) ([]Discrepancia, error)
}
