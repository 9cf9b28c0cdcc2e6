package postgres

import (
	"context"
	"fmt"

	"github.com/abastio/inventario-api/internal/domain/entity"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

var _ repository.ReconciliacionRepository = (*ReconciliacionRepo)(nil)

// ReconciliacionRepo ejecuta las comparaciones de conciliación directamente en
// SQL. Solo lectura: reporta discrepancias, nunca corrige.
type ReconciliacionRepo struct {
	q Querier
}

// NewReconciliacionRepository construye el adaptador de conciliación. Pasar pool o tx (Querier).
func NewReconciliacionRepository(q Querier) *ReconciliacionRepo {
	return &ReconciliacionRepo{q: q}
}

// ReplayVsInventario compara Σ movimientos firmados contra inventario.cantidad
// por (producto, bodega). El FULL JOIN captura pares presentes en un solo lado.
func (r *ReconciliacionRepo) ReplayVsInventario(ctx context.Context) ([]repository.Discrepancia, error) {
	query := `
		SELECT COALESCE(m.producto_id, i.producto_id),
		       COALESCE(m.almacen_id, i.almacen_id),
		       COALESCE(m.total, 0),
		       COALESCE(i.cantidad, 0)
		FROM (
			SELECT producto_id, almacen_id, SUM(cantidad) AS total
			FROM inventario_movimientos
			GROUP BY producto_id, almacen_id
		) m
		FULL JOIN inventario i
		  ON i.producto_id = m.producto_id AND i.almacen_id = m.almacen_id
		WHERE COALESCE(m.total, 0) <> COALESCE(i.cantidad, 0)`
	return r.porProductoAlmacen(ctx, repository.ReglaReplay, query)
}

// SeriesVsInventario compara count(series en_stock) contra inventario.cantidad
// para productos serializados.
func (r *ReconciliacionRepo) SeriesVsInventario(ctx context.Context) ([]repository.Discrepancia, error) {
	query := `
		SELECT COALESCE(s.producto_id, i.producto_id),
		       COALESCE(s.almacen_id, i.almacen_id),
		       COALESCE(s.total, 0),
		       COALESCE(i.cantidad, 0)
		FROM (
			SELECT producto_id, almacen_id, COUNT(*) AS total
			FROM producto_series
			WHERE estado = '` + entity.SerieEnStock + `'
			GROUP BY producto_id, almacen_id
		) s
		FULL JOIN (
			SELECT i.producto_id, i.almacen_id, i.cantidad
			FROM inventario i
			JOIN productos p ON p.id = i.producto_id
			WHERE p.seguimiento = '` + entity.SeguimientoSerializado + `'
		) i
		  ON i.producto_id = s.producto_id AND i.almacen_id = s.almacen_id
		WHERE COALESCE(s.total, 0) <> COALESCE(i.cantidad, 0)`
	return r.porProductoAlmacen(ctx, repository.ReglaSeries, query)
}

// LotesVsInventario compara Σ lote.cantidad_actual contra inventario.cantidad
// para productos de seguimiento por lote.
func (r *ReconciliacionRepo) LotesVsInventario(ctx context.Context) ([]repository.Discrepancia, error) {
	query := `
		SELECT COALESCE(l.producto_id, i.producto_id),
		       COALESCE(l.almacen_id, i.almacen_id),
		       COALESCE(l.total, 0),
		       COALESCE(i.cantidad, 0)
		FROM (
			SELECT producto_id, almacen_id, SUM(cantidad_actual) AS total
			FROM lotes
			GROUP BY producto_id, almacen_id
		) l
		FULL JOIN (
			SELECT i.producto_id, i.almacen_id, i.cantidad
			FROM inventario i
			JOIN productos p ON p.id = i.producto_id
			WHERE p.seguimiento = '` + entity.SeguimientoLote + `'
		) i
		  ON i.producto_id = l.producto_id AND i.almacen_id = l.almacen_id
		WHERE COALESCE(l.total, 0) <> COALESCE(i.cantidad, 0)`
	return r.porProductoAlmacen(ctx, repository.ReglaLotes, query)
}

// StockVsInventario compara producto.stock contra Σ inventario.cantidad.
func (r *ReconciliacionRepo) StockVsInventario(ctx context.Context) ([]repository.Discrepancia, error) {
	query := `
		SELECT p.id,
		       COALESCE(i.total, 0),
		       p.stock
		FROM productos p
		LEFT JOIN (
			SELECT producto_id, SUM(cantidad) AS total
			FROM inventario
			GROUP BY producto_id
		) i ON i.producto_id = p.id
		WHERE p.stock <> COALESCE(i.total, 0)`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("conciliar stock producto: %w", err)
	}
	defer rows.Close()
	var out []repository.Discrepancia
	for rows.Next() {
		d := repository.Discrepancia{Regla: repository.ReglaAgregado}
		if err := rows.Scan(&d.ProductoID, &d.Esperado, &d.Observado); err != nil {
			return nil, fmt.Errorf("scan discrepancia: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *ReconciliacionRepo) porProductoAlmacen(ctx context.Context, regla, query string) ([]repository.Discrepancia, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("conciliar %s: %w", regla, err)
	}
	defer rows.Close()
	var out []repository.Discrepancia
	for rows.Next() {
		d := repository.Discrepancia{Regla: regla}
		if err := rows.Scan(&d.ProductoID, &d.AlmacenID, &d.Esperado, &d.Observado); err != nil {
			return nil, fmt.Errorf("scan discrepancia: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
