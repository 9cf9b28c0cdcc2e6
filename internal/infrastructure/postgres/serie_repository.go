package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/entity"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

var _ repository.SerieRepository = (*SerieRepo)(nil)

// SerieRepo implementación de SerieRepository sobre PostgreSQL (usable con pool o tx).
type SerieRepo struct {
	q Querier
}

// NewSerieRepository construye el adaptador de series. Pasar pool o tx (Querier).
func NewSerieRepository(q Querier) *SerieRepo {
	return &SerieRepo{q: q}
}

const serieColumns = `id, producto_id, almacen_id, serie, estado, compra_id, venta_id, created_at, updated_at`

// Create persiste una unidad serializada. Devuelve ErrSerieDuplicada si el
// serial ya existe para el producto (constraint único producto_id + serie).
func (r *SerieRepo) Create(s *entity.ProductoSerie) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO producto_series (` + serieColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.ProductoID, s.AlmacenID, s.Serie, s.Estado,
		s.CompraID, s.VentaID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSerieDuplicada
		}
		return fmt.Errorf("create serie: %w", err)
	}
	return nil
}

// GetPorSerie busca por (producto, serial). Devuelve nil si no existe.
func (r *SerieRepo) GetPorSerie(productoID, serie string) (*entity.ProductoSerie, error) {
	query := `SELECT ` + serieColumns + ` FROM producto_series WHERE producto_id = $1 AND serie = $2`
	var s entity.ProductoSerie
	err := r.q.QueryRow(context.Background(), query, productoID, serie).Scan(
		&s.ID, &s.ProductoID, &s.AlmacenID, &s.Serie, &s.Estado,
		&s.CompraID, &s.VentaID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get serie: %w", err)
	}
	return &s, nil
}

// ActualizarEstado cambia el estado y el vínculo a la venta (nil lo limpia).
func (r *SerieRepo) ActualizarEstado(id, estado string, ventaID *string) error {
	query := `UPDATE producto_series SET estado = $2, venta_id = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, estado, ventaID)
	if err != nil {
		return fmt.Errorf("actualizar estado serie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MoverAlmacen reescribe la bodega en la misma fila (traspaso en sitio).
func (r *SerieRepo) MoverAlmacen(id, almacenID string) error {
	query := `UPDATE producto_series SET almacen_id = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, almacenID)
	if err != nil {
		return fmt.Errorf("mover serie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Eliminar borra físicamente la fila. Solo para la cancelación de la compra
// que la creó.
func (r *SerieRepo) Eliminar(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM producto_series WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("eliminar serie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPorProducto lista series de un producto, opcionalmente filtradas por estado.
func (r *SerieRepo) ListPorProducto(productoID, estado string, limit, offset int) ([]*entity.ProductoSerie, error) {
	query := `SELECT ` + serieColumns + ` FROM producto_series WHERE producto_id = $1`
	args := []any{productoID}
	pos := 2
	if estado != "" {
		query += fmt.Sprintf(" AND estado = $%d", pos)
		args = append(args, estado)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY serie LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductoSerie
	for rows.Next() {
		var s entity.ProductoSerie
		if err := rows.Scan(&s.ID, &s.ProductoID, &s.AlmacenID, &s.Serie, &s.Estado,
			&s.CompraID, &s.VentaID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan serie: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ContarEnStock cuenta unidades en_stock de un producto en una bodega.
func (r *SerieRepo) ContarEnStock(productoID, almacenID string) (int64, error) {
	query := `
		SELECT COUNT(*) FROM producto_series
		WHERE producto_id = $1 AND almacen_id = $2 AND estado = $3`
	var n int64
	err := r.q.QueryRow(context.Background(), query, productoID, almacenID, entity.SerieEnStock).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("contar series en stock: %w", err)
	}
	return n, nil
}
