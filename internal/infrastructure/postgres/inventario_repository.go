package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abastio/inventario-api/internal/domain/entity"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

var _ repository.InventarioRepository = (*InventarioRepo)(nil)

// InventarioRepo implementación de InventarioRepository sobre PostgreSQL (usable con pool o tx).
type InventarioRepo struct {
	q Querier
}

// NewInventarioRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventarioRepository(q Querier) *InventarioRepo {
	return &InventarioRepo{q: q}
}

// Get obtiene la fila de inventario de un producto en una bodega.
// Si no existe devuelve una fila en cero (creación perezosa).
func (r *InventarioRepo) Get(productoID, almacenID string) (*entity.Inventario, error) {
	query := `
		SELECT producto_id, almacen_id, cantidad, stock_minimo, updated_at
		FROM inventario WHERE producto_id = $1 AND almacen_id = $2`
	var inv entity.Inventario
	err := r.q.QueryRow(context.Background(), query, productoID, almacenID).Scan(
		&inv.ProductoID, &inv.AlmacenID, &inv.Cantidad, &inv.StockMinimo, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Inventario{ProductoID: productoID, AlmacenID: almacenID}, nil
		}
		return nil, fmt.Errorf("get inventario: %w", err)
	}
	return &inv, nil
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE) para que la
// guarda de stock negativo sea atómica frente a escritores concurrentes.
// Si la fila aún no existe se inserta en cero antes de bloquear: un FOR UPDATE
// sobre una fila inexistente no bloquea nada y dos primeras entradas
// concurrentes podrían perder un incremento.
func (r *InventarioRepo) GetForUpdate(productoID, almacenID string) (*entity.Inventario, error) {
	seed := `
		INSERT INTO inventario (producto_id, almacen_id, cantidad, stock_minimo, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (producto_id, almacen_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), seed, productoID, almacenID); err != nil {
		return nil, fmt.Errorf("asegurar fila de inventario: %w", err)
	}

	query := `
		SELECT producto_id, almacen_id, cantidad, stock_minimo, updated_at
		FROM inventario WHERE producto_id = $1 AND almacen_id = $2
		FOR UPDATE`
	var inv entity.Inventario
	err := r.q.QueryRow(context.Background(), query, productoID, almacenID).Scan(
		&inv.ProductoID, &inv.AlmacenID, &inv.Cantidad, &inv.StockMinimo, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Inventario{ProductoID: productoID, AlmacenID: almacenID}, nil
		}
		return nil, fmt.Errorf("get inventario for update: %w", err)
	}
	return &inv, nil
}

// Upsert inserta o actualiza la cantidad (por producto y bodega).
func (r *InventarioRepo) Upsert(inv *entity.Inventario) error {
	query := `
		INSERT INTO inventario (producto_id, almacen_id, cantidad, stock_minimo, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (producto_id, almacen_id)
		DO UPDATE SET cantidad = EXCLUDED.cantidad, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		inv.ProductoID, inv.AlmacenID, inv.Cantidad, inv.StockMinimo,
	)
	if err != nil {
		return fmt.Errorf("upsert inventario: %w", err)
	}
	return nil
}

// ListPorProducto lista las filas de inventario de un producto en todas las bodegas.
func (r *InventarioRepo) ListPorProducto(productoID string) ([]*entity.Inventario, error) {
	query := `
		SELECT producto_id, almacen_id, cantidad, stock_minimo, updated_at
		FROM inventario WHERE producto_id = $1 ORDER BY almacen_id`
	rows, err := r.q.Query(context.Background(), query, productoID)
	if err != nil {
		return nil, fmt.Errorf("list inventario por producto: %w", err)
	}
	defer rows.Close()
	return scanInventarios(rows)
}

// ListBajoMinimo lista filas con cantidad por debajo de su stock mínimo.
func (r *InventarioRepo) ListBajoMinimo(limit, offset int) ([]*entity.Inventario, error) {
	query := `
		SELECT producto_id, almacen_id, cantidad, stock_minimo, updated_at
		FROM inventario
		WHERE stock_minimo > 0 AND cantidad < stock_minimo
		ORDER BY producto_id, almacen_id
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bajo minimo: %w", err)
	}
	defer rows.Close()
	return scanInventarios(rows)
}

func scanInventarios(rows pgx.Rows) ([]*entity.Inventario, error) {
	var list []*entity.Inventario
	for rows.Next() {
		var inv entity.Inventario
		if err := rows.Scan(&inv.ProductoID, &inv.AlmacenID, &inv.Cantidad, &inv.StockMinimo, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventario: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
