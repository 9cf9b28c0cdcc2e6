package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/entity"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

var _ repository.ProductoRepository = (*ProductoRepo)(nil)

// ProductoRepo implementación de ProductoRepository sobre PostgreSQL (usable con pool o tx).
type ProductoRepo struct {
	q Querier
}

// NewProductoRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductoRepository(q Querier) *ProductoRepo {
	return &ProductoRepo{q: q}
}

const productoColumns = `id, sku, nombre, descripcion, seguimiento, es_kit, stock, reservado, precio, costo, created_at, updated_at`

// Create persiste un producto nuevo.
func (r *ProductoRepo) Create(p *entity.Producto) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO productos (` + productoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.SKU, p.Nombre, p.Descripcion, p.Seguimiento, p.EsKit,
		p.Stock, p.Reservado, p.Precio, p.Costo, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (r *ProductoRepo) GetByID(id string) (*entity.Producto, error) {
	query := `SELECT ` + productoColumns + ` FROM productos WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetBySKU obtiene un producto por SKU. Devuelve nil si no existe.
func (r *ProductoRepo) GetBySKU(sku string) (*entity.Producto, error) {
	query := `SELECT ` + productoColumns + ` FROM productos WHERE sku = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, sku))
}

// Update actualiza los datos maestros del producto. Stock y Reservado se
// mantienen por SincronizarStock y AjustarReservado, nunca por aquí.
func (r *ProductoRepo) Update(p *entity.Producto) error {
	query := `
		UPDATE productos
		SET sku = $2, nombre = $3, descripcion = $4, precio = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		p.ID, p.SKU, p.Nombre, p.Descripcion, p.Precio, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCosto actualiza el costo promedio ponderado.
func (r *ProductoRepo) UpdateCosto(productoID string, costo decimal.Decimal) error {
	query := `UPDATE productos SET costo = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, productoID, costo)
	if err != nil {
		return fmt.Errorf("update costo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con paginación.
func (r *ProductoRepo) List(limit, offset int) ([]*entity.Producto, error) {
	query := `SELECT ` + productoColumns + ` FROM productos ORDER BY nombre LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Producto
	for rows.Next() {
		var p entity.Producto
		if err := scanProducto(rows, &p); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// SincronizarStock recalcula el agregado stock como SUM(inventario.cantidad).
// Debe ejecutarse dentro de la misma transacción que mutó el inventario.
func (r *ProductoRepo) SincronizarStock(productoID string) error {
	query := `
		UPDATE productos
		SET stock = COALESCE((SELECT SUM(cantidad) FROM inventario WHERE producto_id = $1), 0),
		    updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, productoID)
	if err != nil {
		return fmt.Errorf("sincronizar stock: %w", err)
	}
	return nil
}

// AjustarReservado suma delta al apartado blando. El WHERE garantiza en SQL
// que el resultado nunca queda negativo.
func (r *ProductoRepo) AjustarReservado(productoID string, delta int64) error {
	query := `
		UPDATE productos
		SET reservado = reservado + $2, updated_at = now()
		WHERE id = $1 AND reservado + $2 >= 0`
	tag, err := r.q.Exec(context.Background(), query, productoID, delta)
	if err != nil {
		return fmt.Errorf("ajustar reservado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguir producto inexistente de reserva insuficiente
		var existe bool
		err := r.q.QueryRow(context.Background(), `SELECT true FROM productos WHERE id = $1`, productoID).Scan(&existe)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("ajustar reservado: %w", err)
		}
		return domain.ErrReservaInsuficiente
	}
	return nil
}

func (r *ProductoRepo) scanOne(row pgx.Row) (*entity.Producto, error) {
	var p entity.Producto
	if err := scanProducto(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return &p, nil
}

func scanProducto(row pgx.Row, p *entity.Producto) error {
	return row.Scan(
		&p.ID, &p.SKU, &p.Nombre, &p.Descripcion, &p.Seguimiento, &p.EsKit,
		&p.Stock, &p.Reservado, &p.Precio, &p.Costo, &p.CreatedAt, &p.UpdatedAt,
	)
}
