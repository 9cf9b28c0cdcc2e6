package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/abastio/inventario-api/internal/domain/entity"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

// MovimientoRepo implementación de MovimientoRepository sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: no hay Update ni Delete.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

const movimientoColumns = `id, producto_id, almacen_id, direccion, cantidad, motivo, referencia_tipo, referencia_id, detalles, costo_unitario, costo_total, fecha, created_at, creado_por`

// Create persiste un movimiento de inventario.
func (r *MovimientoRepo) Create(m *entity.InventarioMovimiento) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	var refTipo, refID *string
	if m.Referencia != nil {
		refTipo = &m.Referencia.Tipo
		refID = &m.Referencia.ID
	}
	var detalles []byte
	if m.Detalles != nil {
		b, err := json.Marshal(m.Detalles)
		if err != nil {
			return fmt.Errorf("marshal detalles: %w", err)
		}
		detalles = b
	}
	creadoPor := (*string)(nil)
	if m.CreadoPor != "" {
		creadoPor = &m.CreadoPor
	}
	query := `
		INSERT INTO inventario_movimientos (` + movimientoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductoID, m.AlmacenID, m.Direccion, m.Cantidad, m.Motivo,
		refTipo, refID, detalles, m.CostoUnitario, m.CostoTotal,
		m.Fecha, m.CreatedAt, creadoPor,
	)
	if err != nil {
		return fmt.Errorf("create movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil si no existe.
func (r *MovimientoRepo) GetByID(id string) (*entity.InventarioMovimiento, error) {
	query := `SELECT ` + movimientoColumns + ` FROM inventario_movimientos WHERE id = $1`
	var m entity.InventarioMovimiento
	if err := scanMovimiento(r.q.QueryRow(context.Background(), query, id), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return &m, nil
}

// ListPorProducto lista movimientos de un producto en un rango de fechas.
func (r *MovimientoRepo) ListPorProducto(productoID string, from, to *time.Time, limit, offset int) ([]*entity.InventarioMovimiento, error) {
	return r.listPorCampo("producto_id", productoID, from, to, limit, offset)
}

// ListPorAlmacen lista movimientos de una bodega en un rango de fechas.
func (r *MovimientoRepo) ListPorAlmacen(almacenID string, from, to *time.Time, limit, offset int) ([]*entity.InventarioMovimiento, error) {
	return r.listPorCampo("almacen_id", almacenID, from, to, limit, offset)
}

func (r *MovimientoRepo) listPorCampo(campo, valor string, from, to *time.Time, limit, offset int) ([]*entity.InventarioMovimiento, error) {
	query := `SELECT ` + movimientoColumns + ` FROM inventario_movimientos WHERE ` + campo + ` = $1`
	args := []any{valor}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND fecha >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND fecha <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos por %s: %w", campo, err)
	}
	defer rows.Close()
	return scanMovimientos(rows)
}

// ListPorReferencia devuelve en orden cronológico ascendente los movimientos
// ligados a un documento (base del motor de reversas).
func (r *MovimientoRepo) ListPorReferencia(tipo, id string) ([]*entity.InventarioMovimiento, error) {
	query := `
		SELECT ` + movimientoColumns + `
		FROM inventario_movimientos
		WHERE referencia_tipo = $1 AND referencia_id = $2
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, tipo, id)
	if err != nil {
		return nil, fmt.Errorf("list movimientos por referencia: %w", err)
	}
	defer rows.Close()
	return scanMovimientos(rows)
}

func scanMovimiento(row pgx.Row, m *entity.InventarioMovimiento) error {
	var refTipo, refID, creadoPor *string
	var detalles []byte
	if err := row.Scan(
		&m.ID, &m.ProductoID, &m.AlmacenID, &m.Direccion, &m.Cantidad, &m.Motivo,
		&refTipo, &refID, &detalles, &m.CostoUnitario, &m.CostoTotal,
		&m.Fecha, &m.CreatedAt, &creadoPor,
	); err != nil {
		return err
	}
	if refTipo != nil && refID != nil {
		m.Referencia = &entity.Referencia{Tipo: *refTipo, ID: *refID}
	}
	if len(detalles) > 0 {
		var d entity.DetallesMovimiento
		if err := json.Unmarshal(detalles, &d); err != nil {
			return fmt.Errorf("unmarshal detalles: %w", err)
		}
		m.Detalles = &d
	}
	if creadoPor != nil {
		m.CreadoPor = *creadoPor
	}
	return nil
}

func scanMovimientos(rows pgx.Rows) ([]*entity.InventarioMovimiento, error) {
	var list []*entity.InventarioMovimiento
	for rows.Next() {
		var m entity.InventarioMovimiento
		if err := scanMovimiento(rows, &m); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
