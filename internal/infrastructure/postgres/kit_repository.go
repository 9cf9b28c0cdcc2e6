package postgres

import (
	"context"
	"fmt"

	"github.com/abastio/inventario-api/internal/domain/entity"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

var _ repository.KitItemRepository = (*KitItemRepo)(nil)

// KitItemRepo implementación de KitItemRepository sobre PostgreSQL (usable con pool o tx).
type KitItemRepo struct {
	q Querier
}

// NewKitItemRepository construye el adaptador de composición de kits. Pasar pool o tx (Querier).
func NewKitItemRepository(q Querier) *KitItemRepo {
	return &KitItemRepo{q: q}
}

// ListPorKit lista los componentes de un kit.
func (r *KitItemRepo) ListPorKit(kitID string) ([]*entity.KitItem, error) {
	query := `
		SELECT kit_id, item_tipo, item_id, multiplicador
		FROM kit_items WHERE kit_id = $1 ORDER BY item_id`
	rows, err := r.q.Query(context.Background(), query, kitID)
	if err != nil {
		return nil, fmt.Errorf("list kit items: %w", err)
	}
	defer rows.Close()
	var list []*entity.KitItem
	for rows.Next() {
		var it entity.KitItem
		if err := rows.Scan(&it.KitID, &it.ItemTipo, &it.ItemID, &it.Multiplicador); err != nil {
			return nil, fmt.Errorf("scan kit item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Reemplazar sustituye la composición completa del kit (delete + insert).
func (r *KitItemRepo) Reemplazar(kitID string, items []*entity.KitItem) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM kit_items WHERE kit_id = $1`, kitID); err != nil {
		return fmt.Errorf("limpiar kit items: %w", err)
	}
	query := `
		INSERT INTO kit_items (kit_id, item_tipo, item_id, multiplicador)
		VALUES ($1, $2, $3, $4)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, query, kitID, it.ItemTipo, it.ItemID, it.Multiplicador); err != nil {
			return fmt.Errorf("insert kit item: %w", err)
		}
	}
	return nil
}
