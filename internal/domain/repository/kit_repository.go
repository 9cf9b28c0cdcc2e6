package repository

import "github.com/abastio/inventario-api/internal/domain/entity"

// KitItemRepository define el puerto para la composición de kits.
type KitItemRepository interface {
	ListPorKit(kitID string) ([]*entity.KitItem, error)
	Reemplazar(kitID string, items []*entity.KitItem) error
}
