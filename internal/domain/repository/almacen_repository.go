package repository

import "github.com/abastio/inventario-api/internal/domain/entity"

// AlmacenRepository define el puerto de persistencia para Almacen (DIP).
type AlmacenRepository interface {
	Create(almacen *entity.Almacen) error
	GetByID(id string) (*entity.Almacen, error)
	Update(almacen *entity.Almacen) error
	List(limit, offset int) ([]*entity.Almacen, error)
}
