package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/abastio/inventario-api/internal/application/dto"
	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/entity"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

// AlmacenUseCase casos de uso CRUD para bodegas. Las bodegas no se eliminan:
// se desactivan, porque su historial de movimientos debe sobrevivirlas.
type AlmacenUseCase struct {
	repo repository.AlmacenRepository
}

// NewAlmacenUseCase construye el caso de uso.
func NewAlmacenUseCase(repo repository.AlmacenRepository) *AlmacenUseCase {
	return &AlmacenUseCase{repo: repo}
}

// Create crea una nueva bodega, activa por defecto.
func (uc *AlmacenUseCase) Create(in dto.CreateAlmacenRequest) (*dto.AlmacenResponse, error) {
	if in.Nombre == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	almacen := &entity.Almacen{
		ID:        uuid.New().String(),
		Nombre:    in.Nombre,
		Direccion: in.Direccion,
		Activo:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(almacen); err != nil {
		return nil, err
	}
	return toAlmacenResponse(almacen), nil
}

// GetByID obtiene una bodega por ID.
func (uc *AlmacenUseCase) GetByID(id string) (*dto.AlmacenResponse, error) {
	almacen, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if almacen == nil {
		return nil, nil
	}
	return toAlmacenResponse(almacen), nil
}

// Update actualiza una bodega (incluida su activación/desactivación).
func (uc *AlmacenUseCase) Update(id string, in dto.UpdateAlmacenRequest) (*dto.AlmacenResponse, error) {
	almacen, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if almacen == nil {
		return nil, nil
	}
	if in.Nombre != nil {
		almacen.Nombre = *in.Nombre
	}
	if in.Direccion != nil {
		almacen.Direccion = *in.Direccion
	}
	if in.Activo != nil {
		almacen.Activo = *in.Activo
	}
	almacen.UpdatedAt = time.Now()
	if err := uc.repo.Update(almacen); err != nil {
		return nil, err
	}
	return toAlmacenResponse(almacen), nil
}

// List lista bodegas con paginación.
func (uc *AlmacenUseCase) List(limit, offset int) (*dto.AlmacenListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlmacenResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAlmacenResponse(a))
	}
	return &dto.AlmacenListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toAlmacenResponse(a *entity.Almacen) *dto.AlmacenResponse {
	if a == nil {
		return nil
	}
	return &dto.AlmacenResponse{
		ID:        a.ID,
		Nombre:    a.Nombre,
		Direccion: a.Direccion,
		Activo:    a.Activo,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
