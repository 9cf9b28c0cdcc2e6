package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abastio/inventario-api/internal/application/dto"
	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/entity"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

// ProductoUseCase casos de uso CRUD para productos y la composición de kits.
type ProductoUseCase struct {
	repo    repository.ProductoRepository
	kitRepo repository.KitItemRepository
}

// NewProductoUseCase construye el caso de uso.
func NewProductoUseCase(repo repository.ProductoRepository, kitRepo repository.KitItemRepository) *ProductoUseCase {
	return &ProductoUseCase{repo: repo, kitRepo: kitRepo}
}

// Create crea un nuevo producto. El SKU es único.
func (uc *ProductoUseCase) Create(in dto.CreateProductoRequest) (*dto.ProductoResponse, error) {
	switch in.Seguimiento {
	case "":
		in.Seguimiento = entity.SeguimientoNormal
	case entity.SeguimientoNormal, entity.SeguimientoSerializado, entity.SeguimientoLote:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.SKU == "" || in.Nombre == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.EsKit && in.Seguimiento != entity.SeguimientoNormal {
		// Un kit es virtual: no se serializa ni se lotifica él mismo.
		return nil, domain.ErrInvalidInput
	}
	existente, err := uc.repo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	producto := &entity.Producto{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		Seguimiento: in.Seguimiento,
		EsKit:       in.EsKit,
		Precio:      in.Precio,
		Costo:       decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(producto); err != nil {
		return nil, err
	}
	return toProductoResponse(producto), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductoUseCase) GetByID(id string) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, nil
	}
	return toProductoResponse(producto), nil
}

// Update actualiza campos editables de un producto.
func (uc *ProductoUseCase) Update(id string, in dto.UpdateProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, nil
	}
	if in.Nombre != nil {
		producto.Nombre = *in.Nombre
	}
	if in.Descripcion != nil {
		producto.Descripcion = *in.Descripcion
	}
	if in.Precio != nil {
		producto.Precio = *in.Precio
	}
	producto.UpdatedAt = time.Now()
	if err := uc.repo.Update(producto); err != nil {
		return nil, err
	}
	return toProductoResponse(producto), nil
}

// List lista productos con paginación.
func (uc *ProductoUseCase) List(limit, offset int) (*dto.ProductoListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductoResponse(p))
	}
	return &dto.ProductoListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// DefinirKit reemplaza la composición de un kit.
func (uc *ProductoUseCase) DefinirKit(id string, in dto.DefinirKitRequest) error {
	producto, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if producto == nil {
		return domain.ErrNotFound
	}
	if !producto.EsKit {
		return domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return domain.ErrInvalidInput
	}
	items := make([]*entity.KitItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ItemID == "" || it.Multiplicador <= 0 {
			return domain.ErrInvalidInput
		}
		if it.ItemTipo != entity.KitItemProducto && it.ItemTipo != entity.KitItemServicio {
			return domain.ErrInvalidInput
		}
		if it.ItemTipo == entity.KitItemProducto {
			componente, err := uc.repo.GetByID(it.ItemID)
			if err != nil {
				return err
			}
			if componente == nil {
				return domain.ErrNotFound
			}
			if componente.EsKit {
				return domain.ErrKitAnidado
			}
		}
		items = append(items, &entity.KitItem{
			KitID:         id,
			ItemTipo:      it.ItemTipo,
			ItemID:        it.ItemID,
			Multiplicador: it.Multiplicador,
		})
	}
	return uc.kitRepo.Reemplazar(id, items)
}

// Kit devuelve la composición de un kit.
func (uc *ProductoUseCase) Kit(id string) ([]*entity.KitItem, error) {
	return uc.kitRepo.ListPorKit(id)
}

func toProductoResponse(p *entity.Producto) *dto.ProductoResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductoResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Seguimiento: p.Seguimiento,
		EsKit:       p.EsKit,
		Stock:       p.Stock,
		Reservado:   p.Reservado,
		Precio:      p.Precio,
		Costo:       p.Costo,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
