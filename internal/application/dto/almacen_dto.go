package dto

import "time"

// CreateAlmacenRequest body para POST /api/almacenes.
type CreateAlmacenRequest struct {
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion,omitempty"`
}

// UpdateAlmacenRequest body para PUT /api/almacenes/{id}. Campos opcionales.
type UpdateAlmacenRequest struct {
	Nombre    *string `json:"nombre,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
	Activo    *bool   `json:"activo,omitempty"`
}

// AlmacenResponse representación pública de una bodega.
type AlmacenResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Direccion string    `json:"direccion,omitempty"`
	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AlmacenListResponse lista paginada de bodegas.
type AlmacenListResponse struct {
	Items []AlmacenResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
