package entity

import "time"

// Inventario representa la cantidad física actual de un producto en una bodega.
// Llave natural (ProductoID, AlmacenID). Se crea perezosamente con la primera
// entrada, nunca se elimina y puede quedar en cero indefinidamente.
// Invariante: Cantidad nunca es negativa.
type Inventario struct {
	ProductoID  string
	AlmacenID   string
	Cantidad    int64
	StockMinimo int64
	UpdatedAt   time.Time
}

// BajoMinimo indica si la cantidad está por debajo del mínimo configurado.
func (i *Inventario) BajoMinimo() bool {
	return i.StockMinimo > 0 && i.Cantidad < i.StockMinimo
}
