package entity

// Tipos de ítem dentro de un kit. Los servicios no mueven stock.
const (
	KitItemProducto = "producto"
	KitItemServicio = "servicio"
)

// KitItem define cuántas unidades de un componente consume una unidad del kit.
// Un kit es un producto virtual: nunca posee fila de inventario propia; cada
// movimiento del kit se expande en movimientos de sus componentes.
type KitItem struct {
	KitID         string
	ItemTipo      string // producto | servicio
	ItemID        string
	Multiplicador int64
}
