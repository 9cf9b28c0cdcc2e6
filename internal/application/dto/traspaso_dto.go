package dto

// TraspasoItemRequest una línea de un traspaso.
type TraspasoItemRequest struct {
	ProductoID string   `json:"producto_id"`
	Cantidad   int64    `json:"cantidad"`
	Seriales   []string `json:"seriales,omitempty"`
	NumeroLote string   `json:"numero_lote,omitempty"`
}

// TraspasoRequest body para POST /api/traspasos.
type TraspasoRequest struct {
	TraspasoID string                `json:"traspaso_id,omitempty"`
	OrigenID   string                `json:"origen_id"`
	DestinoID  string                `json:"destino_id"`
	Motivo     string                `json:"motivo,omitempty"`
	Items      []TraspasoItemRequest `json:"items"`
}
