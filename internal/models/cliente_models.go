package models

import "time"

// Estado values an operator can set manually on a client. An empty Estado
// means the status is derived from FechaVencimiento.
const (
	EstadoActivo    = "Activo"
	EstadoPendiente = "Pendiente"
	EstadoVencido   = "Vencido"
)

// Cliente represents one membership holder of the gym.
type Cliente struct {
	ID               int64      `json:"id"`
	Nombre           string     `json:"nombre"`
	Apellidos        string     `json:"apellidos,omitempty"`
	Edad             *int       `json:"edad,omitempty"`
	Peso             *float64   `json:"peso,omitempty"`
	Telefono         string     `json:"telefono,omitempty"`
	FechaAlta        time.Time  `json:"fecha_alta"`
	FechaVencimiento time.Time  `json:"fecha_vencimiento"`
	FechaUltimoPago  *time.Time `json:"fecha_ultimo_pago,omitempty"`
	// Activo is a cached derived flag; it is recomputed against the current
	// date on load unless a payment or manual status operation set it.
	Activo bool `json:"activo"`
	// Estado is the manual status override ("Activo"/"Pendiente"/"Vencido").
	Estado string `json:"estado,omitempty"`
}

// NombreCompleto joins the given and family name for display.
func (c *Cliente) NombreCompleto() string {
	if c.Apellidos == "" {
		return c.Nombre
	}
	return c.Nombre + " " + c.Apellidos
}

// ClienteResumen is the enriched list view of a client: dates rendered as
// yyyy-MM-dd text plus the derived status label and countdown.
type ClienteResumen struct {
	ID                  int64    `json:"id"`
	NombreCompleto      string   `json:"nombre_completo"`
	Edad                *int     `json:"edad,omitempty"`
	Peso                *float64 `json:"peso,omitempty"`
	Telefono            string   `json:"telefono,omitempty"`
	FechaAlta           string   `json:"fecha_alta"`
	FechaUltimoPago     string   `json:"fecha_ultimo_pago,omitempty"`
	FechaVencimiento    string   `json:"fecha_vencimiento"`
	Estado              string   `json:"estado"`
	DiasRestantes       int      `json:"dias_restantes"`
	DiasRestantesVisual string   `json:"dias_restantes_visual"`
	Color               string   `json:"color"`
}
