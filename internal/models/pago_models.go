package models

import "time"

// Pago represents one recorded payment renewing a client's membership.
// Payments are created through the register-payment operation only; no
// update or delete path exists.
type Pago struct {
	ID        int64     `json:"id"`
	ClienteID int64     `json:"cliente_id"`
	FechaPago time.Time `json:"fecha_pago"`
	Cantidad  float64   `json:"cantidad"`
}
