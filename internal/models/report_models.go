package models

// ResumenDashboard holds the key rollups for the summary screen.
// Every value is recomputed on request; nothing is cached.
type ResumenDashboard struct {
	TotalClientes     int     `json:"total_clientes"`
	ClientesActivos   int     `json:"clientes_activos"`
	ClientesVencidos  int     `json:"clientes_vencidos"`
	IngresosDelMes    float64 `json:"ingresos_del_mes"`
	IngresosEsperados float64 `json:"ingresos_esperados"`
}

// IngresoMensual is one calendar-month revenue bucket, labeled "ene 2026" style.
type IngresoMensual struct {
	Mes   string  `json:"mes"`
	Total float64 `json:"total"`
}

// Recordatorios groups the clients that need attention: already expired
// memberships and the ones expiring within the lookahead window.
type Recordatorios struct {
	Vencidos        []ClienteResumen `json:"vencidos"`
	ProximosAVencer []ClienteResumen `json:"proximos_a_vencer"`
}
