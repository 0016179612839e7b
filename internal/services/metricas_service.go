package services

import (
	"fmt"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"
)

// CuotaMensualPorDefecto is the fallback monthly quota used to estimate
// expected revenue when no recent payments exist. It is a configuration
// default, not a business rule.
const CuotaMensualPorDefecto = 5000

// mesesCortos are the Spanish short month names used for revenue bucket labels.
var mesesCortos = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// --- MetricasService Interface ---
type MetricasService interface {
	TotalClientes() (int, error)
	ClientesActivos() (int, error)
	ClientesVencidos() (int, error)
	IngresosDelMes() (float64, error)
	IngresosEsperados() (float64, error)
	IngresosPorUltimosMeses(meses int) ([]models.IngresoMensual, error)
	Resumen() (*models.ResumenDashboard, error)
}

type metricasService struct {
	clienteRepo     repositories.ClienteRepository
	pagoRepo        repositories.PagoRepository
	cuotaPorDefecto float64
}

// NewMetricasService creates a new instance of MetricasService. A
// non-positive cuotaPorDefecto falls back to CuotaMensualPorDefecto.
func NewMetricasService(clienteRepo repositories.ClienteRepository, pagoRepo repositories.PagoRepository, cuotaPorDefecto float64) MetricasService {
	if cuotaPorDefecto <= 0 {
		cuotaPorDefecto = CuotaMensualPorDefecto
	}
	return &metricasService{
		clienteRepo:     clienteRepo,
		pagoRepo:        pagoRepo,
		cuotaPorDefecto: cuotaPorDefecto,
	}
}

func (s *metricasService) TotalClientes() (int, error) {
	count, err := s.clienteRepo.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count clientes: %w", err)
	}
	return count, nil
}

func (s *metricasService) contarPorVencimiento(activos bool) (int, error) {
	clientes, err := s.clienteRepo.GetAll(nil)
	if err != nil {
		return 0, fmt.Errorf("failed to load clientes: %w", err)
	}
	hoy := time.Now()
	count := 0
	for i := range clientes {
		if EsActivo(&clientes[i], hoy) == activos {
			count++
		}
	}
	return count, nil
}

func (s *metricasService) ClientesActivos() (int, error) {
	return s.contarPorVencimiento(true)
}

func (s *metricasService) ClientesVencidos() (int, error) {
	return s.contarPorVencimiento(false)
}

func mesDe(fecha time.Time) (time.Time, time.Time) {
	inicio := time.Date(fecha.Year(), fecha.Month(), 1, 0, 0, 0, 0, time.UTC)
	fin := inicio.AddDate(0, 1, -1)
	return inicio, fin
}

// IngresosDelMes sums the payments of the current calendar month.
func (s *metricasService) IngresosDelMes() (float64, error) {
	inicio, fin := mesDe(time.Now())
	pagos, err := s.pagoRepo.GetByFechaRange(inicio, fin)
	if err != nil {
		return 0, fmt.Errorf("failed to load pagos of the month: %w", err)
	}
	var total float64
	for _, p := range pagos {
		total += p.Cantidad
	}
	return total, nil
}

// IngresosEsperados estimates the month's revenue as active clients times the
// average payment over the last three months, falling back to the configured
// default quota when no recent payments exist.
func (s *metricasService) IngresosEsperados() (float64, error) {
	activos, err := s.ClientesActivos()
	if err != nil {
		return 0, err
	}
	if activos == 0 {
		return 0, nil
	}

	hoy := time.Now()
	pagos, err := s.pagoRepo.GetByFechaRange(hoy.AddDate(0, -3, 0), hoy)
	if err != nil {
		return 0, fmt.Errorf("failed to load recent pagos: %w", err)
	}
	if len(pagos) > 0 {
		var total float64
		for _, p := range pagos {
			total += p.Cantidad
		}
		promedio := total / float64(len(pagos))
		return float64(activos) * promedio, nil
	}
	return float64(activos) * s.cuotaPorDefecto, nil
}

// IngresosPorUltimosMeses returns one bucket per calendar month, oldest
// first, ending at the current month. Months without payments appear with a
// zero total.
func (s *metricasService) IngresosPorUltimosMeses(meses int) ([]models.IngresoMensual, error) {
	if meses <= 0 {
		meses = 1
	}

	hoy := time.Now()
	// Step from the first of the month so short months cannot skew the walk.
	mesActual := time.Date(hoy.Year(), hoy.Month(), 1, 0, 0, 0, 0, time.UTC)
	ingresos := make([]models.IngresoMensual, 0, meses)
	for i := meses - 1; i >= 0; i-- {
		inicio, fin := mesDe(mesActual.AddDate(0, -i, 0))

		pagos, err := s.pagoRepo.GetByFechaRange(inicio, fin)
		if err != nil {
			return nil, fmt.Errorf("failed to load pagos for %s: %w", inicio.Format("2006-01"), err)
		}
		var total float64
		for _, p := range pagos {
			total += p.Cantidad
		}
		ingresos = append(ingresos, models.IngresoMensual{
			Mes:   fmt.Sprintf("%s %d", mesesCortos[inicio.Month()-1], inicio.Year()),
			Total: total,
		})
	}
	return ingresos, nil
}

// Resumen assembles the dashboard rollup in one call.
func (s *metricasService) Resumen() (*models.ResumenDashboard, error) {
	total, err := s.TotalClientes()
	if err != nil {
		return nil, err
	}
	activos, err := s.ClientesActivos()
	if err != nil {
		return nil, err
	}
	vencidos, err := s.ClientesVencidos()
	if err != nil {
		return nil, err
	}
	delMes, err := s.IngresosDelMes()
	if err != nil {
		return nil, err
	}
	esperados, err := s.IngresosEsperados()
	if err != nil {
		return nil, err
	}
	return &models.ResumenDashboard{
		TotalClientes:     total,
		ClientesActivos:   activos,
		ClientesVencidos:  vencidos,
		IngresosDelMes:    delMes,
		IngresosEsperados: esperados,
	}, nil
}
