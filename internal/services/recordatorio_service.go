package services

import (
	"fmt"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/repositories"
)

// DiasAvisoPorDefecto is the default lookahead window for upcoming expirations.
const DiasAvisoPorDefecto = 7

// --- RecordatorioService Interface ---
type RecordatorioService interface {
	ClientesVencidos() ([]models.Cliente, error)
	ClientesProximosAVencer(dias int) ([]models.Cliente, error)
	Recordatorios(dias int) (*models.Recordatorios, error)
}

type recordatorioService struct {
	clienteRepo repositories.ClienteRepository
}

// NewRecordatorioService creates a new instance of RecordatorioService.
func NewRecordatorioService(clienteRepo repositories.ClienteRepository) RecordatorioService {
	return &recordatorioService{clienteRepo: clienteRepo}
}

// ClientesVencidos returns clients whose membership expired before today.
func (s *recordatorioService) ClientesVencidos() ([]models.Cliente, error) {
	clientes, err := s.clienteRepo.GetAll(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load clientes: %w", err)
	}
	hoy := time.Now()
	vencidos := []models.Cliente{}
	for i := range clientes {
		if !EsActivo(&clientes[i], hoy) {
			vencidos = append(vencidos, clientes[i])
		}
	}
	return vencidos, nil
}

// ClientesProximosAVencer returns clients expiring within the next dias days,
// today included.
func (s *recordatorioService) ClientesProximosAVencer(dias int) ([]models.Cliente, error) {
	if dias <= 0 {
		dias = DiasAvisoPorDefecto
	}
	clientes, err := s.clienteRepo.GetAll(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load clientes: %w", err)
	}
	hoy := time.Now()
	proximos := []models.Cliente{}
	for i := range clientes {
		restantes := DiasRestantes(&clientes[i], hoy)
		if restantes >= 0 && restantes <= dias {
			proximos = append(proximos, clientes[i])
		}
	}
	return proximos, nil
}

// Recordatorios assembles both reminder lists as enriched rows.
func (s *recordatorioService) Recordatorios(dias int) (*models.Recordatorios, error) {
	vencidos, err := s.ClientesVencidos()
	if err != nil {
		return nil, err
	}
	proximos, err := s.ClientesProximosAVencer(dias)
	if err != nil {
		return nil, err
	}

	hoy := time.Now()
	out := &models.Recordatorios{
		Vencidos:        make([]models.ClienteResumen, 0, len(vencidos)),
		ProximosAVencer: make([]models.ClienteResumen, 0, len(proximos)),
	}
	for i := range vencidos {
		out.Vencidos = append(out.Vencidos, NuevoResumen(&vencidos[i], hoy))
	}
	for i := range proximos {
		out.ProximosAVencer = append(out.ProximosAVencer, NuevoResumen(&proximos[i], hoy))
	}
	return out, nil
}
