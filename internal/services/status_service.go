package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/models"
)

// DiasRenovacion is the fixed renewal period: registering a payment (or
// defaulting a missing expiration on import) extends the membership this
// many days.
const DiasRenovacion = 30

// ErrValidacion marks user-input validation failures. The wrapped message is
// the field-level reason shown to the operator.
var ErrValidacion = errors.New("datos de cliente no válidos")

// Countdown colors for the expiration column.
const (
	ColorVencido   = "Red"
	ColorPorVencer = "Orange"
	ColorVigente   = "Green"
)

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EsActivo reports whether the membership is current: expiration on or after
// today. This is the single source of truth for the cached Activo flag.
func EsActivo(cliente *models.Cliente, hoy time.Time) bool {
	return !dateOnly(cliente.FechaVencimiento).Before(dateOnly(hoy))
}

// EstadoVisual derives the human-facing status label. A manual override maps
// through a fixed table (unknown overrides pass through verbatim); without an
// override the label follows the expiration date.
func EstadoVisual(cliente *models.Cliente, hoy time.Time) string {
	if strings.TrimSpace(cliente.Estado) != "" {
		switch cliente.Estado {
		case models.EstadoActivo:
			return "🟢 Activo"
		case models.EstadoPendiente:
			return "🟡 Pendiente de pago"
		case models.EstadoVencido:
			return "🔴 Vencido"
		default:
			return cliente.Estado
		}
	}

	if EsActivo(cliente, hoy) {
		return "🟢 Activo"
	}
	return "🔴 Vencido"
}

// DiasRestantes returns whole days until expiration; negative when expired.
func DiasRestantes(cliente *models.Cliente, hoy time.Time) int {
	return int(dateOnly(cliente.FechaVencimiento).Sub(dateOnly(hoy)).Hours() / 24)
}

// DiasRestantesVisual renders the countdown for display.
func DiasRestantesVisual(cliente *models.Cliente, hoy time.Time) string {
	dias := DiasRestantes(cliente, hoy)
	if dias < 0 {
		return "Vencido"
	}
	if dias == 0 {
		return "Vence hoy"
	}
	if dias == 1 {
		return "1 día"
	}
	return fmt.Sprintf("%d días", dias)
}

// ColorVencimiento classifies the countdown for the UI: expired red, seven
// days or less orange, otherwise green.
func ColorVencimiento(dias int) string {
	if dias < 0 {
		return ColorVencido
	}
	if dias <= 7 {
		return ColorPorVencer
	}
	return ColorVigente
}

var (
	telefonoSeparadores = regexp.MustCompile(`[\s\-\(\)]`)
	soloDigitos         = regexp.MustCompile(`^\d+$`)
)

// ValidarTelefono checks an optional phone number: after stripping spaces,
// hyphens and parentheses it must be 7 to 15 digits. Empty is valid.
func ValidarTelefono(telefono string) error {
	if strings.TrimSpace(telefono) == "" {
		return nil
	}

	limpio := telefonoSeparadores.ReplaceAllString(telefono, "")
	if !soloDigitos.MatchString(limpio) {
		return fmt.Errorf("%w: el teléfono solo puede contener números, espacios, guiones y paréntesis", ErrValidacion)
	}
	if len(limpio) < 7 {
		return fmt.Errorf("%w: el teléfono debe tener al menos 7 dígitos", ErrValidacion)
	}
	if len(limpio) > 15 {
		return fmt.Errorf("%w: el teléfono no puede tener más de 15 dígitos", ErrValidacion)
	}
	return nil
}

// ValidarNombre checks a required name: non-empty after trimming, 2 to 100
// characters.
func ValidarNombre(nombre string) error {
	trimmed := strings.TrimSpace(nombre)
	if trimmed == "" {
		return fmt.Errorf("%w: el nombre es requerido", ErrValidacion)
	}
	if len([]rune(trimmed)) < 2 {
		return fmt.Errorf("%w: el nombre debe tener al menos 2 caracteres", ErrValidacion)
	}
	if len([]rune(trimmed)) > 100 {
		return fmt.Errorf("%w: el nombre no puede tener más de 100 caracteres", ErrValidacion)
	}
	return nil
}

// NuevoResumen builds the enriched list row for a client as of hoy.
func NuevoResumen(cliente *models.Cliente, hoy time.Time) models.ClienteResumen {
	dias := DiasRestantes(cliente, hoy)
	resumen := models.ClienteResumen{
		ID:                  cliente.ID,
		NombreCompleto:      cliente.NombreCompleto(),
		Edad:                cliente.Edad,
		Peso:                cliente.Peso,
		Telefono:            cliente.Telefono,
		FechaAlta:           cliente.FechaAlta.Format("2006-01-02"),
		FechaVencimiento:    cliente.FechaVencimiento.Format("2006-01-02"),
		Estado:              EstadoVisual(cliente, hoy),
		DiasRestantes:       dias,
		DiasRestantesVisual: DiasRestantesVisual(cliente, hoy),
		Color:               ColorVencimiento(dias),
	}
	if cliente.FechaUltimoPago != nil {
		resumen.FechaUltimoPago = cliente.FechaUltimoPago.Format("2006-01-02")
	}
	return resumen
}
