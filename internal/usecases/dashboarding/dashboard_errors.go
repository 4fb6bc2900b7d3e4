package dashboarding

import (
	"errors"
	"fmt"
)

// Erros específicos do contexto de dashboards
var (
	ErrDashboardKeyRequired = errors.New("dashboard key is required")
	ErrWidgetNotFound       = errors.New("widget not found")
	ErrNotTableWidget       = errors.New("widget is not a table")
	ErrInvalidTableIndex    = errors.New("table index out of range")
	ErrInvalidPatch         = errors.New("invalid widget patch")
	ErrStaleLoad            = errors.New("dashboard load superseded by a newer one")
	ErrLayoutTooLarge       = errors.New("layout snapshot too large")
	ErrLayoutStorage        = errors.New("layout storage error")
)

// DashboardError carrega o código da API e a chave do dashboard envolvido
type DashboardError struct {
	Err          error
	Code         string
	DashboardKey string
	Details      string
}

func (e *DashboardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *DashboardError) Unwrap() error {
	return e.Err
}

func NewDashboardError(err error, code string, key string, details string) *DashboardError {
	return &DashboardError{
		Err:          err,
		Code:         code,
		DashboardKey: key,
		Details:      details,
	}
}
