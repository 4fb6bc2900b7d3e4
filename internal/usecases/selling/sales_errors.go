package selling

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de vendas
var (
	// Erros de validação
	ErrUserIDRequired        = errors.New("user ID is required")
	ErrSalesRecordIDRequired = errors.New("sales record ID is required")
	ErrInvalidSalesRecord    = errors.New("invalid sales record")

	// Erros de consulta
	ErrSalesRecordNotFound = errors.New("sales record not found")
	ErrUserNotFound        = errors.New("user not found")

	// Erros de banco de dados
	ErrFetchUsers          = errors.New("error fetching users")
	ErrFetchSalesRecords   = errors.New("error fetching sales records")
	ErrCreateSalesRecord   = errors.New("error creating sales record")
	ErrUpdateSalesRecord   = errors.New("error updating sales record")
	ErrDeleteSalesRecord   = errors.New("error deleting sales record")
	ErrFetchMetricsHistory = errors.New("error fetching metrics history")
)

// SalesError é um erro com contexto adicional para vendas
type SalesError struct {
	Err     error             // Erro base
	Code    string            // Código de erro para API
	Details string            // Detalhes adicionais
	Fields  map[string]string // Erros por campo (validação)
}

// Error implementa a interface error
func (e *SalesError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *SalesError) Unwrap() error {
	return e.Err
}

// NewSalesError cria um novo SalesError
func NewSalesError(err error, code string, details string) *SalesError {
	return &SalesError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
