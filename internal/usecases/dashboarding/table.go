package dashboarding

import (
	"fmt"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// editTable aplica edit sobre uma cópia da tabela e grava o resultado como patch
func (s *Store) editTable(id string, edit func(table *domain.TableData) error) (*domain.Widget, error) {
	return s.updateWidget(id, func(current *domain.Widget) (WidgetPatch, error) {
		table, ok := current.Data.(*domain.TableData)
		if !ok {
			return WidgetPatch{}, fmt.Errorf("%w: %s", ErrNotTableWidget, id)
		}

		if err := edit(table); err != nil {
			return WidgetPatch{}, err
		}

		return WidgetPatch{Data: table}, nil
	})
}

// AddTableRow acrescenta uma linha vazia com uma célula por coluna
func (s *Store) AddTableRow(id string) (*domain.Widget, error) {
	return s.editTable(id, func(table *domain.TableData) error {
		table.Rows = append(table.Rows, make([]string, len(table.Headers)))
		return nil
	})
}

func (s *Store) RemoveTableRow(id string, index int) (*domain.Widget, error) {
	return s.editTable(id, func(table *domain.TableData) error {
		if index < 0 || index >= len(table.Rows) {
			return fmt.Errorf("%w: linha %d", ErrInvalidTableIndex, index)
		}
		table.Rows = append(table.Rows[:index:index], table.Rows[index+1:]...)
		return nil
	})
}

// AddTableColumn acrescenta um cabeçalho e uma célula vazia em cada linha
func (s *Store) AddTableColumn(id string) (*domain.Widget, error) {
	return s.editTable(id, func(table *domain.TableData) error {
		table.Headers = append(table.Headers, fmt.Sprintf("Column %d", len(table.Headers)+1))
		for i := range table.Rows {
			table.Rows[i] = append(table.Rows[i], "")
		}
		return nil
	})
}

func (s *Store) RemoveTableColumn(id string, index int) (*domain.Widget, error) {
	return s.editTable(id, func(table *domain.TableData) error {
		if index < 0 || index >= len(table.Headers) {
			return fmt.Errorf("%w: coluna %d", ErrInvalidTableIndex, index)
		}
		table.Headers = append(table.Headers[:index:index], table.Headers[index+1:]...)
		for i, row := range table.Rows {
			table.Rows[i] = append(row[:index:index], row[index+1:]...)
		}
		return nil
	})
}

func (s *Store) UpdateTableCell(id string, row, column int, value string) (*domain.Widget, error) {
	return s.editTable(id, func(table *domain.TableData) error {
		if row < 0 || row >= len(table.Rows) {
			return fmt.Errorf("%w: linha %d", ErrInvalidTableIndex, row)
		}
		if column < 0 || column >= len(table.Rows[row]) {
			return fmt.Errorf("%w: coluna %d", ErrInvalidTableIndex, column)
		}
		table.Rows[row][column] = value
		return nil
	})
}

func (s *Store) UpdateTableHeader(id string, column int, value string) (*domain.Widget, error) {
	return s.editTable(id, func(table *domain.TableData) error {
		if column < 0 || column >= len(table.Headers) {
			return fmt.Errorf("%w: coluna %d", ErrInvalidTableIndex, column)
		}
		table.Headers[column] = value
		return nil
	})
}
