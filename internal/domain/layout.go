package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidLayout = errors.New("layout inválido")

// DashboardLayout é o snapshot persistido de um dashboard
type DashboardLayout struct {
	Title        string    `json:"title"`
	Widgets      []*Widget `json:"widgets"`
	LastModified time.Time `json:"lastModified"`
}

// Validate verifica o formato do snapshot antes de aceitá-lo
func (l *DashboardLayout) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: snapshot vazio", ErrInvalidLayout)
	}
	if l.Widgets == nil {
		return fmt.Errorf("%w: lista de widgets ausente", ErrInvalidLayout)
	}

	seen := make(map[string]struct{}, len(l.Widgets))
	for i, widget := range l.Widgets {
		if widget == nil {
			return fmt.Errorf("%w: widget %d nulo", ErrInvalidLayout, i)
		}
		if err := widget.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidLayout, err)
		}
		if _, exists := seen[widget.ID]; exists {
			return fmt.Errorf("%w: id duplicado %s", ErrInvalidLayout, widget.ID)
		}
		seen[widget.ID] = struct{}{}
	}

	return nil
}

func (l *DashboardLayout) Clone() *DashboardLayout {
	clone := &DashboardLayout{
		Title:        l.Title,
		LastModified: l.LastModified,
		Widgets:      make([]*Widget, 0, len(l.Widgets)),
	}
	for _, widget := range l.Widgets {
		clone.Widgets = append(clone.Widgets, widget.Clone())
	}
	return clone
}

// DashboardState é o layout acompanhado do widget selecionado no momento
type DashboardState struct {
	Key              string           `json:"key"`
	Layout           *DashboardLayout `json:"layout"`
	SelectedWidgetID string           `json:"selected_widget_id,omitempty"`
}
