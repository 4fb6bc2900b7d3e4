package dashboarding

import (
	"fmt"
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

const newWidgetOffset = 20

// WidgetPatch é uma atualização parcial de widget. Campos nil são mantidos.
// Data substitui o payload inteiro, DataFields é mesclado campo a campo.
type WidgetPatch struct {
	Title      *string           `json:"title,omitempty"`
	Position   *domain.Position  `json:"position,omitempty"`
	Size       *domain.Size      `json:"size,omitempty"`
	Data       domain.WidgetData `json:"-"`
	DataFields map[string]any    `json:"data,omitempty"`
	Config     map[string]any    `json:"config,omitempty"`
}

// ChangeFunc recebe o snapshot completo após cada mutação
type ChangeFunc func(layout *domain.DashboardLayout)

type StoreOption func(*Store)

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() (string, error)) StoreOption {
	return func(s *Store) { s.newID = gen }
}

func WithChangeFunc(fn ChangeFunc) StoreOption {
	return func(s *Store) { s.onChange = fn }
}

// Store guarda o layout de um dashboard em memória
type Store struct {
	mu           sync.RWMutex
	title        string
	widgets      []*domain.Widget
	selectedID   string
	lastModified time.Time
	generation   uint64

	now      func() time.Time
	newID    func() (string, error)
	onChange ChangeFunc
}

func NewStore(layout *domain.DashboardLayout, opts ...StoreOption) *Store {
	s := &Store{
		now:   time.Now,
		newID: utils.GenerateID,
	}
	for _, opt := range opts {
		opt(s)
	}

	if layout != nil {
		s.replace(layout.Clone())
	}

	return s
}

func (s *Store) replace(layout *domain.DashboardLayout) {
	s.title = layout.Title
	s.widgets = layout.Widgets
	if s.widgets == nil {
		s.widgets = []*domain.Widget{}
	}
	s.lastModified = layout.LastModified
	s.selectedID = ""
}

func (s *Store) snapshotLocked() *domain.DashboardLayout {
	layout := &domain.DashboardLayout{
		Title:        s.title,
		LastModified: s.lastModified,
		Widgets:      make([]*domain.Widget, 0, len(s.widgets)),
	}
	for _, widget := range s.widgets {
		layout.Widgets = append(layout.Widgets, widget.Clone())
	}
	return layout
}

// changedLocked marca a modificação e emite o snapshot ainda sob o lock,
// assim a ordem dos snapshots emitidos segue a ordem das mutações
func (s *Store) changedLocked() {
	s.lastModified = s.now().UTC()
	if s.onChange != nil {
		s.onChange(s.snapshotLocked())
	}
}

func (s *Store) indexOf(id string) int {
	for i, widget := range s.widgets {
		if widget.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Snapshot() *domain.DashboardLayout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) SelectedWidgetID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

func (s *Store) Widget(id string) *domain.Widget {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.widgets[i].Clone()
	}
	return nil
}

// AddWidget cria um widget do tipo informado com valores padrão e o coloca no fim da lista
func (s *Store) AddWidget(t domain.WidgetType) (*domain.Widget, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownWidgetType, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueIDLocked()
	if err != nil {
		return nil, err
	}

	offset := newWidgetOffset * (len(s.widgets) + 1)
	widget, err := NewWidget(id, t, domain.Position{X: offset, Y: offset}, s.now())
	if err != nil {
		return nil, err
	}

	s.widgets = append(s.widgets, widget)
	s.changedLocked()

	return widget.Clone(), nil
}

func (s *Store) uniqueIDLocked() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("erro ao gerar id do widget: %w", err)
		}
		if id != "" && s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("erro ao gerar id único para o widget")
}

// UpdateWidget aplica o patch ao widget. Se o id não existir nada muda e o
// retorno é (nil, nil).
func (s *Store) UpdateWidget(id string, patch WidgetPatch) (*domain.Widget, error) {
	return s.updateWidget(id, func(*domain.Widget) (WidgetPatch, error) {
		return patch, nil
	})
}

// updateWidget monta o patch a partir do estado atual sem soltar o lock
func (s *Store) updateWidget(id string, build func(current *domain.Widget) (WidgetPatch, error)) (*domain.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}

	patch, err := build(s.widgets[i].Clone())
	if err != nil {
		return nil, err
	}

	updated, err := applyPatch(s.widgets[i], patch)
	if err != nil {
		return nil, err
	}

	s.widgets[i] = updated
	s.changedLocked()

	return updated.Clone(), nil
}

func applyPatch(current *domain.Widget, patch WidgetPatch) (*domain.Widget, error) {
	updated := current.Clone()

	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Position != nil {
		updated.Position = *patch.Position
	}
	if patch.Size != nil {
		updated.Size = *patch.Size
	}

	if patch.Data != nil {
		if patch.Data.WidgetType() != updated.Type {
			return nil, fmt.Errorf("%w: widget %s", domain.ErrWidgetTypeMismatch, updated.ID)
		}
		updated.Data = patch.Data.CloneData()
	}

	if len(patch.DataFields) > 0 {
		merged, err := domain.MergeWidgetData(updated.Data, patch.DataFields)
		if err != nil {
			return nil, err
		}
		updated.Data = merged
	}

	if len(patch.Config) > 0 {
		merged, err := domain.MergeWidgetConfig(updated.Config, patch.Config)
		if err != nil {
			return nil, err
		}
		updated.Config = merged
	}

	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	return updated, nil
}

// DeleteWidget remove o widget e limpa a seleção quando ele estava selecionado
func (s *Store) DeleteWidget(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.widgets = append(s.widgets[:i:i], s.widgets[i+1:]...)
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.changedLocked()

	return true
}

// Select marca o widget como selecionado; a seleção não faz parte do snapshot
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return false
	}
	s.selectedID = id
	return true
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

func (s *Store) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.title = title
	s.changedLocked()
}

// Load substitui o layout inteiro e invalida carregamentos em andamento
func (s *Store) Load(layout *domain.DashboardLayout) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.replace(layout.Clone())
	s.changedLocked()
}

// BeginLoad reserva uma geração para um carregamento assíncrono
func (s *Store) BeginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.generation
}

// ApplyLoad aplica o layout apenas se nenhum carregamento mais novo foi iniciado
func (s *Store) ApplyLoad(generation uint64, layout *domain.DashboardLayout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return ErrStaleLoad
	}

	s.replace(layout.Clone())
	s.changedLocked()
	return nil
}
