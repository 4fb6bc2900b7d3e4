package dashboarding

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/storage"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/debounce"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

const saveTimeout = 10 * time.Second

// Persister grava o snapshot de um dashboard depois de um período sem mudanças
type Persister struct {
	key       string
	storage   storage.LayoutStorage
	debouncer *debounce.Debouncer

	mu      sync.Mutex
	saves   int
	lastErr error
}

func NewPersister(key string, layoutStorage storage.LayoutStorage, delay time.Duration) *Persister {
	return &Persister{
		key:       key,
		storage:   layoutStorage,
		debouncer: debounce.New(delay),
	}
}

// Schedule substitui qualquer gravação pendente pelo snapshot informado
func (p *Persister) Schedule(layout *domain.DashboardLayout) {
	p.debouncer.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		_ = p.Save(ctx, layout)
	})
}

// Save grava o snapshot imediatamente
func (p *Persister) Save(ctx context.Context, layout *domain.DashboardLayout) error {
	data, err := EncodeLayout(layout)
	if err == nil {
		err = p.storage.Save(ctx, p.key, data)
	}

	p.mu.Lock()
	p.lastErr = err
	if err == nil {
		p.saves++
	}
	p.mu.Unlock()

	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("dashboard_key", p.key).Error("Erro ao salvar layout do dashboard")
		return err
	}

	log.ForContext(ctx).WithField("dashboard_key", p.key).Debugf("Layout salvo com %d widgets", len(layout.Widgets))
	return nil
}

func (p *Persister) Flush() {
	p.debouncer.Flush()
}

func (p *Persister) Pending() bool {
	return p.debouncer.Pending()
}

// Close grava o que estiver pendente e desliga o timer
func (p *Persister) Close() {
	p.debouncer.Flush()
	p.debouncer.Stop()
}

func (p *Persister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

func (p *Persister) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// LoadLayout lê o snapshot salvo. Snapshot ausente, ilegível ou inválido
// resulta no layout de demonstração; o segundo retorno indica se veio do armazenamento.
func LoadLayout(ctx context.Context, layoutStorage storage.LayoutStorage, key string, demoTitle string, now time.Time) (*domain.DashboardLayout, bool) {
	logger := log.ForContext(ctx).WithField("dashboard_key", key)

	data, err := layoutStorage.Load(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			logger.Info("Nenhum layout salvo, usando layout de demonstração")
		} else {
			logger.WithError(err).Warn("Erro ao ler layout salvo, usando layout de demonstração")
		}
		return DemoLayout(demoTitle, now), false
	}

	layout, err := DecodeLayout(data)
	if err != nil {
		logger.WithError(err).Warn("Layout salvo inválido, usando layout de demonstração")
		return DemoLayout(demoTitle, now), false
	}

	return layout, true
}
