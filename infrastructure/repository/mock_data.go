package repository

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

var (
	mockCustomers = []string{
		"Acme Corp", "Globex", "Initech", "Umbrella", "Stark Industries",
		"Wayne Enterprises", "Hooli", "Vandelay Industries", "Soylent", "Wonka",
	}
	mockProducts = []mockProduct{
		{name: "Laptop Pro", category: "Electronics", minPrice: 900, maxPrice: 2500},
		{name: "Wireless Mouse", category: "Accessories", minPrice: 15, maxPrice: 60},
		{name: "4K Monitor", category: "Electronics", minPrice: 250, maxPrice: 800},
		{name: "Office Chair", category: "Furniture", minPrice: 120, maxPrice: 600},
		{name: "Standing Desk", category: "Furniture", minPrice: 300, maxPrice: 1200},
		{name: "Mechanical Keyboard", category: "Accessories", minPrice: 50, maxPrice: 220},
		{name: "Noise Cancelling Headphones", category: "Audio", minPrice: 90, maxPrice: 400},
		{name: "Webcam HD", category: "Accessories", minPrice: 30, maxPrice: 150},
	}
	mockRegions = []string{"North", "South", "East", "West", "Central"}
	// concluídas aparecem com mais frequência, como em uma base real
	mockStatuses = []domain.SalesStatus{
		domain.SalesStatusCompleted,
		domain.SalesStatusCompleted,
		domain.SalesStatusCompleted,
		domain.SalesStatusPending,
		domain.SalesStatusCancelled,
	}
)

type mockProduct struct {
	name     string
	category string
	minPrice float64
	maxPrice float64
}

// MockDataGenerator sintetiza vendas plausíveis quando não há fonte de dados real
type MockDataGenerator struct {
	mu         sync.Mutex
	rnd        *rand.Rand
	minRecords int
	maxRecords int
	window     time.Duration
	now        func() time.Time
}

func NewMockDataGenerator(cfg config.MockData) *MockDataGenerator {
	seed := uint64(cfg.Seed)
	if seed == 0 {
		seed = rand.Uint64()
	}

	minRecords, maxRecords := cfg.MinRecords, cfg.MaxRecords
	if minRecords <= 0 {
		minRecords = 50
	}
	if maxRecords < minRecords {
		maxRecords = minRecords
	}

	windowDays := cfg.WindowDays
	if windowDays <= 0 {
		windowDays = 180
	}

	return &MockDataGenerator{
		rnd:        rand.New(rand.NewPCG(seed, seed>>1|1)),
		minRecords: minRecords,
		maxRecords: maxRecords,
		window:     time.Duration(windowDays) * 24 * time.Hour,
		now:        time.Now,
	}
}

// Generate cria entre min e max vendas para o usuário, ordenadas da mais recente para a mais antiga
func (g *MockDataGenerator) Generate(userID string) []*domain.SalesRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC()
	count := g.minRecords + g.rnd.IntN(g.maxRecords-g.minRecords+1)

	records := make([]*domain.SalesRecord, 0, count)
	for i := 0; i < count; i++ {
		product := mockProducts[g.rnd.IntN(len(mockProducts))]
		date := domain.TruncateToDay(now.Add(-time.Duration(g.rnd.Int64N(int64(g.window)))))
		price := utils.RoundWithTwoDecimalPlace(product.minPrice + g.rnd.Float64()*(product.maxPrice-product.minPrice))

		record := &domain.SalesRecord{
			ID:        utils.GenerateUUID(),
			UserID:    userID,
			Date:      date,
			Customer:  mockCustomers[g.rnd.IntN(len(mockCustomers))],
			Product:   product.name,
			Category:  product.category,
			Quantity:  1 + g.rnd.IntN(10),
			UnitPrice: price,
			Region:    mockRegions[g.rnd.IntN(len(mockRegions))],
			Status:    mockStatuses[g.rnd.IntN(len(mockStatuses))],
			CreatedAt: now,
			UpdatedAt: now,
		}
		record.Recalculate()

		records = append(records, record)
	}

	sortByDateDesc(records)
	return records
}

func sortByDateDesc(records []*domain.SalesRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}

// MockDataCache guarda as vendas geradas por usuário durante a vida do processo
type MockDataCache struct {
	mu        sync.RWMutex
	generator *MockDataGenerator
	records   map[string][]*domain.SalesRecord
}

func NewMockDataCache(generator *MockDataGenerator) *MockDataCache {
	return &MockDataCache{
		generator: generator,
		records:   make(map[string][]*domain.SalesRecord),
	}
}

// getLocked gera as vendas do usuário na primeira leitura; exige o lock de escrita
func (c *MockDataCache) getLocked(userID string) []*domain.SalesRecord {
	records, exists := c.records[userID]
	if !exists {
		records = c.generator.Generate(userID)
		c.records[userID] = records
	}
	return records
}

// Records devolve cópias das vendas do usuário
func (c *MockDataCache) Records(userID string) []*domain.SalesRecord {
	c.mu.RLock()
	records, exists := c.records[userID]
	if exists {
		defer c.mu.RUnlock()
		return cloneRecords(records)
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneRecords(c.getLocked(userID))
}

func (c *MockDataCache) Find(id string) *domain.SalesRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, records := range c.records {
		for _, record := range records {
			if record.ID == id {
				return record.Clone()
			}
		}
	}
	return nil
}

// Add e Replace montam uma fatia nova; a anterior pode estar sendo lida por Records
func (c *MockDataCache) Add(record *domain.SalesRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.getLocked(record.UserID)
	records := make([]*domain.SalesRecord, 0, len(current)+1)
	records = append(records, current...)
	records = append(records, record.Clone())
	sortByDateDesc(records)
	c.records[record.UserID] = records
}

func (c *MockDataCache) Replace(record *domain.SalesRecord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for userID, current := range c.records {
		for i, existing := range current {
			if existing.ID == record.ID {
				records := make([]*domain.SalesRecord, len(current))
				copy(records, current)
				records[i] = record.Clone()
				sortByDateDesc(records)
				c.records[userID] = records
				return true
			}
		}
	}
	return false
}

func (c *MockDataCache) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for userID, records := range c.records {
		for i, current := range records {
			if current.ID == id {
				c.records[userID] = append(records[:i:i], records[i+1:]...)
				return true
			}
		}
	}
	return false
}

func cloneRecords(records []*domain.SalesRecord) []*domain.SalesRecord {
	out := make([]*domain.SalesRecord, 0, len(records))
	for _, record := range records {
		out = append(out, record.Clone())
	}
	return out
}
