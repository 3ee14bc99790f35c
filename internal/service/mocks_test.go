package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"karat-desk/internal/domain"
	"karat-desk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mock repositories for testing
type mockProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
	err      error
	lookups  [][]uuid.UUID
}

func newMockProductRepository(products ...*domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.SKU == product.SKU {
			return repository.ErrProductAlreadyExists
		}
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, append([]uuid.UUID(nil), ids...))
	if m.err != nil {
		return nil, m.err
	}
	found := make(map[uuid.UUID]*domain.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			copied := *p
			found[id] = &copied
		}
	}
	return found, nil
}

func (m *mockProductRepository) sorted() []*domain.Product {
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

func page(products []*domain.Product, pageNum, pageSize int) []*domain.Product {
	start := (pageNum - 1) * pageSize
	if start >= len(products) {
		return []*domain.Product{}
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

func (m *mockProductRepository) List(ctx context.Context, categoryID *uuid.UUID, pageNum, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*domain.Product
	for _, p := range m.sorted() {
		if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
			continue
		}
		matched = append(matched, p)
	}
	return page(matched, pageNum, pageSize), len(matched), nil
}

func (m *mockProductRepository) ListInStock(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Product
	for _, p := range m.sorted() {
		if p.Quantity > 0 {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) Search(ctx context.Context, query string, pageNum, pageSize int) ([]*domain.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*domain.Product
	q := strings.ToLower(query)
	for _, p := range m.sorted() {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q) {
			matched = append(matched, p)
		}
	}
	return page(matched, pageNum, pageSize), len(matched), nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository(categories ...*domain.Category) *mockCategoryRepository {
	m := &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
	for _, c := range categories {
		m.categories[c.ID] = c
	}
	return m
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range m.categories {
		if c.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) Names(ctx context.Context) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(m.categories))
	for id, c := range m.categories {
		names[id] = c.Name
	}
	return names, nil
}

type mockRateRepository struct {
	rates []*domain.MetalRate
	err   error
}

func (m *mockRateRepository) Create(ctx context.Context, rate *domain.MetalRate) error {
	if m.err != nil {
		return m.err
	}
	m.rates = append(m.rates, rate)
	return nil
}

func (m *mockRateRepository) Latest(ctx context.Context) (*domain.MetalRate, error) {
	if len(m.rates) == 0 {
		return nil, repository.ErrRateNotFound
	}
	return m.rates[len(m.rates)-1], nil
}

// stubRates serves a fixed snapshot or error
type stubRates struct {
	snap domain.RateSnapshot
	err  error
}

func (s stubRates) Snapshot() (domain.RateSnapshot, error) {
	return s.snap, s.err
}

// countingRates moves the rate up by one on every read and counts the reads
type countingRates struct {
	mu    sync.Mutex
	base  decimal.Decimal
	calls int
}

func (c *countingRates) Snapshot() (domain.RateSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := domain.RateSnapshot{
		RatePerGram: c.base.Add(decimal.NewFromInt(int64(c.calls))),
		ReadAt:      testEpoch,
		Source:      domain.RateSourceFeed,
	}
	c.calls++
	return snap, nil
}

func (c *countingRates) reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

var testEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func liveRate(rate string) stubRates {
	return stubRates{snap: domain.RateSnapshot{
		RatePerGram: decimal.RequireFromString(rate),
		ReadAt:      testEpoch,
		Source:      domain.RateSourceFeed,
	}}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ringProduct() *domain.Product {
	return &domain.Product{
		ID:               uuid.New(),
		SKU:              "RING-" + uuid.New().String()[:6],
		Name:             "Gold Ring",
		WeightGrams:      d("10"),
		Quantity:         2,
		MakingChargeRate: d("10"),
		MakingChargeType: domain.MakingChargePerGram,
		TaxPercentage:    d("3"),
		PricingMode:      domain.PricingModeWeightBased,
	}
}

func watchProduct() *domain.Product {
	return &domain.Product{
		ID:               uuid.New(),
		SKU:              "WATCH-" + uuid.New().String()[:6],
		Name:             "Steel Watch",
		Quantity:         1,
		TaxPercentage:    d("5"),
		PricingMode:      domain.PricingModeFlatPrice,
		FlatSellingPrice: d("2000"),
		MRP:              d("2200"),
	}
}
