package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"karat-desk/internal/domain"
	"karat-desk/internal/middleware"
	"karat-desk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePricingService records the lines it was asked to price
type fakePricingService struct {
	lines    []service.LineRequest
	proposed decimal.Decimal
	quote    *service.InvoiceQuote
	check    *service.RateOverrideCheck
	err      error
}

func (f *fakePricingService) PriceLineItem(ctx context.Context, req service.LineRequest) (*domain.InvoiceItem, error) {
	f.lines = []service.LineRequest{req}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.InvoiceItem{ProductID: req.ProductID, Quantity: req.Quantity, LineTotal: d("1050")}, nil
}

func (f *fakePricingService) QuoteInvoice(ctx context.Context, lines []service.LineRequest) (*service.InvoiceQuote, error) {
	f.lines = lines
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

func (f *fakePricingService) CheckRateOverride(ctx context.Context, proposed decimal.Decimal) (*service.RateOverrideCheck, error) {
	f.proposed = proposed
	if f.err != nil {
		return nil, f.err
	}
	return f.check, nil
}

type fakeValuationService struct {
	report *service.StockValuationReport
	err    error
}

func (f *fakeValuationService) StockValuation(ctx context.Context) (*service.StockValuationReport, error) {
	return f.report, f.err
}

type fakeRateService struct {
	current  domain.RateSnapshot
	recorded []decimal.Decimal
	err      error
}

func (f *fakeRateService) RecordRate(ctx context.Context, ratePerGram decimal.Decimal, note string) (*domain.MetalRate, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.recorded = append(f.recorded, ratePerGram)
	return &domain.MetalRate{ID: uuid.New(), RatePerGram: ratePerGram, Note: note, RecordedAt: testEpoch}, nil
}

func (f *fakeRateService) Current(ctx context.Context) (domain.RateSnapshot, error) {
	return f.current, f.err
}

// fakeCatalogService keeps products in memory and records the last listing query
type fakeCatalogService struct {
	products  map[uuid.UUID]*domain.Product
	lastQuery service.ProductQuery
	err       error
}

func newFakeCatalogService() *fakeCatalogService {
	return &fakeCatalogService{products: make(map[uuid.UUID]*domain.Product)}
}

func (f *fakeCatalogService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: uuid.New(), Name: name, Description: description, CreatedAt: testEpoch}, nil
}

func (f *fakeCatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return []*domain.Category{}, f.err
}

func (f *fakeCatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return f.err
}

func (f *fakeCatalogService) CreateProduct(ctx context.Context, input service.ProductInput) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := &domain.Product{ID: uuid.New(), SKU: input.SKU, Name: input.Name, Quantity: input.Quantity, PricingMode: input.PricingMode}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input service.ProductInput) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := &domain.Product{ID: id, SKU: input.SKU, Name: input.Name, Quantity: input.Quantity}
	f.products[id] = p
	return p, nil
}

func (f *fakeCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products[id], nil
}

func (f *fakeCatalogService) ListProducts(ctx context.Context, query service.ProductQuery) (*service.ProductPage, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return &service.ProductPage{Products: []*domain.Product{}, Page: 1, PageSize: 20}, nil
}

var testEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// routes is anything with a RegisterRoutes(chi.Router) method
type routes interface {
	RegisterRoutes(r chi.Router)
}

func newRouter(handlers ...routes) http.Handler {
	r := chi.NewRouter()
	for _, h := range handlers {
		h.RegisterRoutes(r)
	}
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorDetail {
	t.Helper()
	var response middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.Error
}

var nopLogger = zap.NewNop()
