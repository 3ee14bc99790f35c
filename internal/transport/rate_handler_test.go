package transport

import (
	"encoding/json"
	"net/http"
	"testing"

	"karat-desk/internal/domain"
	"karat-desk/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateHandler_Current(t *testing.T) {
	svc := &fakeRateService{current: domain.RateSnapshot{RatePerGram: d("95.25"), ReadAt: testEpoch, Source: domain.RateSourceCache}}
	router := newRouter(NewRateHandler(svc, nopLogger))

	w := do(t, router, http.MethodGet, "/api/rates/current", "")
	require.Equal(t, http.StatusOK, w.Code)

	var snap domain.RateSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.RatePerGram.Equal(d("95.25")))
	assert.Equal(t, domain.RateSourceCache, snap.Source)
	assert.True(t, snap.ReadAt.Equal(testEpoch))

	router = newRouter(NewRateHandler(&fakeRateService{err: domain.ErrRateUnavailable}, nopLogger))
	assert.Equal(t, http.StatusServiceUnavailable, do(t, router, http.MethodGet, "/api/rates/current", "").Code)
}

func TestRateHandler_Record(t *testing.T) {
	svc := &fakeRateService{}
	router := newRouter(NewRateHandler(svc, nopLogger))

	w := do(t, router, http.MethodPost, "/api/rates", `{"rate_per_gram":"98.40","note":"opening board"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var recorded domain.MetalRate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recorded))
	assert.True(t, recorded.RatePerGram.Equal(d("98.4")))
	assert.Equal(t, "opening board", recorded.Note)

	for _, body := range []string{`{"rate_per_gram":"0"}`, `{"rate_per_gram":-4}`, `{}`} {
		w = do(t, router, http.MethodPost, "/api/rates", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Len(t, svc.recorded, 1)
}

func TestValuationHandler(t *testing.T) {
	report := &service.StockValuationReport{
		Categories: []domain.CategoryStockValuation{{CategoryKey: "uncategorized", CategoryName: "Uncategorized", ItemCount: 1, StockValue: d("142.5")}},
		Totals:     domain.StockValuationTotals{TotalItems: 1, TotalStockValue: d("142.5")},
		Rate:       domain.RateSnapshot{RatePerGram: d("95"), ReadAt: testEpoch, Source: domain.RateSourceFeed},
	}
	router := newRouter(NewValuationHandler(&fakeValuationService{report: report}, nopLogger))

	w := do(t, router, http.MethodGet, "/api/reports/stock-valuation", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got service.StockValuationReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Categories, 1)
	assert.True(t, got.Totals.TotalStockValue.Equal(d("142.5")))
	assert.Equal(t, "Uncategorized", got.Categories[0].CategoryName)

	router = newRouter(NewValuationHandler(&fakeValuationService{err: domain.ErrRateUnavailable}, nopLogger))
	assert.Equal(t, http.StatusServiceUnavailable, do(t, router, http.MethodGet, "/api/reports/stock-valuation", "").Code)
}
