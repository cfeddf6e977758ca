package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nizy/tailor/internal/application/export"
	"github.com/nizy/tailor/internal/application/partner"
	"github.com/nizy/tailor/internal/application/trade"
	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/nizy/tailor/internal/infrastructure/migration"
	"github.com/nizy/tailor/internal/infrastructure/persistence"
	infra "github.com/nizy/tailor/internal/infrastructure/printing"
	"github.com/nizy/tailor/internal/infrastructure/spreadsheet"
	"github.com/nizy/tailor/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

const stubPDF = "%PDF-1.7 stub"

// stubRenderer returns a fixed PDF without launching a browser
type stubRenderer struct {
	err      error
	requests []*infra.RenderRequest
}

func (r *stubRenderer) Render(_ context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	return &infra.RenderResult{PDFData: []byte(stubPDF), PageCount: 1}, nil
}

func (r *stubRenderer) Close() error { return nil }

// testEnv wires the real services over an in-memory database
type testEnv struct {
	db        *gorm.DB
	customers *partner.CustomerService
	orders    *trade.OrderService
	dashboard *trade.DashboardService
	exports   *export.Service
	renderer  *stubRenderer
	router    *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migration.DriverSQLite, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	customerRepo := persistence.NewGormCustomerRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)

	templates, err := infra.NewTemplateEngine()
	require.NoError(t, err)

	env := &testEnv{
		db:        db,
		customers: partner.NewCustomerService(customerRepo, zap.NewNop()),
		orders:    trade.NewOrderService(orderRepo, customerRepo, zap.NewNop()),
		dashboard: trade.NewDashboardService(orderRepo, customerRepo),
		renderer:  &stubRenderer{},
	}
	env.exports = export.NewService(templates, env.renderer, spreadsheet.NewXLSXWriter(), export.Options{
		Letterhead: printing.Letterhead{CompanyName: "Nizy Tailors", Phone: "0300-1234567"},
		ShopTag:    "nizy",
	}, zap.NewNop())

	r := gin.New()
	r.Use(middleware.RequestID())

	customers := NewCustomerHandler(env.customers)
	r.GET("/customers", customers.List)
	r.GET("/customers/options", customers.Options)
	r.POST("/customers", customers.Create)
	r.GET("/customers/:id", customers.Get)
	r.PUT("/customers/:id", customers.Update)
	r.DELETE("/customers/:id", customers.Delete)

	orders := NewOrderHandler(env.orders)
	r.GET("/orders/draft", orders.Draft)
	r.GET("/orders", orders.List)
	r.POST("/orders", orders.Create)
	r.GET("/orders/:id", orders.Get)
	r.GET("/orders/:id/edit", orders.Edit)
	r.PUT("/orders/:id", orders.Update)
	r.DELETE("/orders/:id", orders.Delete)

	r.GET("/dashboard", NewDashboardHandler(env.dashboard).Summary)

	exports := NewExportHandler(env.exports, env.customers, env.orders)
	r.GET("/exports/customers", exports.Customers)
	r.GET("/exports/orders", exports.Orders)
	r.GET("/orders/:id/invoice", exports.Invoice)

	env.router = r
	return env
}

// envelope mirrors dto.Response with the data left undecoded
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total int `json:"total"`
	} `json:"meta"`
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	env := decode(t, w)
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func customerBody(name, phone string) map[string]any {
	return map[string]any{
		"name":          name,
		"phone":         phone,
		"referenceName": "",
		"measurements": map[string]any{
			"shirt":  "L 30, C 40",
			"pant":   "W 32",
			"others": []map[string]string{{"label": "Collar", "value": "15"}},
		},
	}
}

func (e *testEnv) createCustomer(t *testing.T, name, phone string) partner.CustomerResponse {
	t.Helper()
	w := doJSON(t, e.router, http.MethodPost, "/customers", customerBody(name, phone))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[partner.CustomerResponse](t, w)
}

// orderBody bills two shirts at 500 and a 1500 blazer, 1000 paid
func orderBody(customerID string) map[string]any {
	return map[string]any{
		"customerId": customerID,
		"lines": map[string]any{
			"shirt":  map[string]any{"enabled": true, "quantity": 2, "unitCost": 500},
			"pant":   map[string]any{"enabled": false, "quantity": 1, "unitCost": 0},
			"custom": []map[string]any{{"label": "Blazer", "quantity": 1, "unitCost": "1500"}},
		},
		"dueDate":    "2026-10-22",
		"status":     "Pending",
		"paidAmount": 1000,
	}
}

func (e *testEnv) createOrder(t *testing.T, customerID string) trade.OrderResponse {
	t.Helper()
	w := doJSON(t, e.router, http.MethodPost, "/orders", orderBody(customerID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[trade.OrderResponse](t, w)
}
