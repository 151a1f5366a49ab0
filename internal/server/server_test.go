package server

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paystack-storefront/internal/client"
	"paystack-storefront/internal/config"
	"paystack-storefront/internal/handler"
	authmw "paystack-storefront/internal/middleware"
	"paystack-storefront/internal/model"
	"paystack-storefront/internal/repository"
	"paystack-storefront/internal/service"
	"paystack-storefront/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	jwtSecret      = "jwt-test-secret"
	paystackSecret = "sk_test_storefront"
)

type testServer struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
	token   string
}

func signToken(t *testing.T, email, role string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &authmw.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return token
}

func newTestServer(t *testing.T, paystackURL string) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	logger := testutil.Logger()
	cfg := &config.Paystack{
		BaseApiURL:  paystackURL,
		SecretKey:   paystackSecret,
		CallbackURL: "https://shop.example.com/callback",
		Timeout:     time.Second,
	}

	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	srv := NewServer(Services{
		Order:      service.NewOrderService(db, orderRepo, cartRepo, productRepo, memberRepo, logger),
		Payment:    service.NewPaymentService(db, client.NewPaystackClient(cfg), cfg.CallbackURL, orderRepo, memberRepo, repository.NewWebhookEventRepository(db), logger),
		Cart:       service.NewCartService(cartRepo, productRepo, logger),
		Membership: service.NewMembershipService(db, memberRepo, logger),
		Catalog:    service.NewCatalogService(productRepo, logger),
	}, jwtSecret, logger)

	return &testServer{t: t, db: db, handler: srv.Handler(), token: signToken(t, "ada@example.com", "")}
}

func (s *testServer) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) authed(method, path string, body any) *httptest.ResponseRecorder {
	return s.as(s.token, method, path, body)
}

func (s *testServer) as(token, method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, body, map[string]string{"Authorization": "Bearer " + token})
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) (handler.Response, T) {
	t.Helper()

	var envelope struct {
		handler.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())

	var data T
	if len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, &data))
	}
	return envelope.Response, data
}

func TestServer_CheckoutPayAndReconcile(t *testing.T) {
	paystack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":true,"data":{"authorization_url":"https://checkout.paystack.com/xyz"}}`)
	}))
	defer paystack.Close()

	s := newTestServer(t, paystack.URL)
	product := testutil.Product(t, s.db, testutil.Collection(t, s.db).ID, "1500.00", 4)

	rec := s.authed(http.MethodPost, "/api/members", map[string]any{"phone": "+2348000000000", "first_name": "Ada"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/carts", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	_, cart := decode[struct {
		ID string `json:"id"`
	}](t, rec)

	for i := 0; i < 2; i++ {
		rec = s.do(http.MethodPost, "/api/carts/"+cart.ID+"/items", map[string]any{"product_id": product.ID, "quantity": 1}, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = s.authed(http.MethodPost, "/api/orders", map[string]any{"cart_id": cart.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	_, order := decode[model.Order](t, rec)
	assert.Equal(t, "3000", order.TotalAmount.String())
	require.Len(t, order.Items, 1)
	assert.Equal(t, uint(2), order.Items[0].Quantity)

	rec = s.authed(http.MethodPost, fmt.Sprintf("/api/orders/%d/initiate-payment", order.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"status":true,"data":{"authorization_url":"https://checkout.paystack.com/xyz"}}`, rec.Body.String())

	event, err := json.Marshal(model.PaystackWebhookEvent{
		Event: model.EventChargeSuccess,
		Data:  model.PaystackChargeData{ID: 77, Reference: model.PaymentReference(order.ID), Amount: 300000},
	})
	require.NoError(t, err)
	signature := map[string]string{client.SignatureHeader: hex.EncodeToString(client.Sign(paystackSecret, event))}

	rec = s.do(http.MethodPost, "/api/orders/paystack-webhook", event, signature)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, fmt.Sprintf(`{"message":"Payment successful","order_id":%d,"payment_status":"complete","duplicate":false}`, order.ID), rec.Body.String())

	rec = s.do(http.MethodPost, "/api/orders/paystack-webhook", event, signature)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"duplicate":true`)

	rec = s.authed(http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, got := decode[model.Order](t, rec)
	assert.Equal(t, model.PaymentStatusComplete, got.PaymentStatus)
	require.NotNil(t, got.Reference)
	assert.Equal(t, model.PaymentReference(order.ID), *got.Reference)

	rec = s.authed(http.MethodDelete, fmt.Sprintf("/api/orders/%d", order.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	resp, _ := decode[any](t, rec)
	assert.Equal(t, "ORDER_PROTECTED", resp.Error.Code)
}

func TestServer_ErrorEnvelope(t *testing.T) {
	paystack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"status":false,"message":"Duplicate Transaction Reference"}`)
	}))
	defer paystack.Close()

	s := newTestServer(t, paystack.URL)
	order := testutil.Order(t, s.db, testutil.Member(t, s.db, "ada@example.com").ID, "10.00")

	tests := []struct {
		name   string
		rec    *httptest.ResponseRecorder
		status int
		code   string
	}{
		{
			name:   "no token",
			rec:    s.do(http.MethodGet, "/api/orders", nil, nil),
			status: http.StatusUnauthorized,
			code:   "UNAUTHORIZED",
		},
		{
			name:   "missing order",
			rec:    s.authed(http.MethodGet, "/api/orders/9999", nil),
			status: http.StatusNotFound,
			code:   "ORDER_NOT_FOUND",
		},
		{
			name:   "bad status value",
			rec:    s.authed(http.MethodPatch, fmt.Sprintf("/api/orders/%d", order.ID), map[string]any{"payment_status": "refunded"}),
			status: http.StatusBadRequest,
			code:   "VALIDATION_FAILED",
		},
		{
			name:   "gateway rejects",
			rec:    s.authed(http.MethodPost, fmt.Sprintf("/api/orders/%d/initiate-payment", order.ID), nil),
			status: http.StatusBadRequest,
			code:   "GATEWAY_REJECTED",
		},
		{
			name:   "unsigned webhook",
			rec:    s.do(http.MethodPost, "/api/orders/paystack-webhook", []byte(`{"event":"charge.success","data":{"reference":"ORDER_1"}}`), nil),
			status: http.StatusUnauthorized,
			code:   "INVALID_SIGNATURE",
		},
		{
			name:   "cart id not a uuid",
			rec:    s.do(http.MethodGet, "/api/carts/42", nil, nil),
			status: http.StatusNotFound,
			code:   "CART_NOT_FOUND",
		},
		{
			name:   "zero quantity",
			rec:    s.do(http.MethodPost, "/api/carts/6f1c3a52-0b8e-4b8f-9d64-3d1f5c1f1a11/items", map[string]any{"product_id": 1, "quantity": 0}, nil),
			status: http.StatusBadRequest,
			code:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.rec.Code, tt.rec.Body.String())
			resp, _ := decode[any](t, tt.rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.status, resp.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	assert.Nil(t, testutil.Reload(t, s.db, order.ID).Reference)
}

func TestServer_OrdersScopedToOwner(t *testing.T) {
	calls := 0
	paystack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"status":true}`)
	}))
	defer paystack.Close()

	s := newTestServer(t, paystack.URL)
	testutil.Member(t, s.db, "ada@example.com")
	victim := testutil.Order(t, s.db, testutil.Member(t, s.db, "ben@example.com").ID, "10.00")
	path := fmt.Sprintf("/api/orders/%d", victim.ID)

	tests := []struct {
		name string
		rec  *httptest.ResponseRecorder
	}{
		{"get", s.authed(http.MethodGet, path, nil)},
		{"complete", s.authed(http.MethodPatch, path, map[string]any{"payment_status": "complete"})},
		{"abandon", s.authed(http.MethodPatch, path, map[string]any{"payment_status": "failed"})},
		{"delete", s.authed(http.MethodDelete, path, nil)},
		{"initiate payment", s.authed(http.MethodPost, path+"/initiate-payment", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusNotFound, tt.rec.Code, tt.rec.Body.String())
			resp, _ := decode[any](t, tt.rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "ORDER_NOT_FOUND", resp.Error.Code)
		})
	}

	reloaded := testutil.Reload(t, s.db, victim.ID)
	assert.Equal(t, model.PaymentStatusPending, reloaded.PaymentStatus)
	assert.Nil(t, reloaded.Reference)
	assert.Zero(t, calls)
}

func TestServer_OwnerCannotCompleteUnpaidOrder(t *testing.T) {
	s := newTestServer(t, "http://unused.invalid")
	order := testutil.Order(t, s.db, testutil.Member(t, s.db, "ada@example.com").ID, "10.00")
	path := fmt.Sprintf("/api/orders/%d", order.ID)

	rec := s.authed(http.MethodPatch, path, map[string]any{"payment_status": "complete"})
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	resp, _ := decode[any](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "STATUS_CHANGE_FORBIDDEN", resp.Error.Code)
	assert.Equal(t, model.PaymentStatusPending, testutil.Reload(t, s.db, order.ID).PaymentStatus)

	rec = s.authed(http.MethodPatch, path, map[string]any{"payment_status": "failed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, updated := decode[model.Order](t, rec)
	assert.Equal(t, model.PaymentStatusFailed, updated.PaymentStatus)
}

func TestServer_AdminRoutes(t *testing.T) {
	s := newTestServer(t, "http://unused.invalid")
	admin := signToken(t, "ops@example.com", authmw.RoleAdmin)

	rec := s.authed(http.MethodPost, "/api/admin/collections", map[string]any{"title": "Teas"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp, _ := decode[any](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	rec = s.as(admin, http.MethodPost, "/api/admin/collections", map[string]any{"title": "Teas"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	_, collection := decode[model.Collection](t, rec)

	rec = s.as(admin, http.MethodPost, "/api/admin/products", map[string]any{
		"title":         "Green tea",
		"slug":          "green-tea",
		"unit_price":    "1200.00",
		"inventory":     5,
		"collection_id": collection.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	_, product := decode[model.Product](t, rec)

	rec = s.as(admin, http.MethodPut, fmt.Sprintf("/api/admin/collections/%d/featured-product", collection.ID), map[string]any{"product_id": product.ID})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.as(admin, http.MethodPost, fmt.Sprintf("/api/admin/products/%d/reviews", product.ID), map[string]any{"name": "Ada", "description": "fresh"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// a shopper orders the new product
	rec = s.authed(http.MethodPost, "/api/members", map[string]any{"phone": "+2348000000000"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/api/carts", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	_, cart := decode[struct {
		ID string `json:"id"`
	}](t, rec)
	rec = s.do(http.MethodPost, "/api/carts/"+cart.ID+"/items", map[string]any{"product_id": product.ID, "quantity": 2}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.authed(http.MethodPost, "/api/orders", map[string]any{"cart_id": cart.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	_, order := decode[model.Order](t, rec)

	rec = s.as(admin, http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	resp, _ = decode[any](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PRODUCT_PROTECTED", resp.Error.Code)

	rec = s.as(admin, http.MethodDelete, fmt.Sprintf("/api/admin/collections/%d", collection.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.as(admin, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d", order.ID), map[string]any{"payment_status": "complete"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, settled := decode[model.Order](t, rec)
	assert.Equal(t, model.PaymentStatusComplete, settled.PaymentStatus)

	rec = s.as(admin, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d", order.ID), map[string]any{"payment_status": "failed"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, "http://unused.invalid")

	rec := s.do(http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
