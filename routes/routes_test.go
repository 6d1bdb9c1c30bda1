package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/Kariqs/mealplan-api/cache"
	"github.com/Kariqs/mealplan-api/controllers"
	"github.com/Kariqs/mealplan-api/middlewares"
	"github.com/Kariqs/mealplan-api/payments"
	"github.com/Kariqs/mealplan-api/pricing"
	"github.com/Kariqs/mealplan-api/repositories"
	"github.com/Kariqs/mealplan-api/services"
	"github.com/Kariqs/mealplan-api/storage"
	"github.com/Kariqs/mealplan-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	jwtSecret  = "routes-secret"
	hmacSecret = "paymob-hmac-secret"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGateway struct{}

func (stubGateway) Checkout(_ context.Context, req payments.CheckoutRequest) (payments.Checkout, error) {
	return payments.Checkout{PaymobOrderID: "pm-1", PaymentToken: "tok", IframeURL: "https://pay.test/iframe?payment_token=tok"}, nil
}

type stubUploader struct {
	keys []string
}

func (u *stubUploader) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	u.keys = append(u.keys, key)
	return "https://cdn.test/" + key, nil
}

type app struct {
	t        *testing.T
	router   *gin.Engine
	accounts *services.AccountService
	stores   repositories.Stores

	neighborhoodID uint
}

type appOptions struct {
	limiter  *middlewares.RateLimiter
	uploader storage.ImageUploader
}

func newApp(t *testing.T, opts appOptions) *app {
	t.Helper()
	log, _ := test.NewNullLogger()
	stores := repositories.NewMemoryStores()
	appCache := cache.New(cache.NewMemoryStore(), time.Minute, log)
	table := pricing.DefaultTable()
	mailer := utils.LogMailer{Log: log}

	accounts := services.NewAccountService(services.AccountConfig{JWTSecret: jwtSecret, TokenTTL: time.Hour}, stores, mailer, log)
	menu := services.NewMenuService(stores, appCache)
	orders := services.NewOrderService(services.OrderServiceConfig{
		Stores:  stores,
		Cache:   appCache,
		Pricing: table,
		Gateway: stubGateway{},
		Mailer:  mailer,
		Log:     log,
	})
	if opts.limiter == nil {
		opts.limiter = middlewares.NewRateLimiter(1000, 1000)
	}

	router := gin.New()
	router.Use(middlewares.Authenticate(jwtSecret))
	Register(router, Handlers{
		Auth:          controllers.NewAuthController(accounts, controllers.CookieConfig{TTL: time.Hour}),
		Session:       controllers.NewSessionController(accounts),
		Pricing:       controllers.NewPricingController(table),
		Menu:          controllers.NewMenuController(menu, opts.uploader, "meals"),
		Orders:        controllers.NewOrderController(orders),
		Payments:      controllers.NewPaymentController(orders, hmacSecret, log),
		Neighborhoods: controllers.NewNeighborhoodController(services.NewNeighborhoodService(stores.Neighborhoods, appCache), accounts),
		Health:        controllers.NewHealthController(nil),
		Sessions:      accounts,
		AuthLimiter:   opts.limiter,
	})
	return &app{t: t, router: router, accounts: accounts, stores: stores}
}

func (a *app) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (a *app) adminToken() string {
	a.t.Helper()
	_, err := a.accounts.SeedAdmin(context.Background(), "Ops", "ops@example.com", "admin-password")
	require.NoError(a.t, err)
	rec := a.do(http.MethodPost, "/api/admin/login", gin.H{"email": "ops@example.com", "password": "admin-password"}, "")
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(a.t, rec)["token"].(string)
}

func (a *app) userToken(email string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/signup", gin.H{"name": "Mona Adel", "email": email, "password": "password123"}, "")
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": "password123"}, "")
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(a.t, rec)["token"].(string)
}

func id(t *testing.T, body map[string]any, key string) uint {
	t.Helper()
	obj, ok := body[key].(map[string]any)
	require.True(t, ok, "missing %s in %v", key, body)
	return uint(obj["ID"].(float64))
}

// onboard completes the user's profile in a serviced neighborhood, creating it on first use.
func (a *app) onboard(admin, user string) {
	a.t.Helper()
	if a.neighborhoodID == 0 {
		rec := a.do(http.MethodPost, "/api/admin/neighborhoods", gin.H{"name": "Zamalek", "isServiced": true}, admin)
		require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
		a.neighborhoodID = id(a.t, decode(a.t, rec), "neighborhood")
	}

	rec := a.do(http.MethodPut, "/api/users/profile", gin.H{
		"phone":          "0122 345 6789",
		"address":        "7 Shagaret El Dor",
		"neighborhoodId": a.neighborhoodID,
	}, user)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
}

// openWeek publishes a week that still takes orders, with two meals on its menu.
func (a *app) openWeek(admin string) (weekID uint, mealIDs []uint) {
	a.t.Helper()
	for _, name := range []string{"Koshari", "Molokhia"} {
		rec := a.do(http.MethodPost, "/api/admin/meals", gin.H{"name": name, "calories": 600}, admin)
		require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
		mealIDs = append(mealIDs, id(a.t, decode(a.t, rec), "meal"))
	}
	now := time.Now().UTC()
	rec := a.do(http.MethodPost, "/api/admin/weeks", gin.H{
		"label":         "Next week",
		"startDate":     now.Add(96 * time.Hour).Format(time.RFC3339),
		"orderDeadline": now.Add(48 * time.Hour).Format(time.RFC3339),
		"published":     true,
	}, admin)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	weekID = id(a.t, decode(a.t, rec), "week")

	rec = a.do(http.MethodPut, fmt.Sprintf("/api/admin/weeks/%d/meals", weekID), gin.H{"mealIds": mealIDs}, admin)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return weekID, mealIDs
}

// signedWebhook builds a processed-transaction body and its signature.
func signedWebhook(paymobOrderID string, amountCents int64, success bool) (string, string) {
	body := fmt.Sprintf(`{"type":"TRANSACTION","obj":{
		"id": 5550001, "pending": false, "amount_cents": %d, "success": %t,
		"is_auth": false, "is_capture": false, "is_standalone_payment": true, "is_voided": false,
		"is_refunded": false, "is_3d_secure": true, "integration_id": 4421, "has_parent_transaction": false,
		"order": {"id": %q, "merchant_order_id": "x"}, "created_at": "2026-03-09T10:15:30",
		"currency": "EGP", "error_occured": false, "owner": 77,
		"source_data": {"pan": "1111", "type": "card", "sub_type": "Visa"}}}`, amountCents, success, paymobOrderID)
	values := []string{
		strconv.FormatInt(amountCents, 10), "2026-03-09T10:15:30", "EGP", "false", "false",
		"5550001", "4421", "true", "false", "false", "false", "true", "false",
		paymobOrderID, "77", "false", "1111", "Visa", "card", strconv.FormatBool(success),
	}
	return body, payments.Sign(hmacSecret, values)
}

func signedRedirect(paymobOrderID string, amountCents int64, success bool) url.Values {
	q := url.Values{}
	fields := []struct{ key, value string }{
		{"amount_cents", strconv.FormatInt(amountCents, 10)},
		{"created_at", "2026-03-09T10:15:30"},
		{"currency", "EGP"},
		{"error_occured", "false"},
		{"has_parent_transaction", "false"},
		{"id", "5550001"},
		{"integration_id", "4421"},
		{"is_3d_secure", "true"},
		{"is_auth", "false"},
		{"is_capture", "false"},
		{"is_refunded", "false"},
		{"is_standalone_payment", "true"},
		{"is_voided", "false"},
		{"order", paymobOrderID},
		{"owner", "77"},
		{"pending", "false"},
		{"source_data.pan", "1111"},
		{"source_data.sub_type", "Visa"},
		{"source_data.type", "card"},
		{"success", strconv.FormatBool(success)},
	}
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		q.Set(f.key, f.value)
		values = append(values, f.value)
	}
	q.Set("hmac", payments.Sign(hmacSecret, values))
	return q
}

func (a *app) webhook(body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/paymob/webhook?hmac="+signature, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestHomeAndHealth(t *testing.T) {
	a := newApp(t, appOptions{})

	rec := a.do(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = a.do(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodPost, "/api/pricing/quote", gin.H{"mealCount": 10, "portionSize": "large"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decode(t, rec)["quote"].(map[string]any)
	assert.Equal(t, float64(10*15500+10*4000), quote["totalCents"])

	rec = a.do(http.MethodPost, "/api/pricing/quote", gin.H{"mealCount": 3, "portionSize": "standard"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthCookieAndSessionGate(t *testing.T) {
	a := newApp(t, appOptions{})

	rec := a.do(http.MethodPost, "/api/auth/signup", gin.H{"name": "Mona", "email": "mona@example.com", "password": "password123"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = a.do(http.MethodPost, "/api/auth/signup", gin.H{"name": "Mona", "email": "MONA@example.com", "password": "password123"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/api/auth/login", gin.H{"email": "mona@example.com", "password": "nope-nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodPost, "/api/auth/login", gin.H{"email": "mona@example.com", "password": "password123"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middlewares.UserCookie {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middlewares.UserCookie, Value: sessionCookie.Value})
	me := httptest.NewRecorder()
	a.router.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "mona@example.com", decode(t, me)["user"].(map[string]any)["email"])

	rec = a.do(http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := sessionCookie.Value
	rec = a.do(http.MethodGet, "/api/session/gate?area=app", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	decision := decode(t, rec)["decision"].(map[string]any)
	assert.Equal(t, "/onboarding", decision["redirect"])

	rec = a.do(http.MethodGet, "/api/session/gate?area=nowhere", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/api/orders", nil, token)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "/onboarding", decode(t, rec)["redirect"])

	rec = a.do(http.MethodGet, "/api/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodGet, "/api/admin/orders", nil, token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/admin/login", decode(t, rec)["redirect"])
}

func TestProfileWaitlistsUnservicedNeighborhood(t *testing.T) {
	a := newApp(t, appOptions{})
	admin := a.adminToken()
	user := a.userToken("karim@example.com")

	rec := a.do(http.MethodPost, "/api/admin/neighborhoods", gin.H{"name": "New Cairo", "isServiced": false}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	pending := id(t, decode(t, rec), "neighborhood")

	rec = a.do(http.MethodPut, "/api/users/profile", gin.H{"phone": "01012345678", "address": "90th Street", "neighborhoodId": pending}, user)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, true, decode(t, rec)["waitlisted"])

	rec = a.do(http.MethodPut, "/api/users/profile", gin.H{"phone": "555", "address": "90th Street", "neighborhoodId": pending}, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/api/admin/waitlist", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["entries"], 1)
	assert.Equal(t, float64(1), body["metadata"].(map[string]any)["total"])

	rec = a.do(http.MethodGet, "/api/users/profile", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["onboarded"])

	a.onboard(admin, user)
	rec = a.do(http.MethodGet, "/api/users/profile", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode(t, rec)
	assert.Equal(t, true, profile["onboarded"])
	assert.Equal(t, "+201223456789", profile["profile"].(map[string]any)["phone"])
}

func TestOrderCheckoutAndPayment(t *testing.T) {
	a := newApp(t, appOptions{})
	admin := a.adminToken()
	user := a.userToken("layla@example.com")
	a.onboard(admin, user)
	weekID, meals := a.openWeek(admin)

	rec := a.do(http.MethodGet, fmt.Sprintf("/api/weeks/%d/menu", weekID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["week"].(map[string]any)["meals"], 2)

	plan := gin.H{"weekId": weekID, "mealCount": 5, "portionSize": "standard", "deliverySlot": "morning"}
	rec = a.do(http.MethodPost, "/api/orders", plan, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	orderID := id(t, created, "order")
	assert.Equal(t, float64(5*16500), created["order"].(map[string]any)["totalCents"])

	rec = a.do(http.MethodPost, "/api/orders", plan, user)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, fmt.Sprintf("/api/orders/%d/items", orderID), gin.H{"mealId": meals[0]}, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, fmt.Sprintf("/api/orders/%d/items", orderID), gin.H{"mealId": meals[1], "portionSize": "large"}, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	other := a.userToken("stranger@example.com")
	a.onboard(admin, other)
	rec = a.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), nil, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodPost, fmt.Sprintf("/api/orders/%d/checkout", orderID), nil, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "pm-1", decode(t, rec)["paymobOrderId"])

	body, signature := signedWebhook("pm-1", 5*16500, true)
	rec = a.webhook(body, "deadbeef")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrongBody, wrongSig := signedWebhook("pm-1", 100, true)
	rec = a.webhook(wrongBody, wrongSig)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.webhook(body, signature)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "paid", decode(t, rec)["status"])

	// Paymob retries deliveries; the replay changes nothing.
	rec = a.webhook(body, signature)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paid", decode(t, rec)["status"])

	query := signedRedirect("pm-1", 5*16500, true)
	rec = a.do(http.MethodGet, "/api/payments/paymob/response?"+query.Encode(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	redirect := decode(t, rec)
	assert.Equal(t, true, redirect["success"])
	assert.Equal(t, float64(orderID), redirect["orderId"])

	query.Set("hmac", "0000")
	rec = a.do(http.MethodGet, "/api/payments/paymob/response?"+query.Encode(), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/api/admin/orders?status=paid", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decode(t, rec)
	assert.Len(t, listing["orders"], 1)
	assert.Equal(t, float64(1), listing["metadata"].(map[string]any)["total"])

	rec = a.do(http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", orderID), gin.H{"status": "delivered"}, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = a.do(http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", orderID), gin.H{"status": "confirmed"}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "confirmed", decode(t, rec)["order"].(map[string]any)["status"])

	rec = a.do(http.MethodGet, "/api/admin/orders/undelivered", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["undeliveredOrderCount"])

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", decode(t, rec)["order"].(map[string]any)["status"])

	rec = a.do(http.MethodDelete, fmt.Sprintf("/api/admin/orders/%d", orderID), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), nil, user)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	a := newApp(t, appOptions{limiter: middlewares.NewRateLimiter(0.001, 1)})

	body := gin.H{"email": "nobody@example.com", "password": "whatever1"}
	rec := a.do(http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = a.do(http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Logout is not limited.
	rec = a.do(http.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWaitlistJoinIsRateLimited(t *testing.T) {
	a := newApp(t, appOptions{limiter: middlewares.NewRateLimiter(0.001, 1)})

	rec := a.do(http.MethodPost, "/api/waitlist", gin.H{"email": "lead@example.com", "neighborhood": "Maadi"}, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, decode(t, rec)["waitlisted"])

	rec = a.do(http.MethodPost, "/api/waitlist", gin.H{"email": "lead2@example.com", "neighborhood": "Maadi"}, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func imageRequest(t *testing.T, path, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="koshari bowl.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("\xff\xd8\xff fake jpeg"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestMealImageUpload(t *testing.T) {
	uploader := &stubUploader{}
	a := newApp(t, appOptions{uploader: uploader})
	admin := a.adminToken()

	rec := a.do(http.MethodPost, "/api/admin/meals", gin.H{"name": "Koshari"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	mealID := id(t, decode(t, rec), "meal")

	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, imageRequest(t, "/api/admin/meals/999/image", admin))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, imageRequest(t, fmt.Sprintf("/api/admin/meals/%d/image", mealID), admin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, uploader.keys, 1)
	assert.Contains(t, uploader.keys[0], "koshari-bowl.jpg")

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/meals/%d", mealID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://cdn.test/"+uploader.keys[0], decode(t, rec)["meal"].(map[string]any)["imageUrl"])

	bare := newApp(t, appOptions{})
	rec = httptest.NewRecorder()
	bare.router.ServeHTTP(rec, imageRequest(t, "/api/admin/meals/1/image", bare.adminToken()))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
