package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"digital-downloads-store/internal/client"
	"digital-downloads-store/internal/config"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"
	"digital-downloads-store/internal/service"
	"digital-downloads-store/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noopMail struct{}

func (noopMail) Queue(client.Mail) {}
func (noopMail) Close()            {}

type stubStripe struct{}

func (stubStripe) CreateCheckoutSession(ctx context.Context, params *client.CheckoutParams) (*client.CheckoutSession, error) {
	return &client.CheckoutSession{
		ID:      "cs_test",
		URL:     "https://checkout.stripe.test/cs_test",
		OrderID: fmt.Sprint(params.OrderID),
	}, nil
}

func (stubStripe) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*client.CheckoutSession, error) {
	return nil, fmt.Errorf("no such session %q", sessionID)
}

func (stubStripe) VerifyWebhook(payload []byte, signature string) (*client.WebhookEvent, error) {
	return nil, fmt.Errorf("invalid signature")
}

type testServer struct {
	srv *Server
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, client.AutoMigrate(db))

	store, err := storage.NewStore(config.Files{PrivateDir: t.TempDir(), PreviewDir: t.TempDir()})
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	contactRepo := repository.NewContactRepository(db)
	faqRepo := repository.NewFaqRepository(db)

	const order = "sort_order ASC, id ASC"
	heroRepo := repository.NewContentRepository[model.HeroSlide](db, order)
	featureRepo := repository.NewContentRepository[model.HomeFeature](db, order)
	statRepo := repository.NewContentRepository[model.HomeStat](db, order)
	showcaseRepo := repository.NewContentRepository[model.HomeShowcase](db, order)
	socialRepo := repository.NewContentRepository[model.SocialLink](db, order)
	navRepo := repository.NewContentRepository[model.NavigationLink](db, order)

	mail := noopMail{}
	stripe := stubStripe{}

	authService := service.NewAuthService(userRepo, tokenRepo, mail, "https://store.example.com", "test-secret", time.Hour)
	catalogService := service.NewCatalogService(service.CatalogRepos{
		Products:      productRepo,
		Categories:    categoryRepo,
		Bundles:       bundleRepo,
		Comments:      commentRepo,
		Orders:        orderRepo,
		Faqs:          faqRepo,
		HeroSlides:    heroRepo,
		HomeFeatures:  featureRepo,
		HomeStats:     statRepo,
		HomeShowcases: showcaseRepo,
		SocialLinks:   socialRepo,
		NavLinks:      navRepo,
	})
	commentService := service.NewCommentService(commentRepo, productRepo, userRepo, mail)
	cartService := service.NewCartService(cartRepo, productRepo, bundleRepo, orderRepo)
	paymentService := service.NewPaymentService(stripe, mail, cartRepo, bundleRepo, orderRepo, userRepo, false)
	subscriberService := service.NewSubscriberService(subscriberRepo, mail, "https://store.example.com")
	contactService := service.NewContactService(contactRepo, subscriberRepo, mail, "")
	accountService := service.NewAccountService(orderRepo, productRepo, store)
	adminService := service.NewAdminService(userRepo, subscriberRepo, productRepo, orderRepo, contactRepo)
	adminCatalogService := service.NewAdminCatalogService(productRepo, categoryRepo, bundleRepo, faqRepo, store)

	srv := NewServer(Deps{
		Auth:         authService,
		Catalog:      catalogService,
		Comments:     commentService,
		Cart:         cartService,
		Payments:     paymentService,
		Subscribers:  subscriberService,
		Contact:      contactService,
		Account:      accountService,
		Admin:        adminService,
		AdminCatalog: adminCatalogService,
		Orders:       orderRepo,
		HeroSlides:   heroRepo,
		Features:     featureRepo,
		Stats:        statRepo,
		Showcases:    showcaseRepo,
		SocialLinks:  socialRepo,
		NavLinks:     navRepo,
	})

	return &testServer{srv: srv, db: db}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.srv.echo.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) register(t *testing.T, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"first_name":"Jane","last_name":"Doe","email":%q,"password":"secret-password"}`, email)
	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (ts *testServer) makeAdmin(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, ts.db.Model(&model.User{}).Where("email = ?", email).Update("is_admin", true).Error)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", `{"first_name":"Jane","email":"not-an-email","password":"short"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "password")
	assert.Contains(t, resp.Errors, "last_name")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/cart", "/api/dashboard", "/api/auth/me"} {
		rec := ts.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRevokedTokenRejected(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "jane@example.com")

	rec := ts.do(t, http.MethodPost, "/api/auth/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesForbiddenForRegularUsers(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "jane@example.com")

	rec := ts.do(t, http.MethodGet, "/api/admin/stats", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoutesAllowAdmins(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "admin@example.com")
	ts.makeAdmin(t, "admin@example.com")

	rec := ts.do(t, http.MethodGet, "/api/admin/stats", token, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCartFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "jane@example.com")

	product := &model.Product{
		Title:    "Asset Pack",
		Slug:     "asset-pack",
		Price:    decimal.RequireFromString("12.00"),
		IsActive: true,
	}
	require.NoError(t, ts.db.Create(product).Error)

	rec := ts.do(t, http.MethodPost, "/api/cart", token, fmt.Sprintf(`{"product_id":%d}`, product.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cart struct {
		Items    []json.RawMessage `json:"items"`
		Subtotal string            `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "12", cart.Subtotal)

	// unknown product
	rec = ts.do(t, http.MethodPost, "/api/cart", token, `{"product_id":999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartAddPurchasedConflict(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "jane@example.com")

	var user model.User
	require.NoError(t, ts.db.Where("email = ?", "jane@example.com").First(&user).Error)

	product := &model.Product{Title: "Owned", Slug: "owned", Price: decimal.RequireFromString("9.00"), IsActive: true}
	require.NoError(t, ts.db.Create(product).Error)
	order := &model.Order{
		UserID: user.ID,
		Status: model.OrderStatusCompleted,
		Total:  product.Price,
		Items:  []model.OrderItem{{ProductID: product.ID, Price: product.Price, Quantity: 1}},
	}
	require.NoError(t, ts.db.Create(order).Error)

	rec := ts.do(t, http.MethodPost, "/api/cart", token, fmt.Sprintf(`{"product_id":%d}`, product.ID))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckoutEmptyCart(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "jane@example.com")

	rec := ts.do(t, http.MethodPost, "/api/checkout", token, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookBadSignature(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/webhook/stripe", "", `{"id":"evt_1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Error", rec.Body.String())
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/newsletter/subscribe", "", `{"email":"sub@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/newsletter/unsubscribe?email=sub@example.com", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var sub model.Subscriber
	require.NoError(t, ts.db.Where("email = ?", "sub@example.com").First(&sub).Error)
	assert.NotNil(t, sub.UnsubscribedAt)
}

func TestContactFormStoresMessage(t *testing.T) {
	ts := newTestServer(t)

	body := `{"first_name":"Jane","last_name":"Doe","email":"jane@example.com","message":"Hello there"}`
	rec := ts.do(t, http.MethodPost, "/api/contact", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var count int64
	require.NoError(t, ts.db.Model(&model.ContactMessage{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProductNotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/products/no-such-slug", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelfDeleteRejected(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "admin@example.com")
	ts.makeAdmin(t, "admin@example.com")

	var admin model.User
	require.NoError(t, ts.db.Where("email = ?", "admin@example.com").First(&admin).Error)

	rec := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", admin.ID), token, "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestForgotPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "jane@example.com")

	rec := ts.do(t, http.MethodPost, "/api/auth/forgot-password", "", `{"email":"jane@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Reset link sent.")

	var reset model.PasswordReset
	require.NoError(t, ts.db.First(&reset, "email = ?", "jane@example.com").Error)
	assert.NotEmpty(t, reset.Token)

	rec = ts.do(t, http.MethodPost, "/api/auth/forgot-password", "", `{"email":"nobody@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unable to send reset link.")
}

func TestAdminVerifyUser(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "admin@example.com")
	ts.makeAdmin(t, "admin@example.com")
	ts.register(t, "jane@example.com")

	var user model.User
	require.NoError(t, ts.db.Where("email = ?", "jane@example.com").First(&user).Error)
	require.Nil(t, user.EmailVerifiedAt)

	rec := ts.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/verify", user.ID), token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NoError(t, ts.db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.NotNil(t, user.EmailVerifiedAt)

	rec = ts.do(t, http.MethodPatch, "/api/admin/users/9999/verify", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContentUpdateKeepsPathID(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "admin@example.com")
	ts.makeAdmin(t, "admin@example.com")

	rec := ts.do(t, http.MethodPost, "/api/admin/content/hero-slides", token, `{"title":"First"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var slide model.HeroSlide
	require.NoError(t, ts.db.First(&slide, "title = ?", "First").Error)

	body := fmt.Sprintf(`{"id":%d,"title":"Renamed"}`, slide.ID+40)
	rec = ts.do(t, http.MethodPut, fmt.Sprintf("/api/admin/content/hero-slides/%d", slide.ID), token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the addressed row changed and no row appeared under the body's id
	require.NoError(t, ts.db.First(&slide, slide.ID).Error)
	assert.Equal(t, "Renamed", slide.Title)
	var count int64
	require.NoError(t, ts.db.Model(&model.HeroSlide{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
