package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"digital-downloads-store/internal/client"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, client.AutoMigrate(db))
	return db
}

// fakeMailClient records queued mail instead of delivering it.
type fakeMailClient struct {
	mu   sync.Mutex
	sent []client.Mail
}

func (f *fakeMailClient) Queue(mail client.Mail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, mail)
}

func (f *fakeMailClient) Close() {}

func (f *fakeMailClient) mails() []client.Mail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]client.Mail, len(f.sent))
	copy(out, f.sent)
	return out
}

// fakeStripeClient serves canned gateway responses and records calls.
type fakeStripeClient struct {
	mu sync.Mutex

	createErr     error
	createdParams []*client.CheckoutParams

	sessions map[string]*client.CheckoutSession
	events   map[string]*client.WebhookEvent
	verified []string
}

func newFakeStripeClient() *fakeStripeClient {
	return &fakeStripeClient{
		sessions: make(map[string]*client.CheckoutSession),
		events:   make(map[string]*client.WebhookEvent),
	}
}

func (f *fakeStripeClient) CreateCheckoutSession(ctx context.Context, params *client.CheckoutParams) (*client.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdParams = append(f.createdParams, params)

	sessionID := fmt.Sprintf("cs_test_%d", len(f.createdParams))
	session := &client.CheckoutSession{
		ID:              sessionID,
		URL:             "https://checkout.stripe.test/" + sessionID,
		OrderID:         fmt.Sprint(params.OrderID),
		PaymentIntentID: "pi_" + sessionID,
	}
	f.sessions[sessionID] = session
	return session, nil
}

func (f *fakeStripeClient) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*client.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session %q", sessionID)
	}
	return session, nil
}

func (f *fakeStripeClient) VerifyWebhook(payload []byte, signature string) (*client.WebhookEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[string(payload)]
	if !ok {
		return nil, fmt.Errorf("bad webhook payload")
	}
	f.verified = append(f.verified, event.ID)
	return event, nil
}

func (f *fakeStripeClient) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.createdParams)
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, title string, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		Title:    title,
		Slug:     slugify(title),
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedBundle(t *testing.T, db *gorm.DB, title, price string, products ...*model.Product) *model.Bundle {
	t.Helper()

	original := decimal.Zero
	members := make([]model.Product, 0, len(products))
	for _, p := range products {
		original = original.Add(p.Price)
		members = append(members, *p)
	}

	bundle := &model.Bundle{
		Title:         title,
		Slug:          slugify(title),
		Price:         decimal.RequireFromString(price),
		OriginalPrice: original,
		IsActive:      true,
		Products:      members,
	}
	require.NoError(t, db.Create(bundle).Error)
	return bundle
}

func seedCompletedOrder(t *testing.T, db *gorm.DB, userID uint, products ...*model.Product) *model.Order {
	t.Helper()

	order := &model.Order{
		UserID: userID,
		Status: model.OrderStatusCompleted,
		Total:  decimal.Zero,
	}
	for _, p := range products {
		order.Total = order.Total.Add(p.Price)
		order.Items = append(order.Items, model.OrderItem{
			ProductID: p.ID,
			Price:     p.Price,
			Quantity:  1,
		})
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func cartItems(t *testing.T, db *gorm.DB, userID uint) []model.CartItem {
	t.Helper()
	items, err := repository.NewCartRepository(db).ListByUser(context.Background(), userID)
	require.NoError(t, err)
	return items
}
