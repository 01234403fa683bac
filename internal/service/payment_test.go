package service

import (
	"context"
	"errors"
	"testing"

	"digital-downloads-store/internal/client"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type paymentFixture struct {
	db     *gorm.DB
	stripe *fakeStripeClient
	mail   *fakeMailClient
	cart   CartService
	svc    PaymentService
}

func setupPaymentService(t *testing.T, bypass bool) *paymentFixture {
	t.Helper()
	db := newTestDB(t)
	stripe := newFakeStripeClient()
	mail := &fakeMailClient{}

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)

	return &paymentFixture{
		db:     db,
		stripe: stripe,
		mail:   mail,
		cart:   NewCartService(cartRepo, productRepo, bundleRepo, orderRepo),
		svc:    NewPaymentService(stripe, mail, cartRepo, bundleRepo, orderRepo, userRepo, bypass),
	}
}

func (fx *paymentFixture) order(t *testing.T, id uint) *model.Order {
	t.Helper()
	var order model.Order
	require.NoError(t, fx.db.First(&order, id).Error)
	return &order
}

func TestCheckout_EmptyCart(t *testing.T) {
	fx := setupPaymentService(t, false)
	user := seedUser(t, fx.db, "user@example.com")

	_, err := fx.svc.Checkout(context.Background(), user.ID)

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_ZeroTotalCompletesImmediately(t *testing.T) {
	fx := setupPaymentService(t, false)
	user := seedUser(t, fx.db, "user@example.com")
	free := seedProduct(t, fx.db, "Free Sample", "0.00")
	require.NoError(t, fx.cart.Add(context.Background(), user.ID, free.ID))

	result, err := fx.svc.Checkout(context.Background(), user.ID)
	require.NoError(t, err)

	assert.True(t, result.Completed)
	assert.Empty(t, result.CheckoutURL)

	order := fx.order(t, result.OrderID)
	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	assert.Equal(t, "free", order.PaymentID)
	require.NotNil(t, order.PaidAt)

	assert.Zero(t, fx.stripe.createCalls(), "free orders never touch the gateway")
	assert.Empty(t, cartItems(t, fx.db, user.ID))
	require.Len(t, fx.mail.mails(), 1)
	assert.Equal(t, user.Email, fx.mail.mails()[0].To)
}

func TestCheckout_BypassCompletesPaidOrder(t *testing.T) {
	fx := setupPaymentService(t, true)
	user := seedUser(t, fx.db, "user@example.com")
	product := seedProduct(t, fx.db, "Asset Pack", "19.00")
	require.NoError(t, fx.cart.Add(context.Background(), user.ID, product.ID))

	result, err := fx.svc.Checkout(context.Background(), user.ID)
	require.NoError(t, err)

	assert.True(t, result.Completed)
	order := fx.order(t, result.OrderID)
	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	assert.Equal(t, "test_payment_bypassed", order.PaymentID)
	assert.Zero(t, fx.stripe.createCalls())
}

func TestCheckout_RedirectsToGateway(t *testing.T) {
	fx := setupPaymentService(t, false)
	user := seedUser(t, fx.db, "user@example.com")
	product := seedProduct(t, fx.db, "Asset Pack", "19.00")
	require.NoError(t, fx.cart.Add(context.Background(), user.ID, product.ID))

	result, err := fx.svc.Checkout(context.Background(), user.ID)
	require.NoError(t, err)

	assert.False(t, result.Completed)
	assert.NotEmpty(t, result.CheckoutURL)

	// the pending order holds a price snapshot
	require.Equal(t, 1, fx.stripe.createCalls())
	params := fx.stripe.createdParams[0]
	order := fx.order(t, params.OrderID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(product.Price))

	// cart stays intact until the payment lands
	assert.Len(t, cartItems(t, fx.db, user.ID), 1)
	assert.Empty(t, fx.mail.mails())
}

func TestCheckout_BundleBecomesSingleLine(t *testing.T) {
	fx := setupPaymentService(t, false)
	user := seedUser(t, fx.db, "user@example.com")
	a := seedProduct(t, fx.db, "Pack A", "10.00")
	b := seedProduct(t, fx.db, "Pack B", "15.00")
	seedBundle(t, fx.db, "Two Packs", "20.00", a, b)
	require.NoError(t, fx.cart.Add(context.Background(), user.ID, a.ID))
	require.NoError(t, fx.cart.Add(context.Background(), user.ID, b.ID))

	_, err := fx.svc.Checkout(context.Background(), user.ID)
	require.NoError(t, err)

	require.Equal(t, 1, fx.stripe.createCalls())
	params := fx.stripe.createdParams[0]
	require.Len(t, params.Lines, 1)
	assert.Equal(t, "Two Packs (Bundle Deal)", params.Lines[0].Name)
	assert.True(t, params.Lines[0].UnitPrice.StringFixed(2) == "20.00", "line price %s", params.Lines[0].UnitPrice)
}

func TestCheckout_GatewayFailureMarksOrderFailed(t *testing.T) {
	fx := setupPaymentService(t, false)
	fx.stripe.createErr = errors.New("gateway down")
	user := seedUser(t, fx.db, "user@example.com")
	product := seedProduct(t, fx.db, "Asset Pack", "19.00")
	require.NoError(t, fx.cart.Add(context.Background(), user.ID, product.ID))

	_, err := fx.svc.Checkout(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrPayment)

	var order model.Order
	require.NoError(t, fx.db.Where("user_id = ?", user.ID).First(&order).Error)
	assert.Equal(t, model.OrderStatusFailed, order.Status)
}

func TestConfirmSuccess_CompletesOrderAndClearsCart(t *testing.T) {
	fx := setupPaymentService(t, false)
	user := seedUser(t, fx.db, "user@example.com")
	product := seedProduct(t, fx.db, "Asset Pack", "19.00")
	require.NoError(t, fx.cart.Add(context.Background(), user.ID, product.ID))

	_, err := fx.svc.Checkout(context.Background(), user.ID)
	require.NoError(t, err)
	sessionID := fx.stripe.sessions["cs_test_1"].ID

	order, err := fx.svc.ConfirmSuccess(context.Background(), user.ID, sessionID)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	assert.Equal(t, "pi_cs_test_1", order.PaymentID)
	assert.Empty(t, cartItems(t, fx.db, user.ID))
	assert.Len(t, fx.mail.mails(), 1)
}

func TestHandleWebhook_CompletedIsIdempotent(t *testing.T) {
	fx := setupPaymentService(t, false)
	user := seedUser(t, fx.db, "user@example.com")
	product := seedProduct(t, fx.db, "Asset Pack", "19.00")
	require.NoError(t, fx.cart.Add(context.Background(), user.ID, product.ID))

	_, err := fx.svc.Checkout(context.Background(), user.ID)
	require.NoError(t, err)

	orderID := fx.stripe.createdParams[0].OrderID
	fx.stripe.events["evt1"] = &client.WebhookEvent{
		ID:              "evt_1",
		Type:            "checkout.session.completed",
		OrderID:         fx.stripe.sessions["cs_test_1"].OrderID,
		PaymentIntentID: "pi_cs_test_1",
	}

	require.NoError(t, fx.svc.HandleWebhook(context.Background(), []byte("evt1"), "sig"))
	first := fx.order(t, orderID)
	require.Equal(t, model.OrderStatusCompleted, first.Status)
	require.NotNil(t, first.PaidAt)

	// duplicate delivery: no second transition, no second mail
	require.NoError(t, fx.svc.HandleWebhook(context.Background(), []byte("evt1"), "sig"))
	second := fx.order(t, orderID)
	assert.Equal(t, model.OrderStatusCompleted, second.Status)
	assert.True(t, first.PaidAt.Equal(*second.PaidAt), "paid_at must not move on replay")
	assert.Len(t, fx.mail.mails(), 1)
}

func TestHandleWebhook_PaymentFailed(t *testing.T) {
	fx := setupPaymentService(t, false)
	user := seedUser(t, fx.db, "user@example.com")
	product := seedProduct(t, fx.db, "Asset Pack", "19.00")
	require.NoError(t, fx.cart.Add(context.Background(), user.ID, product.ID))

	_, err := fx.svc.Checkout(context.Background(), user.ID)
	require.NoError(t, err)
	orderID := fx.stripe.createdParams[0].OrderID

	fx.stripe.events["fail"] = &client.WebhookEvent{
		ID:      "evt_2",
		Type:    "payment_intent.payment_failed",
		OrderID: fx.stripe.sessions["cs_test_1"].OrderID,
	}
	require.NoError(t, fx.svc.HandleWebhook(context.Background(), []byte("fail"), "sig"))

	assert.Equal(t, model.OrderStatusFailed, fx.order(t, orderID).Status)
	assert.Empty(t, fx.mail.mails())
}

func TestHandleWebhook_CompletedIsTerminal(t *testing.T) {
	fx := setupPaymentService(t, false)
	user := seedUser(t, fx.db, "user@example.com")
	product := seedProduct(t, fx.db, "Asset Pack", "19.00")
	require.NoError(t, fx.cart.Add(context.Background(), user.ID, product.ID))

	_, err := fx.svc.Checkout(context.Background(), user.ID)
	require.NoError(t, err)
	orderID := fx.stripe.createdParams[0].OrderID
	rawOrderID := fx.stripe.sessions["cs_test_1"].OrderID

	fx.stripe.events["ok"] = &client.WebhookEvent{ID: "evt_3", Type: "checkout.session.completed", OrderID: rawOrderID, PaymentIntentID: "pi_x"}
	fx.stripe.events["fail"] = &client.WebhookEvent{ID: "evt_4", Type: "payment_intent.payment_failed", OrderID: rawOrderID}

	require.NoError(t, fx.svc.HandleWebhook(context.Background(), []byte("ok"), "sig"))
	require.NoError(t, fx.svc.HandleWebhook(context.Background(), []byte("fail"), "sig"))

	assert.Equal(t, model.OrderStatusCompleted, fx.order(t, orderID).Status)
}

func TestHandleWebhook_UnhandledEventIgnored(t *testing.T) {
	fx := setupPaymentService(t, false)
	fx.stripe.events["other"] = &client.WebhookEvent{ID: "evt_5", Type: "invoice.paid"}

	assert.NoError(t, fx.svc.HandleWebhook(context.Background(), []byte("other"), "sig"))
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	fx := setupPaymentService(t, false)

	err := fx.svc.HandleWebhook(context.Background(), []byte("garbage"), "sig")

	assert.Error(t, err)
}
