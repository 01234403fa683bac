package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"digital-downloads-store/internal/client"
	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	gatewayStripe = "stripe"
	gatewayFree   = "free"
	gatewayBypass = "bypass"

	paymentIDFree   = "free"
	paymentIDBypass = "test_payment_bypassed"
)

type PaymentService interface {
	// Checkout snapshots the cart into a pending order and either completes
	// it immediately (zero total or payment bypass) or returns the gateway
	// checkout URL.
	Checkout(ctx context.Context, userID uint) (*dto.CheckoutResult, error)
	// ConfirmSuccess is the synchronous client-side confirmation path: it
	// looks the session up at the gateway and completes the order.
	ConfirmSuccess(ctx context.Context, userID uint, sessionID string) (*model.Order, error)
	// HandleWebhook verifies and applies an asynchronous gateway event.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentServiceImpl struct {
	stripeClient  client.StripeClient
	mailClient    client.MailClient
	cartRepo      repository.CartRepository
	bundleRepo    repository.BundleRepository
	orderRepo     repository.OrderRepository
	userRepo      repository.UserRepository
	bypassPayment bool
}

func NewPaymentService(
	stripeClient client.StripeClient,
	mailClient client.MailClient,
	cartRepo repository.CartRepository,
	bundleRepo repository.BundleRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	bypassPayment bool,
) PaymentService {
	return &paymentServiceImpl{
		stripeClient:  stripeClient,
		mailClient:    mailClient,
		cartRepo:      cartRepo,
		bundleRepo:    bundleRepo,
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		bypassPayment: bypassPayment,
	}
}

func (s *paymentServiceImpl) Checkout(ctx context.Context, userID uint) (*dto.CheckoutResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	bundles, err := s.bundleRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active bundles: %w", err)
	}

	total, bundle, _ := priceCart(items, bundles)

	// The order total and item prices are fixed here; later product edits
	// never affect an existing order.
	order := &model.Order{
		UserID: userID,
		Total:  total,
		Status: model.OrderStatusPending,
	}
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		order.Items = append(order.Items, model.OrderItem{
			ProductID: item.ProductID,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if total.LessThanOrEqual(decimal.Zero) {
		if err := s.completeOrder(ctx, order.ID, gatewayFree, paymentIDFree); err != nil {
			return nil, err
		}
		s.clearCart(ctx, userID)
		return &dto.CheckoutResult{Message: "Order completed!", OrderID: order.ID, Completed: true}, nil
	}

	if s.bypassPayment {
		if err := s.completeOrder(ctx, order.ID, gatewayBypass, paymentIDBypass); err != nil {
			return nil, err
		}
		s.clearCart(ctx, userID)
		return &dto.CheckoutResult{Message: "Order completed (payment bypassed)!", OrderID: order.ID, Completed: true}, nil
	}

	params := &client.CheckoutParams{
		OrderID:       order.ID,
		UserID:        userID,
		CustomerEmail: user.Email,
	}
	if bundle != nil {
		params.Lines = []client.CheckoutLine{{
			Name:      bundle.Title + " (Bundle Deal)",
			UnitPrice: total,
			Quantity:  1,
		}}
	} else {
		for _, item := range items {
			if item.Product == nil {
				continue
			}
			params.Lines = append(params.Lines, client.CheckoutLine{
				Name:      item.Product.Title,
				UnitPrice: item.Product.Price,
				Quantity:  item.Quantity,
			})
		}
	}

	session, err := s.stripeClient.CreateCheckoutSession(ctx, params)
	if err != nil {
		slog.Error("create checkout session", slog.Uint64("order_id", uint64(order.ID)), slog.Any("error", err))
		if failErr := s.orderRepo.MarkFailed(ctx, order.ID); failErr != nil {
			slog.Error("mark order failed", slog.Uint64("order_id", uint64(order.ID)), slog.Any("error", failErr))
		}
		return nil, ErrPayment
	}

	return &dto.CheckoutResult{CheckoutURL: session.URL}, nil
}

func (s *paymentServiceImpl) ConfirmSuccess(ctx context.Context, userID uint, sessionID string) (*model.Order, error) {
	session, err := s.stripeClient.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}

	orderID, err := parseOrderID(session.OrderID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	if err := s.completeOrder(ctx, orderID, gatewayStripe, session.PaymentIntentID); err != nil {
		return nil, err
	}
	s.clearCart(ctx, userID)

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	return order, nil
}

func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.stripeClient.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case "checkout.session.completed":
		orderID, err := parseOrderID(event.OrderID)
		if err != nil {
			return fmt.Errorf("event %s: %w", event.ID, err)
		}
		return s.completeOrder(ctx, orderID, gatewayStripe, event.PaymentIntentID)

	case "payment_intent.payment_failed":
		orderID, err := parseOrderID(event.OrderID)
		if err != nil {
			return fmt.Errorf("event %s: %w", event.ID, err)
		}
		return s.orderRepo.MarkFailed(ctx, orderID)

	default:
		slog.Info("unhandled webhook event", slog.String("event_id", event.ID), slog.String("type", event.Type))
		return nil
	}
}

// completeOrder performs the idempotent pending -> completed transition.
// The confirmation email is queued only when this call actually performed
// the transition, so duplicate deliveries cannot double-send it. Email
// problems are logged, never returned: notification is best-effort and not
// part of the payment invariant.
func (s *paymentServiceImpl) completeOrder(ctx context.Context, orderID uint, gateway, paymentID string) error {
	transitioned, err := s.orderRepo.MarkCompleted(ctx, orderID, gateway, paymentID)
	if err != nil {
		return fmt.Errorf("mark order completed: %w", err)
	}
	if !transitioned {
		return nil
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		slog.Error("load order for confirmation mail", slog.Uint64("order_id", uint64(orderID)), slog.Any("error", err))
		return nil
	}
	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		slog.Error("load user for confirmation mail", slog.Uint64("order_id", uint64(orderID)), slog.Any("error", err))
		return nil
	}

	s.mailClient.Queue(client.Mail{
		To:      user.Email,
		Subject: "Your order is complete",
		Body: fmt.Sprintf("Hi %s,\n\nThank you for your purchase! Order #%d (%s USD) is complete and your downloads are available in your dashboard.",
			user.FirstName, order.ID, order.Total.StringFixed(2)),
	})

	return nil
}

func (s *paymentServiceImpl) clearCart(ctx context.Context, userID uint) {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		slog.Error("clear cart after checkout", slog.Uint64("user_id", uint64(userID)), slog.Any("error", err))
	}
}

func parseOrderID(raw string) (uint, error) {
	if raw == "" {
		return 0, errors.New("missing order_id metadata")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad order_id metadata %q", raw)
	}
	return uint(id), nil
}
