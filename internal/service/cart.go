package service

import (
	"context"
	"errors"
	"fmt"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartService interface {
	GetCart(ctx context.Context, userID uint) (*dto.CartView, error)
	Add(ctx context.Context, userID, productID uint) error
	Remove(ctx context.Context, userID, productID uint) error
	Clear(ctx context.Context, userID uint) error
	// AddBundle puts every bundle product the user has not yet purchased
	// into the cart.
	AddBundle(ctx context.Context, userID, bundleID uint) error
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	bundleRepo  repository.BundleRepository
	orderRepo   repository.OrderRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	bundleRepo repository.BundleRepository,
	orderRepo repository.OrderRepository,
) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		bundleRepo:  bundleRepo,
		orderRepo:   orderRepo,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID uint) (*dto.CartView, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	bundles, err := s.bundleRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active bundles: %w", err)
	}

	subtotal, bundle, savings := priceCart(items, bundles)

	return &dto.CartView{
		Items:         items,
		Subtotal:      subtotal,
		Bundle:        bundle,
		BundleSavings: savings,
	}, nil
}

func (s *cartServiceImpl) Add(ctx context.Context, userID, productID uint) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find product: %w", err)
	}

	purchased, err := s.orderRepo.HasPurchased(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("check purchase history: %w", err)
	}
	if purchased {
		return ErrAlreadyPurchased
	}

	return s.cartRepo.Upsert(ctx, userID, productID)
}

func (s *cartServiceImpl) Remove(ctx context.Context, userID, productID uint) error {
	return s.cartRepo.Remove(ctx, userID, productID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID uint) error {
	return s.cartRepo.Clear(ctx, userID)
}

func (s *cartServiceImpl) AddBundle(ctx context.Context, userID, bundleID uint) error {
	bundle, err := s.bundleRepo.FindActiveByID(ctx, bundleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find bundle: %w", err)
	}

	for _, product := range bundle.Products {
		purchased, err := s.orderRepo.HasPurchased(ctx, userID, product.ID)
		if err != nil {
			return fmt.Errorf("check purchase history: %w", err)
		}
		if purchased {
			continue
		}
		if err := s.cartRepo.Upsert(ctx, userID, product.ID); err != nil {
			return fmt.Errorf("add bundle product %d: %w", product.ID, err)
		}
	}

	return nil
}

// priceCart computes the per-item sum and applies the first matching bundle:
// its fixed price replaces the subtotal, savings is the difference. Bundles
// are checked in the order given (primary key), and at most one applies.
func priceCart(items []model.CartItem, bundles []model.Bundle) (decimal.Decimal, *model.Bundle, decimal.Decimal) {
	subtotal := decimal.Zero
	inCart := make(map[uint]bool, len(items))
	for _, item := range items {
		if item.Product != nil {
			subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		inCart[item.ProductID] = true
	}

	if bundle := matchBundle(inCart, bundles); bundle != nil {
		savings := subtotal.Sub(bundle.Price)
		return bundle.Price, bundle, savings
	}

	return subtotal, nil, decimal.Zero
}

// matchBundle returns the first bundle whose entire product set is present
// in the cart. Extra cart items beyond the bundle's products do not prevent
// a match (superset semantics).
func matchBundle(inCart map[uint]bool, bundles []model.Bundle) *model.Bundle {
	for i := range bundles {
		bundle := &bundles[i]
		if len(bundle.Products) == 0 {
			continue
		}
		matched := true
		for _, product := range bundle.Products {
			if !inCart[product.ID] {
				matched = false
				break
			}
		}
		if matched {
			return bundle
		}
	}
	return nil
}
