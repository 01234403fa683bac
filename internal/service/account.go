package service

import (
	"context"
	"errors"
	"fmt"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"
	"digital-downloads-store/internal/storage"

	"gorm.io/gorm"
)

type Download struct {
	// Path is the absolute on-disk location; Name the original upload name
	// presented to the client.
	Path string
	Name string
}

type AccountService interface {
	Dashboard(ctx context.Context, user *model.User, page int) (*dto.Dashboard, error)
	// Download enforces the purchase gate: free products download for any
	// authenticated user, paid ones only for buyers.
	Download(ctx context.Context, userID, productID uint) (*Download, error)
}

type accountServiceImpl struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	store       *storage.Store
}

func NewAccountService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	store *storage.Store,
) AccountService {
	return &accountServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		store:       store,
	}
}

func (s *accountServiceImpl) Dashboard(ctx context.Context, user *model.User, page int) (*dto.Dashboard, error) {
	orders, err := s.orderRepo.ListCompletedByUser(ctx, user.ID, page, 10)
	if err != nil {
		return nil, fmt.Errorf("list completed orders: %w", err)
	}

	purchasedIDs, err := s.orderRepo.PurchasedProductIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list purchased products: %w", err)
	}

	return &dto.Dashboard{
		User:                dto.NewUserResponse(user),
		Orders:              orders,
		PurchasedProductIDs: purchasedIDs,
	}, nil
}

func (s *accountServiceImpl) Download(ctx context.Context, userID, productID uint) (*Download, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if !product.IsFree {
		purchased, err := s.orderRepo.HasPurchased(ctx, userID, productID)
		if err != nil {
			return nil, fmt.Errorf("check purchase history: %w", err)
		}
		if !purchased {
			return nil, ErrPurchaseRequired
		}
	}

	path, err := s.store.ProductFilePath(product.FilePath)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := s.productRepo.IncrementDownloadCount(ctx, productID); err != nil {
		return nil, fmt.Errorf("bump download count: %w", err)
	}

	return &Download{Path: path, Name: product.FileName}, nil
}
