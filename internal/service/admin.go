package service

import (
	"context"
	"errors"
	"fmt"

	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AdminStats struct {
	TotalUsers        int64              `json:"total_users"`
	TotalSubscribers  int64              `json:"total_subscribers"`
	TotalProducts     int64              `json:"total_products"`
	TotalOrders       int64              `json:"total_orders"`
	TotalRevenue      decimal.Decimal    `json:"total_revenue"`
	UnreadMessages    int64              `json:"unread_messages"`
	RecentOrders      []model.Order      `json:"recent_orders"`
	RecentSubscribers []model.Subscriber `json:"recent_subscribers"`
}

type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
	ListUsers(ctx context.Context, filter repository.UserFilter) (*repository.Page[model.User], error)
	SetUserAdmin(ctx context.Context, id uint, isAdmin bool) error
	VerifyUser(ctx context.Context, id uint) error
	// DeleteUser rejects self-deletion by the acting admin.
	DeleteUser(ctx context.Context, actorID, id uint) error
}

type adminServiceImpl struct {
	userRepo       repository.UserRepository
	subscriberRepo repository.SubscriberRepository
	productRepo    repository.ProductRepository
	orderRepo      repository.OrderRepository
	contactRepo    repository.ContactRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	subscriberRepo repository.SubscriberRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	contactRepo repository.ContactRepository,
) AdminService {
	return &adminServiceImpl{
		userRepo:       userRepo,
		subscriberRepo: subscriberRepo,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		contactRepo:    contactRepo,
	}
}

func (s *adminServiceImpl) Stats(ctx context.Context) (*AdminStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	_, activeSubs, _, err := s.subscriberRepo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count subscribers: %w", err)
	}
	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	orderCount, revenue, err := s.orderRepo.CompletedStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	unread, err := s.contactRepo.UnreadCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("count unread messages: %w", err)
	}
	recentOrders, err := s.orderRepo.ListRecentCompleted(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	recentSubs, err := s.subscriberRepo.ListRecentActive(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("recent subscribers: %w", err)
	}

	return &AdminStats{
		TotalUsers:        users,
		TotalSubscribers:  activeSubs,
		TotalProducts:     products,
		TotalOrders:       orderCount,
		TotalRevenue:      revenue,
		UnreadMessages:    unread,
		RecentOrders:      recentOrders,
		RecentSubscribers: recentSubs,
	}, nil
}

func (s *adminServiceImpl) ListUsers(ctx context.Context, filter repository.UserFilter) (*repository.Page[model.User], error) {
	return s.userRepo.List(ctx, filter)
}

func (s *adminServiceImpl) SetUserAdmin(ctx context.Context, id uint, isAdmin bool) error {
	return s.userRepo.SetAdmin(ctx, id, isAdmin)
}

func (s *adminServiceImpl) VerifyUser(ctx context.Context, id uint) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("look up user: %w", err)
	}
	return s.userRepo.MarkEmailVerified(ctx, id)
}

func (s *adminServiceImpl) DeleteUser(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrSelfDelete
	}
	return s.userRepo.Delete(ctx, id)
}
