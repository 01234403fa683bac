package repository

import (
	"context"
	"time"

	"digital-downloads-store/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriberRepository interface {
	// Upsert creates or reactivates a subscriber: subscribed_at is reset and
	// unsubscribed_at cleared either way.
	Upsert(ctx context.Context, sub *model.Subscriber) error
	Unsubscribe(ctx context.Context, email string) error
	ListActive(ctx context.Context) ([]model.Subscriber, error)
	List(ctx context.Context, page, perPage int) (*Page[model.Subscriber], error)
	ListRecentActive(ctx context.Context, limit int) ([]model.Subscriber, error)
	Counts(ctx context.Context) (total, active, unsubscribed int64, err error)
}

type subscriberRepoImpl struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepoImpl{db: db}
}

func (r *subscriberRepoImpl) Upsert(ctx context.Context, sub *model.Subscriber) error {
	sub.SubscribedAt = time.Now()
	sub.UnsubscribedAt = nil

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"first_name":      sub.FirstName,
			"last_name":       sub.LastName,
			"source":          sub.Source,
			"subscribed_at":   sub.SubscribedAt,
			"unsubscribed_at": nil,
			"updated_at":      time.Now(),
		}),
	}).Create(sub).Error
}

func (r *subscriberRepoImpl) Unsubscribe(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Model(&model.Subscriber{}).
		Where("email = ?", email).
		Update("unsubscribed_at", time.Now()).Error
}

func (r *subscriberRepoImpl) ListActive(ctx context.Context) ([]model.Subscriber, error) {
	var subs []model.Subscriber
	err := r.db.WithContext(ctx).
		Where("unsubscribed_at IS NULL").
		Order("subscribed_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriberRepoImpl) List(ctx context.Context, page, perPage int) (*Page[model.Subscriber], error) {
	page, perPage = normalizePage(page, perPage, 30)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Subscriber{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var subs []model.Subscriber
	err := r.db.WithContext(ctx).
		Order("subscribed_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}

	return &Page[model.Subscriber]{Data: subs, Page: page, PerPage: perPage, Total: total}, nil
}

func (r *subscriberRepoImpl) ListRecentActive(ctx context.Context, limit int) ([]model.Subscriber, error) {
	var subs []model.Subscriber
	err := r.db.WithContext(ctx).
		Where("unsubscribed_at IS NULL").
		Order("subscribed_at DESC").
		Limit(limit).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriberRepoImpl) Counts(ctx context.Context) (int64, int64, int64, error) {
	var total, active, unsubscribed int64

	base := r.db.WithContext(ctx).Model(&model.Subscriber{})
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, 0, err
	}
	if err := base.Session(&gorm.Session{}).Where("unsubscribed_at IS NULL").Count(&active).Error; err != nil {
		return 0, 0, 0, err
	}
	if err := base.Session(&gorm.Session{}).Where("unsubscribed_at IS NOT NULL").Count(&unsubscribed).Error; err != nil {
		return 0, 0, 0, err
	}

	return total, active, unsubscribed, nil
}
