package repository

import (
	"context"

	"digital-downloads-store/internal/model"

	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, message *model.ContactMessage) error
	List(ctx context.Context, page, perPage int) (*Page[model.ContactMessage], error)
	MarkRead(ctx context.Context, id uint) error
	UnreadCount(ctx context.Context) (int64, error)
}

type contactRepoImpl struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepoImpl{db: db}
}

func (r *contactRepoImpl) Create(ctx context.Context, message *model.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *contactRepoImpl) List(ctx context.Context, page, perPage int) (*Page[model.ContactMessage], error) {
	page, perPage = normalizePage(page, perPage, 30)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.ContactMessage{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var messages []model.ContactMessage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return &Page[model.ContactMessage]{Data: messages, Page: page, PerPage: perPage, Total: total}, nil
}

func (r *contactRepoImpl) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.ContactMessage{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *contactRepoImpl) UnreadCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ContactMessage{}).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}
