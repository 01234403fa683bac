package repository

import (
	"context"

	"digital-downloads-store/internal/model"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	ListPublishedByProduct(ctx context.Context, productID uint, page, perPage int) (*Page[model.Comment], error)
	// RecentQA returns published, answered, homepage-flagged questions.
	RecentQA(ctx context.Context, limit int) ([]model.Comment, error)
	ListAdmin(ctx context.Context, page, perPage int) (*Page[model.Comment], error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepoImpl{db: db}
}

func (r *commentRepoImpl) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepoImpl) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Product").
		First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepoImpl) ListPublishedByProduct(ctx context.Context, productID uint, page, perPage int) (*Page[model.Comment], error) {
	page, perPage = normalizePage(page, perPage, 20)

	query := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("product_id = ? AND status = ?", productID, model.CommentStatusPublished)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var comments []model.Comment
	err := query.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	return &Page[model.Comment]{Data: comments, Page: page, PerPage: perPage, Total: total}, nil
}

func (r *commentRepoImpl) RecentQA(ctx context.Context, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Product").
		Where("status = ? AND show_on_homepage = ? AND answer <> ''",
			model.CommentStatusPublished, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepoImpl) ListAdmin(ctx context.Context, page, perPage int) (*Page[model.Comment], error) {
	page, perPage = normalizePage(page, perPage, 30)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Comment{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Product").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	return &Page[model.Comment]{Data: comments, Page: page, PerPage: perPage, Total: total}, nil
}

func (r *commentRepoImpl) Update(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepoImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error
}
