package repository

import (
	"context"

	"digital-downloads-store/internal/model"

	"gorm.io/gorm"
)

type FaqRepository interface {
	// ListGrouped returns active FAQ categories with their active FAQs, plus
	// uncategorized FAQs separately.
	ListGrouped(ctx context.Context) ([]model.FaqCategory, []model.Faq, error)
	List(ctx context.Context) ([]model.Faq, error)
	FindByID(ctx context.Context, id uint) (*model.Faq, error)
	Create(ctx context.Context, faq *model.Faq) error
	Update(ctx context.Context, faq *model.Faq) error
	Delete(ctx context.Context, id uint) error

	ListCategories(ctx context.Context) ([]model.FaqCategory, error)
	FindCategoryByID(ctx context.Context, id uint) (*model.FaqCategory, error)
	CreateCategory(ctx context.Context, category *model.FaqCategory) error
	UpdateCategory(ctx context.Context, category *model.FaqCategory) error
	DeleteCategory(ctx context.Context, id uint) error
}

type faqRepoImpl struct {
	db *gorm.DB
}

func NewFaqRepository(db *gorm.DB) FaqRepository {
	return &faqRepoImpl{db: db}
}

func (r *faqRepoImpl) ListGrouped(ctx context.Context) ([]model.FaqCategory, []model.Faq, error) {
	var categories []model.FaqCategory
	err := r.db.WithContext(ctx).
		Preload("Faqs", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order ASC, id ASC")
		}).
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, nil, err
	}

	var uncategorized []model.Faq
	err = r.db.WithContext(ctx).
		Where("is_active = ? AND category_id IS NULL", true).
		Order("sort_order ASC, id ASC").
		Find(&uncategorized).Error
	if err != nil {
		return nil, nil, err
	}

	return categories, uncategorized, nil
}

func (r *faqRepoImpl) List(ctx context.Context) ([]model.Faq, error) {
	var faqs []model.Faq
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("sort_order ASC, id ASC").
		Find(&faqs).Error
	if err != nil {
		return nil, err
	}
	return faqs, nil
}

func (r *faqRepoImpl) FindByID(ctx context.Context, id uint) (*model.Faq, error) {
	var faq model.Faq
	err := r.db.WithContext(ctx).Preload("Category").First(&faq, id).Error
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

func (r *faqRepoImpl) Create(ctx context.Context, faq *model.Faq) error {
	return r.db.WithContext(ctx).Create(faq).Error
}

func (r *faqRepoImpl) Update(ctx context.Context, faq *model.Faq) error {
	return r.db.WithContext(ctx).Save(faq).Error
}

func (r *faqRepoImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Faq{}, id).Error
}

func (r *faqRepoImpl) ListCategories(ctx context.Context) ([]model.FaqCategory, error) {
	var categories []model.FaqCategory
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *faqRepoImpl) FindCategoryByID(ctx context.Context, id uint) (*model.FaqCategory, error) {
	var category model.FaqCategory
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *faqRepoImpl) CreateCategory(ctx context.Context, category *model.FaqCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *faqRepoImpl) UpdateCategory(ctx context.Context, category *model.FaqCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *faqRepoImpl) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.FaqCategory{}, id).Error
}
