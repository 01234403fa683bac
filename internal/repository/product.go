package repository

import (
	"context"

	"digital-downloads-store/internal/model"

	"gorm.io/gorm"
)

type ProductFilter struct {
	CategorySlug string
	Search       string
	Page         int
	PerPage      int
}

type ProductRepository interface {
	ListActive(ctx context.Context, filter ProductFilter) (*Page[model.Product], error)
	FindActiveBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindMany(ctx context.Context, ids []uint) ([]model.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]model.Product, error)
	ListRelated(ctx context.Context, product *model.Product, limit int) ([]model.Product, error)
	ListAdmin(ctx context.Context, page, perPage int) (*Page[model.Product], error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	IncrementDownloadCount(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{db: db}
}

func (r *productRepoImpl) ListActive(ctx context.Context, filter ProductFilter) (*Page[model.Product], error) {
	page, perPage := normalizePage(filter.Page, filter.PerPage, 12)

	query := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_active = ?", true)

	if filter.CategorySlug != "" {
		query = query.Where("category_id IN (?)",
			r.db.Model(&model.Category{}).Select("id").Where("slug = ?", filter.CategorySlug))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var products []model.Product
	err := query.Preload("Category").
		Order("sort_order ASC, created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return &Page[model.Product]{Data: products, Page: page, PerPage: perPage, Total: total}, nil
}

func (r *productRepoImpl) FindActiveBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepoImpl) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, ids []uint) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepoImpl) ListFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("sort_order ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepoImpl) ListRelated(ctx context.Context, product *model.Product, limit int) ([]model.Product, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ? AND id <> ?", true, product.ID)
	if product.CategoryID != nil {
		query = query.Where("category_id = ?", *product.CategoryID)
	}

	var products []model.Product
	err := query.Limit(limit).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepoImpl) ListAdmin(ctx context.Context, page, perPage int) (*Page[model.Product], error) {
	page, perPage = normalizePage(page, perPage, 20)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return &Page[model.Product]{Data: products, Page: page, PerPage: perPage, Total: total}, nil
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepoImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepoImpl) IncrementDownloadCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("download_count", gorm.Expr("download_count + 1")).Error
}

func (r *productRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepoImpl) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
