package repository

import (
	"context"

	"digital-downloads-store/internal/model"

	"gorm.io/gorm"
)

type BundleRepository interface {
	// ListActive returns active bundles with products preloaded, ordered by
	// primary key. The stable order matters: the cart applies the first
	// matching bundle.
	ListActive(ctx context.Context) ([]model.Bundle, error)
	ListHomepage(ctx context.Context) ([]model.Bundle, error)
	List(ctx context.Context) ([]model.Bundle, error)
	FindByID(ctx context.Context, id uint) (*model.Bundle, error)
	FindActiveByID(ctx context.Context, id uint) (*model.Bundle, error)
	Create(ctx context.Context, bundle *model.Bundle, productIDs []uint) error
	Update(ctx context.Context, bundle *model.Bundle, productIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

type bundleRepoImpl struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepoImpl{db: db}
}

func (r *bundleRepoImpl) ListActive(ctx context.Context) ([]model.Bundle, error) {
	var bundles []model.Bundle
	err := r.db.WithContext(ctx).
		Preload("Products").
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&bundles).Error
	if err != nil {
		return nil, err
	}
	return bundles, nil
}

func (r *bundleRepoImpl) ListHomepage(ctx context.Context) ([]model.Bundle, error) {
	var bundles []model.Bundle
	err := r.db.WithContext(ctx).
		Preload("Products").
		Where("is_active = ? AND show_on_homepage = ?", true, true).
		Order("id ASC").
		Find(&bundles).Error
	if err != nil {
		return nil, err
	}
	return bundles, nil
}

func (r *bundleRepoImpl) List(ctx context.Context) ([]model.Bundle, error) {
	var bundles []model.Bundle
	err := r.db.WithContext(ctx).
		Preload("Products").
		Order("id ASC").
		Find(&bundles).Error
	if err != nil {
		return nil, err
	}
	return bundles, nil
}

func (r *bundleRepoImpl) FindByID(ctx context.Context, id uint) (*model.Bundle, error) {
	var bundle model.Bundle
	err := r.db.WithContext(ctx).Preload("Products").First(&bundle, id).Error
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (r *bundleRepoImpl) FindActiveByID(ctx context.Context, id uint) (*model.Bundle, error) {
	var bundle model.Bundle
	err := r.db.WithContext(ctx).
		Preload("Products").
		Where("is_active = ?", true).
		First(&bundle, id).Error
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (r *bundleRepoImpl) Create(ctx context.Context, bundle *model.Bundle, productIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bundle).Error; err != nil {
			return err
		}
		return r.replaceProducts(tx, bundle, productIDs)
	})
}

func (r *bundleRepoImpl) Update(ctx context.Context, bundle *model.Bundle, productIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(bundle).Error; err != nil {
			return err
		}
		return r.replaceProducts(tx, bundle, productIDs)
	})
}

func (r *bundleRepoImpl) replaceProducts(tx *gorm.DB, bundle *model.Bundle, productIDs []uint) error {
	var products []model.Product
	if err := tx.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return err
	}
	return tx.Model(bundle).Association("Products").Replace(products)
}

func (r *bundleRepoImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bundle := model.Bundle{ID: id}
		if err := tx.Model(&bundle).Association("Products").Clear(); err != nil {
			return err
		}
		return tx.Delete(&bundle).Error
	})
}
