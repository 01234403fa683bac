package repository

import (
	"context"

	"gorm.io/gorm"
)

// ContentRepository is shared by the homepage content tables (hero slides,
// features, stats, showcases, social links, navigation links). They all have
// the same lifecycle: admin CRUD over every row, public reads over active
// rows in display order.
type ContentRepository[T any] interface {
	ListActive(ctx context.Context) ([]T, error)
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, row *T) error
	Delete(ctx context.Context, id uint) error
}

type contentRepoImpl[T any] struct {
	db      *gorm.DB
	orderBy string
}

// NewContentRepository builds a repository for one content table. orderBy is
// the listing order, e.g. "sort_order ASC, id ASC".
func NewContentRepository[T any](db *gorm.DB, orderBy string) ContentRepository[T] {
	return &contentRepoImpl[T]{db: db, orderBy: orderBy}
}

func (r *contentRepoImpl[T]) ListActive(ctx context.Context) ([]T, error) {
	var rows []T
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order(r.orderBy).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contentRepoImpl[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	err := r.db.WithContext(ctx).Order(r.orderBy).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contentRepoImpl[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).First(&row, id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *contentRepoImpl[T]) Create(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *contentRepoImpl[T]) Update(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *contentRepoImpl[T]) Delete(ctx context.Context, id uint) error {
	var row T
	return r.db.WithContext(ctx).Delete(&row, id).Error
}
