package repository

import (
	"context"
	"time"

	"digital-downloads-store/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository stores issued token IDs so bearer tokens stay revocable,
// and the per-email password reset tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *model.AuthToken) error
	Find(ctx context.Context, jti string) (*model.AuthToken, error)
	Delete(ctx context.Context, jti string) error
	DeleteExpired(ctx context.Context) error
	SavePasswordReset(ctx context.Context, reset *model.PasswordReset) error
}

type tokenRepoImpl struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepoImpl{db: db}
}

func (r *tokenRepoImpl) Create(ctx context.Context, token *model.AuthToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepoImpl) Find(ctx context.Context, jti string) (*model.AuthToken, error) {
	var token model.AuthToken
	err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepoImpl) Delete(ctx context.Context, jti string) error {
	return r.db.WithContext(ctx).Delete(&model.AuthToken{}, "jti = ?", jti).Error
}

func (r *tokenRepoImpl) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.AuthToken{}).Error
}

func (r *tokenRepoImpl) SavePasswordReset(ctx context.Context, reset *model.PasswordReset) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "created_at"}),
	}).Create(reset).Error
}
