package service

import (
	"context"
	"testing"
	"time"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (AuthService, *fakeMailClient, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	mail := &fakeMailClient{}
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewTokenRepository(db),
		mail,
		"https://store.test",
		"test-secret",
		time.Hour,
	)
	return svc, mail, db
}

func registerReq(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  "secret-password",
	}
}

func TestRegister_IssuesWorkingToken(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	resp, err := svc.Register(context.Background(), registerReq("jane@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.Equal(t, "Jane Doe", resp.User.Name)

	user, _, err := svc.Authenticate(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	_, err := svc.Register(context.Background(), registerReq("jane@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq("jane@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	_, err := svc.Register(context.Background(), registerReq("jane@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Succeeds(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	_, err := svc.Register(context.Background(), registerReq("jane@example.com"))
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	resp, err := svc.Register(context.Background(), registerReq("jane@example.com"))
	require.NoError(t, err)

	_, jti, err := svc.Authenticate(context.Background(), resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), jti))

	// the signature is still valid, but the stored token row is gone
	_, _, err = svc.Authenticate(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_RejectsGarbage(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	_, _, err := svc.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_RejectsForeignSignature(t *testing.T) {
	svc, _, db := setupAuthService(t)
	other := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewTokenRepository(db),
		&fakeMailClient{},
		"https://store.test",
		"different-secret",
		time.Hour,
	)

	resp, err := other.Register(context.Background(), registerReq("jane@example.com"))
	require.NoError(t, err)

	_, _, err = svc.Authenticate(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestForgotPassword_MailsResetLink(t *testing.T) {
	svc, mail, db := setupAuthService(t)
	_, err := svc.Register(context.Background(), registerReq("jane@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "jane@example.com"))

	var reset model.PasswordReset
	require.NoError(t, db.First(&reset, "email = ?", "jane@example.com").Error)
	require.NotEmpty(t, reset.Token)

	mails := mail.mails()
	require.Len(t, mails, 1)
	assert.Equal(t, "jane@example.com", mails[0].To)
	assert.Contains(t, mails[0].Body, "/reset-password?token="+reset.Token)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	svc, mail, _ := setupAuthService(t)

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrResetUnavailable)
	assert.Empty(t, mail.mails())
}

func TestForgotPassword_ReplacesPreviousToken(t *testing.T) {
	svc, _, db := setupAuthService(t)
	_, err := svc.Register(context.Background(), registerReq("jane@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "jane@example.com"))
	var first model.PasswordReset
	require.NoError(t, db.First(&first, "email = ?", "jane@example.com").Error)

	require.NoError(t, svc.ForgotPassword(context.Background(), "jane@example.com"))

	var resets []model.PasswordReset
	require.NoError(t, db.Find(&resets, "email = ?", "jane@example.com").Error)
	require.Len(t, resets, 1)
	assert.NotEqual(t, first.Token, resets[0].Token)
}

func TestPruneExpiredTokens_DropsOnlyExpired(t *testing.T) {
	svc, _, db := setupAuthService(t)
	resp, err := svc.Register(context.Background(), registerReq("jane@example.com"))
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.AuthToken{
		JTI:       "stale-token",
		UserID:    resp.User.ID,
		Name:      "auth",
		ExpiresAt: time.Now().Add(-time.Minute),
	}).Error)

	require.NoError(t, svc.PruneExpiredTokens(context.Background()))

	var count int64
	require.NoError(t, db.Model(&model.AuthToken{}).Where("jti = ?", "stale-token").Count(&count).Error)
	assert.Zero(t, count)

	// the live session survives the sweep
	_, _, err = svc.Authenticate(context.Background(), resp.Token)
	assert.NoError(t, err)
}
