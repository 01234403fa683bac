package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digital-downloads-store/internal/client"
	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Authenticate resolves a bearer token to its user, rejecting revoked
	// and expired tokens.
	Authenticate(ctx context.Context, tokenString string) (*model.User, string, error)
	Logout(ctx context.Context, jti string) error
	// ForgotPassword stores a reset token for a known email and mails the
	// reset link. Unknown emails return ErrResetUnavailable.
	ForgotPassword(ctx context.Context, email string) error
	// PruneExpiredTokens drops auth token rows past their expiry.
	PruneExpiredTokens(ctx context.Context) error
}

type authServiceImpl struct {
	userRepo    repository.UserRepository
	tokenRepo   repository.TokenRepository
	mailClient  client.MailClient
	frontendURL string
	jwtSecret   []byte
	tokenTTL    time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	mailClient client.MailClient,
	frontendURL string,
	jwtSecret string,
	tokenTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		mailClient:  mailClient,
		frontendURL: frontendURL,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueToken(ctx, user)
}

func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(ctx, user)
}

func (s *authServiceImpl) issueToken(ctx context.Context, user *model.User) (*dto.AuthResponse, error) {
	jti := uuid.NewString()
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		ID:        jti,
		Subject:   fmt.Sprint(user.ID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	err = s.tokenRepo.Create(ctx, &model.AuthToken{
		JTI:       jti,
		UserID:    user.ID,
		Name:      "auth",
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	return &dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: signed,
	}, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, tokenString string) (*model.User, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, "", ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" {
		return nil, "", ErrInvalidCredentials
	}

	// Token must still be on record: logout deletes the row.
	stored, err := s.tokenRepo.Find(ctx, claims.ID)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	return user, claims.ID, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, jti string) error {
	return s.tokenRepo.Delete(ctx, jti)
}

func (s *authServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetUnavailable
		}
		return fmt.Errorf("look up user: %w", err)
	}

	reset := &model.PasswordReset{
		Email: email,
		Token: uuid.NewString(),
	}
	if err := s.tokenRepo.SavePasswordReset(ctx, reset); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	s.mailClient.Queue(client.Mail{
		To:      email,
		Subject: "Reset your password",
		Body: fmt.Sprintf("We received a request to reset your password.\n\nReset it here: %s/reset-password?token=%s&email=%s\n\nIf this wasn't you, you can ignore this email.",
			s.frontendURL, reset.Token, email),
	})

	return nil
}

func (s *authServiceImpl) PruneExpiredTokens(ctx context.Context) error {
	return s.tokenRepo.DeleteExpired(ctx)
}
