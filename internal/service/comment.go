package service

import (
	"context"
	"errors"
	"fmt"

	"digital-downloads-store/internal/client"
	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	ListForProduct(ctx context.Context, productID uint, page, perPage int) (*repository.Page[model.Comment], error)
	RecentQA(ctx context.Context, limit int) ([]model.Comment, error)
	// Create stores a draft question against a product; it stays out of
	// public listings until an admin publishes it.
	Create(ctx context.Context, userID, productID uint, body string) (*model.Comment, error)
	CreateGeneral(ctx context.Context, userID uint, body string) (*model.Comment, error)

	ListAdmin(ctx context.Context, page, perPage int) (*repository.Page[model.Comment], error)
	Moderate(ctx context.Context, id uint, req *dto.CommentModerationRequest) (*model.Comment, error)
	// Approve publishes a comment and notifies the author when an answer
	// is present.
	Approve(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	mailClient  client.MailClient
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	mailClient client.MailClient,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		mailClient:  mailClient,
	}
}

func (s *commentServiceImpl) ListForProduct(ctx context.Context, productID uint, page, perPage int) (*repository.Page[model.Comment], error) {
	return s.commentRepo.ListPublishedByProduct(ctx, productID, page, perPage)
}

func (s *commentServiceImpl) RecentQA(ctx context.Context, limit int) ([]model.Comment, error) {
	if limit < 1 || limit > 50 {
		limit = 6
	}
	return s.commentRepo.RecentQA(ctx, limit)
}

func (s *commentServiceImpl) Create(ctx context.Context, userID, productID uint, body string) (*model.Comment, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	comment := &model.Comment{
		UserID:    userID,
		ProductID: &productID,
		Body:      body,
		Status:    model.CommentStatusDraft,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if user, err := s.userRepo.FindByID(ctx, userID); err == nil {
		s.mailClient.Queue(client.Mail{
			To:      user.Email,
			Subject: "We received your question",
			Body:    fmt.Sprintf("Hi %s,\n\nThanks for your question. It will appear on the site once reviewed.", user.FirstName),
		})
	}

	return s.commentRepo.FindByID(ctx, comment.ID)
}

func (s *commentServiceImpl) CreateGeneral(ctx context.Context, userID uint, body string) (*model.Comment, error) {
	comment := &model.Comment{
		UserID: userID,
		Body:   body,
		Status: model.CommentStatusDraft,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return s.commentRepo.FindByID(ctx, comment.ID)
}

func (s *commentServiceImpl) ListAdmin(ctx context.Context, page, perPage int) (*repository.Page[model.Comment], error) {
	return s.commentRepo.ListAdmin(ctx, page, perPage)
}

func (s *commentServiceImpl) Moderate(ctx context.Context, id uint, req *dto.CommentModerationRequest) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}

	if req.Answer != nil {
		comment.Answer = *req.Answer
	}
	if req.Status != nil {
		comment.Status = model.CommentStatus(*req.Status)
	}
	if req.ShowOnHomepage != nil {
		comment.ShowOnHomepage = *req.ShowOnHomepage
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

func (s *commentServiceImpl) Approve(ctx context.Context, id uint) error {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find comment: %w", err)
	}

	comment.Status = model.CommentStatusPublished
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return fmt.Errorf("publish comment: %w", err)
	}

	if comment.Answer != "" && comment.User != nil {
		s.mailClient.Queue(client.Mail{
			To:      comment.User.Email,
			Subject: "Your question has been answered",
			Body:    fmt.Sprintf("Hi %s,\n\nYour question has been answered:\n\nQ: %s\nA: %s", comment.User.FirstName, comment.Body, comment.Answer),
		})
	}

	return nil
}

func (s *commentServiceImpl) Delete(ctx context.Context, id uint) error {
	return s.commentRepo.Delete(ctx, id)
}
