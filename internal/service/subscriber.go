package service

import (
	"context"
	"fmt"

	"digital-downloads-store/internal/client"
	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"
)

type NewsletterStats struct {
	TotalSubscribers  int64 `json:"total_subscribers"`
	ActiveSubscribers int64 `json:"active_subscribers"`
	Unsubscribed      int64 `json:"unsubscribed"`
}

type SubscriberService interface {
	Subscribe(ctx context.Context, req *dto.SubscribeRequest, ipAddress string) error
	Unsubscribe(ctx context.Context, email string) error

	ListAdmin(ctx context.Context, page, perPage int) (*repository.Page[model.Subscriber], int64, int64, error)
	ExportActive(ctx context.Context) ([]model.Subscriber, error)
	Stats(ctx context.Context) (*NewsletterStats, error)
	// SendCampaign queues the campaign mail to every active subscriber and
	// returns how many were queued.
	SendCampaign(ctx context.Context, subject, content string) (int, error)
}

type subscriberServiceImpl struct {
	subscriberRepo repository.SubscriberRepository
	mailClient     client.MailClient
	frontendURL    string
}

func NewSubscriberService(
	subscriberRepo repository.SubscriberRepository,
	mailClient client.MailClient,
	frontendURL string,
) SubscriberService {
	return &subscriberServiceImpl{
		subscriberRepo: subscriberRepo,
		mailClient:     mailClient,
		frontendURL:    frontendURL,
	}
}

func (s *subscriberServiceImpl) Subscribe(ctx context.Context, req *dto.SubscribeRequest, ipAddress string) error {
	source := req.Source
	if source == "" {
		source = "newsletter"
	}

	sub := &model.Subscriber{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Source:    source,
		IPAddress: ipAddress,
	}
	if err := s.subscriberRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("upsert subscriber: %w", err)
	}

	s.mailClient.Queue(client.Mail{
		To:      req.Email,
		Subject: "Welcome to the newsletter",
		Body: fmt.Sprintf("Thanks for subscribing!\n\nUnsubscribe any time: %s/unsubscribe/%s",
			s.frontendURL, req.Email),
	})

	return nil
}

func (s *subscriberServiceImpl) Unsubscribe(ctx context.Context, email string) error {
	return s.subscriberRepo.Unsubscribe(ctx, email)
}

func (s *subscriberServiceImpl) ListAdmin(ctx context.Context, page, perPage int) (*repository.Page[model.Subscriber], int64, int64, error) {
	result, err := s.subscriberRepo.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("list subscribers: %w", err)
	}

	_, active, unsubscribed, err := s.subscriberRepo.Counts(ctx)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("count subscribers: %w", err)
	}

	return result, active, unsubscribed, nil
}

func (s *subscriberServiceImpl) ExportActive(ctx context.Context) ([]model.Subscriber, error) {
	return s.subscriberRepo.ListActive(ctx)
}

func (s *subscriberServiceImpl) Stats(ctx context.Context) (*NewsletterStats, error) {
	total, active, unsubscribed, err := s.subscriberRepo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count subscribers: %w", err)
	}
	return &NewsletterStats{
		TotalSubscribers:  total,
		ActiveSubscribers: active,
		Unsubscribed:      unsubscribed,
	}, nil
}

func (s *subscriberServiceImpl) SendCampaign(ctx context.Context, subject, content string) (int, error) {
	subscribers, err := s.subscriberRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active subscribers: %w", err)
	}

	for _, sub := range subscribers {
		s.mailClient.Queue(client.Mail{
			To:      sub.Email,
			Subject: subject,
			Body: fmt.Sprintf("%s\n\n--\nUnsubscribe: %s/unsubscribe/%s",
				content, s.frontendURL, sub.Email),
		})
	}

	return len(subscribers), nil
}
