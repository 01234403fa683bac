package service

import (
	"context"
	"fmt"

	"digital-downloads-store/internal/client"
	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"
)

type ContactService interface {
	// Submit stores the message, queues confirmation and admin notification
	// mails, and auto-subscribes the sender unless opted out.
	Submit(ctx context.Context, req *dto.ContactRequest) error
	ListAdmin(ctx context.Context, page, perPage int) (*repository.Page[model.ContactMessage], error)
	MarkRead(ctx context.Context, id uint) error
}

type contactServiceImpl struct {
	contactRepo    repository.ContactRepository
	subscriberRepo repository.SubscriberRepository
	mailClient     client.MailClient
	adminEmail     string
}

func NewContactService(
	contactRepo repository.ContactRepository,
	subscriberRepo repository.SubscriberRepository,
	mailClient client.MailClient,
	adminEmail string,
) ContactService {
	return &contactServiceImpl{
		contactRepo:    contactRepo,
		subscriberRepo: subscriberRepo,
		mailClient:     mailClient,
		adminEmail:     adminEmail,
	}
}

func (s *contactServiceImpl) Submit(ctx context.Context, req *dto.ContactRequest) error {
	message := &model.ContactMessage{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Message:   req.Message,
	}
	if err := s.contactRepo.Create(ctx, message); err != nil {
		return fmt.Errorf("store contact message: %w", err)
	}

	name := req.FirstName + " " + req.LastName

	s.mailClient.Queue(client.Mail{
		To:      req.Email,
		Subject: "We got your message",
		Body:    fmt.Sprintf("Hi %s,\n\nThanks for reaching out. We'll be in touch soon.", req.FirstName),
	})

	if s.adminEmail != "" {
		s.mailClient.Queue(client.Mail{
			To:      s.adminEmail,
			Subject: "New contact form message",
			Body:    fmt.Sprintf("From: %s <%s>\n\n%s", name, req.Email, req.Message),
		})
	}

	// Opt-out model: subscribe unless explicitly declined.
	if req.SubscribeNewsletter == nil || *req.SubscribeNewsletter {
		sub := &model.Subscriber{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Source:    "contact_form",
		}
		if err := s.subscriberRepo.Upsert(ctx, sub); err != nil {
			return fmt.Errorf("auto-subscribe: %w", err)
		}
	}

	return nil
}

func (s *contactServiceImpl) ListAdmin(ctx context.Context, page, perPage int) (*repository.Page[model.ContactMessage], error) {
	return s.contactRepo.List(ctx, page, perPage)
}

func (s *contactServiceImpl) MarkRead(ctx context.Context, id uint) error {
	return s.contactRepo.MarkRead(ctx, id)
}
