package client

import (
	"log/slog"
	"net/smtp"
	"sync"

	"digital-downloads-store/internal/config"
)

type Mail struct {
	To      string
	Subject string
	Body    string
}

// MailClient queues mail for background delivery. Delivery is best-effort:
// a failed send is logged and dropped, never surfaced to the request that
// queued it.
type MailClient interface {
	Queue(mail Mail)
	Close()
}

type mailClientImpl struct {
	cfg   config.SMTP
	queue chan Mail
	wg    sync.WaitGroup
}

func NewMailClient(cfg config.SMTP) MailClient {
	c := &mailClientImpl{
		cfg:   cfg,
		queue: make(chan Mail, 256),
	}

	c.wg.Add(1)
	go c.worker()

	return c
}

func (c *mailClientImpl) Queue(mail Mail) {
	select {
	case c.queue <- mail:
	default:
		slog.Warn("mail queue full, dropping message", slog.String("to", mail.To), slog.String("subject", mail.Subject))
	}
}

func (c *mailClientImpl) Close() {
	close(c.queue)
	c.wg.Wait()
}

func (c *mailClientImpl) worker() {
	defer c.wg.Done()

	for mail := range c.queue {
		if err := c.send(mail); err != nil {
			slog.Error("send mail", slog.String("to", mail.To), slog.Any("error", err))
			continue
		}
		slog.Info("mail sent", slog.String("to", mail.To), slog.String("subject", mail.Subject))
	}
}

func (c *mailClientImpl) send(mail Mail) error {
	if c.cfg.Host == "" {
		// No SMTP configured (local dev): log instead of sending.
		slog.Info("mail (smtp disabled)", slog.String("to", mail.To), slog.String("subject", mail.Subject))
		return nil
	}

	message := []byte("From: " + c.cfg.From + "\r\n" +
		"To: " + mail.To + "\r\n" +
		"Subject: " + mail.Subject + "\r\n" +
		"\r\n" +
		mail.Body + "\r\n")

	auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	return smtp.SendMail(c.cfg.Host+":"+c.cfg.Port, auth, c.cfg.From, []string{mail.To}, message)
}
