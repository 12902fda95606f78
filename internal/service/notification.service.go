package service

import (
	"context"
	"errors"
	"etfgrid/internal/domain"
	"etfgrid/internal/logger"
	"etfgrid/internal/metrics"
	"etfgrid/internal/repository"
	"fmt"
)

// NotificationService pushes one message to every configured channel.
type NotificationService interface {
	// Notify succeeds if at least one channel delivered. With no
	// channels configured the message is only logged.
	Notify(ctx context.Context, message string) error
	Channels() []string
}

type notificationServiceHandler struct {
	Repositories []repository.NotificationRepository
}

func NewNotificationService(channels ...repository.NotificationRepository) NotificationService {
	return &notificationServiceHandler{
		Repositories: channels,
	}
}

func (h notificationServiceHandler) Channels() []string {
	out := make([]string, 0, len(h.Repositories))
	for _, r := range h.Repositories {
		out = append(out, r.Channel())
	}
	return out
}

func (h notificationServiceHandler) Notify(ctx context.Context, message string) error {
	log := logger.FromContext(ctx)

	if len(h.Repositories) == 0 {
		log.Warnf("no notification channel configured, message only logged:\n%s", message)
		return nil
	}

	errs := []error{}
	delivered := 0
	for _, r := range h.Repositories {
		err := r.Send(ctx, NotificationTitle, message)
		metrics.IncNotification(r.Channel(), err == nil)
		if err != nil {
			log.Errorf("failed to notify via %s: %v", r.Channel(), err)
			errs = append(errs, err)
			continue
		}
		log.Infof("notified via %s", r.Channel())
		delivered++
	}

	if delivered == 0 {
		log.Errorf("message not delivered on any channel:\n%s", message)
		return fmt.Errorf("%w: all %d channel(s) failed: %w", domain.ErrDelivery, len(errs), errors.Join(errs...))
	}
	return nil
}
