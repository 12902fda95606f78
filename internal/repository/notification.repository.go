package repository

//go:generate mockgen -source=notification.repository.go -destination=mocks/mock_notification.repository.go -package=mock_repository

import "context"

// NotificationRepository delivers one rendered message over a single
// channel.
type NotificationRepository interface {
	Channel() string
	Send(ctx context.Context, title, body string) error
}
