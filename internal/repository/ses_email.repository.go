package repository

import (
	"context"
	"etfgrid/internal/domain"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesClient is the subset of *sesv2.Client used to send mail.
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type emailRepositoryHandler struct {
	sesClient sesClient
	fromEmail string
	toEmail   string
}

// NewEmailRepository sends signal mail through AWS SES. fromEmail must
// be a verified sender in region.
func NewEmailRepository(ctx context.Context, region, fromEmail, toEmail string) (NotificationRepository, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &emailRepositoryHandler{
		sesClient: sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		toEmail:   toEmail,
	}, nil
}

func (h *emailRepositoryHandler) Channel() string {
	return "email"
}

func (h *emailRepositoryHandler) Send(ctx context.Context, title, body string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(h.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{h.toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(title),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
					Html: &types.Content{
						Data:    aws.String("<pre>" + html.EscapeString(body) + "</pre>"),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := h.sesClient.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("%w: failed to send email via SES: %w", domain.ErrDelivery, err)
	}
	return nil
}
