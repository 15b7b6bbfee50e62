package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SendEmailAPI is the subset of the SES v2 client used for notifications
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers notifications as plain-text email through Amazon SES
type SESSender struct {
	client    SendEmailAPI
	sender    string
	recipient string
}

// NewSESSender creates a new SES sender
func NewSESSender(client SendEmailAPI, sender, recipient string) *SESSender {
	return &SESSender{
		client:    client,
		sender:    sender,
		recipient: recipient,
	}
}

// Send sends one email and returns the SES message id
func (s *SESSender) Send(ctx context.Context, subject, body string) (string, error) {
	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{s.recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}
