package whatsapp

import (
	"context"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
)

type Config struct {
	DataDir       string
	OperatorPhone string
	CountryCode   string
}

// Service delivers operator notifications over a linked WhatsApp account
type Service struct {
	client *whatsmeow.Client
	cfg    *Config
	log    zerolog.Logger
}

// NewService creates a new WhatsApp service
func NewService(ctx context.Context, cfg *Config, logger zerolog.Logger) (*Service, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Use nil logger - sqlstore will use a no-op logger by default
	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s/whatsmeow.db?_foreign_keys=on", cfg.DataDir), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	service := &Service{
		client: whatsmeow.NewClient(deviceStore, nil),
		cfg:    cfg,
		log:    logger.With().Str("component", "WhatsApp").Logger(),
	}

	service.client.AddEventHandler(service.eventHandler)

	return service, nil
}

// NormalizePhoneNumber strips formatting and replaces a domestic trunk
// prefix (leading 0) with the country code, e.g. 090-1234-5678 -> 819012345678
func NormalizePhoneNumber(phoneNumber, countryCode string) string {
	phoneNumber = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phoneNumber)

	if countryCode == "" {
		return phoneNumber
	}

	if strings.HasPrefix(phoneNumber, "0") && !strings.HasPrefix(phoneNumber, "00") {
		return countryCode + phoneNumber[1:]
	}

	// Country code followed by the trunk prefix, e.g. 81090...
	if strings.HasPrefix(phoneNumber, countryCode+"0") {
		return countryCode + phoneNumber[len(countryCode)+1:]
	}

	return phoneNumber
}

// IsPaired reports whether a WhatsApp account is linked to this device
func (s *Service) IsPaired() bool {
	return s.client.Store.ID != nil
}

// Connect connects to WhatsApp, printing a pairing QR code when the device is not linked yet
func (s *Service) Connect(ctx context.Context) error {
	if s.IsPaired() {
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	}

	qrChan, _ := s.client.GetQRChannel(ctx)
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	for evt := range qrChan {
		if evt.Event != "code" {
			s.log.Info().Str("event", evt.Event).Msg("Login event")
			continue
		}
		// Generate and display QR code in terminal
		q, err := qrcode.New(evt.Code, qrcode.Medium)
		if err != nil {
			fmt.Printf("QR Code: %s\n", evt.Code)
			fmt.Println("Please scan this QR code with WhatsApp to connect.")
			continue
		}
		fmt.Println("\n" + q.ToSmallString(false))
		fmt.Println("📱 Please scan the QR code above with WhatsApp:")
		fmt.Println("   1. Open WhatsApp on your phone")
		fmt.Println("   2. Go to Settings > Linked Devices")
		fmt.Println("   3. Tap 'Link a Device'")
		fmt.Println("   4. Scan the QR code shown above")
	}
	return nil
}

// Disconnect disconnects from WhatsApp
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// Send delivers a notification to the operator and returns the message id
func (s *Service) Send(ctx context.Context, subject, body string) (string, error) {
	phoneNumber := NormalizePhoneNumber(s.cfg.OperatorPhone, s.cfg.CountryCode)
	if phoneNumber == "" {
		return "", fmt.Errorf("operator phone number is not configured")
	}

	// Verify the number is on WhatsApp before sending
	resp, err := s.client.IsOnWhatsApp(ctx, []string{"+" + phoneNumber})
	if err != nil {
		return "", fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return "", fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}
	jid := resp[0].JID

	s.log.Debug().Str("jid", jid.String()).Str("phone", phoneNumber).Msg("Attempting to send message")

	text := FormatMessage(subject, body)
	sent, err := s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send message to %s: %w", jid.String(), err)
	}

	s.log.Info().Str("id", string(sent.ID)).Time("timestamp", sent.Timestamp).Msg("Message sent")
	return string(sent.ID), nil
}

// FormatMessage renders a subject and body as one chat message
func FormatMessage(subject, body string) string {
	return fmt.Sprintf("*%s*\n\n%s", subject, body)
}

// eventHandler handles WhatsApp connection events
func (s *Service) eventHandler(evt interface{}) {
	switch evt.(type) {
	case *events.Connected:
		s.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		s.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		s.log.Warn().Msg("Logged out from WhatsApp")
	}
}
