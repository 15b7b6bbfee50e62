package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/rs/zerolog"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/handler"
	"wedding-rsvp/internal/notify"
	"wedding-rsvp/internal/storage"
	"wedding-rsvp/internal/whatsapp"
)

// App is the assembled submission pipeline
type App struct {
	Handler  *handler.RSVPHandler
	WhatsApp *whatsapp.Service

	closers []func()
}

// Close releases store connections and the WhatsApp session
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// New builds the record store and notifier selected by cfg and wires them into the RSVP handler
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	a := &App{}
	appender, err := a.newAppender(ctx, cfg, awsCfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	sender, err := a.newSender(ctx, cfg, awsCfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Handler = handler.NewRSVPHandler(storage.NewWriter(appender), notify.NewNotifier(sender), logger)
	logger.Info().
		Str("store", cfg.StoreBackend).
		Str("notify", cfg.NotifyChannel).
		Msg("RSVP pipeline ready")
	return a, nil
}

func (a *App) newAppender(ctx context.Context, cfg *config.Config, awsCfg aws.Config) (storage.Appender, error) {
	switch cfg.StoreBackend {
	case config.StoreSheets:
		var secrets storage.SecretGetter
		if storage.NeedsSecretsManager(cfg.CredentialRef) {
			secrets = secretsmanager.NewFromConfig(awsCfg)
		}
		creds := storage.CredentialsFrom(cfg.CredentialRef, secrets)
		return storage.NewSheetsAppender(cfg.SpreadsheetID, cfg.SheetName, creds), nil

	case config.StoreSQLite:
		s, err := storage.NewSQLiteAppender(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = s.Close() })
		return s, nil

	case config.StorePostgres:
		p, err := storage.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, p.Close)
		return p, nil

	case config.StoreDynamoDB:
		return storage.NewDynamoAppender(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func (a *App) newSender(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger zerolog.Logger) (notify.Sender, error) {
	switch cfg.NotifyChannel {
	case config.NotifySES:
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.SenderEmail, cfg.RecipientEmail), nil

	case config.NotifyWhatsApp:
		svc, err := whatsapp.NewService(ctx, &whatsapp.Config{
			DataDir:       cfg.WhatsAppDataDir,
			OperatorPhone: cfg.OperatorPhone,
			CountryCode:   cfg.CountryCode,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize WhatsApp: %w", err)
		}
		if !svc.IsPaired() {
			return nil, fmt.Errorf("WhatsApp is not paired; run the pair command first")
		}
		if err := svc.Connect(ctx); err != nil {
			return nil, err
		}
		a.WhatsApp = svc
		a.closers = append(a.closers, svc.Disconnect)
		return svc, nil

	case config.NotifyLog:
		return notify.NewLogSender(logger), nil
	}
	return nil, fmt.Errorf("unknown notify channel %q", cfg.NotifyChannel)
}
