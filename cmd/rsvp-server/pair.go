package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/logging"
	"wedding-rsvp/internal/whatsapp"
)

func newPairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pair",
		Short: "Link a WhatsApp account for operator notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			log := logging.New(cfg.LogLevel, cfg.LogPretty)

			svc, err := whatsapp.NewService(cmd.Context(), &whatsapp.Config{
				DataDir:       cfg.WhatsAppDataDir,
				OperatorPhone: cfg.OperatorPhone,
				CountryCode:   cfg.CountryCode,
			}, log)
			if err != nil {
				return err
			}
			if svc.IsPaired() {
				fmt.Fprintln(cmd.OutOrStdout(), "✅ WhatsApp is already paired.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Connecting to WhatsApp...")
			if err := svc.Connect(cmd.Context()); err != nil {
				return err
			}
			defer svc.Disconnect()

			if !svc.IsPaired() {
				return fmt.Errorf("pairing did not complete")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Connected to WhatsApp!")
			return nil
		},
	}
}
