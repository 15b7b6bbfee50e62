package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/storage"
)

func newRecordsCmd() *cobra.Command {
	var status string
	var path string

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List RSVPs kept in the local SQLite store",
		RunE: func(cmd *cobra.Command, args []string) error {
			label := ""
			if status != "" {
				a, ok := models.ParseAttendanceName(status)
				if !ok {
					return fmt.Errorf("invalid status %q (want attending, not-attending or unspecified)", status)
				}
				label = a.Label()
			}

			if path == "" {
				path = config.LoadConfig().SQLitePath
			}
			s, err := storage.NewSQLiteAppender(path)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.ListRecords(cmd.Context(), label)
			if err != nil {
				return err
			}
			printRecords(cmd.OutOrStdout(), records, status)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by attendance: attending, not-attending, unspecified")
	cmd.Flags().StringVar(&path, "db", "", "SQLite file (overrides SQLITE_PATH)")
	return cmd
}

func printRecords(w io.Writer, records []storage.StoredRecord, status string) {
	if len(records) == 0 {
		if status != "" {
			fmt.Fprintf(w, "\nNo RSVPs with status '%s'.\n", status)
		} else {
			fmt.Fprintln(w, "\nNo RSVPs found.")
		}
		return
	}

	fmt.Fprintf(w, "\n📋 RSVPs (%d total):\n", len(records))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, r := range records {
		row := r.Row
		fmt.Fprintf(w, "Name: %s (%s)\n", row[0], row[1])
		fmt.Fprintf(w, "Attendance: %s\n", row[2])
		fmt.Fprintf(w, "Email: %s\n", row[3])
		if row[4] != "" {
			fmt.Fprintf(w, "Allergy: %s\n", row[4])
		}
		if row[5] != "" {
			fmt.Fprintf(w, "Message: %s\n", row[5])
		}
		fmt.Fprintf(w, "Received: %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(w, strings.Repeat("-", 60))
	}
}
