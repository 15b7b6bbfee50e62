package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// CredentialsFunc resolves service account JSON when the Sheets client is first needed.
// Returning nil credentials leaves the client on application default credentials.
type CredentialsFunc func(ctx context.Context) ([]byte, error)

// SheetsAppender appends rows to a Google Sheets worksheet.
// The client is built on the first append, so credential lookup failures
// surface as WriteError on that request instead of at startup.
type SheetsAppender struct {
	spreadsheetID string
	sheetName     string
	credentials   CredentialsFunc
	opts          []option.ClientOption

	mu  sync.Mutex
	svc *sheets.Service
}

// NewSheetsAppender returns an appender for the given spreadsheet and worksheet.
// credentials may be nil; opts are added after the credential options.
func NewSheetsAppender(spreadsheetID, sheetName string, credentials CredentialsFunc, opts ...option.ClientOption) *SheetsAppender {
	return &SheetsAppender{
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		credentials:   credentials,
		opts:          opts,
	}
}

// SheetsOptions builds client options from service account JSON.
// Nil credentials fall back to application default credentials.
func SheetsOptions(credentials []byte) []option.ClientOption {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if len(credentials) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentials))
	}
	return opts
}

// service returns the cached client, building it on first use.
// A failed build is not cached; the next append tries again.
func (a *SheetsAppender) service(ctx context.Context) (*sheets.Service, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.svc != nil {
		return a.svc, nil
	}

	var creds []byte
	if a.credentials != nil {
		var err error
		if creds, err = a.credentials(ctx); err != nil {
			return nil, &WriteError{Cause: fmt.Sprintf("failed to load sheets credentials: %v", err), Err: err}
		}
	}

	// the client keeps this context for token refreshes
	svc, err := sheets.NewService(context.WithoutCancel(ctx), append(SheetsOptions(creds), a.opts...)...)
	if err != nil {
		return nil, &WriteError{Cause: fmt.Sprintf("failed to create sheets service: %v", err), Err: err}
	}
	a.svc = svc
	return svc, nil
}

// reset drops the cached client so rotated credentials are picked up on the next append
func (a *SheetsAppender) reset() {
	a.mu.Lock()
	a.svc = nil
	a.mu.Unlock()
}

// AppendRow appends one row below the last row of the worksheet
func (a *SheetsAppender) AppendRow(ctx context.Context, row Row) (Ack, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return Ack{}, err
	}

	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	resp, err := svc.Spreadsheets.Values.
		Append(a.spreadsheetID, a.targetRange(), &sheets.ValueRange{
			Values: [][]interface{}{values},
		}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			if gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden {
				a.reset()
			}
			if gerr.Message != "" {
				return Ack{}, &WriteError{Cause: gerr.Message, Err: err}
			}
		}
		return Ack{}, &WriteError{Cause: err.Error(), Err: err}
	}

	ack := Ack{}
	if resp.Updates != nil {
		ack.Ref = resp.Updates.UpdatedRange
	}
	return ack, nil
}

func (a *SheetsAppender) targetRange() string {
	name := strings.ReplaceAll(a.sheetName, "'", "''")
	return fmt.Sprintf("'%s'!A:F", name)
}
