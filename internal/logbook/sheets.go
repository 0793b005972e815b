package logbook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/vibefit/internal/telemetry/tracing"
	"github.com/2beens/vibefit/internal/workout"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	valueInputUserEntered = "USER_ENTERED"
	insertDataInsertRows  = "INSERT_ROWS"
)

var ErrSheetsNotConfigured = errors.New("spreadsheet credentials or id not set")

type SheetsParams struct {
	CredentialsJSON []byte
	SpreadsheetID   string
	// Endpoint and HTTPClient override the Google API endpoint, used in tests.
	// A set HTTPClient replaces the credentials.
	Endpoint   string
	HTTPClient *http.Client
}

// OpenSheets creates the Sheets client and verifies the spreadsheet can be read.
func OpenSheets(ctx context.Context, params SheetsParams) (*sheets.Service, error) {
	if params.SpreadsheetID == "" || (len(params.CredentialsJSON) == 0 && params.HTTPClient == nil) {
		return nil, ErrSheetsNotConfigured
	}

	var opts []option.ClientOption
	if params.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(params.HTTPClient))
	} else {
		opts = append(opts,
			option.WithCredentialsJSON(params.CredentialsJSON),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
	}
	if params.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(params.Endpoint))
	}

	// https://github.com/googleapis/google-api-go-client/blob/main/sheets/v4/sheets-gen.go
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	if _, err := service.Spreadsheets.
		Get(params.SpreadsheetID).
		Fields("spreadsheetId").
		Context(ctx).
		Do(); err != nil {
		return nil, fmt.Errorf("open spreadsheet [%s]: %w", params.SpreadsheetID, err)
	}

	return service, nil
}

// SheetsAppender appends rows to one range (worksheet) of a spreadsheet.
type SheetsAppender struct {
	service       *sheets.Service
	spreadsheetID string
	sheetRange    string
	format        RowFormat
	loc           *time.Location
}

func NewSheetsAppender(
	service *sheets.Service,
	spreadsheetID, sheetRange string,
	format RowFormat,
	loc *time.Location,
) *SheetsAppender {
	return &SheetsAppender{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
		format:        format,
		loc:           loc,
	}
}

func (a *SheetsAppender) Name() string {
	return "sheets"
}

func (a *SheetsAppender) Append(ctx context.Context, entry workout.LogEntry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logbook.sheets.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("sheets.range", a.sheetRange))

	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{a.format(entry, a.loc)},
	}
	if _, err := a.service.Spreadsheets.Values.
		Append(a.spreadsheetID, a.sheetRange, valueRange).
		ValueInputOption(valueInputUserEntered).
		InsertDataOption(insertDataInsertRows).
		Context(ctx).
		Do(); err != nil {
		return &PersistenceError{Store: a.Name(), Err: err}
	}

	return nil
}
