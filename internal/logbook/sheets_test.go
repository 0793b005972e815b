package logbook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/2beens/vibefit/internal/telemetry/metrics"
	"github.com/2beens/vibefit/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appendCall struct {
	Path             string
	ValueInputOption string
	InsertDataOption string
	Values           [][]interface{}
}

// sheetsTestServer emulates the two Sheets API calls the logbook makes.
type sheetsTestServer struct {
	*httptest.Server
	spreadsheetID string
	failAppends   bool

	mu      sync.Mutex
	appends []appendCall
}

func newSheetsTestServer(t *testing.T, spreadsheetID string) *sheetsTestServer {
	t.Helper()
	s := &sheetsTestServer{spreadsheetID: spreadsheetID}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *sheetsTestServer) handle(w http.ResponseWriter, r *http.Request) {
	prefix := "/v4/spreadsheets/" + s.spreadsheetID
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == prefix:
		_, _ = w.Write([]byte(`{"spreadsheetId":"` + s.spreadsheetID + `"}`))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		s.mu.Lock()
		failAppends := s.failAppends
		s.mu.Unlock()
		if failAppends {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"code":503,"message":"backend error"}}`))
			return
		}
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.appends = append(s.appends, appendCall{
			Path:             r.URL.Path,
			ValueInputOption: r.URL.Query().Get("valueInputOption"),
			InsertDataOption: r.URL.Query().Get("insertDataOption"),
			Values:           body.Values,
		})
		s.mu.Unlock()
		_, _ = w.Write([]byte(`{"spreadsheetId":"` + s.spreadsheetID + `","updates":{"updatedRows":1}}`))
	default:
		http.Error(w, `{"error":{"code":400,"message":"unexpected call"}}`, http.StatusBadRequest)
	}
}

func (s *sheetsTestServer) appendCalls() []appendCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]appendCall(nil), s.appends...)
}

func TestOpenSheets(t *testing.T) {
	srv := newSheetsTestServer(t, "sheet-1")
	ctx := context.Background()

	service, err := OpenSheets(ctx, SheetsParams{
		SpreadsheetID: "sheet-1",
		Endpoint:      srv.URL + "/",
		HTTPClient:    srv.Client(),
	})
	require.NoError(t, err)
	assert.NotNil(t, service)

	_, err = OpenSheets(ctx, SheetsParams{
		SpreadsheetID: "other-sheet",
		Endpoint:      srv.URL + "/",
		HTTPClient:    srv.Client(),
	})
	assert.Error(t, err)

	_, err = OpenSheets(ctx, SheetsParams{Endpoint: srv.URL + "/", HTTPClient: srv.Client()})
	assert.ErrorIs(t, err, ErrSheetsNotConfigured)
}

func TestOpen_AppendsOneRowPerMode(t *testing.T) {
	srv := newSheetsTestServer(t, "sheet-1")
	ctx := context.Background()

	lb := Open(ctx, OpenParams{
		SpreadsheetID:  "sheet-1",
		CoachRange:     "Workout_Logs!A:F",
		QuickRange:     "Quick_Logs!A:G",
		Location:       taipei,
		SheetsEndpoint: srv.URL + "/",
		HTTPClient:     srv.Client(),
		MetricsManager: metrics.NewTestManager(),
	})
	require.True(t, lb.Available())
	assert.Empty(t, lb.Warning())

	entry := workout.LogEntry{
		Timestamp: time.Date(2025, 3, 14, 10, 5, 9, 0, time.UTC),
		Exercise:  "深蹲 (Squat)",
		Weight:    60,
		Reps:      5,
		RPE:       8,
	}
	require.NoError(t, lb.Append(ctx, workout.ModeCoach, entry))
	require.NoError(t, lb.Append(ctx, workout.ModeQuick, entry))

	calls := srv.appendCalls()
	require.Len(t, calls, 2)

	assert.Contains(t, calls[0].Path, "Workout_Logs")
	assert.Equal(t, "USER_ENTERED", calls[0].ValueInputOption)
	assert.Equal(t, "INSERT_ROWS", calls[0].InsertDataOption)
	assert.Equal(t,
		[][]interface{}{{"2025-03-14 18:05:09", "深蹲 (Squat)", float64(60), float64(5), float64(8), false}},
		calls[0].Values,
	)

	assert.Contains(t, calls[1].Path, "Quick_Logs")
	assert.Equal(t,
		[][]interface{}{{"18:05:09", "2025-03-14", "深蹲 (Squat)", float64(60), float64(5), float64(8), "No"}},
		calls[1].Values,
	)
}

func TestSheetsAppender_Failure(t *testing.T) {
	srv := newSheetsTestServer(t, "sheet-1")
	ctx := context.Background()

	service, err := OpenSheets(ctx, SheetsParams{
		SpreadsheetID: "sheet-1",
		Endpoint:      srv.URL + "/",
		HTTPClient:    srv.Client(),
	})
	require.NoError(t, err)

	srv.mu.Lock()
	srv.failAppends = true
	srv.mu.Unlock()
	appender := NewSheetsAppender(service, "sheet-1", "Workout_Logs!A:F", CoachRow, time.UTC)
	err = appender.Append(ctx, workout.LogEntry{Exercise: "硬舉", Weight: 100, Reps: 3, RPE: 9})
	require.Error(t, err)
	assert.True(t, IsPersistenceError(err))
	assert.Empty(t, srv.appendCalls())
}
