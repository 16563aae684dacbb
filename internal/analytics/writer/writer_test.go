package writer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pkgbigquery "github.com/gemvault/gemvault-backend/pkg/bigquery"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
)

func TestNewWriterValidation(t *testing.T) {
	if _, err := New(nil, Config{Table: "history"}); err == nil {
		t.Fatal("expected error when client missing")
	}
	if _, err := New(&pkgbigquery.Client{}, Config{Table: " "}); err == nil {
		t.Fatal("expected error when table missing")
	}
}

func TestEncodeJSON(t *testing.T) {
	nj, err := EncodeJSON(map[string]any{"foo": "bar"})
	if err != nil {
		t.Fatalf("unexpected error encoding json: %v", err)
	}
	if !nj.Valid {
		t.Fatal("expected json to be marked valid")
	}

	nj, err = EncodeJSON(nil)
	if err != nil || nj.Valid {
		t.Fatalf("expected nil json to be invalid, got %+v err=%v", nj, err)
	}

	raw := json.RawMessage(`{"foo":"baz"}`)
	nj, err = EncodeJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error encoding raw json: %v", err)
	}
	if nj.JSONVal != string(raw) {
		t.Fatalf("expected raw json passed through, got %s", nj.JSONVal)
	}
}

func TestExportRetriesOnTransientError(t *testing.T) {
	writer, fake := newWriterWithFakeInserter(t)
	fake.responses = []error{
		&googleapi.Error{Code: http.StatusServiceUnavailable},
		nil,
	}

	if err := writer.ExportHistory(context.Background(), historyRows(1)); err != nil {
		t.Fatalf("unexpected error writing rows: %v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected two insert attempts, got %d", len(fake.calls))
	}
	if fake.calls[1].table != "analytics_history" {
		t.Fatalf("expected history table on retry, got %s", fake.calls[1].table)
	}
}

func TestExportStopsOnPermanentError(t *testing.T) {
	writer, fake := newWriterWithFakeInserter(t)
	fake.responses = []error{&googleapi.Error{Code: http.StatusBadRequest}}

	if err := writer.ExportHistory(context.Background(), historyRows(1)); err == nil {
		t.Fatal("expected permanent error")
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(fake.calls))
	}
}

func TestExportBatches(t *testing.T) {
	writer, fake := newWriterWithFakeInserter(t)
	writer.batchSize = 2

	if err := writer.ExportHistory(context.Background(), historyRows(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 3 {
		t.Fatalf("expected three batches, got %d", len(fake.calls))
	}
	if fake.calls[2].rowCount != 1 {
		t.Fatalf("expected trailing batch of one row, got %d", fake.calls[2].rowCount)
	}
}

func TestRetryableClassification(t *testing.T) {
	if !isRetryableBigQueryError(status.Error(codes.Unavailable, "down")) {
		t.Fatal("expected unavailable to be retryable")
	}
	if isRetryableBigQueryError(status.Error(codes.InvalidArgument, "bad")) {
		t.Fatal("expected invalid argument not to be retryable")
	}
	if isRetryableBigQueryError(errors.New("plain")) {
		t.Fatal("expected plain error not to be retryable")
	}
}

type insertCall struct {
	table    string
	rowCount int
}

type fakeInserter struct {
	responses []error
	calls     []insertCall
	index     int
}

func (f *fakeInserter) InsertRows(_ context.Context, table string, rows []any) error {
	f.calls = append(f.calls, insertCall{table: table, rowCount: len(rows)})
	var err error
	if f.index < len(f.responses) {
		err = f.responses[f.index]
	}
	f.index++
	return err
}

func newWriterWithFakeInserter(t *testing.T) (*HistoryWriter, *fakeInserter) {
	t.Helper()
	writer, err := New(&pkgbigquery.Client{}, Config{
		Table:       "analytics_history",
		RetryPolicy: RetryPolicy{InitialBackoff: time.Millisecond, MaximumBackoff: time.Millisecond},
	})
	if err != nil {
		t.Fatalf("construct writer: %v", err)
	}

	fake := &fakeInserter{}
	writer.client = fake
	return writer, fake
}

func historyRows(n int) []models.AnalyticsHistory {
	rows := make([]models.AnalyticsHistory, n)
	for i := range rows {
		rows[i] = models.AnalyticsHistory{
			ID:             uuid.New(),
			MetricType:     enums.MetricNetRevenue,
			CalculatedData: json.RawMessage(`{"netRevenue":"1"}`),
			SnapshotDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return rows
}
