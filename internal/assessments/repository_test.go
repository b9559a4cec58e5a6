package assessments_test

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/tuya-yu/HeartDrawing/internal/assessments"
	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/internal/workflow"
	"github.com/tuya-yu/HeartDrawing/pkg/lifecycle"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
	"github.com/tuya-yu/HeartDrawing/pkg/pagination"
	"github.com/tuya-yu/HeartDrawing/pkg/storage"
)

var discard = slog.New(slog.DiscardHandler)

var assessmentColumns = []string{
	"id", "language", "classification", "fix_signal", "report", "result",
	"total_tokens", "prompt_tokens", "completion_tokens", "image_key", "created_at",
}

var drawing = base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))

type stubModel struct {
	verdict string
	calls   *atomic.Int64
}

func (m stubModel) Name() string { return "stub" }

func (m stubModel) Invoke(_ context.Context, _ string, user llm.Turn) (*llm.Response, error) {
	m.calls.Add(1)
	text := "analysis"
	if strings.Contains(user.Text, `{"result": true}`) {
		text = m.verdict
	}
	return &llm.Response{
		Text:  text,
		Usage: llm.Usage{TotalTokens: 15, PromptTokens: 10, CompletionTokens: 5},
	}, nil
}

type memStorage struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	types   map[string]string
	deleted []string
}

func newMemStorage() *memStorage {
	return &memStorage{blobs: map[string][]byte{}, types: map[string]string{}}
}

func (s *memStorage) Start(*lifecycle.Coordinator) error { return nil }

func (s *memStorage) Upload(_ context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	s.types[key] = contentType
	return nil
}

func (s *memStorage) Download(_ context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, "", storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), s.types[key], nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type fixture struct {
	sys     assessments.System
	mock    sqlmock.Sqlmock
	storage *memStorage
	calls   *atomic.Int64
}

func newFixture(t *testing.T, verdict string) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}

	calls := &atomic.Int64{}
	rt := &workflow.Runtime{
		Text:    stubModel{verdict: verdict, calls: calls},
		Prompts: prompts.NewStore("", nil, discard),
		Logger:  discard,
	}
	store := newMemStorage()

	return &fixture{
		sys:     assessments.New(db, store, rt, discard, cfg),
		mock:    mock,
		storage: store,
		calls:   calls,
	}
}

func assessmentRow(id uuid.UUID, key any) *sqlmock.Rows {
	return sqlmock.NewRows(assessmentColumns).AddRow(
		id.String(), "zh", false, workflow.FixSignalZH, workflow.FixSignalZH,
		`{"merge":"m","final":"f","signal":"s","classification":false}`,
		180, 120, 60, key, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	)
}

// keyPattern matches the archive key of a new assessment.
type keyPattern struct{}

func (keyPattern) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && regexp.MustCompile(`^assessments/[0-9a-f-]{36}/drawing$`).MatchString(s)
}

func TestPredictRecordsAssessment(t *testing.T) {
	f := newFixture(t, `{"result": false}`)
	id := uuid.New()

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO assessments")).
		WithArgs(
			sqlmock.AnyArg(), "zh", false, workflow.FixSignalZH, workflow.FixSignalZH,
			sqlmock.AnyArg(), 180, 120, 60, keyPattern{},
		).
		WillReturnRows(assessmentRow(id, "assessments/"+id.String()+"/drawing"))
	f.mock.ExpectCommit()

	a, err := f.sys.Predict(context.Background(), assessments.PredictCommand{Image: drawing})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	if a.ID != id || a.Classification || a.FixSignal == nil {
		t.Errorf("assessment = %+v", a)
	}
	if a.Result == nil || a.Result.Final != "f" {
		t.Errorf("result = %+v", a.Result)
	}
	if len(f.storage.blobs) != 1 {
		t.Fatalf("blobs = %d, want 1", len(f.storage.blobs))
	}
	for key, typ := range f.storage.types {
		if typ != "image/png" {
			t.Errorf("%s content type = %q", key, typ)
		}
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPredictInvalidLanguageTouchesNothing(t *testing.T) {
	f := newFixture(t, "true")

	_, err := f.sys.Predict(context.Background(), assessments.PredictCommand{Image: drawing, Language: "fr"})
	if !errors.Is(err, workflow.ErrInvalidLanguage) {
		t.Fatalf("err = %v, want ErrInvalidLanguage", err)
	}
	if got := assessments.MapHTTPStatus(err); got != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", got)
	}
	if len(f.storage.blobs) != 0 {
		t.Error("drawing archived for a rejected request")
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPredictRejectsNonImagePayload(t *testing.T) {
	tests := []struct {
		name  string
		image func(t *testing.T) string
	}{
		{"server file path", func(t *testing.T) string {
			path := filepath.Join(t.TempDir(), "credentials")
			if err := os.WriteFile(path, []byte("DATABASE_PASSWORD=hunter2\n"), 0o600); err != nil {
				t.Fatal(err)
			}
			return path
		}},
		{"base64 text", func(*testing.T) string {
			return base64.StdEncoding.EncodeToString([]byte("DATABASE_PASSWORD=hunter2\n"))
		}},
		{"data uri with text body", func(*testing.T) string {
			return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("plain text"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "true")

			_, err := f.sys.Predict(context.Background(), assessments.PredictCommand{Image: tt.image(t), Language: "en"})
			if !errors.Is(err, workflow.ErrInvalidImageInput) {
				t.Fatalf("err = %v, want ErrInvalidImageInput", err)
			}
			if len(f.storage.blobs) != 0 {
				t.Error("payload archived for a rejected request")
			}
			if n := f.calls.Load(); n != 0 {
				t.Errorf("model calls = %d, want 0", n)
			}
			if err := f.mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestPredictInsertFailureRemovesBlob(t *testing.T) {
	f := newFixture(t, "true")

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO assessments")).
		WillReturnError(errors.New("connection reset"))
	f.mock.ExpectRollback()

	if _, err := f.sys.Predict(context.Background(), assessments.PredictCommand{Image: drawing, Language: "en"}); err == nil {
		t.Fatal("expected error")
	}
	if len(f.storage.blobs) != 0 || len(f.storage.deleted) != 1 {
		t.Errorf("blobs = %d, deleted = %v", len(f.storage.blobs), f.storage.deleted)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestFindNotFound(t *testing.T) {
	f := newFixture(t, "true")
	id := uuid.New()

	f.mock.ExpectQuery(regexp.QuoteMeta("FROM assessments a WHERE a.id = $1")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := f.sys.Find(context.Background(), id)
	if !errors.Is(err, assessments.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListAppliesFilters(t *testing.T) {
	f := newFixture(t, "true")
	lang := "zh"
	flagged := false

	f.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM assessments a WHERE a.language = $1 AND a.classification = $2")).
		WithArgs("zh", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	f.mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("zh", false).
		WillReturnRows(assessmentRow(uuid.New(), nil))

	result, err := f.sys.List(context.Background(), pagination.PageRequest{},
		assessments.Filters{Language: &lang, Classification: &flagged})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 1 || len(result.Data) != 1 || result.Data[0].ImageKey != nil {
		t.Errorf("result = %+v", result)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeleteRemovesBlob(t *testing.T) {
	f := newFixture(t, "true")
	id := uuid.New()
	key := "assessments/" + id.String() + "/drawing"
	f.storage.blobs[key] = []byte("png")

	f.mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = $1")).
		WithArgs(id).
		WillReturnRows(assessmentRow(id, key))
	f.mock.ExpectBegin()
	f.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assessments WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	if err := f.sys.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := f.storage.blobs[key]; ok {
		t.Error("blob not deleted")
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestImageWithoutArchive(t *testing.T) {
	f := newFixture(t, "true")
	id := uuid.New()

	f.mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = $1")).
		WithArgs(id).
		WillReturnRows(assessmentRow(id, nil))

	_, _, err := f.sys.Image(context.Background(), id)
	if !errors.Is(err, assessments.ErrNoImage) {
		t.Fatalf("err = %v, want ErrNoImage", err)
	}
	if got := assessments.MapHTTPStatus(err); got != http.StatusNotFound {
		t.Errorf("status = %d, want 404", got)
	}
}
