package assessments_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/tuya-yu/HeartDrawing/internal/workflow"
	"github.com/tuya-yu/HeartDrawing/pkg/module"
)

const maxUpload = 1 << 20

func serve(f *fixture, req *http.Request) *httptest.ResponseRecorder {
	h := f.sys.Handler(maxUpload)
	mux := http.NewServeMux()
	module.Register(mux, h.PredictRoutes(), h.Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandlerMethods(t *testing.T) {
	f := newFixture(t, "true")
	rec := serve(f, httptest.NewRequest(http.MethodGet, "/methods", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"method":["predict"]}` {
		t.Errorf("body = %s", got)
	}
}

func TestHandlerPredict(t *testing.T) {
	f := newFixture(t, `{"result": false}`)
	id := uuid.New()

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO assessments")).
		WillReturnRows(assessmentRow(id, "assessments/"+id.String()+"/drawing"))
	f.mock.ExpectCommit()

	body := `{"image_path":"` + drawing + `","language":"zh"}`
	rec := serve(f, httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/v1/assessments/"+id.String() {
		t.Errorf("location = %q", got)
	}

	var result workflow.WorkflowResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Final != "f" {
		t.Errorf("result = %+v", result)
	}
}

func TestHandlerPredictErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", "{", http.StatusBadRequest},
		{"invalid language", `{"image_path":"` + drawing + `","language":"fr"}`, http.StatusBadRequest},
		{"invalid image", `{"image_path":"not an image!","language":"en"}`, http.StatusBadRequest},
		{"too large", `{"image_path":"` + strings.Repeat("A", maxUpload) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "true")
			rec := serve(f, httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandlerPredictRejectsFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not a drawing"), 0o600); err != nil {
		t.Fatal(err)
	}

	f := newFixture(t, "true")
	body, err := json.Marshal(map[string]string{"image_path": path, "language": "en"})
	if err != nil {
		t.Fatal(err)
	}
	rec := serve(f, httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "not a drawing") {
		t.Error("file contents leaked in response")
	}
	if len(f.storage.blobs) != 0 {
		t.Error("file archived for a rejected request")
	}
	if n := f.calls.Load(); n != 0 {
		t.Errorf("model calls = %d, want 0", n)
	}
}

func TestHandlerUpload(t *testing.T) {
	f := newFixture(t, "true")
	id := uuid.New()

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO assessments")).
		WithArgs(sqlmock.AnyArg(), "en", true, nil, sqlmock.AnyArg(),
			sqlmock.AnyArg(), 180, 120, 60, keyPattern{}).
		WillReturnRows(assessmentRow(id, "assessments/"+id.String()+"/drawing"))
	f.mock.ExpectCommit()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("language", "en"); err != nil {
		t.Fatal(err)
	}
	part, err := mw.CreateFormFile("image", "drawing.png")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/assessments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(f, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHandlerImage(t *testing.T) {
	f := newFixture(t, "true")
	id := uuid.New()
	key := "assessments/" + id.String() + "/drawing"
	f.storage.blobs[key] = []byte("png-bytes")
	f.storage.types[key] = "image/png"

	f.mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = $1")).
		WillReturnRows(assessmentRow(id, key))

	rec := serve(f, httptest.NewRequest(http.MethodGet, "/assessments/"+id.String()+"/image", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "image/png" || rec.Body.String() != "png-bytes" {
		t.Errorf("got %q %q", rec.Header().Get("Content-Type"), rec.Body.String())
	}
}

func TestHandlerInvalidID(t *testing.T) {
	f := newFixture(t, "true")
	rec := serve(f, httptest.NewRequest(http.MethodGet, "/assessments/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
