package prompts_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/pkg/pagination"
)

var promptColumns = []string{"id", "name", "language", "stage", "kind", "template", "description", "active"}

func newSystem(t *testing.T) (prompts.System, sqlmock.Sqlmock) {
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
	return prompts.New(db, "", discard, cfg), mock
}

func TestActiveOverrideResolves(t *testing.T) {
	sys, mock := newSystem(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("p.active = true")).
		WithArgs("en", "signal", "instructions").
		WillReturnRows(sqlmock.NewRows(promptColumns).
			AddRow(id.String(), "strict", "en", "signal", "instructions", "be strict", nil, true))

	got, err := sys.Resolve(context.Background(), prompts.LanguageEN, prompts.StageSignal, prompts.KindInstructions)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Source != prompts.SourceOverride || got.Content != "be strict" {
		t.Errorf("got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestNoActiveOverrideFallsBackToDefault(t *testing.T) {
	sys, mock := newSystem(t)

	mock.ExpectQuery(regexp.QuoteMeta("p.active = true")).
		WillReturnError(sql.ErrNoRows)

	got, err := sys.Resolve(context.Background(), prompts.LanguageZH, prompts.StageFinal, prompts.KindInstructions)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Source != prompts.SourceDefault {
		t.Errorf("source = %s", got.Source)
	}
}

func TestCreateValidatesKey(t *testing.T) {
	sys, mock := newSystem(t)

	_, err := sys.Create(context.Background(), prompts.CreateCommand{
		Name: "bad", Language: "en", Stage: prompts.StageFinal, Kind: prompts.KindFeature, Template: "x",
	})
	if !errors.Is(err, prompts.ErrInvalidKind) {
		t.Errorf("got %v, want ErrInvalidKind", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreate(t *testing.T) {
	sys, mock := newSystem(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO prompts")).
		WithArgs("gentle", "en", "final", "instructions", "be gentle", nil).
		WillReturnRows(sqlmock.NewRows(promptColumns).
			AddRow(id.String(), "gentle", "en", "final", "instructions", "be gentle", nil, false))

	p, err := sys.Create(context.Background(), prompts.CreateCommand{
		Name: "gentle", Language: "en", Stage: prompts.StageFinal, Kind: prompts.KindInstructions, Template: "be gentle",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID != id || p.Active {
		t.Errorf("got %+v", p)
	}
}

func TestActivateSwapsWithinKey(t *testing.T) {
	sys, mock := newSystem(t)
	id := uuid.New()
	row := func(active bool) *sqlmock.Rows {
		return sqlmock.NewRows(promptColumns).
			AddRow(id.String(), "gentle", "en", "final", "instructions", "be gentle", nil, active)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).WithArgs(id).WillReturnRows(row(false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE prompts SET active = false WHERE language = $1")).
		WithArgs("en", "final", "instructions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE prompts SET active = true")).WithArgs(id).WillReturnRows(row(true))
	mock.ExpectCommit()

	p, err := sys.Activate(context.Background(), id)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !p.Active {
		t.Error("prompt not active")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	sys, mock := newSystem(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM prompts")).WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := sys.Delete(context.Background(), id); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
