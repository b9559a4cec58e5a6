package query_test

import (
	"reflect"
	"testing"

	"github.com/tuya-yu/HeartDrawing/pkg/query"
)

var proj = query.NewProjection("assessments", "a").
	Project("id", "ID").
	Project("language", "Language").
	Project("classification", "Classification").
	Project("report", "Report").
	Project("created_at", "CreatedAt")

func TestParseSortFields(t *testing.T) {
	got := query.ParseSortFields("Language, -CreatedAt,,")
	want := []query.SortField{
		{Field: "Language"},
		{Field: "CreatedAt", Descending: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if got := query.ParseSortFields(""); got != nil {
		t.Errorf("empty input: got %+v, want nil", got)
	}
}

func TestBuilderPage(t *testing.T) {
	lang := "en"
	search := "house"
	var missing *bool

	b := query.NewBuilder(proj, query.SortField{Field: "CreatedAt", Descending: true}).
		Equals("Language", &lang).
		Equals("Classification", missing).
		Search(&search, "Report")

	sql, args := b.Page(2, 10)
	want := "SELECT a.id, a.language, a.classification, a.report, a.created_at FROM assessments a" +
		" WHERE a.language = $1 AND (a.report ILIKE $2) ORDER BY a.created_at DESC LIMIT 10 OFFSET 10"
	if sql != want {
		t.Errorf("sql:\n got %s\nwant %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"en", "%house%"}) {
		t.Errorf("args = %v", args)
	}

	count, cargs := b.Count()
	if count != "SELECT COUNT(*) FROM assessments a WHERE a.language = $1 AND (a.report ILIKE $2)" {
		t.Errorf("count sql = %s", count)
	}
	if len(cargs) != 2 {
		t.Errorf("count args = %v", cargs)
	}
}

func TestBuilderOrderByIgnoresUnknownFields(t *testing.T) {
	sql, _ := query.NewBuilder(proj).
		OrderBy([]query.SortField{{Field: "Nope"}, {Field: "Language"}}).
		Page(1, 5)
	want := "SELECT a.id, a.language, a.classification, a.report, a.created_at FROM assessments a ORDER BY a.language ASC LIMIT 5 OFFSET 0"
	if sql != want {
		t.Errorf("got %s", sql)
	}
}

func TestBuilderSingle(t *testing.T) {
	sql, args := query.NewBuilder(proj).Single("ID", "abc")
	if sql != "SELECT a.id, a.language, a.classification, a.report, a.created_at FROM assessments a WHERE a.id = $1" {
		t.Errorf("got %s", sql)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args = %v", args)
	}
}
