package prompts

import (
	"net/url"
	"strconv"

	"github.com/tuya-yu/HeartDrawing/pkg/query"
	"github.com/tuya-yu/HeartDrawing/pkg/repository"
)

var projection = query.
	NewProjection("prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("language", "Language").
	Project("stage", "Stage").
	Project("kind", "Kind").
	Project("template", "Template").
	Project("description", "Description").
	Project("active", "Active")

var defaultSort = query.SortField{Field: "Name"}

const returning = "RETURNING id, name, language, stage, kind, template, description, active"

// Filters narrows prompt listings. Nil fields are ignored.
type Filters struct {
	Language *string `json:"language,omitempty"`
	Stage    *string `json:"stage,omitempty"`
	Kind     *string `json:"kind,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Apply adds the filter conditions to b.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		Equals("Language", f.Language).
		Equals("Stage", f.Stage).
		Equals("Kind", f.Kind).
		Equals("Active", f.Active)
}

// FiltersFromQuery reads filters from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if v := values.Get("language"); v != "" {
		f.Language = &v
	}
	if v := values.Get("stage"); v != "" {
		f.Stage = &v
	}
	if v := values.Get("kind"); v != "" {
		f.Kind = &v
	}
	if v := values.Get("active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Active = &b
		}
	}
	return f
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Language,
		&p.Stage,
		&p.Kind,
		&p.Template,
		&p.Description,
		&p.Active,
	)
	return p, err
}
