package assessments

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tuya-yu/HeartDrawing/pkg/query"
	"github.com/tuya-yu/HeartDrawing/pkg/repository"
)

var projection = query.
	NewProjection("assessments", "a").
	Project("id", "ID").
	Project("language", "Language").
	Project("classification", "Classification").
	Project("fix_signal", "FixSignal").
	Project("report", "Report").
	Project("result", "Result").
	Project("total_tokens", "TotalTokens").
	Project("prompt_tokens", "PromptTokens").
	Project("completion_tokens", "CompletionTokens").
	Project("image_key", "ImageKey").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const returning = `RETURNING id, language, classification, fix_signal, report, result,
		total_tokens, prompt_tokens, completion_tokens, image_key, created_at`

// Filters narrows assessment listings. Nil fields are ignored.
type Filters struct {
	Language       *string `json:"language,omitempty"`
	Classification *bool   `json:"classification,omitempty"`
}

// Apply adds the filter conditions to b.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		Equals("Language", f.Language).
		Equals("Classification", f.Classification)
}

// FiltersFromQuery reads filters from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if v := values.Get("language"); v != "" {
		f.Language = &v
	}
	if v := values.Get("classification"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Classification = &b
		}
	}
	return f
}

func scanAssessment(s repository.Scanner) (Assessment, error) {
	var (
		a      Assessment
		result []byte
	)
	err := s.Scan(
		&a.ID,
		&a.Language,
		&a.Classification,
		&a.FixSignal,
		&a.Report,
		&result,
		&a.TotalTokens,
		&a.PromptTokens,
		&a.CompletionTokens,
		&a.ImageKey,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	if len(result) > 0 {
		if err := json.Unmarshal(result, &a.Result); err != nil {
			return a, fmt.Errorf("decode result: %w", err)
		}
	}
	return a, nil
}
