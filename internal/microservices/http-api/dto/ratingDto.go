package dto

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"focushub/internal/microservices/http-api/models"
)

// CreateRatingDTO is the body of POST /api/ratings. Scores are pointers so a
// missing aspect can be told apart from a zero.
type CreateRatingDTO struct {
	Post                int64 `json:"post"`
	Composition         *int  `json:"composition" validate:"required,min=1,max=5"`
	ClarityFocus        *int  `json:"clarity_focus" validate:"required,min=1,max=5"`
	Lighting            *int  `json:"lighting" validate:"required,min=1,max=5"`
	Creativity          *int  `json:"creativity" validate:"required,min=1,max=5"`
	TechnicalAdaptation *int  `json:"technical_adaptation" validate:"required,min=1,max=5"`
}

// RatingPatch carries the aspects a rater wants to change. Nil fields are
// left untouched; an empty patch is valid.
type RatingPatch struct {
	Composition         *int `json:"composition,omitempty" validate:"omitempty,min=1,max=5"`
	ClarityFocus        *int `json:"clarity_focus,omitempty" validate:"omitempty,min=1,max=5"`
	Lighting            *int `json:"lighting,omitempty" validate:"omitempty,min=1,max=5"`
	Creativity          *int `json:"creativity,omitempty" validate:"omitempty,min=1,max=5"`
	TechnicalAdaptation *int `json:"technical_adaptation,omitempty" validate:"omitempty,min=1,max=5"`
}

// ApplyTo overwrites the supplied aspects on r.
func (p RatingPatch) ApplyTo(r *models.Rating) {
	if p.Composition != nil {
		r.Composition = *p.Composition
	}
	if p.ClarityFocus != nil {
		r.ClarityFocus = *p.ClarityFocus
	}
	if p.Lighting != nil {
		r.Lighting = *p.Lighting
	}
	if p.Creativity != nil {
		r.Creativity = *p.Creativity
	}
	if p.TechnicalAdaptation != nil {
		r.TechnicalAdaptation = *p.TechnicalAdaptation
	}
}

// ParseRatingPatch decodes a partial update. Keys outside the five aspects are
// returned in unknown (sorted) instead of being dropped.
func ParseRatingPatch(data []byte) (patch RatingPatch, unknown []string, err error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return patch, nil, err
	}

	allowed := make(map[string]struct{}, len(models.RatingAspects))
	for _, a := range models.RatingAspects {
		allowed[a] = struct{}{}
	}
	for key := range raw {
		if _, ok := allowed[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	if len(unknown) > 0 {
		return patch, unknown, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return patch, nil, err
	}
	return patch, nil, nil
}

// RatingResponse is a stored rating as returned to its rater.
type RatingResponse struct {
	ID                  int64     `json:"id"`
	Post                int64     `json:"post"`
	Rater               string    `json:"rater"`
	Composition         int       `json:"composition"`
	ClarityFocus        int       `json:"clarity_focus"`
	Lighting            int       `json:"lighting"`
	Creativity          int       `json:"creativity"`
	TechnicalAdaptation int       `json:"technical_adaptation"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	EditableUntil       time.Time `json:"editable_until"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(r *models.Rating, editWindow time.Duration) *RatingResponse {
	return &RatingResponse{
		ID:                  r.ID,
		Post:                r.PostID,
		Rater:               r.RaterID,
		Composition:         r.Composition,
		ClarityFocus:        r.ClarityFocus,
		Lighting:            r.Lighting,
		Creativity:          r.Creativity,
		TechnicalAdaptation: r.TechnicalAdaptation,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		EditableUntil:       r.EditableUntil(editWindow),
	}
}

// RatingLookupResponse answers "has the caller rated this post". Rating is
// set only when Rated is true.
type RatingLookupResponse struct {
	Rated  bool            `json:"rated"`
	Rating *RatingResponse `json:"rating,omitempty"`
}

// RatingStatistics is the public aggregate of a post's ratings. All values
// are 0 for a post nobody rated.
type RatingStatistics struct {
	Composition         float64 `json:"composition"`
	ClarityFocus        float64 `json:"clarity_focus"`
	Lighting            float64 `json:"lighting"`
	Creativity          float64 `json:"creativity"`
	TechnicalAdaptation float64 `json:"technical_adaptation"`
	Overall             float64 `json:"overall"`
	TotalRatings        int64   `json:"total_ratings"`
}
