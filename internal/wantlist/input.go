package wantlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/longbox/internal/model"
)

const maxSeriesLen = 200

// ValidationError reports a rejected want-list input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ItemInput is a validated want-list item request.
type ItemInput struct {
	SeriesName     string
	IssueNumber    string
	IssueID        *string
	TargetMaxPrice *float64
	IsActive       bool
}

type rawItemInput struct {
	SeriesName     *string         `json:"seriesName"`
	IssueNumber    json.RawMessage `json:"issueNumber"`
	IssueID        *string         `json:"issueId"`
	TargetMaxPrice json.RawMessage `json:"targetMaxPrice"`
	IsActive       *bool           `json:"isActive"`
}

// ParseItemInput validates a loosely typed JSON request body. Issue numbers
// and prices may arrive as JSON strings or numbers; unknown fields are
// rejected.
func ParseItemInput(data []byte) (ItemInput, error) {
	var raw rawItemInput
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return ItemInput{}, &ValidationError{Field: "body", Message: err.Error()}
	}

	var in ItemInput

	if raw.SeriesName == nil || strings.TrimSpace(*raw.SeriesName) == "" {
		return ItemInput{}, &ValidationError{Field: "seriesName", Message: "required"}
	}
	in.SeriesName = strings.Join(strings.Fields(*raw.SeriesName), " ")
	if len(in.SeriesName) > maxSeriesLen {
		return ItemInput{}, &ValidationError{Field: "seriesName", Message: fmt.Sprintf("longer than %d characters", maxSeriesLen)}
	}

	issue, err := stringOrNumber(raw.IssueNumber)
	if err != nil {
		return ItemInput{}, &ValidationError{Field: "issueNumber", Message: err.Error()}
	}
	in.IssueNumber = strings.TrimPrefix(strings.TrimSpace(issue), "#")

	if raw.IssueID != nil {
		if id := strings.TrimSpace(*raw.IssueID); id != "" {
			in.IssueID = &id
		}
	}

	price, err := stringOrNumber(raw.TargetMaxPrice)
	if err != nil {
		return ItemInput{}, &ValidationError{Field: "targetMaxPrice", Message: err.Error()}
	}
	if price = strings.TrimPrefix(strings.TrimSpace(price), "$"); price != "" {
		v, err := strconv.ParseFloat(price, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return ItemInput{}, &ValidationError{Field: "targetMaxPrice", Message: "not a number"}
		}
		if v <= 0 {
			return ItemInput{}, &ValidationError{Field: "targetMaxPrice", Message: "must be positive"}
		}
		in.TargetMaxPrice = &v
	}

	in.IsActive = true
	if raw.IsActive != nil {
		in.IsActive = *raw.IsActive
	}

	return in, nil
}

// stringOrNumber returns a JSON string or number as text. Absent and null
// values return "".
func stringOrNumber(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("must be a string or number")
}

// NewItem builds a stored item from validated input.
func (in ItemInput) NewItem(now time.Time) model.WantListItem {
	return model.WantListItem{
		ID:             uuid.New(),
		SeriesName:     in.SeriesName,
		IssueNumber:    in.IssueNumber,
		IssueID:        in.IssueID,
		TargetMaxPrice: in.TargetMaxPrice,
		IsActive:       in.IsActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
