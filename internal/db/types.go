package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/brand-compiler/internal/types"
)

// SprintInput is everything needed to persist one compilation
type SprintInput struct {
	UserID    uuid.UUID
	InputHash string
	Inputs    types.DiscoveryInputs
	Spec      types.BrandSpec
	SpecHash  string
	Markdown  string
	Assets    types.BrandAssets
}

// Sprint is a stored compilation. A user has at most one sprint per input hash.
type Sprint struct {
	ID        uuid.UUID             `json:"id"`
	UserID    uuid.UUID             `json:"user_id"`
	InputHash string                `json:"input_hash"`
	Inputs    types.DiscoveryInputs `json:"inputs"`
	Spec      types.BrandSpec       `json:"spec"`
	SpecHash  string                `json:"spec_hash"`
	Markdown  string                `json:"markdown"`
	Assets    types.BrandAssets     `json:"assets"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// CopyRecord is generated copy cached by spec hash
type CopyRecord struct {
	SpecHash  string            `json:"spec_hash"`
	Assets    types.BrandAssets `json:"assets"`
	Model     string            `json:"model"`
	CreatedAt time.Time         `json:"created_at"`
}

// sprintColumns holds the JSONB columns of a brand_sprints row before decoding.
type sprintColumns struct {
	inputs []byte
	spec   []byte
	assets []byte
}

func (c sprintColumns) decode(s *Sprint) error {
	if err := json.Unmarshal(c.inputs, &s.Inputs); err != nil {
		return &DecodeError{Column: "inputs", Cause: err}
	}
	if err := json.Unmarshal(c.spec, &s.Spec); err != nil {
		return &DecodeError{Column: "spec", Cause: err}
	}
	if err := json.Unmarshal(c.assets, &s.Assets); err != nil {
		return &DecodeError{Column: "assets", Cause: err}
	}
	return nil
}

func encodeSprint(in *SprintInput) (sprintColumns, error) {
	var (
		c   sprintColumns
		err error
	)
	if c.inputs, err = json.Marshal(in.Inputs); err != nil {
		return c, &EncodeError{Column: "inputs", Cause: err}
	}
	if c.spec, err = json.Marshal(in.Spec); err != nil {
		return c, &EncodeError{Column: "spec", Cause: err}
	}
	if c.assets, err = json.Marshal(in.Assets); err != nil {
		return c, &EncodeError{Column: "assets", Cause: err}
	}
	return c, nil
}
