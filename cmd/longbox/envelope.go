package main

import (
	"encoding/json"
	"io"
)

// envelope is the JSON shape returned to callers of synchronous entry points.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeEnvelope writes data or err as an envelope and returns err unchanged.
func writeEnvelope(w io.Writer, data any, err error) error {
	env := envelope{Success: err == nil, Data: data}
	if err != nil {
		env.Data = nil
		env.Error = err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(env); encErr != nil {
		return encErr
	}
	return err
}
