package driver

import (
	"encoding/json"
	"fmt"

	"autoinclude/internal/diag"
	"autoinclude/internal/observ"
	"autoinclude/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic records a run's phase timings as an OBS6001 info
// whose note carries the JSON payload.
func appendTimingDiagnostic(bag *diag.Bag, file source.FileID, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "file"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	span := source.Span{File: file}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, span, msg).WithNote(span, string(data))
	bag.Add(entry)
}
