package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogger_Op(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, false).Op("encode")
	log.Info().Int("width", 4).Msg("done")
	log.Debug().Msg("hidden")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("single JSON record expected, got %q: %v", buf.String(), err)
	}
	if rec["op"] != "encode" || rec["message"] != "done" || rec["width"] != float64(4) {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, true).Debug().Msg("shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Errorf("debug record missing: %q", buf.String())
	}
}

func TestNewConsole_KeepsGlobals(t *testing.T) {
	before := zerolog.TimeFieldFormat
	NewConsole(true, true).Debug().Msg("console")
	if zerolog.TimeFieldFormat != before {
		t.Errorf("TimeFieldFormat changed from %q to %q", before, zerolog.TimeFieldFormat)
	}
}
