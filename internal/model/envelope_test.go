package model

import (
	"encoding/json"
	"testing"
)

func TestEnvelopeEncodeDecode(t *testing.T) {
	env := NewEnvelope(ActionCreate, json.RawMessage(`{"name":"groceries"}`))
	env.CorrelationID = 42

	raw, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}

	if decoded.Action != ActionCreate {
		t.Errorf("action = %q, want %q", decoded.Action, ActionCreate)
	}
	if decoded.CorrelationID != 42 {
		t.Errorf("correlationId = %d, want 42", decoded.CorrelationID)
	}
	if string(decoded.Payload) != `{"name":"groceries"}` {
		t.Errorf("payload = %s", decoded.Payload)
	}
}

func TestNewEnvelopeStartsUnassigned(t *testing.T) {
	env := NewEnvelope(ActionGetAll, nil)

	if env.CorrelationID != UnassignedCorrelationID {
		t.Errorf("correlationId = %d, want %d", env.CorrelationID, UnassignedCorrelationID)
	}
}

func TestDecodeEnvelopeInvalidJSON(t *testing.T) {
	if _, err := DecodeEnvelope([]byte("not json at all")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestDecodeEnvelopeKeepsUnknownAction(t *testing.T) {
	// Whether an action is routable is the consumer's decision: the decoder
	// only cares about the JSON shape.
	raw := []byte(`{"action":"explode","payload":{},"correlationId":7}`)

	env, err := DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}

	if env.Action.Valid() {
		t.Errorf("action %q unexpectedly valid", env.Action)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{in: "create", want: ActionCreate},
		{in: "update", want: ActionUpdate},
		{in: "delete", want: ActionDelete},
		{in: "getById", want: ActionGetByID},
		{in: "getAll", want: ActionGetAll},
		{in: "CREATE", wantErr: true},
		{in: "", wantErr: true},
		{in: "drop", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAction(%q): expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAction(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAction(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseResource(t *testing.T) {
	for _, r := range Resources() {
		got, err := ParseResource(string(r))
		if err != nil {
			t.Fatalf("ParseResource(%q): %v", r, err)
		}
		if got != r {
			t.Errorf("ParseResource(%q) = %q", r, got)
		}
	}

	if _, err := ParseResource("budget"); err == nil {
		t.Fatal("expected error for unknown resource")
	}
}

func TestMessageStatusTerminal(t *testing.T) {
	if MessageQueued.Terminal() {
		t.Error("queued must not be terminal")
	}
	if !MessageSucceeded.Terminal() {
		t.Error("succeeded must be terminal")
	}
	if !MessageFailed.Terminal() {
		t.Error("failed must be terminal")
	}
}
