package models

import (
	"encoding/json"
	"testing"
)

func TestStatusJSONUsesDisplayLabel(t *testing.T) {
	data, err := json.Marshal(KnownStatus(StatusAllotmentOut))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"Allotment Out"` {
		t.Errorf("expected display label, got %s", data)
	}

	var decoded Status
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Kind != StatusAllotmentOut {
		t.Errorf("expected kind AllotmentOut, got %v", decoded.Kind)
	}
}

func TestRawStatusPassesThroughVerbatim(t *testing.T) {
	status := RawStatus("Pending Listing")
	if status.IsKnown() {
		t.Error("raw status must not be known")
	}
	if status.String() != "Pending Listing" {
		t.Errorf("expected raw text, got %q", status.String())
	}

	var decoded Status
	if err := json.Unmarshal([]byte(`"Pending Listing"`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != status {
		t.Errorf("expected %+v, got %+v", status, decoded)
	}
}
