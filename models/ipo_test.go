package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestGMPPositive(t *testing.T) {
	cases := map[string]bool{
		"+₹45 (20%)": true,
		"₹0":         true,
		NotAvailable: true,
		"-₹12":       false,
		"₹-5 (-3%)":  false,
	}
	for gmp, want := range cases {
		record := &IPORecord{GMP: gmp}
		if got := record.GMPPositive(); got != want {
			t.Errorf("GMPPositive(%q) = %v, want %v", gmp, got, want)
		}
	}
}

func TestIPORecordJSONIncludesDerivedFields(t *testing.T) {
	record := IPORecord{
		ID:           "1",
		Name:         "Alpha Corp",
		Registrar:    "KFintech",
		Status:       KnownStatus(StatusOpen),
		GMP:          "-₹3",
		Subscription: NotAvailable,
		Source:       SourceSheet,
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["status"] != "Open" {
		t.Errorf("expected status label Open, got %v", decoded["status"])
	}
	if decoded["gmp_positive"] != false {
		t.Errorf("expected gmp_positive false, got %v", decoded["gmp_positive"])
	}
	if _, present := decoded["registrar_url"]; present {
		t.Error("empty registrar_url should be omitted")
	}
}

func TestNotificationDismissal(t *testing.T) {
	n := Notification{ExpiresAt: mustTime(t, "2025-01-01T00:00:04Z")}
	if n.IsDismissed(mustTime(t, "2025-01-01T00:00:03Z")) {
		t.Error("notification dismissed before expiry")
	}
	if !n.IsDismissed(mustTime(t, "2025-01-01T00:00:04Z")) {
		t.Error("notification should be dismissed at expiry")
	}
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad time %q: %v", value, err)
	}
	return parsed
}
