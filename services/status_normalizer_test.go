package services

import (
	"strings"
	"testing"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalizeStatusKnownStages(t *testing.T) {
	cases := []struct {
		raw  string
		want models.StatusKind
	}{
		{"Allotment Out", models.StatusAllotmentOut},
		{"Open - Allotment Out", models.StatusAllotmentOut},
		{"  ALLOTTED ", models.StatusAllotmentOut},
		{"Listed at 20% premium", models.StatusListed},
		{"Closed", models.StatusClosed},
		{"Closes today", models.StatusClosed},
		{"Open", models.StatusOpen},
		{"Upcoming", models.StatusUpcoming},
		{"", models.StatusUpcoming},
		{"   ", models.StatusUpcoming},
	}

	for _, tc := range cases {
		got := NormalizeStatus(tc.raw)
		if got.Kind != tc.want {
			t.Errorf("NormalizeStatus(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeStatusPassesThroughUnknownText(t *testing.T) {
	got := NormalizeStatus("Pending Refund")
	if got.IsKnown() {
		t.Fatalf("expected pass-through status, got %v", got)
	}
	if got.String() != "Pending Refund" {
		t.Errorf("expected raw text preserved, got %q", got.String())
	}
}

func TestNormalizeStatusProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("text containing allotment and out always normalizes to Allotment Out", prop.ForAll(
		func(prefix, middle, suffix string, upper bool) bool {
			raw := prefix + " allotment " + middle + " out " + suffix
			if upper {
				raw = strings.ToUpper(raw)
			}
			return NormalizeStatus(raw).Kind == models.StatusAllotmentOut
		},
		gen.OneConstOf("", "Open -", "Listed", "closed,", "upcoming"),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.Property("normalization never yields an empty display label", prop.ForAll(
		func(raw string) bool {
			return NormalizeStatus(raw).String() != ""
		},
		gen.OneGenOf(gen.AnyString(), gen.Const("")),
	))

	properties.TestingRun(t)
}
