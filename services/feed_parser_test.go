package services

import (
	"strings"
	"testing"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseFeedSingleRowDefaults(t *testing.T) {
	records := ParseFeed("Name,Registrar,Status\nAlpha Corp,KFintech,Allotted\n")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.Name != "Alpha Corp" || record.Registrar != "KFintech" {
		t.Errorf("unexpected name/registrar: %q / %q", record.Name, record.Registrar)
	}
	if record.Status.String() != "Allotment Out" {
		t.Errorf("expected status Allotment Out, got %q", record.Status)
	}
	if record.GMP != models.NotAvailable || record.Subscription != models.NotAvailable {
		t.Errorf("expected N/A defaults, got gmp=%q subscription=%q", record.GMP, record.Subscription)
	}
	if record.ID == "" || record.Source != models.SourceSheet {
		t.Errorf("expected generated id and sheet source, got id=%q source=%q", record.ID, record.Source)
	}
}

func TestParseFeedQuotedFieldsAndFullColumns(t *testing.T) {
	text := "Name,Registrar,Status,GMP,Subscription,AllotmentDate,RegistrarURL\r\n" +
		`"Beta Industries, Ltd.","Link Intime India",Open,"+₹45 (20%)",12.5x,2025-01-10,https://custom.example/x` + "\r\n"

	records := ParseFeed(text)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.Name != "Beta Industries, Ltd." {
		t.Errorf("quoted comma not preserved: %q", record.Name)
	}
	if record.Registrar != "Link Intime India" {
		t.Errorf("unexpected registrar %q", record.Registrar)
	}
	if record.GMP != "+₹45 (20%)" || record.Subscription != "12.5x" {
		t.Errorf("unexpected gmp/subscription %q / %q", record.GMP, record.Subscription)
	}
	if record.AllotmentDate != "2025-01-10" || record.RegistrarURL != "https://custom.example/x" {
		t.Errorf("unexpected date/url %q / %q", record.AllotmentDate, record.RegistrarURL)
	}
}

func TestParseFeedEscapedQuotes(t *testing.T) {
	text := "Name,Registrar,Status\n" +
		`"Alpha ""Prime""",KFintech,Open` + "\n" +
		`"""Quoted"" Holdings",Bigshare,Closed` + "\n"

	records := ParseFeed(text)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != `Alpha "Prime"` {
		t.Errorf("escaped quotes not preserved: %q", records[0].Name)
	}
	if records[1].Name != `"Quoted" Holdings` {
		t.Errorf("leading escaped quote lost: %q", records[1].Name)
	}
}

func TestParseFeedUnclosedQuoteStillYieldsRecord(t *testing.T) {
	text := strings.Join([]string{
		"Name,Registrar,Status",
		"Alpha Corp,KFintech,Open",
		`"Beta,KFin Tech,Open`,
		"Gamma Ltd,Bigshare,Closed",
	}, "\n")

	records := ParseFeed(text)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	beta := records[1]
	if beta.Name != "Beta" || beta.Registrar != "KFin Tech" {
		t.Errorf("unexpected name/registrar: %q / %q", beta.Name, beta.Registrar)
	}
	if beta.Status.Kind != models.StatusOpen {
		t.Errorf("expected Open, got %v", beta.Status)
	}
}

func TestParseFeedDropsInvalidRows(t *testing.T) {
	text := strings.Join([]string{
		"Name,Registrar,Status",
		"OnlyOneColumn",
		",KFintech,Open",
		"",
		"Gamma Ltd,,",
		"Delta Ltd,Bigshare,Closed",
	}, "\n")

	records := ParseFeed(text)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != "Gamma Ltd" || records[0].Registrar != "Unknown" {
		t.Errorf("expected Gamma Ltd with Unknown registrar, got %q / %q", records[0].Name, records[0].Registrar)
	}
	if records[0].Status.Kind != models.StatusUpcoming {
		t.Errorf("empty status should default to Upcoming, got %v", records[0].Status)
	}
}

func TestParseFeedHeaderOnly(t *testing.T) {
	if records := ParseFeed("Name,Registrar,Status"); len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
	if records := ParseFeed(""); len(records) != 0 {
		t.Errorf("expected no records for empty text, got %d", len(records))
	}
}

func TestParseFeedProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("record count equals data rows with a non-empty name", prop.ForAll(
		func(names []string) bool {
			lines := []string{"Name,Registrar,Status"}
			expected := 0
			for _, name := range names {
				lines = append(lines, name+",KFintech,Open")
				if name != "" {
					expected++
				}
			}

			records := ParseFeed(strings.Join(lines, "\n") + "\n")
			if len(records) != expected {
				t.Logf("expected %d records, got %d", expected, len(records))
				return false
			}
			return true
		},
		gen.SliceOf(gen.OneGenOf(gen.Const(""), gen.Identifier())),
	))

	properties.Property("every parsed record has a unique id", prop.ForAll(
		func(names []string) bool {
			lines := []string{"Name,Registrar"}
			for _, name := range names {
				lines = append(lines, name+",Bigshare")
			}

			seen := make(map[string]bool)
			for _, record := range ParseFeed(strings.Join(lines, "\n")) {
				if seen[record.ID] {
					return false
				}
				seen[record.ID] = true
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
