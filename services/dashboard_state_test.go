package services

import (
	"context"
	"errors"
	"testing"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
)

func TestReplaceIPOsReconcilesSelection(t *testing.T) {
	state := NewDashboardState()
	state.ReplaceIPOs([]*models.IPORecord{record("a1", "Alpha Corp", models.StatusOpen)})

	if _, err := state.Select("a1"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	refreshed := record("a2", "Alpha Corp", models.StatusAllotmentOut)
	state.ReplaceIPOs([]*models.IPORecord{refreshed})

	if state.Selected() != refreshed {
		t.Errorf("selection should follow the refreshed record, got %+v", state.Selected())
	}
	if ipos, _ := state.LastRefreshed(); ipos.IsZero() {
		t.Error("last refresh time should be set")
	}
}

func TestReplaceIPOsCopiesInput(t *testing.T) {
	state := NewDashboardState()
	input := []*models.IPORecord{record("a1", "Alpha", models.StatusOpen)}
	state.ReplaceIPOs(input)

	input[0] = record("x", "Mutated", models.StatusOpen)
	if state.IPOs()[0].Name != "Alpha" {
		t.Error("snapshot must not alias the caller's slice")
	}
}

func TestSelectUnknownID(t *testing.T) {
	state := NewDashboardState()
	if _, err := state.Select("missing"); !errors.Is(err, ErrIPONotFound) {
		t.Errorf("expected ErrIPONotFound, got %v", err)
	}
	if _, err := state.IPOByID("missing"); !errors.Is(err, ErrIPONotFound) {
		t.Errorf("expected ErrIPONotFound, got %v", err)
	}
}

func TestSearchSortsByStatusPriority(t *testing.T) {
	state := NewDashboardState()
	state.ReplaceIPOs([]*models.IPORecord{
		{ID: "1", Name: "Listed Co", Registrar: "Bigshare", Status: models.KnownStatus(models.StatusListed)},
		{ID: "2", Name: "Odd Co", Registrar: "Bigshare", Status: models.RawStatus("Pending Listing Approval")},
		{ID: "3", Name: "Open Co", Registrar: "KFintech", Status: models.KnownStatus(models.StatusOpen)},
		{ID: "4", Name: "Allotted Co", Registrar: "Link Intime", Status: models.KnownStatus(models.StatusAllotmentOut)},
		{ID: "5", Name: "Upcoming Co", Registrar: "KFintech", Status: models.KnownStatus(models.StatusUpcoming)},
		{ID: "6", Name: "Closed Co", Registrar: "KFintech", Status: models.KnownStatus(models.StatusClosed)},
	})

	want := []string{"4", "3", "6", "5", "1", "2"}
	got := state.Search("")
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected id %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestSearchFiltersByNameOrRegistrar(t *testing.T) {
	state := NewDashboardState()
	state.ReplaceIPOs([]*models.IPORecord{
		record("1", "Alpha Corp", models.StatusOpen),
		{ID: "2", Name: "Beta Ltd", Registrar: "Link Intime", Status: models.KnownStatus(models.StatusOpen)},
	})

	if got := state.Search("ALPHA"); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("name search failed: %+v", got)
	}
	if got := state.Search("intime"); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("registrar search failed: %+v", got)
	}

	if _, err := state.Select("2"); err != nil {
		t.Fatal(err)
	}
	if got := state.Search("Beta Ltd"); len(got) != 2 {
		t.Errorf("query equal to the selected name should list everything, got %d", len(got))
	}
}

func TestSearchWithStaleSelectionFilters(t *testing.T) {
	state := NewDashboardState()
	state.ReplaceIPOs([]*models.IPORecord{
		record("1", "Alpha Corp", models.StatusOpen),
		record("2", "Beta Ltd", models.StatusOpen),
	})
	if _, err := state.Select("2"); err != nil {
		t.Fatal(err)
	}

	state.ReplaceIPOs([]*models.IPORecord{
		record("1", "Alpha Corp", models.StatusOpen),
		record("3", "Beta Ltd Rights", models.StatusUpcoming),
	})
	if state.Selected() == nil || state.Selected().ID != "2" {
		t.Fatalf("stale selection should be kept, got %+v", state.Selected())
	}

	got := state.Search("Beta Ltd")
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("stale selection must not widen the search, got %+v", got)
	}
}

func TestCommitIPOsAfterCancelLeavesState(t *testing.T) {
	state := NewDashboardState()
	state.ReplaceIPOs([]*models.IPORecord{record("1", "Alpha Corp", models.StatusOpen)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := state.CommitIPOs(ctx, []*models.IPORecord{record("2", "Beta Ltd", models.StatusOpen)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if ipos := state.IPOs(); len(ipos) != 1 || ipos[0].ID != "1" {
		t.Errorf("cancelled commit must not replace the snapshot, got %+v", ipos)
	}

	if err := state.CommitFeed(ctx, []models.MarketFeedItem{{Headline: "late"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(state.Feed()) != 0 {
		t.Error("cancelled commit must not replace the feed")
	}
}

func TestReplaceFeed(t *testing.T) {
	state := NewDashboardState()
	state.ReplaceFeed([]models.MarketFeedItem{{Headline: "SEBI update"}})

	feed := state.Feed()
	if len(feed) != 1 || feed[0].Headline != "SEBI update" {
		t.Errorf("unexpected feed %+v", feed)
	}
	if _, feedRefreshed := state.LastRefreshed(); feedRefreshed.IsZero() {
		t.Error("feed refresh time should be set")
	}
}
