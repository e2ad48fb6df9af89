package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
)

// ErrIPONotFound is returned when an id does not exist in the current snapshot
var ErrIPONotFound = errors.New("IPO not found")

var statusPriority = map[models.StatusKind]int{
	models.StatusAllotmentOut: 0,
	models.StatusOpen:         1,
	models.StatusClosed:       2,
	models.StatusUpcoming:     3,
	models.StatusListed:       4,
}

const unclassifiedStatusPriority = 99

// DashboardState owns the working IPO collection, the market feed and the user's selection.
// Both collections are immutable snapshots replaced wholesale; the last replacement wins.
type DashboardState struct {
	mutex           sync.RWMutex
	ipos            []*models.IPORecord
	feed            []models.MarketFeedItem
	reconciler      *SelectionReconciler
	lastIPORefresh  time.Time
	lastFeedRefresh time.Time
}

// NewDashboardState creates an empty dashboard state
func NewDashboardState() *DashboardState {
	return &DashboardState{
		ipos:       []*models.IPORecord{},
		feed:       []models.MarketFeedItem{},
		reconciler: NewSelectionReconciler(),
	}
}

// ReplaceIPOs swaps in a new snapshot and reconciles the selection against it
// before any reader can observe the new snapshot.
func (s *DashboardState) ReplaceIPOs(records []*models.IPORecord) {
	_ = s.CommitIPOs(context.Background(), records)
}

// CommitIPOs is ReplaceIPOs for a refresh cycle: the snapshot is only applied
// if ctx is still live once the write lock is held.
func (s *DashboardState) CommitIPOs(ctx context.Context, records []*models.IPORecord) error {
	snapshot := make([]*models.IPORecord, len(records))
	copy(snapshot, records)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.ipos = snapshot
	s.reconciler.Reconcile(snapshot)
	s.lastIPORefresh = time.Now()
	return nil
}

// ReplaceFeed swaps in a new market feed snapshot
func (s *DashboardState) ReplaceFeed(items []models.MarketFeedItem) {
	_ = s.CommitFeed(context.Background(), items)
}

// CommitFeed applies a feed snapshot unless ctx is already cancelled
func (s *DashboardState) CommitFeed(ctx context.Context, items []models.MarketFeedItem) error {
	snapshot := make([]models.MarketFeedItem, len(items))
	copy(snapshot, items)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.feed = snapshot
	s.lastFeedRefresh = time.Now()
	return nil
}

// IPOs returns the current snapshot in feed order
func (s *DashboardState) IPOs() []*models.IPORecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.ipos
}

// Feed returns the current market feed snapshot
func (s *DashboardState) Feed() []models.MarketFeedItem {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.feed
}

// IPOByID finds a record in the current snapshot
func (s *DashboardState) IPOByID(id string) (*models.IPORecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, record := range s.ipos {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, ErrIPONotFound
}

// Select makes the record with the given id the current selection
func (s *DashboardState) Select(id string) (*models.IPORecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, record := range s.ipos {
		if record.ID == id {
			s.reconciler.Select(record)
			return record, nil
		}
	}
	return nil, ErrIPONotFound
}

// Selected returns the current selection, which may be absent from the latest snapshot
func (s *DashboardState) Selected() *models.IPORecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.reconciler.Selected()
}

// ClearSelection drops the current selection
func (s *DashboardState) ClearSelection() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.reconciler.Clear()
}

// LastRefreshed returns when each collection was last replaced; zero if never
func (s *DashboardState) LastRefreshed() (ipos time.Time, feed time.Time) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastIPORefresh, s.lastFeedRefresh
}

// Search returns the snapshot ordered by status priority and filtered by a
// case-insensitive match on name or registrar. A query equal to the name of a
// selected record that is still in the snapshot shows the whole list.
func (s *DashboardState) Search(query string) []*models.IPORecord {
	s.mutex.RLock()
	records := s.ipos
	selected := s.reconciler.Selected()
	s.mutex.RUnlock()

	sorted := SortByStatusPriority(records)
	if query == "" || (selected != nil && query == selected.Name && containsRecord(records, selected)) {
		return sorted
	}

	lowerQuery := strings.ToLower(query)
	filtered := make([]*models.IPORecord, 0, len(sorted))
	for _, record := range sorted {
		if strings.Contains(strings.ToLower(record.Name), lowerQuery) ||
			strings.Contains(strings.ToLower(record.Registrar), lowerQuery) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func containsRecord(records []*models.IPORecord, target *models.IPORecord) bool {
	for _, record := range records {
		if record == target {
			return true
		}
	}
	return false
}

// SortByStatusPriority returns a stably sorted copy: allotment out first, unclassified last
func SortByStatusPriority(records []*models.IPORecord) []*models.IPORecord {
	sorted := make([]*models.IPORecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityOf(sorted[i].Status) < priorityOf(sorted[j].Status)
	})
	return sorted
}

func priorityOf(status models.Status) int {
	if priority, ok := statusPriority[status.Kind]; ok {
		return priority
	}
	return unclassifiedStatusPriority
}
