package services

import "github.com/fenilmodi00/ipo-allotment-tracker/models"

// FindMatchingRecord looks up the logical counterpart of selected in records:
// first by id, then by exact (case-sensitive) name.
func FindMatchingRecord(records []*models.IPORecord, selected *models.IPORecord) *models.IPORecord {
	if selected == nil {
		return nil
	}
	for _, record := range records {
		if record.ID == selected.ID {
			return record
		}
	}
	for _, record := range records {
		if record.Name == selected.Name {
			return record
		}
	}
	return nil
}

// SelectionReconciler keeps the user's selected record current across snapshot replacements.
// It is not safe for concurrent use; DashboardState serializes access to it.
type SelectionReconciler struct {
	selected *models.IPORecord
}

// NewSelectionReconciler creates a reconciler with nothing selected
func NewSelectionReconciler() *SelectionReconciler {
	return &SelectionReconciler{}
}

// Selected returns the held selection, or nil
func (r *SelectionReconciler) Selected() *models.IPORecord {
	return r.selected
}

// Select replaces the held selection
func (r *SelectionReconciler) Select(record *models.IPORecord) {
	r.selected = record
}

// Clear drops the held selection
func (r *SelectionReconciler) Clear() {
	r.selected = nil
}

// Reconcile re-resolves the selection against a freshly replaced snapshot.
// A selection missing from the snapshot is kept as is. It reports whether the held record changed.
func (r *SelectionReconciler) Reconcile(records []*models.IPORecord) bool {
	if r.selected == nil {
		return false
	}

	match := FindMatchingRecord(records, r.selected)
	if match == nil || match == r.selected {
		return false
	}

	r.selected = match
	return true
}
