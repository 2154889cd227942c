package domain

import "sort"

// ChangeTracker tracks which cart fields and item rows have been modified
// since the aggregate was loaded, so repositories write only what changed.
type ChangeTracker struct {
	dirtyFields  map[string]bool
	addedItems   map[string]bool
	updatedItems map[string]bool
	removedItems map[string]bool
}

// NewChangeTracker creates a new ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{
		dirtyFields:  make(map[string]bool),
		addedItems:   make(map[string]bool),
		updatedItems: make(map[string]bool),
		removedItems: make(map[string]bool),
	}
}

// MarkDirty marks a cart field as modified.
func (ct *ChangeTracker) MarkDirty(field string) {
	ct.dirtyFields[field] = true
}

// Dirty checks if a cart field has been modified.
func (ct *ChangeTracker) Dirty(field string) bool {
	return ct.dirtyFields[field]
}

// MarkItemAdded records a new item row.
func (ct *ChangeTracker) MarkItemAdded(itemID string) {
	delete(ct.removedItems, itemID)
	ct.addedItems[itemID] = true
}

// MarkItemUpdated records a changed item row. Rows added in the same
// session stay inserts.
func (ct *ChangeTracker) MarkItemUpdated(itemID string) {
	if ct.addedItems[itemID] {
		return
	}
	ct.updatedItems[itemID] = true
}

// MarkItemRemoved records a deleted item row. Removing a row added in the
// same session cancels the insert.
func (ct *ChangeTracker) MarkItemRemoved(itemID string) {
	delete(ct.updatedItems, itemID)
	if ct.addedItems[itemID] {
		delete(ct.addedItems, itemID)
		return
	}
	ct.removedItems[itemID] = true
}

// AddedItems returns the IDs of inserted items, sorted.
func (ct *ChangeTracker) AddedItems() []string { return sortedKeys(ct.addedItems) }

// UpdatedItems returns the IDs of updated items, sorted.
func (ct *ChangeTracker) UpdatedItems() []string { return sortedKeys(ct.updatedItems) }

// RemovedItems returns the IDs of deleted items, sorted.
func (ct *ChangeTracker) RemovedItems() []string { return sortedKeys(ct.removedItems) }

// HasChanges returns true if any field or item has been modified.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirtyFields) > 0 || len(ct.addedItems) > 0 ||
		len(ct.updatedItems) > 0 || len(ct.removedItems) > 0
}

// DirtyFields returns the modified cart field names, sorted.
func (ct *ChangeTracker) DirtyFields() []string {
	return sortedKeys(ct.dirtyFields)
}

// Clear clears all markers.
func (ct *ChangeTracker) Clear() {
	*ct = *NewChangeTracker()
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
