package domain

import (
	"maps"
	"slices"
)

// ChangeTracker records which fields of an aggregate changed since it was
// created or loaded. Stores write only those columns and update events list
// them.
type ChangeTracker struct {
	dirty map[string]struct{}
}

func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirty: make(map[string]struct{})}
}

// MarkDirty flags fields as changed.
func (ct *ChangeTracker) MarkDirty(fields ...string) {
	for _, f := range fields {
		ct.dirty[f] = struct{}{}
	}
}

func (ct *ChangeTracker) Dirty(field string) bool {
	_, ok := ct.dirty[field]
	return ok
}

func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirty) > 0
}

// DirtyFields lists the changed fields in sorted order.
func (ct *ChangeTracker) DirtyFields() []string {
	return slices.Sorted(maps.Keys(ct.dirty))
}
