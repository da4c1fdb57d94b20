package entity

import (
	"time"
)

// Priority is the urgency level of a checklist item.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three known priority literals.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Checklist is owned by exactly one user. Items are kept ordered by
// DisplayOrder ascending. Aggregates (item counts, completion percentage)
// are never stored; they are computed from Items at read time.
type Checklist struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []ChecklistItem
}

// ChecklistItem belongs to exactly one checklist. DisplayOrder is
// non-negative but not required to be contiguous or unique.
type ChecklistItem struct {
	ID           string
	ChecklistID  string
	Description  string
	IsCompleted  bool
	Priority     Priority
	DueDate      *time.Time
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Overdue reports whether the item has a due date in the past and is not
// yet completed.
func (i *ChecklistItem) Overdue(now time.Time) bool {
	if i.DueDate == nil || i.IsCompleted {
		return false
	}
	return now.After(*i.DueDate)
}

// TotalItems returns the number of items in the collection.
func TotalItems(items []ChecklistItem) int {
	return len(items)
}

// CompletedItems returns the number of completed items in the collection.
func CompletedItems(items []ChecklistItem) int {
	n := 0
	for i := range items {
		if items[i].IsCompleted {
			n++
		}
	}
	return n
}

// CompletionPercentage returns completed/total*100, or 0 for an empty
// collection.
func CompletionPercentage(items []ChecklistItem) float64 {
	if len(items) == 0 {
		return 0
	}
	return float64(CompletedItems(items)) / float64(len(items)) * 100
}
