package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompletionPercentage_Empty(t *testing.T) {
	assert.Equal(t, 0, TotalItems(nil))
	assert.Equal(t, 0, CompletedItems(nil))
	assert.Equal(t, 0.0, CompletionPercentage(nil))
}

func TestCompletionPercentage(t *testing.T) {
	items := []ChecklistItem{
		{Description: "Milk", IsCompleted: true},
		{Description: "Eggs"},
		{Description: "Bread", IsCompleted: true},
		{Description: "Butter"},
	}
	assert.Equal(t, 4, TotalItems(items))
	assert.Equal(t, 2, CompletedItems(items))
	assert.InDelta(t, 50.0, CompletionPercentage(items), 1e-9)

	items[1].IsCompleted = true
	assert.InDelta(t, 75.0, CompletionPercentage(items), 1e-9)
	assert.LessOrEqual(t, CompletedItems(items), TotalItems(items))
}

func TestCompletionPercentage_Thirds(t *testing.T) {
	items := []ChecklistItem{{IsCompleted: true}, {}, {}}
	assert.InDelta(t, 100.0/3.0, CompletionPercentage(items), 1e-9)
}

func TestChecklistItem_Overdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	noDue := ChecklistItem{}
	assert.False(t, noDue.Overdue(now))

	pending := ChecklistItem{DueDate: &past}
	assert.True(t, pending.Overdue(now))

	done := ChecklistItem{DueDate: &past, IsCompleted: true}
	assert.False(t, done.Overdue(now))

	upcoming := ChecklistItem{DueDate: &future}
	assert.False(t, upcoming.Overdue(now))
}

func TestPriority_Valid(t *testing.T) {
	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgent").Valid())
	assert.False(t, Priority("").Valid())
}
