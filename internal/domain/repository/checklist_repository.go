package repository

import (
	"context"

	"github.com/oksasatya/checklist-api/internal/domain/entity"
)

// ChecklistRepository defines the ownership-scoped store for checklists and
// their items. Every method takes the requesting user's id and treats
// entities owned by someone else exactly like missing ones.
type ChecklistRepository interface {
	// ListByUser returns the user's checklists ordered by creation time
	// descending, windowed by (skip, limit), with items loaded, plus the
	// total count ignoring the window.
	ListByUser(ctx context.Context, userID string, skip, limit int) ([]entity.Checklist, int, error)

	// GetByID returns the checklist with items ordered by display order
	// ascending, or ErrNotFound.
	GetByID(ctx context.Context, userID, checklistID string) (*entity.Checklist, error)

	// Create persists the checklist and all of its items in one
	// transaction; on failure nothing is written. Generated ids and
	// timestamps are filled into c.
	Create(ctx context.Context, c *entity.Checklist) error

	// Update persists title and description for an owned checklist and
	// refreshes its updated_at.
	Update(ctx context.Context, c *entity.Checklist) error

	// Delete removes the checklist and its items in one transaction and
	// reports whether a row was deleted.
	Delete(ctx context.Context, userID, checklistID string) (bool, error)

	// CreateItem inserts an item into an owned checklist; ErrNotFound when
	// the checklist is absent or owned by someone else. The ownership check
	// happens before anything is persisted.
	CreateItem(ctx context.Context, userID string, it *entity.ChecklistItem) error

	// GetItem resolves item -> checklist -> owner in one lookup.
	GetItem(ctx context.Context, userID, itemID string) (*entity.ChecklistItem, error)

	// UpdateItem persists the item's mutable fields through the same
	// ownership join.
	UpdateItem(ctx context.Context, userID string, it *entity.ChecklistItem) error

	// DeleteItem removes a single owned item and reports whether a row was
	// deleted.
	DeleteItem(ctx context.Context, userID, itemID string) (bool, error)

	// ToggleItem atomically negates the completion flag of an owned item
	// and returns the updated row.
	ToggleItem(ctx context.Context, userID, itemID string) (*entity.ChecklistItem, error)
}
