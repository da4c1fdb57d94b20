package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/checklist-api/internal/domain/entity"
	"github.com/oksasatya/checklist-api/internal/domain/repository"
)

const itemColumns = `id, checklist_id, description, is_completed, priority, due_date, display_order, created_at, updated_at`

type ChecklistRepository struct {
	pool *pgxpool.Pool
}

func NewChecklistRepository(pool *pgxpool.Pool) *ChecklistRepository {
	return &ChecklistRepository{pool: pool}
}

func (r *ChecklistRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]entity.Checklist, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM checklists WHERE user_id = $1
	`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, description, created_at, updated_at
		FROM checklists
		WHERE user_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, userID, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var lists []entity.Checklist
	for rows.Next() {
		var c entity.Checklist
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		c.Items = []entity.ChecklistItem{}
		lists = append(lists, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(lists) == 0 {
		return lists, total, nil
	}

	// Batch-load items for the whole page so aggregates can be derived
	// without a per-checklist round trip.
	ids := make([]string, len(lists))
	index := make(map[string]int, len(lists))
	for i := range lists {
		ids[i] = lists[i].ID
		index[lists[i].ID] = i
	}
	itemRows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM checklist_items
		WHERE checklist_id = ANY($1)
		ORDER BY display_order ASC, created_at ASC
	`, ids)
	if err != nil {
		return nil, 0, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		it, err := scanItem(itemRows)
		if err != nil {
			return nil, 0, err
		}
		i := index[it.ChecklistID]
		lists[i].Items = append(lists[i].Items, *it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, 0, err
	}
	return lists, total, nil
}

func (r *ChecklistRepository) GetByID(ctx context.Context, userID, checklistID string) (*entity.Checklist, error) {
	c := &entity.Checklist{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, title, description, created_at, updated_at
		FROM checklists
		WHERE id = $1 AND user_id = $2
	`, checklistID, userID)
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM checklist_items
		WHERE checklist_id = $1
		ORDER BY display_order ASC, created_at ASC
	`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	c.Items = []entity.ChecklistItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		c.Items = append(c.Items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ChecklistRepository) Create(ctx context.Context, c *entity.Checklist) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO checklists (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.UserID, c.Title, c.Description)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}

	for i := range c.Items {
		it := &c.Items[i]
		it.ChecklistID = c.ID
		row := tx.QueryRow(ctx, `
			INSERT INTO checklist_items (checklist_id, description, is_completed, priority, due_date, display_order)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`, it.ChecklistID, it.Description, it.IsCompleted, string(it.Priority), it.DueDate, it.DisplayOrder)
		if err := row.Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ChecklistRepository) Update(ctx context.Context, c *entity.Checklist) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE checklists
		SET title = $1, description = $2, updated_at = now()
		WHERE id = $3 AND user_id = $4
		RETURNING updated_at
	`, c.Title, c.Description, c.ID, c.UserID)
	if err := row.Scan(&c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes items first, then the checklist, inside one transaction.
// The FK cascade would cover the items anyway; the explicit two-step keeps
// the deletion order visible and scoped to the owner.
func (r *ChecklistRepository) Delete(ctx context.Context, userID, checklistID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM checklist_items
		WHERE checklist_id IN (
			SELECT id FROM checklists WHERE id = $1 AND user_id = $2
		)
	`, checklistID, userID); err != nil {
		return false, err
	}
	res, err := tx.Exec(ctx, `
		DELETE FROM checklists WHERE id = $1 AND user_id = $2
	`, checklistID, userID)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// CreateItem inserts via a SELECT over the owned checklist, so the
// ownership check and the insert are one statement: no row is written when
// the checklist is absent or owned by someone else.
func (r *ChecklistRepository) CreateItem(ctx context.Context, userID string, it *entity.ChecklistItem) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO checklist_items (checklist_id, description, is_completed, priority, due_date, display_order)
		SELECT c.id, $3, $4, $5, $6, $7
		FROM checklists c
		WHERE c.id = $1 AND c.user_id = $2
		RETURNING id, created_at, updated_at
	`, it.ChecklistID, userID, it.Description, it.IsCompleted, string(it.Priority), it.DueDate, it.DisplayOrder)
	if err := row.Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *ChecklistRepository) GetItem(ctx context.Context, userID, itemID string) (*entity.ChecklistItem, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT i.id, i.checklist_id, i.description, i.is_completed, i.priority, i.due_date, i.display_order, i.created_at, i.updated_at
		FROM checklist_items i
		JOIN checklists c ON c.id = i.checklist_id
		WHERE i.id = $1 AND c.user_id = $2
	`, itemID, userID)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return it, nil
}

func (r *ChecklistRepository) UpdateItem(ctx context.Context, userID string, it *entity.ChecklistItem) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE checklist_items i
		SET description = $3, is_completed = $4, priority = $5, due_date = $6, display_order = $7, updated_at = now()
		FROM checklists c
		WHERE i.id = $1 AND c.id = i.checklist_id AND c.user_id = $2
		RETURNING i.updated_at
	`, it.ID, userID, it.Description, it.IsCompleted, string(it.Priority), it.DueDate, it.DisplayOrder)
	if err := row.Scan(&it.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *ChecklistRepository) DeleteItem(ctx context.Context, userID, itemID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM checklist_items i
		USING checklists c
		WHERE i.id = $1 AND c.id = i.checklist_id AND c.user_id = $2
	`, itemID, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// ToggleItem negates the completion flag in a single UPDATE, so each toggle
// is atomic with its own read. Concurrent toggles of the same item may
// still race to an indeterminate final value.
func (r *ChecklistRepository) ToggleItem(ctx context.Context, userID, itemID string) (*entity.ChecklistItem, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE checklist_items i
		SET is_completed = NOT i.is_completed, updated_at = now()
		FROM checklists c
		WHERE i.id = $1 AND c.id = i.checklist_id AND c.user_id = $2
		RETURNING i.id, i.checklist_id, i.description, i.is_completed, i.priority, i.due_date, i.display_order, i.created_at, i.updated_at
	`, itemID, userID)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return it, nil
}

func scanItem(row pgx.Row) (*entity.ChecklistItem, error) {
	it := &entity.ChecklistItem{}
	var priority string
	if err := row.Scan(&it.ID, &it.ChecklistID, &it.Description, &it.IsCompleted, &priority,
		&it.DueDate, &it.DisplayOrder, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Priority = entity.Priority(priority)
	return it, nil
}

var _ repository.ChecklistRepository = (*ChecklistRepository)(nil)
