package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/checklist-api/internal/domain/entity"
	repo "github.com/oksasatya/checklist-api/internal/domain/repository"
)

// ErrValidation marks input rejected before anything is persisted. The
// wrapped message names the offending field.
var ErrValidation = errors.New("invalid input")

const (
	MaxTitleLen           = 255
	MaxDescriptionLen     = 2000
	MaxItemDescriptionLen = 1000
	MaxInitialItems       = 50
	MaxPageSize           = 100
)

// ChecklistService validates input, delegates to the ownership-scoped
// repository, and mirrors checklists into Elasticsearch for search. The ES
// client is optional; when nil, indexing and search degrade gracefully.
type ChecklistService struct {
	Repo    repo.ChecklistRepository
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewChecklistService(r repo.ChecklistRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ChecklistService {
	return &ChecklistService{Repo: r, Logger: logger, ES: es, ESIndex: esIndex}
}

// NewItemInput carries the fields accepted when creating an item.
type NewItemInput struct {
	Description  string
	Priority     entity.Priority // empty means medium
	DueDate      *time.Time
	DisplayOrder int
}

// CreateChecklistInput carries the fields for creating a checklist with
// optional initial items.
type CreateChecklistInput struct {
	Title       string
	Description *string
	Items       []NewItemInput
}

// UpdateChecklistInput applies partial-update semantics: nil fields are
// left untouched.
type UpdateChecklistInput struct {
	Title       *string
	Description *string
}

// UpdateItemInput applies partial-update semantics: nil fields are left
// untouched. A due date, once set, cannot be cleared through a partial
// payload.
type UpdateItemInput struct {
	Description  *string
	IsCompleted  *bool
	Priority     *entity.Priority
	DueDate      *time.Time
	DisplayOrder *int
}

func (s *ChecklistService) List(ctx context.Context, userID string, skip, limit int) ([]entity.Checklist, int, error) {
	return s.Repo.ListByUser(ctx, userID, skip, limit)
}

func (s *ChecklistService) Get(ctx context.Context, userID, checklistID string) (*entity.Checklist, error) {
	return s.Repo.GetByID(ctx, userID, checklistID)
}

func (s *ChecklistService) Create(ctx context.Context, userID string, in CreateChecklistInput) (*entity.Checklist, error) {
	title, err := requireTrimmed(in.Title, MaxTitleLen, "title")
	if err != nil {
		return nil, err
	}
	desc, err := optionalTrimmed(in.Description, MaxDescriptionLen, "description")
	if err != nil {
		return nil, err
	}
	if len(in.Items) > MaxInitialItems {
		return nil, fmt.Errorf("%w: cannot create more than %d items at once", ErrValidation, MaxInitialItems)
	}

	items := make([]entity.ChecklistItem, len(in.Items))
	for i, raw := range in.Items {
		it, err := buildItem(raw)
		if err != nil {
			return nil, err
		}
		// Initial items are ordered by their position in the request,
		// regardless of any caller-supplied order value.
		it.DisplayOrder = i
		items[i] = *it
	}

	c := &entity.Checklist{UserID: userID, Title: title, Description: desc, Items: items}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"checklist_id": c.ID, "user_id": userID, "items": len(items)}).Info("checklist created")
	}
	s.indexChecklist(ctx, c)
	return c, nil
}

func (s *ChecklistService) Update(ctx context.Context, userID, checklistID string, in UpdateChecklistInput) (*entity.Checklist, error) {
	c, err := s.Repo.GetByID(ctx, userID, checklistID)
	if err != nil {
		return nil, err
	}

	changed := false
	if in.Title != nil {
		title, err := requireTrimmed(*in.Title, MaxTitleLen, "title")
		if err != nil {
			return nil, err
		}
		c.Title = title
		changed = true
	}
	if in.Description != nil {
		desc, err := optionalTrimmed(in.Description, MaxDescriptionLen, "description")
		if err != nil {
			return nil, err
		}
		c.Description = desc
		changed = true
	}
	// An empty partial update still succeeds and returns the unchanged row.
	if !changed {
		return c, nil
	}

	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.indexChecklist(ctx, c)
	return c, nil
}

func (s *ChecklistService) Delete(ctx context.Context, userID, checklistID string) (bool, error) {
	deleted, err := s.Repo.Delete(ctx, userID, checklistID)
	if err != nil {
		return false, err
	}
	if deleted {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"checklist_id": checklistID, "user_id": userID}).Info("checklist deleted")
		}
		s.removeFromIndex(ctx, checklistID)
	}
	return deleted, nil
}

func (s *ChecklistService) CreateItem(ctx context.Context, userID, checklistID string, in NewItemInput) (*entity.ChecklistItem, error) {
	it, err := buildItem(in)
	if err != nil {
		return nil, err
	}
	it.ChecklistID = checklistID
	if err := s.Repo.CreateItem(ctx, userID, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *ChecklistService) UpdateItem(ctx context.Context, userID, itemID string, in UpdateItemInput) (*entity.ChecklistItem, error) {
	it, err := s.Repo.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	changed := false
	if in.Description != nil {
		desc, err := requireTrimmed(*in.Description, MaxItemDescriptionLen, "description")
		if err != nil {
			return nil, err
		}
		it.Description = desc
		changed = true
	}
	if in.IsCompleted != nil {
		it.IsCompleted = *in.IsCompleted
		changed = true
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
		}
		it.Priority = *in.Priority
		changed = true
	}
	if in.DueDate != nil {
		it.DueDate = in.DueDate
		changed = true
	}
	if in.DisplayOrder != nil {
		if *in.DisplayOrder < 0 {
			return nil, fmt.Errorf("%w: display_order must not be negative", ErrValidation)
		}
		it.DisplayOrder = *in.DisplayOrder
		changed = true
	}
	if !changed {
		return it, nil
	}

	if err := s.Repo.UpdateItem(ctx, userID, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *ChecklistService) GetItem(ctx context.Context, userID, itemID string) (*entity.ChecklistItem, error) {
	return s.Repo.GetItem(ctx, userID, itemID)
}

func (s *ChecklistService) DeleteItem(ctx context.Context, userID, itemID string) (bool, error) {
	return s.Repo.DeleteItem(ctx, userID, itemID)
}

func (s *ChecklistService) ToggleItem(ctx context.Context, userID, itemID string) (*entity.ChecklistItem, error) {
	return s.Repo.ToggleItem(ctx, userID, itemID)
}

// SearchChecklists performs a multi_match over title and description,
// filtered to the requesting user. Returns raw source documents.
func (s *ChecklistService) SearchChecklists(ctx context.Context, userID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *ChecklistService) indexChecklist(ctx context.Context, c *entity.Checklist) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         c.ID,
		"user_id":    c.UserID,
		"title":      c.Title,
		"created_at": c.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": c.UpdatedAt.Format(time.RFC3339Nano),
	}
	if c.Description != nil {
		doc["description"] = *c.Description
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: c.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	tctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(tctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("checklist_id", c.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("checklist_id", c.ID).Warn("es index response error")
	}
}

func (s *ChecklistService) removeFromIndex(ctx context.Context, checklistID string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: checklistID}

	tctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(tctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("checklist_id", checklistID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

func buildItem(in NewItemInput) (*entity.ChecklistItem, error) {
	desc, err := requireTrimmed(in.Description, MaxItemDescriptionLen, "description")
	if err != nil {
		return nil, err
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
	}
	if in.DisplayOrder < 0 {
		return nil, fmt.Errorf("%w: display_order must not be negative", ErrValidation)
	}
	return &entity.ChecklistItem{
		Description:  desc,
		Priority:     priority,
		DueDate:      in.DueDate,
		DisplayOrder: in.DisplayOrder,
	}, nil
}

func requireTrimmed(v string, max int, field string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s must not be blank", ErrValidation, field)
	}
	// Limits count characters, not bytes.
	if utf8.RuneCountInString(v) > max {
		return "", fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, field, max)
	}
	return v, nil
}

func optionalTrimmed(v *string, max int, field string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	t, err := requireTrimmed(*v, max, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
