package tag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/repository"
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Service handles tag operations.
type Service struct {
	kv         repository.KV
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new tag service.
func NewService(kv repository.KV, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{kv: kv, activities: activities, logger: logger}
}

// Create creates a new tag on a board.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Tag, error) {
	if strings.TrimSpace(req.BoardID) == "" {
		return nil, ErrInvalidInput
	}
	color := req.Color
	if color == "" {
		color = DefaultColor
	}
	if !colorPattern.MatchString(color) {
		return nil, ErrInvalidInput
	}

	t := Tag{
		ID:      uuid.NewString(),
		BoardID: req.BoardID,
		Title:   req.Title,
		Color:   color,
	}
	if err := repository.Put(ctx, s.kv, repository.Tags, t); err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}

	s.log(ctx, t, activity.TypeTagCreated, "created tag %q")
	return &t, nil
}

// Get fetches a tag by ID.
func (s *Service) Get(ctx context.Context, id string) (*Tag, error) {
	t, err := repository.Get[Tag](ctx, s.kv, repository.Tags, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("getting tag: %w", err)
	}
	return &t, nil
}

// List returns the tags of a board sorted by title.
func (s *Service) List(ctx context.Context, boardID string) ([]Tag, error) {
	tags, err := repository.Query(ctx, s.kv, repository.Tags, func(t Tag) bool {
		return t.BoardID == boardID
	})
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Title != tags[j].Title {
			return tags[i].Title < tags[j].Title
		}
		return tags[i].ID < tags[j].ID
	})
	return tags, nil
}

// Update merges the request into an existing tag.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Tag, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Color != nil {
		if !colorPattern.MatchString(*req.Color) {
			return nil, ErrInvalidInput
		}
		t.Color = *req.Color
	}

	if err := repository.Put(ctx, s.kv, repository.Tags, *t); err != nil {
		return nil, fmt.Errorf("updating tag: %w", err)
	}

	s.log(ctx, *t, activity.TypeTagUpdated, "updated tag %q")
	return t, nil
}

// Delete removes a tag.
func (s *Service) Delete(ctx context.Context, id string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, repository.Tags, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("deleting tag: %w", err)
	}

	s.log(ctx, *t, activity.TypeTagDeleted, "deleted tag %q")
	return nil
}

func (s *Service) log(ctx context.Context, t Tag, typ activity.ActivityType, format string) {
	if s.activities == nil {
		return
	}
	id := t.ID
	_ = s.activities.Log(ctx, &activity.ActivityEntry{
		BoardID:      t.BoardID,
		EntityID:     &id,
		ActivityType: typ,
		Summary:      fmt.Sprintf(format, t.Title),
	})
}
