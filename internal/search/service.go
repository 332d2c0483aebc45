package search

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/google/uuid"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
	maxTermLength       = 255
)

// RecordInput is the body of a search-history write.
type RecordInput struct {
	SearchTerm  string `json:"searchTerm" validate:"notblank,max=255"`
	SearchType  string `json:"searchType" validate:"required,oneof=product manufacturer distributor"`
	ResultCount int    `json:"resultCount" validate:"gte=0"`
}

// EntryDTO is one remembered search.
type EntryDTO struct {
	ID          uuid.UUID        `json:"id"`
	SearchTerm  string           `json:"searchTerm"`
	SearchType  enums.SearchType `json:"searchType"`
	ResultCount int              `json:"resultCount"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Service records and replays a user's recent searches.
type Service interface {
	History(ctx context.Context, userID uuid.UUID, limit int) ([]EntryDTO, error)
	Record(ctx context.Context, userID uuid.UUID, input RecordInput) (*EntryDTO, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "search history repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// History clamps limit into [1, MaxHistoryLimit]; zero or less means the default.
func (s *service) History(ctx context.Context, userID uuid.UUID, limit int) ([]EntryDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	rows, err := s.repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list search history")
	}
	out := make([]EntryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newEntryDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Record(ctx context.Context, userID uuid.UUID, input RecordInput) (*EntryDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	term := strings.TrimSpace(input.SearchTerm)
	if term == "" || utf8.RuneCountInString(term) > maxTermLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search term must be 1-255 characters")
	}
	kind, err := enums.ParseSearchType(strings.TrimSpace(input.SearchType))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search type must be product, manufacturer or distributor")
	}
	if input.ResultCount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "result count cannot be negative")
	}

	entry := &models.SearchHistory{
		ID:          uuid.New(),
		UserID:      userID,
		SearchTerm:  term,
		SearchType:  kind,
		ResultCount: input.ResultCount,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record search")
	}
	dto := newEntryDTO(entry)
	return &dto, nil
}

func newEntryDTO(e *models.SearchHistory) EntryDTO {
	return EntryDTO{
		ID:          e.ID,
		SearchTerm:  e.SearchTerm,
		SearchType:  e.SearchType,
		ResultCount: e.ResultCount,
		CreatedAt:   e.CreatedAt,
	}
}
