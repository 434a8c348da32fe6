package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stepclass/stepclass-hub/internal/domain/badge"
	"github.com/stepclass/stepclass-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET BADGES QUERY
// Каталог бейджей с пометкой, какие из них студент уже заработал.
// ══════════════════════════════════════════════════════════════════════════════

// GetBadgesQuery содержит параметры запроса бейджей.
type GetBadgesQuery struct {
	// StudentID - чьи бейджи показать. Пустая строка - только каталог.
	StudentID string

	// EarnedOnly оставляет в ответе только заработанные бейджи.
	EarnedOnly bool
}

// BadgeView - строка ответа: определение плюс факт получения.
type BadgeView struct {
	Definition badge.Definition
	Earned     bool
	EarnedAt   time.Time
}

// GetBadgesResult содержит каталог с пометками.
type GetBadgesResult struct {
	Badges      []BadgeView
	EarnedCount int
}

// GetBadgesHandler обрабатывает GetBadgesQuery.
type GetBadgesHandler struct {
	badgeRepo badge.Repository
	log       *logger.Logger
}

// NewGetBadgesHandler создаёт новый GetBadgesHandler.
func NewGetBadgesHandler(badgeRepo badge.Repository, log *logger.Logger) *GetBadgesHandler {
	return &GetBadgesHandler{
		badgeRepo: badgeRepo,
		log:       log.With(logger.Component("get_badges")),
	}
}

// Handle выполняет запрос бейджей.
func (h *GetBadgesHandler) Handle(ctx context.Context, q GetBadgesQuery) (*GetBadgesResult, error) {
	if q.EarnedOnly && q.StudentID == "" {
		return nil, errors.New("get_badges: student_id is required for earned_only")
	}

	catalog, err := h.badgeRepo.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_badges: load catalog: %w", err)
	}

	earnedAt := make(map[badge.Code]time.Time)
	if q.StudentID != "" {
		awards, err := h.badgeRepo.AwardsFor(ctx, q.StudentID)
		if err != nil {
			return nil, fmt.Errorf("get_badges: load awards: %w", err)
		}
		for _, a := range awards {
			earnedAt[a.Code] = a.EarnedAt
		}
	}

	result := &GetBadgesResult{}
	for _, def := range catalog {
		at, earned := earnedAt[def.Code]
		if q.EarnedOnly && !earned {
			continue
		}
		if earned {
			result.EarnedCount++
		}
		result.Badges = append(result.Badges, BadgeView{
			Definition: def,
			Earned:     earned,
			EarnedAt:   at,
		})
	}
	return result, nil
}
