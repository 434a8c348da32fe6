package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepclass/stepclass-hub/internal/domain/badge"
)

func TestGetBadges_CatalogWithEarnedMarkers(t *testing.T) {
	badges := &fakeBadgeRepo{awards: map[string][]badge.Award{
		"s1": badgeAwards("s1", badge.CodeFirstStep, badge.CodeStreak3),
	}}
	h := NewGetBadgesHandler(badges, queryLogger())

	result, err := h.Handle(context.Background(), GetBadgesQuery{StudentID: "s1"})
	require.NoError(t, err)

	assert.Len(t, result.Badges, 20)
	assert.Equal(t, 2, result.EarnedCount)

	earned := make(map[badge.Code]bool)
	for _, v := range result.Badges {
		earned[v.Definition.Code] = v.Earned
	}
	assert.True(t, earned[badge.CodeFirstStep])
	assert.True(t, earned[badge.CodeStreak3])
	assert.False(t, earned[badge.CodeStreak30])
}

func TestGetBadges_EarnedOnly(t *testing.T) {
	badges := &fakeBadgeRepo{awards: map[string][]badge.Award{
		"s1": badgeAwards("s1", badge.CodeFirstStep),
	}}
	h := NewGetBadgesHandler(badges, queryLogger())

	result, err := h.Handle(context.Background(), GetBadgesQuery{StudentID: "s1", EarnedOnly: true})
	require.NoError(t, err)

	require.Len(t, result.Badges, 1)
	assert.Equal(t, badge.CodeFirstStep, result.Badges[0].Definition.Code)
	assert.True(t, result.Badges[0].EarnedAt.Equal(queryToday))
}

func TestGetBadges_EarnedOnlyRequiresStudent(t *testing.T) {
	h := NewGetBadgesHandler(&fakeBadgeRepo{}, queryLogger())

	_, err := h.Handle(context.Background(), GetBadgesQuery{EarnedOnly: true})
	assert.Error(t, err)
}

func TestGetBadges_PlainCatalog(t *testing.T) {
	h := NewGetBadgesHandler(&fakeBadgeRepo{}, queryLogger())

	result, err := h.Handle(context.Background(), GetBadgesQuery{})
	require.NoError(t, err)

	assert.Len(t, result.Badges, 20)
	assert.Zero(t, result.EarnedCount)
	for _, v := range result.Badges {
		assert.False(t, v.Earned)
	}
}
