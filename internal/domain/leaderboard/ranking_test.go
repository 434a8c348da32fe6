package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
)

func TestScore_Weights(t *testing.T) {
	in := Input{
		BadgeCount: 2,
		Totals: exercise.Totals{
			Days:       3,
			Steps:      15_000,
			Minutes:    90,
			Calories:   800,
			DistanceKM: 5.0,
		},
	}

	b := Score(in)
	assert.Equal(t, 200, b.Badges)
	assert.Equal(t, 15, b.Steps)
	assert.Equal(t, 180, b.Minutes)
	assert.Equal(t, 80, b.Calories)
	assert.Equal(t, 50, b.Distance)
	assert.Equal(t, 150, b.Days)
	assert.Equal(t, 675, b.Total)
}

func TestScore_FractionsFloorPerComponent(t *testing.T) {
	in := Input{
		Totals: exercise.Totals{
			Steps:      1_999,  // floor(1999/1000) = 1
			Calories:   109.9,  // floor(10.99) = 10
			DistanceKM: 1.2345, // floor(12.345) = 12
		},
	}

	b := Score(in)
	assert.Equal(t, 1, b.Steps)
	assert.Equal(t, 10, b.Calories)
	assert.Equal(t, 12, b.Distance)
}

func TestRankComposite_WorkedExample(t *testing.T) {
	// A: два бейджа за всё время, ни одной записи в окне → 200 очков.
	// B: без бейджей, 15000 шагов, 90 минут, 800 калорий, 5 км за 3 дня → 475.
	population := []Input{
		{StudentID: "a", Name: "A", BadgeCount: 2},
		{StudentID: "b", Name: "B", Totals: exercise.Totals{
			Days: 3, Steps: 15_000, Minutes: 90, Calories: 800, DistanceKM: 5.0,
		}},
	}

	entries := RankComposite(population)
	require.Len(t, entries, 2)

	assert.Equal(t, "b", entries[0].StudentID)
	assert.Equal(t, 475, entries[0].Scores.Total)
	assert.Equal(t, Rank(1), entries[0].Rank)

	assert.Equal(t, "a", entries[1].StudentID)
	assert.Equal(t, 200, entries[1].Scores.Total)
	assert.Equal(t, Rank(2), entries[1].Rank)
}

func TestRankComposite_ZeroStudentsKept(t *testing.T) {
	population := []Input{
		{StudentID: "a"},
		{StudentID: "b", Totals: exercise.Totals{Steps: 1000}},
	}

	entries := RankComposite(population)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[1].StudentID)
	assert.Equal(t, 0, entries[1].Scores.Total)
}

func TestRankComposite_StableTies(t *testing.T) {
	// Равные очки сохраняют входной порядок (по идентификатору студента).
	population := []Input{
		{StudentID: "a", BadgeCount: 1},
		{StudentID: "b", BadgeCount: 1},
		{StudentID: "c", BadgeCount: 2},
	}

	entries := RankComposite(population)
	require.Len(t, entries, 3)

	assert.Equal(t, "c", entries[0].StudentID)
	assert.Equal(t, "a", entries[1].StudentID)
	assert.Equal(t, "b", entries[2].StudentID)
}

func TestRankComposite_NoRankCompression(t *testing.T) {
	population := []Input{
		{StudentID: "a", BadgeCount: 1},
		{StudentID: "b", BadgeCount: 1},
	}

	entries := RankComposite(population)
	require.Len(t, entries, 2)

	// Равные очки, но ранги разные и последовательные.
	assert.Equal(t, Rank(1), entries[0].Rank)
	assert.Equal(t, Rank(2), entries[1].Rank)
}

func TestRankByCategory_Steps(t *testing.T) {
	population := []Input{
		{StudentID: "a", Totals: exercise.Totals{Steps: 5000}},
		{StudentID: "b", Totals: exercise.Totals{Steps: 9000}},
		{StudentID: "c", Totals: exercise.Totals{Steps: 5000}},
	}

	entries, err := RankByCategory(CategorySteps, population)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "b", entries[0].StudentID)
	// Ничья a/c: входной порядок сохраняется.
	assert.Equal(t, "a", entries[1].StudentID)
	assert.Equal(t, "c", entries[2].StudentID)
	assert.Equal(t, Rank(3), entries[2].Rank)
}

func TestRankByCategory_Distance_NoRounding(t *testing.T) {
	population := []Input{
		{StudentID: "a", Totals: exercise.Totals{DistanceKM: 5.04}},
		{StudentID: "b", Totals: exercise.Totals{DistanceKM: 5.01}},
	}

	entries, err := RankByCategory(CategoryDistance, population)
	require.NoError(t, err)
	assert.Equal(t, "a", entries[0].StudentID)
	assert.Equal(t, 5.04, entries[0].Value)
}

func TestRankByCategory_Badges(t *testing.T) {
	population := []Input{
		{StudentID: "a", BadgeCount: 3},
		{StudentID: "b", BadgeCount: 7},
	}

	entries, err := RankByCategory(CategoryBadges, population)
	require.NoError(t, err)
	assert.Equal(t, "b", entries[0].StudentID)
	assert.Equal(t, 7.0, entries[0].Value)
}

func TestRankByCategory_RejectsComposite(t *testing.T) {
	_, err := RankByCategory(CategoryComposite, nil)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestParseCategory(t *testing.T) {
	for _, valid := range []string{"composite", "badges", "steps", "minutes", "calories", "distance"} {
		c, err := ParseCategory(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, c.String())
	}

	_, err := ParseCategory("weight")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = ParseCategory("")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
