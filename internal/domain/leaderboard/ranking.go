package leaderboard

import (
	"sort"
)

// ══════════════════════════════════════════════════════════════════════════════
// РАНЖИРОВАНИЕ
// ══════════════════════════════════════════════════════════════════════════════

// Entry - строка сводного рейтинга.
type Entry struct {
	Rank       Rank
	StudentID  string
	Name       string
	ClassName  string
	Grade      int
	BadgeCount int
	Steps      int
	Minutes    int
	Calories   float64
	DistanceKM float64
	Days       int
	Scores     ScoreBreakdown
}

// CategoryEntry - строка категорийного рейтинга с одним значением метрики.
type CategoryEntry struct {
	Rank      Rank
	StudentID string
	Name      string
	ClassName string
	Value     float64
}

// RankComposite строит сводный рейтинг. Входная популяция должна быть
// упорядочена по идентификатору студента: сортировка стабильная, поэтому
// при равных очках порядок по идентификатору сохраняется. Студенты без
// записей в окне участвуют с нулевыми метриками, а не исключаются.
func RankComposite(population []Input) []Entry {
	entries := make([]Entry, 0, len(population))
	for _, in := range population {
		entries = append(entries, Entry{
			StudentID:  in.StudentID,
			Name:       in.Name,
			ClassName:  in.ClassName,
			Grade:      in.Grade,
			BadgeCount: in.BadgeCount,
			Steps:      in.Totals.Steps,
			Minutes:    in.Totals.Minutes,
			Calories:   in.Totals.Calories,
			DistanceKM: in.Totals.DistanceKM,
			Days:       in.Totals.Days,
			Scores:     Score(in),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Scores.Total > entries[j].Scores.Total
	})

	// Ранги присваиваются подряд, без сжатия при равенстве.
	for i := range entries {
		entries[i].Rank = Rank(i + 1)
	}
	return entries
}

// RankByCategory строит рейтинг по одной метрике.
// Сводная категория сюда не попадает: для неё есть RankComposite.
func RankByCategory(c Category, population []Input) ([]CategoryEntry, error) {
	if c == CategoryComposite {
		return nil, ErrInvalidCategory
	}
	if !isKnownCategory(c) {
		return nil, ErrInvalidCategory
	}

	entries := make([]CategoryEntry, 0, len(population))
	for _, in := range population {
		entries = append(entries, CategoryEntry{
			StudentID: in.StudentID,
			Name:      in.Name,
			ClassName: in.ClassName,
			Value:     CategoryValue(c, in),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	for i := range entries {
		entries[i].Rank = Rank(i + 1)
	}
	return entries, nil
}

func isKnownCategory(c Category) bool {
	switch c {
	case CategoryComposite, CategoryBadges, CategorySteps,
		CategoryMinutes, CategoryCalories, CategoryDistance:
		return true
	}
	return false
}
