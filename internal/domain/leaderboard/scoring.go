// Package leaderboard содержит доменную модель рейтинга StepClass Hub.
// Рейтинг - это агрегат по всем студентам за скользящее окно из семи дней,
// пересчитываемый на каждый запрос. Снимки рейтинга не хранятся и не
// кешируются: цифры всегда отражают текущее состояние записей.
package leaderboard

import (
	"errors"
	"fmt"
	"math"

	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
)

// ══════════════════════════════════════════════════════════════════════════════
// ОШИБКИ ДОМЕНА
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidCategory возвращается при неизвестной категории рейтинга.
	// Неизвестная категория - это ошибка запроса, а не пустой рейтинг.
	ErrInvalidCategory = errors.New("leaderboard: invalid category")
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Category определяет метрику, по которой строится рейтинг.
type Category string

const (
	// CategoryComposite - сводный рейтинг по взвешенной сумме всех метрик.
	CategoryComposite Category = "composite"
	// CategoryBadges - рейтинг по числу бейджей за всё время.
	CategoryBadges Category = "badges"
	// CategorySteps - рейтинг по шагам за окно.
	CategorySteps Category = "steps"
	// CategoryMinutes - рейтинг по минутам упражнений за окно.
	CategoryMinutes Category = "minutes"
	// CategoryCalories - рейтинг по калориям за окно.
	CategoryCalories Category = "calories"
	// CategoryDistance - рейтинг по дистанции за окно.
	CategoryDistance Category = "distance"
)

// ParseCategory преобразует строку в категорию.
// Неизвестное значение - ошибка, никогда не дефолт.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryComposite, CategoryBadges, CategorySteps,
		CategoryMinutes, CategoryCalories, CategoryDistance:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// String возвращает строковое представление категории.
func (c Category) String() string {
	return string(c)
}

// Rank - позиция студента в рейтинге, начиная с 1.
// Позиции не сжимаются при равных очках: у равных студентов разные ранги.
type Rank int

// IsValid проверяет, что ранг положительный.
func (r Rank) IsValid() bool {
	return r > 0
}

// String возвращает строковое представление ранга.
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// ══════════════════════════════════════════════════════════════════════════════
// СВОДНЫЙ СЧЁТ
// ══════════════════════════════════════════════════════════════════════════════

// Веса компонентов сводного счёта.
const (
	pointsPerBadge        = 100 // за каждый бейдж
	stepsPerPoint         = 1000
	pointsPerMinute       = 2
	caloriesPerPoint      = 10
	pointsPerDistanceUnit = 10 // за каждый километр
	pointsPerActiveDay    = 50
)

// Input - сырьё для подсчёта очков одного студента: бейджи за всё время
// и суммы метрик за окно рейтинга.
type Input struct {
	StudentID  string
	Name       string
	ClassName  string
	Grade      int
	BadgeCount int
	Totals     exercise.Totals
}

// ScoreBreakdown - разбивка сводного счёта по компонентам.
// Все компоненты целочисленные; дробные метрики округляются вниз
// до начисления, а не после суммирования.
type ScoreBreakdown struct {
	Badges   int `json:"badge"`
	Steps    int `json:"steps"`
	Minutes  int `json:"minutes"`
	Calories int `json:"calories"`
	Distance int `json:"distance"`
	Days     int `json:"days"`
	Total    int `json:"total"`
}

// Score подсчитывает сводный счёт по входным данным.
func Score(in Input) ScoreBreakdown {
	b := ScoreBreakdown{
		Badges:   in.BadgeCount * pointsPerBadge,
		Steps:    in.Totals.Steps / stepsPerPoint,
		Minutes:  in.Totals.Minutes * pointsPerMinute,
		Calories: int(math.Floor(in.Totals.Calories / caloriesPerPoint)),
		Distance: int(math.Floor(in.Totals.DistanceKM * pointsPerDistanceUnit)),
		Days:     in.Totals.Days * pointsPerActiveDay,
	}
	b.Total = b.Badges + b.Steps + b.Minutes + b.Calories + b.Distance + b.Days
	return b
}

// CategoryValue возвращает значение метрики студента для категорийного
// рейтинга. Для дробных метрик значение не округляется.
func CategoryValue(c Category, in Input) float64 {
	switch c {
	case CategoryBadges:
		return float64(in.BadgeCount)
	case CategorySteps:
		return float64(in.Totals.Steps)
	case CategoryMinutes:
		return float64(in.Totals.Minutes)
	case CategoryCalories:
		return in.Totals.Calories
	case CategoryDistance:
		return in.Totals.DistanceKM
	}
	return 0
}
