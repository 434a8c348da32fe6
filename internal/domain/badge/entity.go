// Package badge содержит доменную модель бейджей StepClass Hub.
// Бейдж - это не просто награда, а фиксация достижения студента:
// однажды заработанный бейдж никогда не отзывается, даже если записи,
// на основании которых он был выдан, позже изменены или удалены.
package badge

import (
	"errors"
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ОШИБКИ ДОМЕНА
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidCode возвращается при пустом или неизвестном коде бейджа.
	ErrInvalidCode = errors.New("badge: invalid badge code")

	// ErrInvalidCategory возвращается при неизвестной категории бейджа.
	ErrInvalidCategory = errors.New("badge: invalid badge category")

	// ErrAlreadyEarned возвращается при повторной выдаче уже заработанного бейджа.
	// Это доброкачественная ошибка: вызывающий код трактует её как no-op.
	ErrAlreadyEarned = errors.New("badge: already earned")
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Code - уникальный строковый код бейджа (например "STREAK_7").
type Code string

// IsValid проверяет, что код непустой.
func (c Code) IsValid() bool {
	return c != ""
}

// String возвращает строковое представление кода.
func (c Code) String() string {
	return string(c)
}

// Category - категория бейджа. Используется для группировки в UI.
type Category string

const (
	CategoryMilestone Category = "milestone"
	CategoryStreak    Category = "streak"
	CategorySteps     Category = "steps"
	CategoryTime      Category = "time"
	CategoryCalories  Category = "calories"
	CategoryDistance  Category = "distance"
	CategorySpecial   Category = "special"
)

// IsValid проверяет, что категория входит в известный список.
func (cat Category) IsValid() bool {
	switch cat {
	case CategoryMilestone, CategoryStreak, CategorySteps,
		CategoryTime, CategoryCalories, CategoryDistance, CategorySpecial:
		return true
	}
	return false
}

// String возвращает строковое представление категории.
func (cat Category) String() string {
	return string(cat)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Definition описывает один бейдж из каталога.
// Каталог фиксирован и засеивается миграцией; пользовательские бейджи не создаются.
type Definition struct {
	ID          int64
	Code        Code
	Name        string
	Description string
	Icon        string
	Category    Category
}

// Validate проверяет целостность определения.
func (d Definition) Validate() error {
	if !d.Code.IsValid() {
		return ErrInvalidCode
	}
	if !d.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, d.Category)
	}
	return nil
}

// Award - факт выдачи бейджа студенту.
// Progress всегда равен 100: бейдж либо заработан полностью, либо не выдан.
type Award struct {
	ID        int64
	StudentID string
	BadgeID   int64
	Code      Code
	EarnedAt  time.Time
	Progress  int
}

// NewAward создаёт факт выдачи бейджа.
func NewAward(studentID string, def Definition, earnedAt time.Time) Award {
	return Award{
		StudentID: studentID,
		BadgeID:   def.ID,
		Code:      def.Code,
		EarnedAt:  earnedAt,
		Progress:  100,
	}
}
