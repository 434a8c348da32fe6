package badge

import (
	"context"
)

// Repository - порт хранения каталога бейджей и фактов выдачи.
type Repository interface {
	// Catalog возвращает полный каталог бейджей в порядке засева.
	Catalog(ctx context.Context) ([]Definition, error)

	// GetByCode возвращает определение бейджа по коду.
	GetByCode(ctx context.Context, code Code) (*Definition, error)

	// AwardsFor возвращает все бейджи студента, отсортированные по дате
	// получения по убыванию.
	AwardsFor(ctx context.Context, studentID string) ([]Award, error)

	// Award фиксирует выдачу бейджа. Повторная выдача того же бейджа
	// тому же студенту возвращает ErrAlreadyEarned; вызывающий код
	// трактует её как no-op.
	Award(ctx context.Context, a Award) error
}
