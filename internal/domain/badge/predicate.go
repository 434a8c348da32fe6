package badge

import (
	"sort"
	"time"

	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ПРЕДИКАТЫ БЕЙДЖЕЙ
// ══════════════════════════════════════════════════════════════════════════════
//
// Предикат - чистая функция над полной историей записей студента и текущей
// датой. Предикаты не обращаются к хранилищу и не имеют побочных эффектов,
// поэтому проверяются таблично в тестах.
//
// Бейджи без предиката (EARLY_BIRD, WEEKEND_WARRIOR) присутствуют в каталоге,
// но никогда не выдаются: условие требует времени суток, которое записи
// не хранят.

// Predicate проверяет, выполнено ли условие бейджа.
type Predicate func(records []exercise.Record, today time.Time) bool

// Predicates возвращает таблицу предикатов по кодам бейджей.
func Predicates() map[Code]Predicate {
	return map[Code]Predicate{
		CodeFirstStep:    hasAnyRecord,
		CodeStreak3:      streakAtLeast(3),
		CodeStreak7:      streakAtLeast(7),
		CodePerfectWeek:  perfectWeek,
		CodeStreak30:     streakAtLeast(30),
		CodeSteps10K:     anyDay(func(r exercise.Record) bool { return r.Steps >= 10_000 }),
		CodeSteps10KX10:  daysAtLeast(func(r exercise.Record) bool { return r.Steps >= 10_000 }, 10),
		CodeSteps20K:     anyDay(func(r exercise.Record) bool { return r.Steps >= 20_000 }),
		CodeExercise120:  anyDay(func(r exercise.Record) bool { return r.ExerciseMinutes >= 120 }),
		CodeExercise180:  anyDay(func(r exercise.Record) bool { return r.ExerciseMinutes >= 180 }),
		CodeTotal100Days: totalDaysAtLeast(100),
		CodeCalories1000: anyDay(func(r exercise.Record) bool { return r.Calories >= 1000 }),
		CodeCalories1500: anyDay(func(r exercise.Record) bool { return r.Calories >= 1500 }),
		CodeDistance5K:   anyDay(func(r exercise.Record) bool { return r.DistanceKM >= 5 }),
		CodeDistance10K:  anyDay(func(r exercise.Record) bool { return r.DistanceKM >= 10 }),
		CodeDistance15K:  anyDay(func(r exercise.Record) bool { return r.DistanceKM >= 15 }),
		CodeMarathon:     totalDistanceAtLeast(42.195),
		CodeTotal1MSteps: totalStepsAtLeast(1_000_000),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// РЕАЛИЗАЦИИ
// ══════════════════════════════════════════════════════════════════════════════

func hasAnyRecord(records []exercise.Record, _ time.Time) bool {
	return len(records) >= 1
}

// anyDay: условие выполнено хотя бы в один день.
func anyDay(cond func(exercise.Record) bool) Predicate {
	return func(records []exercise.Record, _ time.Time) bool {
		for _, r := range records {
			if cond(r) {
				return true
			}
		}
		return false
	}
}

// daysAtLeast: условие выполнено минимум в n разных дней.
func daysAtLeast(cond func(exercise.Record) bool, n int) Predicate {
	return func(records []exercise.Record, _ time.Time) bool {
		count := 0
		for _, r := range records {
			if cond(r) {
				count++
				if count >= n {
					return true
				}
			}
		}
		return false
	}
}

func totalDaysAtLeast(n int) Predicate {
	return func(records []exercise.Record, _ time.Time) bool {
		return len(records) >= n
	}
}

func totalStepsAtLeast(n int) Predicate {
	return func(records []exercise.Record, _ time.Time) bool {
		total := 0
		for _, r := range records {
			total += r.Steps
		}
		return total >= n
	}
}

func totalDistanceAtLeast(km float64) Predicate {
	return func(records []exercise.Record, _ time.Time) bool {
		total := 0.0
		for _, r := range records {
			total += r.DistanceKM
		}
		return total >= km
	}
}

// streakAtLeast проверяет серию из n подряд идущих дней.
// Серия считается от самой свежей записи назад: разрыв ровно в один день
// продлевает серию, любой другой разрыв обрывает проверку. Серии в глубине
// истории не ищутся.
func streakAtLeast(n int) Predicate {
	return func(records []exercise.Record, _ time.Time) bool {
		if len(records) < n {
			return false
		}

		days := sortedDaysDesc(records)

		streak := 1
		if streak >= n {
			return true
		}
		for i := 0; i < len(days)-1; i++ {
			gap := timeutil.DaysBetween(days[i+1], days[i])
			if gap == 1 {
				streak++
				if streak >= n {
					return true
				}
			} else {
				break
			}
		}
		return false
	}
}

// perfectWeek: запись есть в каждый из последних 7 дней включая сегодня.
func perfectWeek(records []exercise.Record, today time.Time) bool {
	w := exercise.WeekWindow(timeutil.StartOfDay(today))

	seen := make(map[string]struct{}, 7)
	for _, r := range records {
		if w.Contains(r.Date) {
			seen[timeutil.FormatDateStr(r.Date)] = struct{}{}
		}
	}
	return len(seen) >= 7
}

// sortedDaysDesc возвращает дни записей от свежих к старым.
func sortedDaysDesc(records []exercise.Record) []time.Time {
	days := make([]time.Time, 0, len(records))
	for _, r := range records {
		days = append(days, timeutil.StartOfDay(r.Date))
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})
	return days
}
