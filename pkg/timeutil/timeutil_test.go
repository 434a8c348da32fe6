package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_AlmatyMidnight(t *testing.T) {
	d := Date(2026, 3, 15)

	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, 0, d.Hour())

	_, offset := d.Zone()
	assert.Equal(t, 5*60*60, offset)
}

func TestStartOfDay_CrossesUTCBoundary(t *testing.T) {
	// 21:30 UTC это уже 02:30 следующего дня в Алматы.
	utc := time.Date(2026, 3, 14, 21, 30, 0, 0, time.UTC)

	start := StartOfDay(utc)
	assert.Equal(t, 15, start.Day())
	assert.Equal(t, 0, start.Hour())
}

func TestEndOfDay(t *testing.T) {
	end := EndOfDay(Date(2026, 3, 15))
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 15, end.Day())
}

func TestIsSameDay(t *testing.T) {
	morning := Date(2026, 3, 15).Add(8 * time.Hour)
	evening := Date(2026, 3, 15).Add(22 * time.Hour)

	assert.True(t, IsSameDay(morning, evening))
	assert.False(t, IsSameDay(morning, Date(2026, 3, 16)))
}

func TestIsConsecutiveDay(t *testing.T) {
	assert.True(t, IsConsecutiveDay(Date(2026, 3, 15), Date(2026, 3, 16)))
	assert.False(t, IsConsecutiveDay(Date(2026, 3, 15), Date(2026, 3, 17)))
	assert.False(t, IsConsecutiveDay(Date(2026, 3, 16), Date(2026, 3, 15)))

	// Переход через границу месяца.
	assert.True(t, IsConsecutiveDay(Date(2026, 2, 28), Date(2026, 3, 1)))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(Date(2026, 3, 15), Date(2026, 3, 15)))
	assert.Equal(t, 1, DaysBetween(Date(2026, 3, 15), Date(2026, 3, 16)))
	// Порядок аргументов не важен: расстояние всегда неотрицательное.
	assert.Equal(t, 1, DaysBetween(Date(2026, 3, 16), Date(2026, 3, 15)))
	assert.Equal(t, 31, DaysBetween(Date(2026, 3, 1), Date(2026, 4, 1)))
}

func TestFormatDateStr(t *testing.T) {
	assert.Equal(t, "2026-03-15", FormatDateStr(Date(2026, 3, 15)))

	// Время в UTC форматируется как алматинский день.
	utc := time.Date(2026, 3, 14, 21, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-15", FormatDateStr(utc))
}

func TestParseDateAlmaty(t *testing.T) {
	parsed, err := ParseDateAlmaty("2026-03-15")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(Date(2026, 3, 15)))

	_, err = ParseDateAlmaty("15.03.2026")
	assert.Error(t, err)

	_, err = ParseDateAlmaty("")
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	at := Date(2026, 3, 15).Add(13 * time.Hour)
	clock := NewFixedClock(at)

	assert.True(t, at.Equal(clock.Now()))
	assert.True(t, Date(2026, 3, 15).Equal(Today(clock)))
}

func TestRealClock_AlmatyZone(t *testing.T) {
	_, offset := RealClock{}.Now().Zone()
	assert.Equal(t, 5*60*60, offset)
}
