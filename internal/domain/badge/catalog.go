package badge

// ══════════════════════════════════════════════════════════════════════════════
// КАТАЛОГ БЕЙДЖЕЙ
// ══════════════════════════════════════════════════════════════════════════════

// Коды всех бейджей каталога.
const (
	CodeFirstStep      Code = "FIRST_STEP"
	CodeStreak3        Code = "STREAK_3"
	CodeStreak7        Code = "STREAK_7"
	CodePerfectWeek    Code = "PERFECT_WEEK"
	CodeStreak30       Code = "STREAK_30"
	CodeSteps10K       Code = "STEPS_10K"
	CodeSteps10KX10    Code = "STEPS_10K_X10"
	CodeSteps20K       Code = "STEPS_20K"
	CodeExercise120    Code = "EXERCISE_120"
	CodeExercise180    Code = "EXERCISE_180"
	CodeTotal100Days   Code = "TOTAL_100_DAYS"
	CodeCalories1000   Code = "CALORIES_1000"
	CodeCalories1500   Code = "CALORIES_1500"
	CodeDistance5K     Code = "DISTANCE_5K"
	CodeDistance10K    Code = "DISTANCE_10K"
	CodeDistance15K    Code = "DISTANCE_15K"
	CodeMarathon       Code = "MARATHON"
	CodeEarlyBird      Code = "EARLY_BIRD"
	CodeWeekendWarrior Code = "WEEKEND_WARRIOR"
	CodeTotal1MSteps   Code = "TOTAL_1000K_STEPS"
)

// Catalog возвращает полный каталог бейджей в порядке засева.
// ID присваивается хранилищем; здесь он нулевой.
func Catalog() []Definition {
	return []Definition{
		{Code: CodeFirstStep, Name: "First Step", Description: "Logged the very first exercise record", Icon: "👟", Category: CategoryMilestone},
		{Code: CodeStreak3, Name: "3-Day Streak", Description: "Exercised 3 days in a row", Icon: "🔥", Category: CategoryStreak},
		{Code: CodeStreak7, Name: "Full Week", Description: "Exercised 7 days in a row", Icon: "⚡", Category: CategoryStreak},
		{Code: CodePerfectWeek, Name: "Perfect Week", Description: "Exercised every day of the week", Icon: "🏆", Category: CategoryStreak},
		{Code: CodeStreak30, Name: "Monthly Streak", Description: "Exercised 30 days in a row", Icon: "💪", Category: CategoryStreak},
		{Code: CodeSteps10K, Name: "10K Steps", Description: "Reached 10,000 steps in a single day", Icon: "🚶", Category: CategorySteps},
		{Code: CodeSteps10KX10, Name: "10K King", Description: "Reached 10,000 steps on 10 different days", Icon: "👑", Category: CategorySteps},
		{Code: CodeSteps20K, Name: "20K Master", Description: "Reached 20,000 steps in a single day", Icon: "🌟", Category: CategorySteps},
		{Code: CodeExercise120, Name: "2-Hour Workout", Description: "Exercised 120 minutes in a single day", Icon: "⏰", Category: CategoryTime},
		{Code: CodeExercise180, Name: "3-Hour Champion", Description: "Exercised 180 minutes in a single day", Icon: "🥇", Category: CategoryTime},
		{Code: CodeTotal100Days, Name: "100 Days", Description: "Logged 100 exercise days in total", Icon: "💯", Category: CategoryMilestone},
		{Code: CodeCalories1000, Name: "Calorie Master", Description: "Burned 1,000 calories in a single day", Icon: "🔥", Category: CategoryCalories},
		{Code: CodeCalories1500, Name: "Calorie Legend", Description: "Burned 1,500 calories in a single day", Icon: "💥", Category: CategoryCalories},
		{Code: CodeDistance5K, Name: "5K Distance", Description: "Covered 5 km in a single day", Icon: "🏃", Category: CategoryDistance},
		{Code: CodeDistance10K, Name: "10K Distance", Description: "Covered 10 km in a single day", Icon: "🎯", Category: CategoryDistance},
		{Code: CodeDistance15K, Name: "Distance King", Description: "Covered 15 km or more in a single day", Icon: "👑", Category: CategoryDistance},
		{Code: CodeMarathon, Name: "Marathon Finisher", Description: "Covered 42.195 km in total", Icon: "🏅", Category: CategoryMilestone},
		{Code: CodeEarlyBird, Name: "Early Bird", Description: "Exercised in the morning 7 days in a row", Icon: "🌅", Category: CategorySpecial},
		{Code: CodeWeekendWarrior, Name: "Weekend Warrior", Description: "Exercised on weekends 4 weeks in a row", Icon: "⚔️", Category: CategorySpecial},
		{Code: CodeTotal1MSteps, Name: "Million Steps", Description: "Accumulated 1,000,000 steps in total", Icon: "🌈", Category: CategoryMilestone},
	}
}
