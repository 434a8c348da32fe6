package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages runtime feature toggles. Badges and leaderboards
// are gamification surfaces: being able to switch one off without a
// redeploy matters when a school reports a problem mid-semester.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// === Gamification Features ===
	FeatureBadgeEvaluation = "gamification.badge_evaluation" // evaluate badges after record writes
	FeatureLeaderboard     = "gamification.leaderboard"      // leaderboard endpoints

	// === Record Features ===
	FeatureRecordDeletion = "records.deletion" // allow students to delete records

	// === Statistics Features ===
	FeatureMonthlyStats = "statistics.monthly" // month period in statistics
)

// LoadFeatureFlags loads feature flags from environment variables.
// Env override format: FEATURE_GAMIFICATION_BADGE_EVALUATION=false.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	defaults := []Feature{
		{Name: FeatureBadgeEvaluation, Description: "Evaluate badges after record writes", Enabled: true},
		{Name: FeatureLeaderboard, Description: "Leaderboard endpoints", Enabled: true},
		{Name: FeatureRecordDeletion, Description: "Allow students to delete records", Enabled: true},
		{Name: FeatureMonthlyStats, Description: "Month period in statistics", Enabled: true},
	}

	for i := range defaults {
		f := defaults[i]
		f.Enabled = envOverride(f.Name, f.Enabled)
		ff.features[f.Name] = &f
	}

	return ff
}

// IsEnabled reports whether a feature is on. Unknown features are off.
func (ff *FeatureFlags) IsEnabled(name string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	f, ok := ff.features[name]
	return ok && f.Enabled
}

// Set toggles a feature at runtime.
func (ff *FeatureFlags) Set(name string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if f, ok := ff.features[name]; ok {
		f.Enabled = enabled
		return
	}
	ff.features[name] = &Feature{Name: name, Enabled: enabled}
}

// All returns a snapshot of every flag.
func (ff *FeatureFlags) All() []Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	out := make([]Feature, 0, len(ff.features))
	for _, f := range ff.features {
		out = append(out, *f)
	}
	return out
}

// envOverride reads FEATURE_<NAME> with dots and dashes mapped to
// underscores.
func envOverride(name string, defaultVal bool) bool {
	key := "FEATURE_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(name))
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
