package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stepclass/stepclass-hub/internal/application/command"
	"github.com/stepclass/stepclass-hub/internal/application/query"
	"github.com/stepclass/stepclass-hub/internal/domain/badge"
	"github.com/stepclass/stepclass-hub/internal/domain/exercise"
	"github.com/stepclass/stepclass-hub/internal/domain/leaderboard"
	"github.com/stepclass/stepclass-hub/internal/domain/shared"
	"github.com/stepclass/stepclass-hub/pkg/logger"
	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

// validate is the shared validator instance for request payloads.
var validate = validator.New()

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST / RESPONSE DTOs
// ══════════════════════════════════════════════════════════════════════════════

type loginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=1,max=100"`
}

type loginResponse struct {
	Token   string    `json:"token"`
	UserID  string    `json:"user_id"`
	Name    string    `json:"name"`
	Role    string    `json:"role"`
	Expires time.Time `json:"expires"`
}

type recordRequest struct {
	Date            string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Steps           int     `json:"steps" validate:"min=0"`
	ExerciseMinutes int     `json:"exercise_minutes" validate:"min=0"`
	Calories        float64 `json:"calories" validate:"min=0"`
	DistanceKM      float64 `json:"distance_km" validate:"min=0"`
	Notes           string  `json:"notes" validate:"max=500"`
}

type recordResponse struct {
	ID              string   `json:"id"`
	StudentID       string   `json:"student_id"`
	Date            string   `json:"date"`
	Steps           int      `json:"steps"`
	ExerciseMinutes int      `json:"exercise_minutes"`
	Calories        float64  `json:"calories"`
	DistanceKM      float64  `json:"distance_km"`
	Notes           string   `json:"notes,omitempty"`
	NewBadges       []string `json:"new_badges,omitempty"`
}

type statisticsResponse struct {
	StudentID       string  `json:"student_id"`
	Period          string  `json:"period"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	TotalDays       int     `json:"total_days"`
	TotalSteps      int     `json:"total_steps"`
	TotalMinutes    int     `json:"total_minutes"`
	TotalCalories   float64 `json:"total_calories"`
	TotalDistanceKM float64 `json:"total_distance_km"`
	AvgSteps        float64 `json:"avg_steps"`
	AvgMinutes      float64 `json:"avg_minutes"`
	AvgCalories     float64 `json:"avg_calories"`
	AvgDistanceKM   float64 `json:"avg_distance_km"`
}

type leaderboardEntryResponse struct {
	Rank       int                        `json:"rank"`
	StudentID  string                     `json:"student_id"`
	Name       string                     `json:"name"`
	ClassName  string                     `json:"class_name,omitempty"`
	Grade      int                        `json:"grade,omitempty"`
	BadgeCount int                        `json:"badge_count"`
	Steps      int                        `json:"total_steps"`
	Minutes    int                        `json:"total_minutes"`
	Calories   float64                    `json:"total_calories"`
	DistanceKM float64                    `json:"total_distance"`
	Days       int                        `json:"exercise_days"`
	Scores     leaderboard.ScoreBreakdown `json:"scores"`
}

type categoryEntryResponse struct {
	Rank      int     `json:"rank"`
	StudentID string  `json:"student_id"`
	Name      string  `json:"name"`
	ClassName string  `json:"class_name,omitempty"`
	Value     float64 `json:"value"`
}

type badgeResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Earned      bool   `json:"earned"`
	EarnedAt    string `json:"earned_at,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Resource not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "stepclass-hub",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		if err := s.deps.HealthChecker(r.Context()); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "unhealthy", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.deps.LoginHandler.Handle(r.Context(), command.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:   result.Token,
		UserID:  result.User.ID,
		Name:    result.User.Name,
		Role:    result.User.Role.String(),
		Expires: result.Expires,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.LoginHandler.Logout(r.Context(), tokenFrom(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// ══════════════════════════════════════════════════════════════════════════════
// EXERCISE RECORDS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req recordRequest
	if !s.decode(w, r, &req) {
		return
	}

	date := req.Date
	if date == "" {
		date = timeutil.FormatDateStr(timeutil.Now())
	}

	result, err := s.deps.RecordExerciseHandler.HandleCreate(r.Context(), command.CreateRecordCommand{
		StudentID: claims.UserID,
		Date:      date,
		Metrics:   req.metrics(),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecordResponse(result))
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req recordRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.deps.RecordExerciseHandler.HandleUpdate(r.Context(), command.UpdateRecordCommand{
		RecordID:  r.PathValue("id"),
		StudentID: claims.UserID,
		Metrics:   req.metrics(),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponse(result))
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	err := s.deps.RecordExerciseHandler.HandleDelete(r.Context(), command.DeleteRecordCommand{
		RecordID:  r.PathValue("id"),
		StudentID: claims.UserID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGetRecords(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetRecordsHandler.Handle(r.Context(), query.GetRecordsQuery{
		StudentID: r.PathValue("id"),
		Period:    getQueryParam(r, "period", ""),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	records := make([]recordResponse, 0, len(result.Records))
	for i := range result.Records {
		records = append(records, toRecordResponse(&command.RecordResult{Record: &result.Records[i]}))
	}
	writeJSON(w, http.StatusOK, records)
}

// ══════════════════════════════════════════════════════════════════════════════
// STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetStatisticsHandler.Handle(r.Context(), query.GetStatisticsQuery{
		StudentID: r.PathValue("id"),
		Period:    getQueryParam(r, "period", "week"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sum := result.Summary
	writeJSON(w, http.StatusOK, statisticsResponse{
		StudentID:       sum.StudentID.String(),
		Period:          sum.Period.String(),
		From:            timeutil.FormatDateStr(sum.Window.From),
		To:              timeutil.FormatDateStr(sum.Window.To),
		TotalDays:       sum.TotalDays,
		TotalSteps:      sum.TotalSteps,
		TotalMinutes:    sum.TotalMinutes,
		TotalCalories:   sum.TotalCalories,
		TotalDistanceKM: sum.TotalDistanceKM,
		AvgSteps:        sum.AvgSteps,
		AvgMinutes:      sum.AvgMinutes,
		AvgCalories:     sum.AvgCalories,
		AvgDistanceKM:   sum.AvgDistanceKM,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	s.serveLeaderboard(w, r, "")
}

func (s *Server) handleGetCategoryLeaderboard(w http.ResponseWriter, r *http.Request) {
	s.serveLeaderboard(w, r, r.PathValue("category"))
}

func (s *Server) serveLeaderboard(w http.ResponseWriter, r *http.Request, category string) {
	result, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), query.GetLeaderboardQuery{
		Category: category,
		Limit:    getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if result.Category == leaderboard.CategoryComposite {
		entries := make([]leaderboardEntryResponse, 0, len(result.Composite))
		for _, e := range result.Composite {
			entries = append(entries, leaderboardEntryResponse{
				Rank:       int(e.Rank),
				StudentID:  e.StudentID,
				Name:       e.Name,
				ClassName:  e.ClassName,
				Grade:      e.Grade,
				BadgeCount: e.BadgeCount,
				Steps:      e.Steps,
				Minutes:    e.Minutes,
				Calories:   e.Calories,
				DistanceKM: e.DistanceKM,
				Days:       e.Days,
				Scores:     e.Scores,
			})
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}

	entries := make([]categoryEntryResponse, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, categoryEntryResponse{
			Rank:      int(e.Rank),
			StudentID: e.StudentID,
			Name:      e.Name,
			ClassName: e.ClassName,
			Value:     e.Value,
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGES
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetBadgeCatalog(w http.ResponseWriter, r *http.Request) {
	s.serveBadges(w, r, "", false)
}

func (s *Server) handleGetStudentBadges(w http.ResponseWriter, r *http.Request) {
	earnedOnly := getQueryParam(r, "earned_only", "") == "true"
	s.serveBadges(w, r, r.PathValue("id"), earnedOnly)
}

func (s *Server) serveBadges(w http.ResponseWriter, r *http.Request, studentID string, earnedOnly bool) {
	result, err := s.deps.GetBadgesHandler.Handle(r.Context(), query.GetBadgesQuery{
		StudentID:  studentID,
		EarnedOnly: earnedOnly,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	badges := make([]badgeResponse, 0, len(result.Badges))
	for _, b := range result.Badges {
		resp := badgeResponse{
			Code:        b.Definition.Code.String(),
			Name:        b.Definition.Name,
			Description: b.Definition.Description,
			Icon:        b.Definition.Icon,
			Category:    b.Definition.Category.String(),
			Earned:      b.Earned,
		}
		if b.Earned {
			resp.EarnedAt = b.EarnedAt.Format(time.RFC3339)
		}
		badges = append(badges, resp)
	}
	writeJSON(w, http.StatusOK, badges)
}

// ══════════════════════════════════════════════════════════════════════════════
// SHARED HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func (req recordRequest) metrics() exercise.Metrics {
	return exercise.Metrics{
		Steps:           req.Steps,
		ExerciseMinutes: req.ExerciseMinutes,
		Calories:        req.Calories,
		DistanceKM:      req.DistanceKM,
		Notes:           req.Notes,
	}
}

func toRecordResponse(result *command.RecordResult) recordResponse {
	rec := result.Record
	resp := recordResponse{
		ID:              rec.ID,
		StudentID:       rec.StudentID.String(),
		Date:            rec.Day(),
		Steps:           rec.Steps,
		ExerciseMinutes: rec.ExerciseMinutes,
		Calories:        rec.Calories,
		DistanceKM:      rec.DistanceKM,
		Notes:           rec.Notes,
	}
	if result.Badges != nil {
		for _, code := range result.Badges.Awarded {
			resp.NewBadges = append(resp.NewBadges, code.String())
		}
	}
	return resp
}

// decode parses and validates a JSON request body. Returns false after
// writing the error response.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Malformed JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return false
	}
	return true
}

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsAlreadyExists(err):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, leaderboard.ErrInvalidCategory),
		errors.Is(err, exercise.ErrUnknownPeriod),
		errors.Is(err, exercise.ErrNegativeMetric),
		errors.Is(err, badge.ErrInvalidCode),
		shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		s.logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Err(err),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}
