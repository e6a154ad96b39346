package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/caloflow/caloflow/internal/apperrors"
	"github.com/caloflow/caloflow/internal/domain"
	"github.com/caloflow/caloflow/internal/energy"
	"github.com/caloflow/caloflow/internal/logger"
	"github.com/caloflow/caloflow/internal/utils"
	"github.com/gorilla/mux"
)

// Handler holds the domain services behind the JSON endpoints.
type Handler struct {
	auth      domain.AuthService
	profiles  domain.ProfileService
	logs      domain.DayLogService
	weights   domain.WeightService
	transfer  domain.TransferService
	estimator domain.Estimator
}

func NewHandler(
	auth domain.AuthService,
	profiles domain.ProfileService,
	logs domain.DayLogService,
	weights domain.WeightService,
	transfer domain.TransferService,
	estimator domain.Estimator,
) *Handler {
	return &Handler{
		auth:      auth,
		profiles:  profiles,
		logs:      logs,
		weights:   weights,
		transfer:  transfer,
		estimator: estimator,
	}
}

// SetupRoutes registers all endpoints on the router.
func (h *Handler) SetupRoutes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/register", h.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)

	user := api.PathPrefix("/users/{username}").Subrouter()
	user.HandleFunc("/profile", h.handleGetProfile).Methods(http.MethodGet)
	user.HandleFunc("/profile", h.handleSaveProfile).Methods(http.MethodPut)
	user.HandleFunc("/goal", h.handleGetGoal).Methods(http.MethodGet)
	user.HandleFunc("/theme", h.handleGetTheme).Methods(http.MethodGet)
	user.HandleFunc("/theme", h.handleSaveTheme).Methods(http.MethodPut)
	user.HandleFunc("/weights", h.handleGetWeights).Methods(http.MethodGet)
	user.HandleFunc("/weights", h.handleAddWeight).Methods(http.MethodPost)
	user.HandleFunc("/motivation", h.handleMotivation).Methods(http.MethodGet)
	user.HandleFunc("/export", h.handleExport).Methods(http.MethodGet)
	user.HandleFunc("/import", h.handleImport).Methods(http.MethodPost)

	day := user.PathPrefix("/logs/{date}").Subrouter()
	day.HandleFunc("", h.handleGetDayLog).Methods(http.MethodGet)
	day.HandleFunc("", h.handleSaveDayLog).Methods(http.MethodPut)
	day.HandleFunc("/summary", h.handleDaySummary).Methods(http.MethodGet)
	day.HandleFunc("/foods", h.handleAddFood).Methods(http.MethodPost)
	day.HandleFunc("/foods/{index}", h.handleRemoveFood).Methods(http.MethodDelete)
	day.HandleFunc("/exercises", h.handleAddExercise).Methods(http.MethodPost)
	day.HandleFunc("/exercises/{index}", h.handleRemoveExercise).Methods(http.MethodDelete)
	day.HandleFunc("/water", h.handleWater).Methods(http.MethodPost)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Pin      string `json:"pin"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ok, err := h.auth.Register(r.Context(), req.Username, req.Pin)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "username already registered"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"registered": true})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ok, err := h.auth.Verify(r.Context(), req.Username, req.Pin)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var draft domain.UserProfile
	if !decodeBody(w, r, &draft) {
		return
	}
	saved, err := h.profiles.Save(r.Context(), mux.Vars(r)["username"], &draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, energy.GoalFor(profile))
}

func (h *Handler) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.profiles.GetTheme(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.ThemeName{"theme": theme})
}

func (h *Handler) handleSaveTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme domain.ThemeName `json:"theme"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.profiles.SaveTheme(r.Context(), mux.Vars(r)["username"], req.Theme); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetWeights(w http.ResponseWriter, r *http.Request) {
	history, err := h.weights.History(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) handleAddWeight(w http.ResponseWriter, r *http.Request) {
	var entry domain.WeightEntry
	if !decodeBody(w, r, &entry) {
		return
	}
	if !utils.IsDateKey(entry.Date) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}
	if err := h.weights.AddEntry(r.Context(), mux.Vars(r)["username"], entry); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMotivation(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	profile, err := h.profiles.Get(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	history, err := h.weights.History(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	line := h.estimator.DailyMotivation(r.Context(), profile, history)
	writeJSON(w, http.StatusOK, map[string]string{"motivation": line})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.transfer.Export(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}
	if err := h.transfer.Import(r.Context(), mux.Vars(r)["username"], data); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"imported": true})
}

func (h *Handler) handleGetDayLog(w http.ResponseWriter, r *http.Request) {
	username, date, ok := dayParams(w, r)
	if !ok {
		return
	}
	log, err := h.logs.Get(r.Context(), username, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (h *Handler) handleSaveDayLog(w http.ResponseWriter, r *http.Request) {
	username, date, ok := dayParams(w, r)
	if !ok {
		return
	}
	var log domain.DayLog
	if !decodeBody(w, r, &log) {
		return
	}
	log.Date = date
	if err := h.logs.Save(r.Context(), username, &log); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// daySummary is the derived view the client renders on the overview tab.
type daySummary struct {
	Goal      energy.Goal `json:"goal"`
	Intake    float64     `json:"intake"`
	Burned    float64     `json:"burned"`
	Net       float64     `json:"net"`
	Remaining float64     `json:"remaining"`
}

func (h *Handler) handleDaySummary(w http.ResponseWriter, r *http.Request) {
	username, date, ok := dayParams(w, r)
	if !ok {
		return
	}
	profile, err := h.profiles.Get(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	log, err := h.logs.Get(r.Context(), username, date)
	if err != nil {
		writeError(w, err)
		return
	}

	summary := daySummary{Goal: energy.GoalFor(profile)}
	for _, f := range log.Foods {
		summary.Intake += f.Calories
	}
	for _, e := range log.Exercises {
		summary.Burned += e.CaloriesBurned
	}
	summary.Net = summary.Intake - summary.Burned
	summary.Remaining = float64(summary.Goal.Effective) - summary.Net
	writeJSON(w, http.StatusOK, summary)
}

type descriptionRequest struct {
	Description string `json:"description"`
}

func (h *Handler) handleAddFood(w http.ResponseWriter, r *http.Request) {
	username, date, ok := dayParams(w, r)
	if !ok {
		return
	}
	var req descriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
		return
	}
	profile, err := h.profiles.Get(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	// the item is appended only after a successful structured response, so
	// a failed estimation never touches the log
	estimate, err := h.estimator.EstimateFood(r.Context(), profile, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now()
	item := domain.FoodItem{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Name:      estimate.Name,
		Calories:  estimate.Calories,
		Protein:   estimate.Protein,
		Carbs:     estimate.Carbs,
		Fat:       estimate.Fat,
		Timestamp: now.UnixMilli(),
	}
	log, err := h.logs.AddFood(r.Context(), username, date, item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

func (h *Handler) handleRemoveFood(w http.ResponseWriter, r *http.Request) {
	username, date, ok := dayParams(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	log, err := h.logs.RemoveFood(r.Context(), username, date, index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (h *Handler) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	username, date, ok := dayParams(w, r)
	if !ok {
		return
	}
	var req descriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
		return
	}
	profile, err := h.profiles.Get(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	estimate, err := h.estimator.EstimateExercise(r.Context(), profile, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now()
	item := domain.ExerciseItem{
		ID:              strconv.FormatInt(now.UnixMilli(), 10),
		Name:            estimate.Name,
		CaloriesBurned:  estimate.CaloriesBurned,
		DurationMinutes: estimate.DurationMinutes,
		Timestamp:       now.UnixMilli(),
	}
	log, err := h.logs.AddExercise(r.Context(), username, date, item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

func (h *Handler) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	username, date, ok := dayParams(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	log, err := h.logs.RemoveExercise(r.Context(), username, date, index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (h *Handler) handleWater(w http.ResponseWriter, r *http.Request) {
	username, date, ok := dayParams(w, r)
	if !ok {
		return
	}
	var req struct {
		Delta int `json:"delta"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	log, err := h.logs.AdjustWater(r.Context(), username, date, req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func dayParams(w http.ResponseWriter, r *http.Request) (username, date string, ok bool) {
	vars := mux.Vars(r)
	username, date = vars["username"], vars["date"]
	if !utils.IsDateKey(date) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return "", "", false
	}
	return username, date, true
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index must be an integer"})
		return 0, false
	}
	return index, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	status := http.StatusInternalServerError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			status = http.StatusBadRequest
		case apperrors.ErrorTypeExternal:
			status = http.StatusBadGateway
		}
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
