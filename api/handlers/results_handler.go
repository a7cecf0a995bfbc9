// Package handlers exposes the results engine over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	resultsservice "github.com/Infuseting/SAE301-sub003/app/modules/results/application"
	resultsdto "github.com/Infuseting/SAE301-sub003/app/modules/results/dto"
	sharedtypes "github.com/Infuseting/SAE301-sub003/app/shared/types"
)

// maxImportUpload caps the in-memory part of a multipart import upload.
const maxImportUpload = 32 << 20

// ResultsHandler serves the leaderboard, import and export endpoints.
type ResultsHandler struct {
	service resultsservice.Service
	logger  *slog.Logger
}

// NewResultsHandler creates a new ResultsHandler.
func NewResultsHandler(service resultsservice.Service, logger *slog.Logger) *ResultsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultsHandler{service: service, logger: logger}
}

// Routes sets up the results routes. importMiddleware wraps the bulk-import
// endpoint only.
func (h *ResultsHandler) Routes(importMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if importMiddleware != nil {
			r.Use(importMiddleware)
		}
		r.Post("/races/{raceID}/results/import", h.ImportResults)
	})

	r.Post("/races/{raceID}/results", h.AddResult)
	r.Delete("/results/{resultID}", h.DeleteResult)
	r.Get("/races/{raceID}/leaderboard", h.GetLeaderboard)
	r.Get("/leaderboard", h.GetPublicLeaderboard)
	r.Get("/users/{userID}/results", h.GetUserResults)
	r.Get("/users/{userID}/team-results", h.GetUserTeamResults)
	r.Get("/races/{raceID}/export", h.ExportResults)
	r.Get("/races/{raceID}/chart.png", h.GetStandingsChart)
	return r
}

// ImportResults ingests a delimited results file for a race. The file is the
// "file" part of a multipart form; ?type selects individual or team rows.
func (h *ResultsHandler) ImportResults(w http.ResponseWriter, r *http.Request) {
	raceID, ok := h.raceIDParam(w, r)
	if !ok {
		return
	}
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImportUpload); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse upload: %v", err), http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `Missing "file" upload part`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	var report *resultsdto.ImportReport
	switch kind {
	case resultsservice.KindIndividual:
		report, err = h.service.ImportIndividualResults(r.Context(), raceID, file)
	case resultsservice.KindTeam:
		report, err = h.service.ImportTeamResults(r.Context(), raceID, file)
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

// AddResultDto is the input for recording a single individual result.
type AddResultDto struct {
	ParticipantID int64   `json:"participant_id"`
	RawTime       float64 `json:"raw_time"`
	Penalty       float64 `json:"penalty"`
}

// AddResult records one participant's result for a race.
func (h *ResultsHandler) AddResult(w http.ResponseWriter, r *http.Request) {
	raceID, ok := h.raceIDParam(w, r)
	if !ok {
		return
	}

	var input AddResultDto
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}

	view, err := h.service.AddIndividualResult(r.Context(), sharedtypes.UserID(input.ParticipantID), raceID, input.RawTime, input.Penalty)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, view)
}

// DeleteResult removes a stored individual result.
func (h *ResultsHandler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	resultID, err := strconv.ParseInt(chi.URLParam(r, "resultID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid result id", http.StatusBadRequest)
		return
	}

	if _, err := h.service.DeleteIndividualResult(r.Context(), sharedtypes.ResultID(resultID)); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLeaderboard returns one page of a race's standings.
func (h *ResultsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	raceID, ok := h.raceIDParam(w, r)
	if !ok {
		return
	}
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	search, page, pageSize := listParams(r)

	var (
		out *resultsdto.PagedResult
		err error
	)
	switch kind {
	case resultsservice.KindIndividual:
		out, err = h.service.GetIndividualLeaderboard(r.Context(), raceID, search, page, pageSize)
	case resultsservice.KindTeam:
		out, err = h.service.GetTeamLeaderboard(r.Context(), raceID, search, page, pageSize)
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

// GetPublicLeaderboard returns the unauthenticated standings view,
// optionally scoped to one race via ?race_id.
func (h *ResultsHandler) GetPublicLeaderboard(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	search, page, pageSize := listParams(r)

	var raceID *sharedtypes.RaceID
	if raw := r.URL.Query().Get("race_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid race id", http.StatusBadRequest)
			return
		}
		rid := sharedtypes.RaceID(id)
		raceID = &rid
	}

	out, err := h.service.GetPublicLeaderboard(r.Context(), raceID, search, kind, page, pageSize)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

// GetUserResults returns a participant's individual history.
func (h *ResultsHandler) GetUserResults(w http.ResponseWriter, r *http.Request) {
	h.serveHistory(w, r, h.service.GetUserResults)
}

// GetUserTeamResults returns the history of every team the participant has
// raced with.
func (h *ResultsHandler) GetUserTeamResults(w http.ResponseWriter, r *http.Request) {
	h.serveHistory(w, r, h.service.GetUserTeamResults)
}

// ExportResults streams a race's standings as csv or xlsx.
func (h *ResultsHandler) ExportResults(w http.ResponseWriter, r *http.Request) {
	raceID, ok := h.raceIDParam(w, r)
	if !ok {
		return
	}
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var (
		out         []byte
		err         error
		contentType string
	)
	switch format {
	case "csv":
		out, err = h.service.ExportCSV(r.Context(), raceID, kind)
		contentType = "text/csv"
	case "xlsx":
		out, err = h.service.ExportXLSX(r.Context(), raceID, kind)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		http.Error(w, fmt.Sprintf("Unsupported export format %q", format), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=race_%d_%s.%s", raceID, kind, format))
	_, _ = w.Write(out)
}

// GetStandingsChart renders a race's top standings as a PNG bar chart.
func (h *ResultsHandler) GetStandingsChart(w http.ResponseWriter, r *http.Request) {
	raceID, ok := h.raceIDParam(w, r)
	if !ok {
		return
	}
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}

	out, err := h.service.GenerateStandingsChart(r.Context(), raceID, kind)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(out)
}

type historyFunc func(ctx context.Context, userID sharedtypes.UserID, search string, sortBy resultsdto.SortDirection) (*resultsdto.ResultList, error)

func (h *ResultsHandler) serveHistory(w http.ResponseWriter, r *http.Request, fetch historyFunc) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	sortBy := resultsdto.SortBestFirst
	if r.URL.Query().Get("sort") == string(resultsdto.SortWorstFirst) {
		sortBy = resultsdto.SortWorstFirst
	}

	out, err := fetch(r.Context(), sharedtypes.UserID(userID), r.URL.Query().Get("search"), sortBy)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *ResultsHandler) raceIDParam(w http.ResponseWriter, r *http.Request) (sharedtypes.RaceID, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "raceID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid race id", http.StatusBadRequest)
		return 0, false
	}
	return sharedtypes.RaceID(id), true
}

func (h *ResultsHandler) kindParam(w http.ResponseWriter, r *http.Request) (resultsservice.Kind, bool) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		return resultsservice.KindIndividual, true
	}
	kind := resultsservice.Kind(raw)
	switch kind {
	case resultsservice.KindIndividual, resultsservice.KindTeam:
		return kind, true
	}
	http.Error(w, fmt.Sprintf("Unsupported standings type %q", raw), http.StatusBadRequest)
	return "", false
}

func listParams(r *http.Request) (search string, page, pageSize int) {
	q := r.URL.Query()
	search = q.Get("search")
	page, _ = strconv.Atoi(q.Get("page"))
	pageSize, _ = strconv.Atoi(q.Get("page_size"))
	return search, page, pageSize
}

func (h *ResultsHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// respondError maps service errors to HTTP statuses.
func (h *ResultsHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, resultsservice.ErrRaceNotFound),
		errors.Is(err, resultsservice.ErrUserNotFound),
		errors.Is(err, resultsservice.ErrTeamNotFound),
		errors.Is(err, resultsservice.ErrResultNotFound),
		errors.Is(err, resultsservice.ErrNoResults):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, resultsservice.ErrEmptyImport),
		errors.Is(err, resultsservice.ErrMissingColumn),
		errors.Is(err, resultsservice.ErrInvalidKind):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
