package http

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"lovespace/internal/core"
	"lovespace/internal/localstore"
)

func (s *Server) handleListDiary(w http.ResponseWriter, r *http.Request) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	entries, err := s.space.Diary(r.Context(), code)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateDiary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text       string `json:"text"`
		Mood       string `json:"mood"`
		Author     string `json:"author"`
		SecretCode string `json:"secretCode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := s.space.AddDiaryEntry(r.Context(), core.DiaryEntry{
		Text:       sanitizeInput(req.Text),
		Mood:       core.Mood(req.Mood),
		Author:     core.Role(req.Author),
		SecretCode: sanitizeInput(req.SecretCode),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleDeleteDiary(w http.ResponseWriter, r *http.Request) {
	s.deleteRecord(w, r, s.space.DeleteDiaryEntry)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	tasks, err := s.space.Tasks(r.Context(), code)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
		Author      string `json:"author"`
		TargetDate  string `json:"targetDate"`
		SecretCode  string `json:"secretCode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	task, err := s.space.AddPlanTask(r.Context(), core.PlanTask{
		Description: sanitizeInput(req.Description),
		Author:      core.Role(req.Author),
		TargetDate:  sanitizeInput(req.TargetDate),
		SecretCode:  sanitizeInput(req.SecretCode),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	completed, err := s.space.ToggleTask(r.Context(), code, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"completed": completed})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	s.deleteShared(w, r, s.space.DeletePlanTask)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	entries, err := s.space.Accounting(r.Context(), code)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Author      string  `json:"author"`
		SecretCode  string  `json:"secretCode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := s.space.AddAccountingEntry(r.Context(), core.AccountingEntry{
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		Category:    core.Category(req.Category),
		Author:      core.Role(req.Author),
		SecretCode:  sanitizeInput(req.SecretCode),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.deleteShared(w, r, s.space.DeleteAccountingEntry)
}

func (s *Server) handleListMoods(w http.ResponseWriter, r *http.Request) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	moods, err := s.space.Moods(r.Context(), code)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, moods)
}

func (s *Server) handleCreateMood(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mood       string `json:"mood"`
		Note       string `json:"note"`
		Author     string `json:"author"`
		RecordDate string `json:"recordDate"`
		SecretCode string `json:"secretCode"`
		ImageData  string `json:"imageData"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RecordDate == "" {
		req.RecordDate = core.FormatDate(time.Now())
	}
	var imageData []byte
	if req.ImageData != "" {
		var err error
		imageData, err = base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "imageData is not valid base64"})
			return
		}
	}
	mood, err := s.space.AddMoodEntry(r.Context(), core.MoodEntry{
		Mood:       core.Mood(req.Mood),
		Note:       sanitizeInput(req.Note),
		Author:     core.Role(req.Author),
		RecordDate: sanitizeInput(req.RecordDate),
		SecretCode: sanitizeInput(req.SecretCode),
	}, imageData)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, mood)
}

func (s *Server) handleDeleteMood(w http.ResponseWriter, r *http.Request) {
	s.deleteRecord(w, r, s.space.DeleteMoodEntry)
}

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	if r.URL.Query().Get("group") == "day" {
		wall, err := s.space.PhotoWall(r.Context(), code)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, wall)
		return
	}
	photos, err := s.space.Photos(r.Context(), code)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, photos)
}

func (s *Server) handleCreatePhoto(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caption    string `json:"caption"`
		Author     string `json:"author"`
		UploadDate string `json:"uploadDate"`
		SecretCode string `json:"secretCode"`
		PhotoURL   string `json:"photoUrl"`
		// ImageData is the raw upload, base64-encoded for transport. It
		// gets compressed server-side before storage.
		ImageData string `json:"imageData"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UploadDate == "" {
		req.UploadDate = core.FormatDate(time.Now())
	}

	var imageData []byte
	if req.ImageData != "" {
		var err error
		imageData, err = base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "imageData is not valid base64"})
			return
		}
	}

	photo, err := s.space.AddPhoto(r.Context(), core.PhotoEntry{
		Caption:    sanitizeInput(req.Caption),
		Author:     core.Role(req.Author),
		UploadDate: sanitizeInput(req.UploadDate),
		SecretCode: sanitizeInput(req.SecretCode),
		URL:        sanitizeInput(req.PhotoURL),
	}, imageData)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, photo)
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	s.deleteRecord(w, r, s.space.DeletePhoto)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	year, month := parseYearMonth(r)
	view, err := s.space.CalendarMonth(r.Context(), code, year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	view, err := s.space.Week(r.Context(), code, parseAnchorDate(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	view, err := s.space.Summary(r.Context(), code, time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	view, err := s.space.Overview(r.Context(), code, time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// handleRefresh is pull-to-refresh: bypasses the cache and re-fetches every
// collection.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	if err := s.space.RefreshAll(r.Context(), code); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

type deleteFunc func(ctx context.Context, partition, id string, requester core.Role) error

// deleteShared handles deletes any partner may perform: code from the query
// string, id from the path, no role check.
func (s *Server) deleteShared(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, partition, id string) error) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	if err := del(r.Context(), code, r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteRecord handles the shared shape of every delete endpoint: code and
// requester role come from the query string, the id from the path.
func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request, del deleteFunc) {
	code, ok := partitionFrom(r)
	if !ok {
		respondMissingCode(w)
		return
	}
	requester := core.Role(r.URL.Query().Get("role"))
	if !requester.Valid() {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "missing or invalid role parameter"})
		return
	}
	if err := del(r.Context(), code, r.PathValue("id"), requester); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	SecretCode string `json:"secretCode"`
	Role       string `json:"role"`
	BoyName    string `json:"boyName"`
	GirlName   string `json:"girlName"`
	Paired     bool   `json:"paired"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "local settings store is not configured"})
		return
	}
	sess, err := s.settings.LoadSession(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{
		SecretCode: sess.SecretCode,
		Role:       string(sess.Role),
		BoyName:    sess.BoyName,
		GirlName:   sess.GirlName,
		Paired:     sess.SecretCode != "",
	})
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "local settings store is not configured"})
		return
	}
	var req struct {
		SecretCode string `json:"secretCode"`
		Role       string `json:"role"`
		BoyName    string `json:"boyName"`
		GirlName   string `json:"girlName"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	role := core.Role(req.Role)
	if req.Role != "" && !role.Valid() {
		respondError(w, r, core.ErrInvalidRole)
		return
	}
	sess := localstore.Session{
		SecretCode: sanitizeInput(req.SecretCode),
		Role:       role,
		BoyName:    sanitizeInput(req.BoyName),
		GirlName:   sanitizeInput(req.GirlName),
	}
	if err := s.settings.SaveSession(r.Context(), sess); err != nil {
		respondError(w, r, err)
		return
	}
	s.handleGetSession(w, r)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "local settings store is not configured"})
		return
	}
	if err := s.settings.ClearSession(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
