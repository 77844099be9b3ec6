package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/tutorlane/slotengine/internal/model"
	"github.com/tutorlane/slotengine/internal/service"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type AvailabilityHandler struct {
	availability *service.AvailabilityService
	logger       *zap.Logger
}

func NewAvailabilityHandler(availability *service.AvailabilityService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability, logger: logger}
}

func (h *AvailabilityHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/tutors/{tutorId}/slots", h.GetSlots).Methods("GET")
	router.HandleFunc("/tutors/{tutorId}/slots/max-duration", h.GetMaxDuration).Methods("GET")
	router.HandleFunc("/tutors/{tutorId}/availability/weekly", h.CreateWeeklySlot).Methods("POST")
	router.HandleFunc("/tutors/{tutorId}/availability/weekly", h.ListWeeklySlots).Methods("GET")
	router.HandleFunc("/tutors/{tutorId}/availability/weekly/{id}", h.DeleteWeeklySlot).Methods("DELETE")
	router.HandleFunc("/tutors/{tutorId}/availability/overrides", h.SetOverride).Methods("POST")
	router.HandleFunc("/tutors/{tutorId}/availability/overrides/{id}", h.DeleteOverride).Methods("DELETE")
	router.HandleFunc("/tutors/{tutorId}/profile", h.GetProfile).Methods("GET")
	router.HandleFunc("/tutors/{tutorId}/profile", h.UpsertProfile).Methods("PUT")
}

func (h *AvailabilityHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	tutorID, err := tutorIDVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	medium := model.Medium(r.URL.Query().Get("medium"))

	from, err := dateParam(r, "start_date")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	to, err := dateParam(r, "end_date")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	slots, err := h.availability.GetSlots(r.Context(), tutorID, medium, from, to)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"slots": slots,
		"total": len(slots),
	})
}

func (h *AvailabilityHandler) GetMaxDuration(w http.ResponseWriter, r *http.Request) {
	tutorID, err := tutorIDVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	medium := model.Medium(r.URL.Query().Get("medium"))

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, h.logger, &model.ValidationError{Field: "start", Reason: "must be RFC3339"})
		return
	}

	minutes, err := h.availability.MaxDuration(r.Context(), tutorID, medium, start.UTC())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"max_duration_minutes": minutes})
}

func (h *AvailabilityHandler) CreateWeeklySlot(w http.ResponseWriter, r *http.Request) {
	tutorID, err := tutorIDVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var body struct {
		Weekday     int          `json:"weekday"`
		StartMinute int          `json:"start_minute"`
		Medium      model.Medium `json:"medium"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, &model.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	slot, err := h.availability.AddWeeklySlot(r.Context(), tutorID, body.Weekday, body.StartMinute, body.Medium)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, slot)
}

func (h *AvailabilityHandler) ListWeeklySlots(w http.ResponseWriter, r *http.Request) {
	tutorID, err := tutorIDVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	medium := model.Medium(r.URL.Query().Get("medium"))

	slots, err := h.availability.ListWeeklySlots(r.Context(), tutorID, medium)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"weekly_slots": slots,
		"total":        len(slots),
	})
}

func (h *AvailabilityHandler) DeleteWeeklySlot(w http.ResponseWriter, r *http.Request) {
	tutorID, err := tutorIDVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, h.logger, &model.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	if err := h.availability.RemoveWeeklySlot(r.Context(), tutorID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "weekly slot deleted"})
}

func (h *AvailabilityHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	tutorID, err := tutorIDVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var body struct {
		Date        string       `json:"date"`
		StartMinute int          `json:"start_minute"`
		Medium      model.Medium `json:"medium"`
		IsAvailable bool         `json:"is_available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, &model.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	date, err := time.Parse(dateLayout, body.Date)
	if err != nil {
		writeError(w, h.logger, &model.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"})
		return
	}

	override, err := h.availability.SetOverride(r.Context(), tutorID, date, body.StartMinute, body.Medium, body.IsAvailable)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, override)
}

func (h *AvailabilityHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	tutorID, err := tutorIDVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, h.logger, &model.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	if err := h.availability.RemoveOverride(r.Context(), tutorID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "override deleted"})
}

func (h *AvailabilityHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	tutorID, err := tutorIDVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	profile, err := h.availability.GetProfile(r.Context(), tutorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if profile == nil {
		writeError(w, h.logger, model.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *AvailabilityHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	tutorID, err := tutorIDVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var profile model.TutorProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, h.logger, &model.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}
	profile.TutorID = tutorID

	if err := h.availability.UpsertProfile(r.Context(), &profile); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, &profile)
}

func tutorIDVar(r *http.Request) (int64, error) {
	tutorID, err := strconv.ParseInt(mux.Vars(r)["tutorId"], 10, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: "tutorId", Reason: "must be an integer"}
	}
	return tutorID, nil
}

func dateParam(r *http.Request, name string) (time.Time, error) {
	date, err := time.Parse(dateLayout, r.URL.Query().Get(name))
	if err != nil {
		return time.Time{}, &model.ValidationError{Field: name, Reason: "must be YYYY-MM-DD"}
	}
	return date, nil
}
