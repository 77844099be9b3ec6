package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/tutorlane/slotengine/internal/model"
	"github.com/tutorlane/slotengine/internal/service"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookings *service.BookingService
	logger   *zap.Logger
}

func NewBookingHandler(bookings *service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

func (h *BookingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/bookings", h.CreateBooking).Methods("POST")
	router.HandleFunc("/bookings/{reference}", h.GetBooking).Methods("GET")
	router.HandleFunc("/bookings/{reference}/confirm", h.ConfirmBooking).Methods("POST")
	router.HandleFunc("/bookings/{reference}/cancel", h.CancelBooking).Methods("POST")
	router.HandleFunc("/students/{studentId}/bookings", h.ListStudentBookings).Methods("GET")
	router.HandleFunc("/tutors/{tutorId}/bookings", h.ListTutorBookings).Methods("GET")
}

// CreateBooking runs the commit protocol. A 409 SLOT_TAKEN response means
// the client must re-fetch availability and let the user reselect; the
// engine never books an adjacent slot on its own.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req service.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, &model.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}
	req.StartTime = req.StartTime.UTC()

	booking, err := h.bookings.Book(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	reference, err := referenceVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	booking, err := h.bookings.GetByReference(r.Context(), reference)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if booking == nil {
		writeError(w, h.logger, model.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// ConfirmBooking is the payment collaborator's success callback.
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	reference, err := referenceVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	booking, err := h.bookings.Confirm(r.Context(), reference)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	reference, err := referenceVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	booking, err := h.bookings.GetByReference(r.Context(), reference)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if booking == nil {
		writeError(w, h.logger, model.ErrNotFound)
		return
	}

	result, err := h.bookings.Cancel(r.Context(), booking.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *BookingHandler) ListStudentBookings(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(mux.Vars(r)["studentId"], 10, 64)
	if err != nil {
		writeError(w, h.logger, &model.ValidationError{Field: "studentId", Reason: "must be an integer"})
		return
	}

	bookings, err := h.bookings.ListByStudent(r.Context(), studentID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

func (h *BookingHandler) ListTutorBookings(w http.ResponseWriter, r *http.Request) {
	tutorID, err := tutorIDVar(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	bookings, err := h.bookings.ListByTutor(r.Context(), tutorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

func referenceVar(r *http.Request) (uuid.UUID, error) {
	reference, err := uuid.Parse(mux.Vars(r)["reference"])
	if err != nil {
		return uuid.Nil, &model.ValidationError{Field: "reference", Reason: "must be a UUID"}
	}
	return reference, nil
}
