package api

import (
	"errors"
	"net/http"
	"strings"

	"bistro/internal/database"
	"bistro/internal/models"
	"bistro/internal/service"
	"bistro/internal/slots"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.cfg.App.Version,
	})
}

func (s *Server) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := s.content.GetMenu(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": menu})
}

func (s *Server) handleListBlogs(w http.ResponseWriter, r *http.Request) {
	posts, err := s.content.ListPublishedPosts(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (s *Server) handleGetBlog(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.PathValue("slug"))
	if slug == "" {
		writeError(w, http.StatusBadRequest, "slug is required")
		return
	}

	post, err := s.content.GetPublishedPostBySlug(r.Context(), slug)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleGetOpeningHours(w http.ResponseWriter, r *http.Request) {
	// The booking form needs the policy (max party size) alongside the
	// weekly hours.
	schedule, err := s.schedule.GetSchedule(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// slotsResponse is the public availability payload. Message is set only
// for closed days.
type slotsResponse struct {
	Date    string       `json:"date"`
	Slots   []slots.Slot `json:"slots"`
	Message string       `json:"message,omitempty"`
}

func (s *Server) handleGetSlots(w http.ResponseWriter, r *http.Request) {
	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	day, err := s.reservations.GetSlots(r.Context(), dateStr)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	resp := slotsResponse{Date: day.Date, Slots: day.Slots}
	if resp.Slots == nil {
		resp.Slots = []slots.Slot{}
	}
	if day.Closed {
		resp.Message = "Closed"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(r) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req models.ReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reservation, err := s.reservations.CreateReservation(r.Context(), &req)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

// serviceError translates service and storage errors to HTTP statuses.
// Capacity conflicts carry the remaining seats so the client can offer
// a smaller party or another slot.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	var capacityErr *database.CapacityError
	if errors.As(err, &capacityErr) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":          capacityErr.Error(),
			"availableSeats": capacityErr.AvailableSeats,
		})
		return
	}

	switch {
	case errors.Is(err, database.ErrInvalidSlot), errors.Is(err, database.ErrClosedDay):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
