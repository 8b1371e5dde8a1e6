package service

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/hisab-app/hisab/internal/engine"
	"github.com/hisab-app/hisab/internal/middleware"
	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/storage"
)

// EventService exposes the event aggregate over HTTP. Every mutation runs
// validate -> recompute report -> persist, so the stored report is always
// consistent with the stored items; a rejected computation persists nothing
// and the last-known-good report survives.
type EventService struct {
	store storage.Store
	opts  engine.Options
}

// NewEventService creates an EventService with the canonical engine options.
func NewEventService(store storage.Store) *EventService {
	return &EventService{store: store, opts: engine.DefaultOptions()}
}

// RegisterRoutes mounts the event endpoints on the (authenticated) router.
func (s *EventService) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/events", s.handleCreateEvent).Methods("POST")
	r.HandleFunc("/events", s.handleListEvents).Methods("GET")
	r.HandleFunc("/events/{id}", s.handleGetEvent).Methods("GET")
	r.HandleFunc("/events/{id}", s.handleDeleteEvent).Methods("DELETE")
	r.HandleFunc("/events/{id}/details", s.handleUpdateDetails).Methods("PUT")
	r.HandleFunc("/events/{id}/participants", s.handleAddParticipant).Methods("POST")
	r.HandleFunc("/events/{id}/participants/{personID}", s.handleUpdateParticipant).Methods("PUT")
	r.HandleFunc("/events/{id}/participants/{personID}", s.handleRemoveParticipant).Methods("DELETE")
	r.HandleFunc("/events/{id}/items", s.handleAddItem).Methods("POST")
	r.HandleFunc("/events/{id}/items/{itemID}", s.handleUpdateItem).Methods("PUT")
	r.HandleFunc("/events/{id}/items/{itemID}", s.handleRemoveItem).Methods("DELETE")
	r.HandleFunc("/events/{id}/deductible", s.handleSetDeductible).Methods("PUT")
	r.HandleFunc("/events/{id}/report", s.handleGetReport).Methods("GET")
	r.HandleFunc("/events/{id}/recompute", s.handleRecompute).Methods("POST")
}

// recompute validates the aggregate and rebuilds its report in place.
func (s *EventService) recompute(event *models.Event) error {
	if err := engine.ValidateItems(event.Items, event.Participants, s.opts); err != nil {
		reportErrors.Inc()
		return err
	}
	report, err := engine.BuildReport(event.Items, event.Participants, event.Report.Deductible, s.opts)
	if err != nil {
		reportErrors.Inc()
		return err
	}
	event.Report = report
	reportsComputed.Inc()
	return nil
}

// ownedEvent loads the event from the route and checks ownership.
// On failure it writes the error response and returns ok=false.
func (s *EventService) ownedEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	eventID := mux.Vars(r)["id"]
	event, err := s.store.GetEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if event.OwnerID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not your event"})
		return nil, false
	}
	return event, true
}

// mutate runs fn against the owned event, recomputes the report, and
// persists the aggregate. Nothing is stored if any step fails.
func (s *EventService) mutate(w http.ResponseWriter, r *http.Request, fn func(event *models.Event) error) {
	event, ok := s.ownedEvent(w, r)
	if !ok {
		return
	}
	if err := fn(event); err != nil {
		writeError(w, err)
		return
	}
	if err := s.recompute(event); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.UpdateEvent(r.Context(), event); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

type createEventRequest struct {
	Details      models.EventDetails  `json:"details"`
	Participants []models.Person      `json:"participants"`
	Items        []models.ExpenseItem `json:"items"`
}

func (s *EventService) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}

	event := &models.Event{
		OwnerID:      middleware.GetUserID(r.Context()),
		Details:      req.Details,
		Participants: req.Participants,
		Items:        req.Items,
		Report:       models.EmptyReport(),
	}
	assignIDs(event)

	if err := s.recompute(event); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("Event created", "event_id", event.ID, "owner_id", event.OwnerID,
		"participants", len(event.Participants), "items", len(event.Items))
	writeJSON(w, http.StatusCreated, event)
}

func (s *EventService) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *EventService) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := s.ownedEvent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *EventService) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := s.ownedEvent(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteEvent(r.Context(), event.ID); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Event deleted", "event_id", event.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

func (s *EventService) handleUpdateDetails(w http.ResponseWriter, r *http.Request) {
	var details models.EventDetails
	if err := decodeJSON(r, &details); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	s.mutate(w, r, func(event *models.Event) error {
		event.Details = details
		return nil
	})
}

func (s *EventService) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	var person models.Person
	if err := decodeJSON(r, &person); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	if person.ID == "" {
		person.ID = uuid.New().String()
	}
	s.mutate(w, r, func(event *models.Event) error {
		event.Participants = append(event.Participants, person)
		return nil
	})
}

func (s *EventService) handleUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	personID := mux.Vars(r)["personID"]
	var person models.Person
	if err := decodeJSON(r, &person); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	s.mutate(w, r, func(event *models.Event) error {
		for i := range event.Participants {
			if event.Participants[i].ID != personID {
				continue
			}
			// Merge: absent fields keep their stored values.
			existing := &event.Participants[i]
			if person.Name != "" {
				existing.Name = person.Name
			}
			if person.Email != "" {
				existing.Email = person.Email
			}
			if person.Phone != "" {
				existing.Phone = person.Phone
			}
			return nil
		}
		return fmt.Errorf("participant %s: %w", personID, storage.ErrNotFound)
	})
}

// handleRemoveParticipant drops the person from the event and scrubs every
// item reference to them, so the ledger never sees a dangling ID.
func (s *EventService) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	personID := mux.Vars(r)["personID"]
	s.mutate(w, r, func(event *models.Event) error {
		found := false
		participants := event.Participants[:0:0]
		for _, p := range event.Participants {
			if p.ID == personID {
				found = true
				continue
			}
			participants = append(participants, p)
		}
		if !found {
			return fmt.Errorf("participant %s: %w", personID, storage.ErrNotFound)
		}
		event.Participants = participants

		for i := range event.Items {
			item := &event.Items[i]
			payments := item.Payments[:0:0]
			for _, payment := range item.Payments {
				if payment.PersonID != personID {
					payments = append(payments, payment)
				}
			}
			item.Payments = payments

			liable := item.LiablePersons[:0:0]
			for _, id := range item.LiablePersons {
				if id != personID {
					liable = append(liable, id)
				}
			}
			item.LiablePersons = liable
		}
		return nil
	})
}

func (s *EventService) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var item models.ExpenseItem
	if err := decodeJSON(r, &item); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	s.mutate(w, r, func(event *models.Event) error {
		event.Items = append(event.Items, item)
		return nil
	})
}

func (s *EventService) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemID"]
	var item models.ExpenseItem
	if err := decodeJSON(r, &item); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	s.mutate(w, r, func(event *models.Event) error {
		for i := range event.Items {
			if event.Items[i].ID == itemID {
				item.ID = itemID
				event.Items[i] = item
				return nil
			}
		}
		return fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
	})
}

func (s *EventService) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemID"]
	s.mutate(w, r, func(event *models.Event) error {
		for i := range event.Items {
			if event.Items[i].ID == itemID {
				event.Items = append(event.Items[:i:i], event.Items[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
	})
}

func (s *EventService) handleSetDeductible(w http.ResponseWriter, r *http.Request) {
	var deductible models.Deductible
	if err := decodeJSON(r, &deductible); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	if !deductible.IsApplied {
		deductible.Amount = 0
	}
	s.mutate(w, r, func(event *models.Event) error {
		if err := engine.ValidateDeductible(deductible); err != nil {
			return err
		}
		event.Report.Deductible = deductible
		return nil
	})
}

func (s *EventService) handleGetReport(w http.ResponseWriter, r *http.Request) {
	event, ok := s.ownedEvent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, event.Report)
}

func (s *EventService) handleRecompute(w http.ResponseWriter, r *http.Request) {
	event, ok := s.ownedEvent(w, r)
	if !ok {
		return
	}
	if err := s.recompute(event); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.UpdateEvent(r.Context(), event); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event.Report)
}

// assignIDs fills in missing participant and item IDs so item references can
// be validated before the aggregate ever reaches the store.
func assignIDs(event *models.Event) {
	for i := range event.Participants {
		if event.Participants[i].ID == "" {
			event.Participants[i].ID = uuid.New().String()
		}
	}
	for i := range event.Items {
		if event.Items[i].ID == "" {
			event.Items[i].ID = uuid.New().String()
		}
	}
}
