package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/guestlist/server/internal/domain/events"
	"github.com/guestlist/server/internal/domain/ids"
)

type stubEventRepo struct {
	createFn func(ctx context.Context, params events.EventCreateParams) (*events.Event, error)
	listFn   func(ctx context.Context) ([]events.EventSummary, error)
	getFn    func(ctx context.Context, id string) (*events.Event, error)
}

func (s *stubEventRepo) Create(ctx context.Context, params events.EventCreateParams) (*events.Event, error) {
	return s.createFn(ctx, params)
}

func (s *stubEventRepo) List(ctx context.Context) ([]events.EventSummary, error) {
	return s.listFn(ctx)
}

func (s *stubEventRepo) GetByID(ctx context.Context, id string) (*events.Event, error) {
	return s.getFn(ctx, id)
}

type stubAttendeeRepo struct {
	registerFn func(ctx context.Context, params events.RegistrationParams) (*events.Attendee, error)
	getFn      func(ctx context.Context, id string) (*events.Attendee, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (s *stubAttendeeRepo) Register(ctx context.Context, params events.RegistrationParams) (*events.Attendee, error) {
	return s.registerFn(ctx, params)
}

func (s *stubAttendeeRepo) GetByID(ctx context.Context, id string) (*events.Attendee, error) {
	return s.getFn(ctx, id)
}

func (s *stubAttendeeRepo) GetByEvent(ctx context.Context, eventID string) ([]events.Attendee, error) {
	return nil, nil
}

func (s *stubAttendeeRepo) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type noopNotifier struct{}

func (noopNotifier) EnqueueConfirmation(ctx context.Context, attendeeID string) error {
	return nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := ids.NewULID()
	require.NoError(t, err)
	return id
}

func sampleEvent(id string) *events.Event {
	start, _ := time.Parse(DateTimeLayout, "2025-01-17 09:00:00")
	return &events.Event{
		ID:          id,
		Name:        "Launch Party",
		Description: "Celebrating the release",
		StartDate:   start,
		EndDate:     start.Add(4 * time.Hour),
		Location:    "Main Hall",
		Capacity:    100,
		Attendees:   []events.Attendee{},
	}
}

func TestCreateEventSuccess(t *testing.T) {
	eventID := newID(t)
	repo := &stubEventRepo{
		createFn: func(ctx context.Context, params events.EventCreateParams) (*events.Event, error) {
			require.Equal(t, "Launch Party", params.Name)
			require.Equal(t, 100, params.Capacity)
			return sampleEvent(eventID), nil
		},
	}
	h := NewEventsHandler(events.NewService(repo), "test")

	body := `{
		"name": "Launch Party",
		"description": "Celebrating the release",
		"startDate": "2025-01-17 09:00:00",
		"endDate": "2025-01-17 13:00:00",
		"location": "Main Hall",
		"capacity": 100
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, eventID, view["id"])
	require.Equal(t, "2025-01-17 09:00:00", view["startDate"])
	require.Equal(t, []any{}, view["attendees"])
}

func TestCreateEventValidation(t *testing.T) {
	h := NewEventsHandler(events.NewService(&stubEventRepo{}), "test")

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "missing name",
			body:  `{"startDate":"2025-01-17 09:00:00","endDate":"2025-01-17 13:00:00","location":"Hall","capacity":10}`,
			field: "name",
		},
		{
			name:  "bad date format",
			body:  `{"name":"X","startDate":"2025-01-17","endDate":"2025-01-17 13:00:00","location":"Hall","capacity":10}`,
			field: "startDate",
		},
		{
			name:  "zero capacity",
			body:  `{"name":"X","startDate":"2025-01-17 09:00:00","endDate":"2025-01-17 13:00:00","location":"Hall","capacity":0}`,
			field: "capacity",
		},
		{
			name:  "negative capacity",
			body:  `{"name":"X","startDate":"2025-01-17 09:00:00","endDate":"2025-01-17 13:00:00","location":"Hall","capacity":-5}`,
			field: "capacity",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			var pd struct {
				Errors map[string]any `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pd))
			require.Contains(t, pd.Errors, tc.field)
		})
	}
}

func TestCreateEventMalformedJSON(t *testing.T) {
	h := NewEventsHandler(events.NewService(&stubEventRepo{}), "test")

	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEvents(t *testing.T) {
	eventID := newID(t)
	repo := &stubEventRepo{
		listFn: func(ctx context.Context) ([]events.EventSummary, error) {
			start, _ := time.Parse(DateTimeLayout, "2025-01-17 09:00:00")
			return []events.EventSummary{{
				ID:             eventID,
				Name:           "Launch Party",
				StartDate:      start,
				EndDate:        start.Add(4 * time.Hour),
				Location:       "Main Hall",
				Capacity:       100,
				TotalAttendees: 3,
			}}, nil
		},
	}
	h := NewEventsHandler(events.NewService(repo), "test")

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var views []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	require.Equal(t, eventID, views[0]["id"])
	require.Equal(t, float64(3), views[0]["totalAttendees"])
	require.NotContains(t, views[0], "attendees")
}

func TestGetEvent(t *testing.T) {
	eventID := newID(t)
	repo := &stubEventRepo{
		getFn: func(ctx context.Context, id string) (*events.Event, error) {
			if id != eventID {
				return nil, events.ErrEventNotFound
			}
			e := sampleEvent(eventID)
			e.Attendees = []events.Attendee{{ID: newID(t), Name: "Ada", Email: "ada@example.com", EventID: eventID}}
			return e, nil
		},
	}
	h := NewEventsHandler(events.NewService(repo), "test")

	req := httptest.NewRequest(http.MethodGet, "/api/events/"+eventID, nil)
	req.SetPathValue("eventId", eventID)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	attendees, ok := view["attendees"].([]any)
	require.True(t, ok)
	require.Len(t, attendees, 1)
	first := attendees[0].(map[string]any)
	require.Equal(t, "ada@example.com", first["email"])
	require.NotContains(t, first, "eventId")
}

func TestGetEventNotFound(t *testing.T) {
	repo := &stubEventRepo{
		getFn: func(ctx context.Context, id string) (*events.Event, error) {
			return nil, events.ErrEventNotFound
		},
	}
	h := NewEventsHandler(events.NewService(repo), "test")

	missing := newID(t)
	req := httptest.NewRequest(http.MethodGet, "/api/events/"+missing, nil)
	req.SetPathValue("eventId", missing)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetEventMalformedID(t *testing.T) {
	h := NewEventsHandler(events.NewService(&stubEventRepo{}), "test")

	req := httptest.NewRequest(http.MethodGet, "/api/events/not-a-ulid", nil)
	req.SetPathValue("eventId", "not-a-ulid")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func registrationHandler(repo *stubAttendeeRepo) *AttendeesHandler {
	svc := events.NewRegistrationService(repo, noopNotifier{}, testLogger())
	return NewAttendeesHandler(svc, "test")
}

func TestRegisterAttendee(t *testing.T) {
	eventID := newID(t)
	attendeeID := newID(t)
	repo := &stubAttendeeRepo{
		registerFn: func(ctx context.Context, params events.RegistrationParams) (*events.Attendee, error) {
			require.Equal(t, eventID, params.EventID)
			return &events.Attendee{ID: attendeeID, Name: params.Name, Email: params.Email, EventID: eventID}, nil
		},
	}
	h := registrationHandler(repo)

	body := `{"name":"Ada Lovelace","email":"ada@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/events/"+eventID+"/attendees", strings.NewReader(body))
	req.SetPathValue("eventId", eventID)
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, attendeeID, view["id"])
	require.Equal(t, "Ada Lovelace", view["name"])
	require.Equal(t, "ada@example.com", view["email"])
}

func TestRegisterAttendeeRejections(t *testing.T) {
	eventID := newID(t)

	tests := []struct {
		name         string
		err          error
		expectStatus int
	}{
		{"capacity full", events.ErrCapacityExceeded, http.StatusUnprocessableEntity},
		{"duplicate email", events.ErrDuplicateRegistration, http.StatusConflict},
		{"unknown event", events.ErrEventNotFound, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubAttendeeRepo{
				registerFn: func(ctx context.Context, params events.RegistrationParams) (*events.Attendee, error) {
					return nil, tc.err
				},
			}
			h := registrationHandler(repo)

			body := `{"name":"Ada","email":"ada@example.com"}`
			req := httptest.NewRequest(http.MethodPost, "/api/events/"+eventID+"/attendees", strings.NewReader(body))
			req.SetPathValue("eventId", eventID)
			rec := httptest.NewRecorder()

			h.Register(rec, req)

			require.Equal(t, tc.expectStatus, rec.Code)
			require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRegisterAttendeeValidation(t *testing.T) {
	eventID := newID(t)
	h := registrationHandler(&stubAttendeeRepo{})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"email":"ada@example.com"}`, "name"},
		{"missing email", `{"name":"Ada"}`, "email"},
		{"invalid email", `{"name":"Ada","email":"not-an-email"}`, "email"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/events/"+eventID+"/attendees", strings.NewReader(tc.body))
			req.SetPathValue("eventId", eventID)
			rec := httptest.NewRecorder()

			h.Register(rec, req)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var pd struct {
				Errors map[string]any `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pd))
			require.Contains(t, pd.Errors, tc.field)
		})
	}
}

func TestRegisterAttendeeMalformedEventID(t *testing.T) {
	h := registrationHandler(&stubAttendeeRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/events/123/attendees", strings.NewReader(`{"name":"Ada","email":"ada@example.com"}`))
	req.SetPathValue("eventId", "123")
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAttendee(t *testing.T) {
	eventID := newID(t)
	attendeeID := newID(t)
	deleted := false
	repo := &stubAttendeeRepo{
		getFn: func(ctx context.Context, id string) (*events.Attendee, error) {
			return &events.Attendee{ID: attendeeID, EventID: eventID}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	h := registrationHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/events/"+eventID+"/attendees/"+attendeeID, nil)
	req.SetPathValue("eventId", eventID)
	req.SetPathValue("attendeeId", attendeeID)
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
	require.True(t, deleted)
}

func TestDeleteAttendeeWrongEvent(t *testing.T) {
	eventID := newID(t)
	otherEventID := newID(t)
	attendeeID := newID(t)
	repo := &stubAttendeeRepo{
		getFn: func(ctx context.Context, id string) (*events.Attendee, error) {
			return &events.Attendee{ID: attendeeID, EventID: otherEventID}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			t.Fatal("delete must not be called for a mismatched event")
			return nil
		},
	}
	h := registrationHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/events/"+eventID+"/attendees/"+attendeeID, nil)
	req.SetPathValue("eventId", eventID)
	req.SetPathValue("attendeeId", attendeeID)
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteAttendeeNotFound(t *testing.T) {
	eventID := newID(t)
	attendeeID := newID(t)
	repo := &stubAttendeeRepo{
		getFn: func(ctx context.Context, id string) (*events.Attendee, error) {
			return nil, events.ErrAttendeeNotFound
		},
	}
	h := registrationHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/events/"+eventID+"/attendees/"+attendeeID, nil)
	req.SetPathValue("eventId", eventID)
	req.SetPathValue("attendeeId", attendeeID)
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
