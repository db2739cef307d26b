package handlers

import (
	"github.com/guestlist/server/internal/domain/events"
)

type eventSummaryView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Location       string `json:"location"`
	Capacity       int    `json:"capacity"`
	TotalAttendees int    `json:"totalAttendees"`
}

type eventDetailsView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	Location    string         `json:"location"`
	Capacity    int            `json:"capacity"`
	Attendees   []attendeeView `json:"attendees"`
}

type attendeeView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toEventSummaryView(e events.EventSummary) eventSummaryView {
	return eventSummaryView{
		ID:             e.ID,
		Name:           e.Name,
		Description:    e.Description,
		StartDate:      e.StartDate.Format(DateTimeLayout),
		EndDate:        e.EndDate.Format(DateTimeLayout),
		Location:       e.Location,
		Capacity:       e.Capacity,
		TotalAttendees: e.TotalAttendees,
	}
}

func toEventDetailsView(e *events.Event) eventDetailsView {
	attendees := make([]attendeeView, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		attendees = append(attendees, toAttendeeView(a))
	}
	return eventDetailsView{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		StartDate:   e.StartDate.Format(DateTimeLayout),
		EndDate:     e.EndDate.Format(DateTimeLayout),
		Location:    e.Location,
		Capacity:    e.Capacity,
		Attendees:   attendees,
	}
}

func toAttendeeView(a events.Attendee) attendeeView {
	return attendeeView{ID: a.ID, Name: a.Name, Email: a.Email}
}
