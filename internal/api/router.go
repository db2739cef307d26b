package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/guestlist/server/internal/api/handlers"
	"github.com/guestlist/server/internal/api/middleware"
	"github.com/guestlist/server/internal/domain/events"
	"github.com/guestlist/server/internal/metrics"
)

// NewRouter assembles the HTTP surface: the events API, health probes, and
// the metrics endpoint, wrapped in the shared middleware chain.
func NewRouter(pool *pgxpool.Pool, eventsService *events.Service, registrations *events.RegistrationService, env string, logger zerolog.Logger) http.Handler {
	eventsHandler := handlers.NewEventsHandler(eventsService, env)
	attendeesHandler := handlers.NewAttendeesHandler(registrations, env)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/api/events", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(eventsHandler.List),
		http.MethodPost: http.HandlerFunc(eventsHandler.Create),
	}))
	mux.Handle("/api/events/{eventId}", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(eventsHandler.Get),
	}))
	mux.Handle("/api/events/{eventId}/attendees", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(attendeesHandler.Register),
	}))
	mux.Handle("/api/events/{eventId}/attendees/{attendeeId}", methodMux(map[string]http.Handler{
		http.MethodDelete: http.HandlerFunc(attendeesHandler.Delete),
	}))

	var handler http.Handler = mux
	handler = middleware.Recovery(logger)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
