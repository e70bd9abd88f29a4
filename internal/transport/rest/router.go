package rest

import (
	"net/http"

	"heartquiz/internal/config"
	"heartquiz/internal/service"
	"heartquiz/internal/transport/rest/handler"
	"heartquiz/internal/transport/rest/middleware"
	"heartquiz/internal/transport/ws"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	Backend        handler.Backend
	SessionService *service.SessionService
	WSHub          *ws.Hub
	CORS           config.CORSConfig
	Logger         *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	proxyHandler := handler.NewProxyHandler(c.Backend, c.Logger)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Logger)
	wsHandler.SetAllowedOrigins(c.CORS.AllowedOrigins)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))

	api := r.PathPrefix("/api").Subrouter()

	// Pass-through proxies
	api.HandleFunc("/questions", proxyHandler.Questions).Methods("GET", "OPTIONS")
	api.HandleFunc("/analyze", proxyHandler.Analyze).Methods("POST", "OPTIONS")

	api.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")

	// WebSocket (token in query param)
	api.HandleFunc("/ws/session", wsHandler.SessionWS).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session routes (require session token)
	sessionRoutes := api.PathPrefix("/session").Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/start", sessionHandler.Start).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/select", sessionHandler.Select).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/slider", sessionHandler.Slider).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/next", sessionHandler.Next).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/previous", sessionHandler.Previous).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/profile", sessionHandler.SaveProfile).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/profile", sessionHandler.Profile).Methods("GET")
	sessionRoutes.HandleFunc("/results", sessionHandler.Results).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(cfg config.CORSConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
