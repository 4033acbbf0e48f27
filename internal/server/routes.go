package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Generation
	mux.HandleFunc("/api/generate", s.app.GenerateHandler.GenerateAsyncHandler)        // POST - submit, returns job id
	mux.HandleFunc("/api/generate/sync", s.app.GenerateHandler.GenerateSyncHandler)    // POST - block until done
	mux.HandleFunc("/api/generate/stream", s.app.GenerateHandler.GenerateStreamHandler) // POST - NDJSON progress

	// API routes - Job status and result recovery
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler) // GET ?jobId=
	mux.HandleFunc("/api/result", s.app.ResultHandler.Handle)           // GET ?requestId= / POST

	// API routes - Service info
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	// Everything else is an API 404
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
