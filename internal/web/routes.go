package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/magicmirror/magic-mirror/internal/web/handlers"
)

func (s *Server) setupRoutes(deps Deps) {
	profilesHandler := handlers.NewProfilesHandler(deps.Engine, deps.Profiles)
	recognizeHandler := handlers.NewRecognizeHandler(
		deps.Engine, deps.Candidates, deps.Sightings, deps.Greeter,
		s.config.Recognition.MatchThreshold,
	)
	sightingsHandler := handlers.NewSightingsHandler(deps.Sightings)
	descriptorsHandler := handlers.NewDescriptorsHandler(deps.Detector)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/profiles", profilesHandler.Enroll)
		r.Get("/profiles", profilesHandler.List)
		r.Get("/profiles/{id}", profilesHandler.Get)
		r.Delete("/profiles/{id}", profilesHandler.Delete)
		r.Put("/profiles/{id}/embedding", profilesHandler.UpdateEmbedding)

		r.Post("/recognize", recognizeHandler.Recognize)

		r.Get("/sightings", sightingsHandler.List)

		r.Post("/descriptors", descriptorsHandler.Detect)
	})

	s.router.Get("/", s.serveLanding)
}

// serveLanding serves a placeholder page pointing at the API. The mirror
// frontend itself runs on the display device, not from this server.
func (s *Server) serveLanding(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Magic Mirror</title>
    <style>
        body { font-family: system-ui, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #1a1a2e; color: #eee; }
        .container { text-align: center; }
        h1 { color: #00d9ff; }
        p { color: #aaa; }
        a { color: #00d9ff; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Magic Mirror</h1>
        <p>This server hosts the enrollment and recognition API.</p>
        <p>API is available at <a href="/api/v1/health">/api/v1/health</a></p>
    </div>
</body>
</html>`))
}
