package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/mural-backend/internal/handlers"
	"github.com/GregMSThompson/mural-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	mh := handlers.NewMuralHandlers(deps)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewMiddleware(deps.Firebase).FirebaseAuth)
		r.Mount("/mural", mh.MuralRoutes())
	})
	return r
}
