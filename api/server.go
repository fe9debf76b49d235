package api

import (
	"net/http"

	"pro5/backend/config"
	"pro5/backend/handlers"
	"pro5/backend/middleware"
	"pro5/backend/models"
	"pro5/backend/services"
	"pro5/backend/web"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server represents the gateway's HTTP surface: JSON resources and screens.
type Server struct {
	router     *mux.Router
	categories *handlers.Resource[models.Category]
	items      *handlers.ItemHandler
	renderer   *web.Renderer
	logger     *zap.Logger
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, categories *services.CategoryService, items *services.ItemService, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer, err := web.NewRenderer(cfg.AppName, []web.NavLink{
		{Path: web.CategoryEntity.Path, Title: web.CategoryEntity.Title},
		{Path: web.ItemEntity.Path, Title: web.ItemEntity.Title},
	}, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:     mux.NewRouter(),
		categories: handlers.NewCategoryResource(cfg.AppName, "/api/pro5/category", categories, logger),
		items:      handlers.NewItemHandler(cfg.AppName, "/api/pro5/item", items, logger),
		renderer:   renderer,
		logger:     logger,
	}

	s.router.Use(middleware.Recover(logger))
	s.router.Use(middleware.RequestLogger(logger))
	s.router.Use(middleware.CORS(cfg.AppName, cfg.CORS.AllowedOrigins, cfg.IsDevelopment(), logger))

	s.RegisterRoutes(categories, items)
	return s, nil
}

// RegisterRoutes registers all API routes and screens
func (s *Server) RegisterRoutes(categories *services.CategoryService, items *services.ItemService) {
	r := s.router

	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET", "OPTIONS")

	api := r.PathPrefix("/api").Subrouter()

	// The store-shaped paths and the plural REST paths share handlers.
	for _, base := range []string{"/pro5/category", "/categories"} {
		api.HandleFunc(base, s.categories.List).Methods("GET")
		api.HandleFunc(base, s.categories.Create).Methods("POST")
		api.HandleFunc(base+"/{id}", s.categories.Get).Methods("GET")
		api.HandleFunc(base+"/{id}", s.categories.Update).Methods("PUT")
		api.HandleFunc(base+"/{id}", s.categories.Delete).Methods("DELETE")
	}
	api.HandleFunc("/categories/{id}", s.categories.PartialUpdate).Methods("PATCH")

	for _, base := range []string{"/pro5/item", "/items"} {
		api.HandleFunc(base, s.items.List).Methods("GET")
		api.HandleFunc(base, s.items.Create).Methods("POST")
		api.HandleFunc(base+"/{id}", s.items.Get).Methods("GET")
		api.HandleFunc(base+"/{id}", s.items.Update).Methods("PUT")
		api.HandleFunc(base+"/{id}", s.items.Delete).Methods("DELETE")
	}
	api.HandleFunc("/items/{id}", s.items.PartialUpdate).Methods("PATCH")
	api.HandleFunc("/pro5/item/{categoryId}/category", s.items.AddToCategory).Methods("POST")
	api.HandleFunc("/cat/{catId}/item", s.items.SaveForCategory).Methods("POST")

	// Preflight requests for any API path are answered by the CORS middleware.
	api.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	r.HandleFunc("/", s.renderer.Index).Methods("GET")
	web.NewScreens[models.Category](web.CategoryEntity, categories, s.renderer, s.logger).Register(r)
	web.NewScreens[models.Item](web.ItemEntity, items, s.renderer, s.logger).Register(r)
}

// Handler returns the HTTP handler for the API server
func (s *Server) Handler() http.Handler {
	return s.router
}
