package web

import (
	"errors"
	"net/http"
	"net/url"

	"pro5/backend/restheart"
	"pro5/backend/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Screens serves the list, detail, edit and delete pages of one entity.
type Screens[T any] struct {
	entity   Entity[T]
	service  services.EntityService[T]
	renderer *Renderer
	logger   *zap.Logger
}

func NewScreens[T any](entity Entity[T], service services.EntityService[T], renderer *Renderer, logger *zap.Logger) *Screens[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Screens[T]{
		entity:   entity,
		service:  service,
		renderer: renderer,
		logger:   logger.With(zap.String("screen", entity.Path)),
	}
}

// Register mounts the screens under /{Path}.
func (s *Screens[T]) Register(r *mux.Router) {
	base := "/" + s.entity.Path
	r.HandleFunc(base, s.List).Methods("GET")
	r.HandleFunc(base+"/new", s.New).Methods("GET")
	r.HandleFunc(base+"/new", s.Create).Methods("POST")
	r.HandleFunc(base+"/{id}", s.Detail).Methods("GET")
	r.HandleFunc(base+"/{id}/edit", s.Edit).Methods("GET")
	r.HandleFunc(base+"/{id}/edit", s.Save).Methods("POST")
	r.HandleFunc(base+"/{id}/delete", s.ConfirmDelete).Methods("GET")
	r.HandleFunc(base+"/{id}/delete", s.Delete).Methods("POST")
}

func (s *Screens[T]) page() page {
	return page{Title: s.entity.Title, Path: s.entity.Path, Fields: s.entity.Fields}
}

func (s *Screens[T]) row(entity *T) row {
	return row{ID: s.entity.ID(entity), Values: s.entity.Values(entity)}
}

// List handles GET /{entity}
func (s *Screens[T]) List(w http.ResponseWriter, r *http.Request) {
	entities, err := s.service.FindAll(r.Context())
	p := s.page()
	if err != nil {
		s.logger.Warn("Error loading list", zap.Error(err))
		p.Error = "Could not load the " + s.entity.Title + " list."
		s.renderer.render(w, statusFor(err), "list", p)
		return
	}

	for i := range entities {
		p.Rows = append(p.Rows, s.row(&entities[i]))
	}
	s.renderer.render(w, http.StatusOK, "list", p)
}

// Detail handles GET /{entity}/{id}
func (s *Screens[T]) Detail(w http.ResponseWriter, r *http.Request) {
	entity, ok := s.load(w, r)
	if !ok {
		return
	}
	p := s.page()
	p.Row = s.row(entity)
	s.renderer.render(w, http.StatusOK, "detail", p)
}

// New handles GET /{entity}/new
func (s *Screens[T]) New(w http.ResponseWriter, r *http.Request) {
	var blank T
	s.renderForm(w, http.StatusOK, &blank, true, "", nil)
}

// Create handles POST /{entity}/new
func (s *Screens[T]) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		var blank T
		s.renderForm(w, http.StatusBadRequest, &blank, true, "The form could not be read.", nil)
		return
	}

	var entity T
	s.entity.Bind(&entity, r.PostForm)

	if _, err := s.service.Create(r.Context(), entity); err != nil {
		s.logger.Warn("Error creating entity", zap.Error(err))
		s.renderForm(w, statusFor(err), &entity, true, messageFor(err), nil)
		return
	}
	http.Redirect(w, r, "/"+s.entity.Path, http.StatusSeeOther)
}

// Edit handles GET /{entity}/{id}/edit
func (s *Screens[T]) Edit(w http.ResponseWriter, r *http.Request) {
	entity, ok := s.load(w, r)
	if !ok {
		return
	}
	s.renderForm(w, http.StatusOK, entity, false, "", nil)
}

// Save handles POST /{entity}/{id}/edit. The submitted values are merged
// over the stored record before it is written back.
func (s *Screens[T]) Save(w http.ResponseWriter, r *http.Request) {
	entity, ok := s.load(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	if err := r.ParseForm(); err != nil {
		s.renderForm(w, http.StatusBadRequest, entity, false, "The form could not be read.", nil)
		return
	}

	if invalid := s.validate(id, r.PostForm); len(invalid) > 0 {
		s.entity.Bind(entity, r.PostForm)
		s.renderForm(w, http.StatusBadRequest, entity, false, "", invalid)
		return
	}

	s.entity.Bind(entity, r.PostForm)
	if _, err := s.service.Update(r.Context(), id, *entity); err != nil {
		s.logger.Warn("Error updating entity", zap.String("id", id), zap.Error(err))
		s.renderForm(w, statusFor(err), entity, false, messageFor(err), nil)
		return
	}
	http.Redirect(w, r, "/"+s.entity.Path, http.StatusSeeOther)
}

// ConfirmDelete handles GET /{entity}/{id}/delete
func (s *Screens[T]) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	entity, ok := s.load(w, r)
	if !ok {
		return
	}
	p := s.page()
	p.Row = s.row(entity)
	s.renderer.render(w, http.StatusOK, "delete", p)
}

// Delete handles POST /{entity}/{id}/delete
func (s *Screens[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.service.Delete(r.Context(), id); err != nil {
		s.logger.Warn("Error deleting entity", zap.String("id", id), zap.Error(err))
		s.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/"+s.entity.Path, http.StatusSeeOther)
}

// validate checks the only required field of the edit form: the read-only id.
func (s *Screens[T]) validate(id string, form url.Values) map[string]string {
	invalid := map[string]string{}
	switch submitted := form.Get("id"); {
	case submitted == "":
		invalid["id"] = "This field is required."
	case submitted != id:
		invalid["id"] = "This field cannot be changed."
	}
	return invalid
}

func (s *Screens[T]) load(w http.ResponseWriter, r *http.Request) (*T, bool) {
	id := mux.Vars(r)["id"]
	entity, err := s.service.FindOne(r.Context(), id)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			s.logger.Warn("Error loading entity", zap.String("id", id), zap.Error(err))
		}
		s.renderError(w, err)
		return nil, false
	}
	return entity, true
}

func (s *Screens[T]) renderForm(w http.ResponseWriter, status int, entity *T, isNew bool, message string, invalid map[string]string) {
	p := s.page()
	p.IsNew = isNew
	p.Error = message
	p.Invalid = invalid

	values := s.entity.Values(entity)
	for i, f := range s.entity.Fields {
		p.Inputs = append(p.Inputs, input{Name: f.Name, Label: f.Label, Value: values[i]})
	}

	if isNew {
		p.Action = "/" + s.entity.Path + "/new"
	} else {
		p.ID = s.entity.ID(entity)
		p.Action = "/" + s.entity.Path + "/" + p.ID + "/edit"
	}
	s.renderer.render(w, status, "form", p)
}

func (s *Screens[T]) renderError(w http.ResponseWriter, err error) {
	p := s.page()
	p.Error = messageFor(err)
	s.renderer.render(w, statusFor(err), "error", p)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrIDMismatch),
		errors.Is(err, services.ErrIDInvalid),
		errors.Is(err, services.ErrIDNull),
		errors.Is(err, services.ErrEntityNotFound):
		return http.StatusBadRequest
	case restheart.IsUnavailable(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	switch statusFor(err) {
	case http.StatusNotFound:
		return "The requested record does not exist."
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusBadGateway:
		return "The entity store is not available. Please try again later."
	default:
		return "An unexpected error occurred."
	}
}
