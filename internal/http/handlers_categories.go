package http

import (
	"errors"
	"log/slog"
	"net/http"

	"mobiflow/internal/core"
	"mobiflow/internal/store"
)

type categoryResponse struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Icon       string `json:"icon"`
	ChartColor string `json:"chart_color"`
	Custom     bool   `json:"custom"`
}

// handleListCategories returns the fixed defaults followed by the user's
// custom categories.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	custom, err := s.store.ListCustomCategories(r.Context(), session.UserID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories error", "error", err, "user_id", session.UserID)
		InternalServerError("could not load categories").Write(w)
		return
	}

	out := make([]categoryResponse, 0, len(core.DefaultCategories)+len(custom))
	for _, c := range core.DefaultCategories {
		cfg := core.GetCategoryConfig(c.Name)
		out = append(out, categoryResponse{
			Name:       c.Name,
			Color:      cfg.Color,
			Icon:       cfg.Icon,
			ChartColor: cfg.ChartColor,
		})
	}
	for _, c := range custom {
		cfg := core.GetCategoryConfig(c.Name)
		out = append(out, categoryResponse{
			ID:         c.ID,
			Name:       c.Name,
			Color:      cfg.Color,
			Icon:       cfg.Icon,
			ChartColor: cfg.ChartColor,
			Custom:     true,
		})
	}

	NewJSONResponse().Body(struct {
		Categories []categoryResponse `json:"categories"`
	}{Categories: out}).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	cat, err := s.store.CreateCustomCategory(r.Context(), session.UserID, parser.Get("name"))
	if err != nil {
		if errors.Is(err, core.ErrEmptyCategory) {
			UnprocessableEntityError("name is required").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Create category error", "error", err, "user_id", session.UserID)
		InternalServerError("could not create category").Write(w)
		return
	}

	cfg := core.GetCategoryConfig(cat.Name)
	NewJSONResponse().Status(http.StatusCreated).Body(struct {
		Category categoryResponse `json:"category"`
	}{Category: categoryResponse{
		ID:         cat.ID,
		Name:       cat.Name,
		Color:      cfg.Color,
		Icon:       cfg.Icon,
		ChartColor: cfg.ChartColor,
		Custom:     true,
	}}).Write(w)
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	err := s.store.RenameCustomCategory(r.Context(), session.UserID, r.PathValue("id"), parser.Get("name"))
	if err != nil {
		writeCategoryError(w, r, err, session.UserID, "rename")
		return
	}

	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// handleDeleteCategory removes the category record. Existing transactions
// keep the category name; their display falls back to the hash palette.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteCustomCategory(r.Context(), session.UserID, r.PathValue("id"))
	if err != nil {
		writeCategoryError(w, r, err, session.UserID, "delete")
		return
	}

	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func writeCategoryError(w http.ResponseWriter, r *http.Request, err error, userID, op string) {
	switch {
	case errors.Is(err, store.ErrCategoryNotFound):
		NotFoundError("category not found").Write(w)
	case errors.Is(err, core.ErrEmptyCategory):
		UnprocessableEntityError("name is required").Write(w)
	default:
		slog.ErrorContext(r.Context(), "Category operation error", "error", err, "user_id", userID, "operation", op)
		InternalServerError("could not update category").Write(w)
	}
}
