package handlers

import (
	"net/http"

	"github.com/dom/bandmates/internal/api/respond"
	"github.com/dom/bandmates/internal/service"
)

// DirectoryHandler serves the public band and musician listings.
type DirectoryHandler struct {
	users *service.UserService
}

func NewDirectoryHandler(users *service.UserService) *DirectoryHandler {
	return &DirectoryHandler{users: users}
}

func (h *DirectoryHandler) Bands(w http.ResponseWriter, r *http.Request) {
	bands, err := h.users.ListBands(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, bands)
}

func (h *DirectoryHandler) Musicians(w http.ResponseWriter, r *http.Request) {
	musicians, err := h.users.ListMusicians(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, musicians)
}
