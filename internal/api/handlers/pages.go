package handlers

import (
	"net/http"

	"github.com/dom/bandmates/internal/api/middleware"
	"github.com/dom/bandmates/internal/api/respond"
	"github.com/dom/bandmates/internal/domain"
)

// PageHandler answers the server-rendered pages with the view name and the
// data a template would need. Rendering itself happens outside this service.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

type ViewResponse struct {
	View     string `json:"view"`
	Title    string `json:"title,omitempty"`
	FullName string `json:"full_name,omitempty"`
	UserType string `json:"userType,omitempty"`
	Role     string `json:"role,omitempty"`
	LoggedIn bool   `json:"loggedIn"`
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if session, ok := middleware.GetSession(r.Context()); ok {
		http.Redirect(w, r, landingPage(session), http.StatusFound)
		return
	}
	respond.JSON(w, http.StatusOK, ViewResponse{View: "login"})
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.userPage(w, r, "home", "")
}

func (h *PageHandler) PersonalArea(w http.ResponseWriter, r *http.Request) {
	h.userPage(w, r, "areapersonale", "Area Personale")
}

func (h *PageHandler) Chat(w http.ResponseWriter, r *http.Request) {
	h.userPage(w, r, "chat", "")
}

func (h *PageHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	respond.JSON(w, http.StatusOK, toView("admin/dashboard", "", session))
}

// userPage sends admins to their dashboard; everyone else gets the view.
func (h *PageHandler) userPage(w http.ResponseWriter, r *http.Request, view, title string) {
	session, _ := middleware.GetSession(r.Context())
	if session.Role == domain.RoleAdmin {
		http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
		return
	}
	respond.JSON(w, http.StatusOK, toView(view, title, session))
}

func toView(view, title string, session *domain.Session) ViewResponse {
	return ViewResponse{
		View:     view,
		Title:    title,
		FullName: session.FullName,
		UserType: string(session.UserType),
		Role:     string(session.Role),
		LoggedIn: session.LoggedIn,
	}
}
