package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dom/bandmates/internal/api/middleware"
	"github.com/dom/bandmates/internal/api/respond"
	"github.com/dom/bandmates/internal/domain"
	"github.com/dom/bandmates/internal/service"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	registration *service.RegistrationService
	authService  *service.AuthService
	tokens       *service.SessionTokenCodec
	cookies      middleware.Cookies
}

func NewAuthHandler(registration *service.RegistrationService, authService *service.AuthService, tokens *service.SessionTokenCodec, cookies middleware.Cookies) *AuthHandler {
	return &AuthHandler{
		registration: registration,
		authService:  authService,
		tokens:       tokens,
		cookies:      cookies,
	}
}

type SignupRequest struct {
	UserType    string     `json:"userType"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Location    string     `json:"location"`
	Instrument  string     `json:"instrument"`
	Experience  string     `json:"experience"`
	Description string     `json:"description"`
	Genre       string     `json:"genre"`
	LookingFor  stringList `json:"looking_for"`
}

type SignupResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message  string          `json:"message"`
	Redirect string          `json:"redirect"`
	User     SessionResponse `json:"user"`
}

type SessionResponse struct {
	UserID    int64  `json:"user_id"`
	FullName  string `json:"full_name"`
	UserType  string `json:"userType"`
	Role      string `json:"role"`
	LoggedIn  bool   `json:"loggedIn"`
	ExpiresAt string `json:"expiresAt"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorResponse{Error: "Invalid request body"})
		return
	}

	id, err := h.registration.Register(r.Context(), service.RegisterInput{
		UserType:    req.UserType,
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		Location:    req.Location,
		Instrument:  req.Instrument,
		Experience:  req.Experience,
		Description: req.Description,
		Genre:       req.Genre,
		LookingFor:  req.LookingFor,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, SignupResponse{
		Message: fmt.Sprintf("registered successfully as %s", req.UserType),
		ID:      id,
	})
}

// Login opens a session and points the client at the landing page of its
// role. Form posts are redirected there directly.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorResponse{Error: "Invalid request body"})
		return
	}

	session, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	token, err := h.tokens.Encode(session)
	if err != nil {
		respond.Error(w, r, fmt.Errorf("encode session token: %w", err))
		return
	}
	h.cookies.Set(w, token)

	redirect := landingPage(session)
	if isFormPost(r) {
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	respond.JSON(w, http.StatusOK, LoginResponse{
		Message:  "login successful",
		Redirect: redirect,
		User:     toSessionResponse(session),
	})
}

// Logout always ends on the login page, with or without a live session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session, ok := middleware.GetSession(r.Context()); ok {
		if err := h.authService.Invalidate(r.Context(), session); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("logout left session in store")
		}
	}
	h.cookies.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		respond.Error(w, r, domain.ErrUnauthenticated)
		return
	}
	respond.JSON(w, http.StatusOK, toSessionResponse(session))
}

func landingPage(session *domain.Session) string {
	if session.Role == domain.RoleAdmin {
		return "/admin/dashboard"
	}
	return "/home"
}

func toSessionResponse(session *domain.Session) SessionResponse {
	return SessionResponse{
		UserID:    session.UserID,
		FullName:  session.FullName,
		UserType:  string(session.UserType),
		Role:      string(session.Role),
		LoggedIn:  session.LoggedIn,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
