package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dom/bandmates/internal/api/respond"
	"github.com/dom/bandmates/internal/domain"
	"github.com/dom/bandmates/internal/service"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Location string `json:"location"`
	UserType string `json:"userType"`
	Role     string `json:"role"`
}

type DeleteUserResponse struct {
	Message       string `json:"message"`
	DeletedUserID int64  `json:"deletedUserId"`
	RowsAffected  int64  `json:"rowsAffected"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.users.ListProfiles(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, rows)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req UpdateUserRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.users.Update(r.Context(), id, service.UpdateUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Location: req.Location,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	result, err := h.users.DeleteUser(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, DeleteUserResponse{
		Message:       fmt.Sprintf("user %d deleted", result.UserID),
		DeletedUserID: result.UserID,
		RowsAffected:  result.RowsAffected,
	})
}

func userIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidUserID
	}
	return id, nil
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Location: user.Location,
		UserType: string(user.UserType),
		Role:     string(user.Role),
	}
}
