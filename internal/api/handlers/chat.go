package handlers

import (
	"net/http"
	"time"

	"github.com/dom/bandmates/internal/api/middleware"
	"github.com/dom/bandmates/internal/api/respond"
	"github.com/dom/bandmates/internal/domain"
	"github.com/dom/bandmates/internal/service"
)

type ChatHandler struct {
	conversations *service.ConversationService
}

func NewChatHandler(conversations *service.ConversationService) *ChatHandler {
	return &ChatHandler{conversations: conversations}
}

type StartChatRequest struct {
	UserID flexibleID `json:"userId"`
}

type StartChatResponse struct {
	ChatRoomID int64 `json:"chatRoomId"`
}

type RoomResponse struct {
	ID        int64  `json:"chatRoomId"`
	PeerID    int64  `json:"peerId"`
	CreatedAt string `json:"createdAt"`
}

func (h *ChatHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		respond.Error(w, r, domain.ErrUnauthenticated)
		return
	}

	candidates, err := h.conversations.ListCandidates(r.Context(), session.UserID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, candidates)
}

func (h *ChatHandler) Start(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		respond.Error(w, r, domain.ErrUnauthenticated)
		return
	}

	var req StartChatRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respond.Error(w, r, service.ErrInvalidUserID)
		return
	}

	roomID, err := h.conversations.Resolve(r.Context(), session.UserID, int64(req.UserID))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, StartChatResponse{ChatRoomID: roomID})
}

func (h *ChatHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		respond.Error(w, r, domain.ErrUnauthenticated)
		return
	}

	rooms, err := h.conversations.ListRooms(r.Context(), session.UserID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		peer := room.ParticipantLow
		if peer == session.UserID {
			peer = room.ParticipantHigh
		}
		resp = append(resp, RoomResponse{
			ID:        room.ID,
			PeerID:    peer,
			CreatedAt: room.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	respond.JSON(w, http.StatusOK, resp)
}
