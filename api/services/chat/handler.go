package chat

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ragment/ragment-api/api/auth"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler { return &Handler{store: store} }

// RegisterRoutes mounts the chat endpoints on rg; all of them require an
// authenticated caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, verifier *auth.Verifier) {
	rg.Use(auth.Middleware(verifier))
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/messages", h.ListMessages)
	rg.POST("/:id/messages", h.AppendMessage)
}

type chatRequest struct {
	Title     string     `json:"title"`
	ProjectID *uuid.UUID `json:"project_id"`
}

type messageRequest struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content" binding:"required"`
}

func chatID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return uuid.Nil, false
	}
	return id, true
}

func respondStoreErr(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}
	slog.Error("chat store failure", "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *Handler) List(c *gin.Context) {
	chats, err := h.store.List(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

func (h *Handler) Create(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ch, err := h.store.Create(c.Request.Context(), auth.CallerID(c), req.Title, req.ProjectID)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := chatID(c)
	if !ok {
		return
	}
	ch, err := h.store.Get(c.Request.Context(), auth.CallerID(c), id)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := chatID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), auth.CallerID(c), id); err != nil {
		respondStoreErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListMessages(c *gin.Context) {
	id, ok := chatID(c)
	if !ok {
		return
	}
	messages, err := h.store.ListMessages(c.Request.Context(), auth.CallerID(c), id)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *Handler) AppendMessage(c *gin.Context) {
	id, ok := chatID(c)
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.store.AppendMessage(c.Request.Context(), auth.CallerID(c), id, req.Role, req.Content)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}
