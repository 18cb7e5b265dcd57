package project

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

// RegisterRoutes mounts the project endpoints on rg; all of them require an
// authenticated caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, verifier *auth.Verifier) {
	rg.Use(auth.Middleware(verifier))
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/files", h.ListFiles)
	rg.POST("/:id/files", h.CreateFile)
	rg.DELETE("/:id/files/:fileID", h.DeleteFile)
}

type projectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type fileRequest struct {
	Filename string `json:"filename" binding:"required"`
	Content  string `json:"content"`
}

func projectID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return uuid.Nil, false
	}
	return id, true
}

// respondStoreErr maps store errors to HTTP responses.
func respondStoreErr(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	slog.Error("project store failure", "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *Handler) List(c *gin.Context) {
	projects, err := h.store.List(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.store.Create(c.Request.Context(), auth.CallerID(c), req.Name, req.Description)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	p, err := h.store.Get(c.Request.Context(), auth.CallerID(c), id)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.store.Update(c.Request.Context(), auth.CallerID(c), id, req.Name, req.Description)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), auth.CallerID(c), id); err != nil {
		respondStoreErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListFiles(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	files, err := h.store.ListFiles(c.Request.Context(), auth.CallerID(c), id)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *Handler) CreateFile(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req fileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := h.store.CreateFile(c.Request.Context(), auth.CallerID(c), id, req.Filename, req.Content)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *Handler) DeleteFile(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	if err := h.store.DeleteFile(c.Request.Context(), auth.CallerID(c), id, fileID); err != nil {
		respondStoreErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
