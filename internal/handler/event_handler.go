package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"events-api/internal/model"
	"events-api/internal/service"
	apperrors "events-api/pkg/app_errors"
	"events-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
	debug   bool
}

// NewEventHandler debug 為 true 時錯誤回應會附上內部錯誤細節
func NewEventHandler(service service.EventService, debug bool) *EventHandler {
	return &EventHandler{service: service, debug: debug}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/events")
	{
		router.POST("", h.Create)
		router.GET("", h.List)
		router.GET("/:id", h.Get)
		router.PUT("/:id", h.Update)
		router.DELETE("/:id", h.Delete)
	}
}

// ListEventsQuery 列表查詢參數；status_filter 為 status 的舊名稱
type ListEventsQuery struct {
	Status       string `form:"status"`
	StatusFilter string `form:"status_filter"`
	Organizer    string `form:"organizer"`
	Limit        *int   `form:"limit"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req model.EventCreate
	if err := BindJson(c, &req); err != nil {
		return
	}
	created, err := h.service.Create(c, req)
	if err != nil {
		h.handleError(c, err, "create event")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) List(c *gin.Context) {
	var query ListEventsQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	status := query.Status
	if status == "" {
		status = query.StatusFilter
	}
	events, err := h.service.List(c, model.ListParams{
		Status:    status,
		Organizer: query.Organizer,
		Limit:     query.Limit,
	})
	if err != nil {
		h.handleError(c, err, "list events")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.Get(c, c.Param("id"))
	if err != nil {
		h.handleError(c, err, "get event")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Update(c *gin.Context) {
	var req model.EventPatch
	if err := BindJson(c, &req); err != nil {
		return
	}
	updated, err := h.service.Update(c, c.Param("id"), req)
	if err != nil {
		h.handleError(c, err, "update event")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c, c.Param("id")); err != nil {
		h.handleError(c, err, "delete event")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Info("Validation failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation error", "errors": verr.Errors})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage(c.Param("id"))})
	case errors.Is(err, apperrors.ErrNoFieldsToUpdate):
		log.Warn("No fields to update")
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
	case errors.Is(err, apperrors.ErrUnavailable):
		log.Error("Store unavailable")
		h.respond(c, http.StatusServiceUnavailable, "Database table not found. Please contact administrator.", err)
	case errors.Is(err, apperrors.ErrThrottled):
		log.Warn("Store throttled")
		h.respond(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		var storeErr *apperrors.StoreError
		if errors.As(err, &storeErr) {
			log.Error("Store rejected request")
			h.respond(c, http.StatusBadRequest, "Invalid request data", err)
			return
		}
		log.Warn("Invalid argument")
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidArgumentMessage(err)})
	default:
		log.Error("Unexpected error")
		h.respond(c, http.StatusInternalServerError, fmt.Sprintf("Failed to %s", operation), err)
	}
}

// respond 回傳安全的錯誤訊息，debug 模式才附上 detail
func (h *EventHandler) respond(c *gin.Context, status int, message string, err error) {
	body := gin.H{"error": message}
	if h.debug {
		body["detail"] = err.Error()
	}
	c.JSON(status, body)
}

func notFoundMessage(id string) string {
	if id == "" {
		return "Event not found"
	}
	return fmt.Sprintf("Event with ID %s not found", id)
}

func invalidArgumentMessage(err error) string {
	return strings.TrimPrefix(err.Error(), apperrors.ErrInvalidArgument.Error()+": ")
}
