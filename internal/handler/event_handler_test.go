package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"events-api/internal/handler"
	"events-api/internal/model"
	repoMocks "events-api/internal/repository/mocks"
	"events-api/internal/service"
	"events-api/internal/service/mocks"
	apperrors "events-api/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupEventTestRouter(mockService *mocks.MockEventService, debug bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	eventHandler := handler.NewEventHandler(mockService, debug)
	eventHandler.RegisterRoutes(router)

	return router
}

// setupValidatingRouter wires the real service over a repository mock with no
// expectations, so any request that reaches the store fails the test.
func setupValidatingRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	svc := service.NewEventService(repoMocks.NewMockEventRepository(t), nil)
	handler.NewEventHandler(svc, false).RegisterRoutes(router)

	return router
}

func fieldTypes(t *testing.T, body map[string]any) map[string]string {
	t.Helper()
	errs, ok := body["errors"].([]any)
	require.True(t, ok, "errors should be a list")
	types := make(map[string]string, len(errs))
	for _, e := range errs {
		fe := e.(map[string]any)
		types[fe["field"].(string)] = fe["type"].(string)
	}
	return types
}

func sampleEvent(id string) *model.Event {
	at := time.Date(2024, 11, 1, 9, 30, 0, 0, time.UTC)
	return &model.Event{
		ID: id, Title: "Tech Conf", Description: "desc", Date: "2024-12-15", Location: "SF",
		Capacity: 500, Organizer: "Tech Events", Status: model.EventStatusActive,
		CreatedAt: at, UpdatedAt: at,
	}
}

func createPayload() map[string]any {
	return map[string]any{
		"eventId":     "evt-1",
		"title":       "Tech Conf",
		"description": "desc",
		"date":        "2024-12-15",
		"location":    "SF",
		"capacity":    500,
		"organizer":   "Tech Events",
		"status":      "active",
	}
}

func TestCreateEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		mockService.EXPECT().Create(mock.Anything, mock.MatchedBy(func(in model.EventCreate) bool {
			return in.EventID.Value == "evt-1" &&
				in.Title.Value == "Tech Conf" &&
				in.Capacity.Value == json.Number("500") &&
				!in.ID.Present
		})).Return(sampleEvent("evt-1"), nil).Once()

		req := createJSONHTTPRequest("POST", "/events", createPayload())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(w.Body)
		assert.Equal(t, "evt-1", body["id"])
		assert.Equal(t, "active", body["status"])
		assert.NotContains(t, body, "eventId")
	})

	t.Run("Failed - Invalid JSON", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		req := createRawHTTPRequest("POST", "/events", InvalidJSON)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request format", decodeBody(w.Body)["error"])
	})

	t.Run("Failed - Wrong Field Type", func(t *testing.T) {
		router := setupValidatingRouter(t)

		payload := createPayload()
		payload["capacity"] = true
		req := createJSONHTTPRequest("POST", "/events", payload)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeBody(w.Body)
		assert.Equal(t, "Validation error", body["error"])
		require.Len(t, body["errors"], 1)
		fieldErr := body["errors"].([]any)[0].(map[string]any)
		assert.Equal(t, "capacity", fieldErr["field"])
		assert.Equal(t, "int_type", fieldErr["type"])
		assert.Equal(t, "Input should be a valid integer", fieldErr["message"])
	})

	t.Run("Failed - Wrong Type Reported With Missing Field", func(t *testing.T) {
		router := setupValidatingRouter(t)

		payload := createPayload()
		payload["title"] = 123
		delete(payload, "description")
		req := createJSONHTTPRequest("POST", "/events", payload)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, map[string]string{
			"title":       "string_type",
			"description": "missing",
		}, fieldTypes(t, decodeBody(w.Body)))
	})

	t.Run("Failed - Capacity Not A Number", func(t *testing.T) {
		router := setupValidatingRouter(t)

		payload := createPayload()
		payload["capacity"] = "abc"
		req := createJSONHTTPRequest("POST", "/events", payload)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, map[string]string{"capacity": "int_type"}, fieldTypes(t, decodeBody(w.Body)))
	})

	t.Run("Failed - Body Is Not An Object", func(t *testing.T) {
		router := setupValidatingRouter(t)

		req := createRawHTTPRequest("POST", "/events", `["title"]`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request format", decodeBody(w.Body)["error"])
	})

	t.Run("Failed - Validation Error", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		verr := &apperrors.ValidationError{Errors: []apperrors.FieldError{
			{Field: "title", Message: "String should have at least 1 character", Type: "string_too_short"},
			{Field: "capacity", Message: "Input should be greater than 0", Type: "greater_than"},
		}}
		mockService.EXPECT().Create(mock.Anything, mock.Anything).Return(nil, verr).Once()

		req := createJSONHTTPRequest("POST", "/events", createPayload())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeBody(w.Body)
		assert.Equal(t, "Validation error", body["error"])
		assert.Len(t, body["errors"], 2)
	})

	t.Run("Failed - Store Throttled", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		storeErr := apperrors.NewStoreError(apperrors.ErrThrottled, "put event", errors.New("ProvisionedThroughputExceededException"))
		mockService.EXPECT().Create(mock.Anything, mock.Anything).Return(nil, storeErr).Once()

		req := createJSONHTTPRequest("POST", "/events", createPayload())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotContains(t, decodeBody(w.Body), "detail")
	})
}

func TestListEvents(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		mockService.EXPECT().List(mock.Anything, mock.MatchedBy(func(p model.ListParams) bool {
			return p.Status == "active" && p.Organizer == "Tech" && p.Limit != nil && *p.Limit == 5
		})).Return([]*model.Event{sampleEvent("a"), sampleEvent("b")}, nil).Once()

		req, _ := http.NewRequest("GET", "/events?status=active&organizer=Tech&limit=5", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var events []model.Event
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
		assert.Len(t, events, 2)
	})

	t.Run("Success - Legacy Status Filter", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		mockService.EXPECT().List(mock.Anything, model.ListParams{Status: "draft"}).Return([]*model.Event{}, nil).Once()

		req, _ := http.NewRequest("GET", "/events?status_filter=draft", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("Failed - Limit Not A Number", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		req, _ := http.NewRequest("GET", "/events?limit=abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed - Limit Out Of Range", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		mockService.EXPECT().List(mock.Anything, mock.Anything).
			Return(nil, apperrors.InvalidArgument("Limit must be between 1 and 1000")).Once()

		req, _ := http.NewRequest("GET", "/events?limit=0", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Limit must be between 1 and 1000", decodeBody(w.Body)["error"])
	})
}

func TestGetEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		mockService.EXPECT().Get(mock.Anything, "evt-1").Return(sampleEvent("evt-1"), nil).Once()

		req, _ := http.NewRequest("GET", "/events/evt-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "evt-1", decodeBody(w.Body)["id"])
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		mockService.EXPECT().Get(mock.Anything, "missing").Return(nil, apperrors.ErrEventNotFound).Once()

		req, _ := http.NewRequest("GET", "/events/missing", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Event with ID missing not found", decodeBody(w.Body)["error"])
	})

	t.Run("Failed - Blank ID", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		mockService.EXPECT().Get(mock.Anything, " ").
			Return(nil, apperrors.InvalidArgument("Event ID cannot be empty")).Once()

		req, _ := http.NewRequest("GET", "/events/%20", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Event ID cannot be empty", decodeBody(w.Body)["error"])
	})

	t.Run("Failed - Store Unavailable With Debug", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, true)

		storeErr := apperrors.NewStoreError(apperrors.ErrUnavailable, "get event", errors.New("ResourceNotFoundException"))
		mockService.EXPECT().Get(mock.Anything, "evt-1").Return(nil, storeErr).Once()

		req, _ := http.NewRequest("GET", "/events/evt-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, decodeBody(w.Body)["detail"], "ResourceNotFoundException")
	})

	t.Run("Failed - Store Rejected Request", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		storeErr := apperrors.NewStoreError(apperrors.ErrInvalidArgument, "get event", errors.New("ValidationException"))
		mockService.EXPECT().Get(mock.Anything, "evt-1").Return(nil, storeErr).Once()

		req, _ := http.NewRequest("GET", "/events/evt-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request data", decodeBody(w.Body)["error"])
	})
}

func TestUpdateEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		updated := sampleEvent("evt-1")
		updated.Title = "Renamed"
		mockService.EXPECT().Update(mock.Anything, "evt-1", mock.MatchedBy(func(p model.EventPatch) bool {
			return p.Title.Value == "Renamed" &&
				p.Description.Present && p.Description.Null &&
				!p.Capacity.Present
		})).Return(updated, nil).Once()

		req := createRawHTTPRequest("PUT", "/events/evt-1", `{"title":"Renamed","description":null}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Renamed", decodeBody(w.Body)["title"])
	})

	t.Run("Failed - Wrong Field Types Before Store Lookup", func(t *testing.T) {
		router := setupValidatingRouter(t)

		req := createRawHTTPRequest("PUT", "/events/evt-1", `{"title":5,"capacity":"abc","status":"active"}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, map[string]string{
			"title":    "string_type",
			"capacity": "int_type",
		}, fieldTypes(t, decodeBody(w.Body)))
	})

	t.Run("Failed - ErrNoFieldsToUpdate", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		mockService.EXPECT().Update(mock.Anything, "evt-1", model.EventPatch{}).
			Return(nil, apperrors.ErrNoFieldsToUpdate).Once()

		req := createRawHTTPRequest("PUT", "/events/evt-1", `{}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No fields to update", decodeBody(w.Body)["error"])
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		mockService.EXPECT().Update(mock.Anything, "missing", mock.Anything).
			Return(nil, apperrors.ErrEventNotFound).Once()

		req := createJSONHTTPRequest("PUT", "/events/missing", map[string]any{"title": "x"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		mockService.EXPECT().Delete(mock.Anything, "evt-1").Return(nil).Once()

		req, _ := http.NewRequest("DELETE", "/events/evt-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Failed - Unexpected Error", func(t *testing.T) {
		mockService := mocks.NewMockEventService(t)
		router := setupEventTestRouter(mockService, false)

		mockService.EXPECT().Delete(mock.Anything, "evt-1").Return(errors.New("boom")).Once()

		req, _ := http.NewRequest("DELETE", "/events/evt-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(w.Body)
		assert.Equal(t, "Failed to delete event", body["error"])
		assert.NotContains(t, body, "detail")
	})
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.NewHealthHandler().RegisterRoutes(router)

	t.Run("Root", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Events API","version":"1.0.0"}`, w.Body.String())
	})

	t.Run("Health", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	})
}
