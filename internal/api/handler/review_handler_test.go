package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ratehub/internal/api/authz"
	"ratehub/internal/api/dto"
	"ratehub/internal/api/models"
	"ratehub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	args := m.Called(titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedReviewResponse), args.Error(1)
}

func (m *MockReviewService) Get(titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(actor authz.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(actor, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(actor authz.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(actor, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(actor authz.Actor, titleID, reviewID int64) error {
	args := m.Called(actor, titleID, reviewID)
	return args.Error(0)
}

// actorMiddleware injects a fixed actor the way Authenticate would
func actorMiddleware(actor authz.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("actor", actor)
		c.Next()
	}
}

var testActor = authz.Actor{ID: "user-123", Role: models.RoleUser, Authenticated: true}

func setupReviewRouter(mockService *MockReviewService, actor authz.Actor) *gin.Engine {
	router := setupRouter()
	router.Use(actorMiddleware(actor))
	handler := NewReviewHandler(mockService)
	handler.RegisterRoutes(router.Group(""))
	return router
}

func TestReviewCreate_Created(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, testActor)

	created := &dto.ReviewResponse{ID: 42, Text: "good", Author: "alice", Score: 8}
	mockService.On("Create", testActor, int64(1), dto.CreateReviewRequest{Text: "good", Score: 8}).
		Return(created, nil)

	body, _ := json.Marshal(dto.CreateReviewRequest{Text: "good", Score: 8})
	req, _ := http.NewRequest("POST", "/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response dto.ReviewResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(42), response.ID)

	mockService.AssertExpectations(t)
}

func TestReviewCreate_ScoreOutOfRange(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, testActor)

	body, _ := json.Marshal(map[string]interface{}{"text": "bad", "score": 11})
	req, _ := http.NewRequest("POST", "/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestReviewCreate_Duplicate(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, testActor)

	mockService.On("Create", testActor, int64(1), mock.AnythingOfType("dto.CreateReviewRequest")).
		Return(nil, service.ErrDuplicateReview)

	body, _ := json.Marshal(dto.CreateReviewRequest{Text: "again", Score: 5})
	req, _ := http.NewRequest("POST", "/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReviewCreate_TitleNotFound(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, testActor)

	mockService.On("Create", testActor, int64(404), mock.AnythingOfType("dto.CreateReviewRequest")).
		Return(nil, service.ErrTitleNotFound)

	body, _ := json.Marshal(dto.CreateReviewRequest{Text: "x", Score: 5})
	req, _ := http.NewRequest("POST", "/titles/404/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewCreate_AnonymousUnauthorized(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, authz.Anonymous)

	mockService.On("Create", authz.Anonymous, int64(1), mock.AnythingOfType("dto.CreateReviewRequest")).
		Return(nil, service.ErrUnauthenticated)

	body, _ := json.Marshal(dto.CreateReviewRequest{Text: "x", Score: 5})
	req, _ := http.NewRequest("POST", "/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewUpdate_Forbidden(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, testActor)

	mockService.On("Update", testActor, int64(1), int64(7), mock.AnythingOfType("dto.UpdateReviewRequest")).
		Return(nil, service.ErrForbidden)

	text := "hijack"
	body, _ := json.Marshal(dto.UpdateReviewRequest{Text: &text})
	req, _ := http.NewRequest("PATCH", "/titles/1/reviews/7", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewDelete_NoContent(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, testActor)

	mockService.On("Delete", testActor, int64(1), int64(7)).Return(nil)

	req, _ := http.NewRequest("DELETE", "/titles/1/reviews/7", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestReviewList_BadTitleID(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, authz.Anonymous)

	req, _ := http.NewRequest("GET", "/titles/not-a-number/reviews", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "List")
}

func TestReviewList_Paginated(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, authz.Anonymous)

	page := &dto.PaginatedReviewResponse{
		Data:     []dto.ReviewResponse{{ID: 1, Text: "ok", Author: "a", Score: 5}},
		Page:     2,
		PageSize: 10,
		Total:    11,
	}
	mockService.On("List", int64(1), 2, 10).Return(page, nil)

	req, _ := http.NewRequest("GET", "/titles/1/reviews?page=2&page_size=10", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.PaginatedReviewResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 11, response.Total)
	assert.Len(t, response.Data, 1)
}
