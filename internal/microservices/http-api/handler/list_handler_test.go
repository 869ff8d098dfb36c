package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"albumrank/internal/microservices/http-api/dto"
	"albumrank/internal/microservices/http-api/models"
	"albumrank/internal/microservices/http-api/repository"
	"albumrank/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockListService mocks the ListService interface
type MockListService struct {
	mock.Mock
}

func (m *MockListService) AddToList(ctx context.Context, userID string, req dto.AddToListRequest) (*models.ListEntry, error) {
	args := m.Called(userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListEntry), args.Error(1)
}

func (m *MockListService) SetScore(ctx context.Context, userID, albumID string, score *float64) (*models.ListEntry, error) {
	args := m.Called(userID, albumID, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListEntry), args.Error(1)
}

func (m *MockListService) RemoveFromList(ctx context.Context, userID, albumID string) error {
	args := m.Called(userID, albumID)
	return args.Error(0)
}

func (m *MockListService) GetList(ctx context.Context, userID string) ([]models.ListEntry, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ListEntry), args.Error(1)
}

func TestAddToList_Success(t *testing.T) {
	mockService := new(MockListService)
	handler := NewListHandler(mockService)
	router := setupRouter()
	router.POST("/list", fakeAuth("user-1"), handler.Add)

	req := dto.AddToListRequest{
		AlbumID: "album-1",
		Name:    "Madvillainy",
		Artists: []string{"Madvillain"},
	}
	entry := &models.ListEntry{ID: 1, UserID: "user-1", AlbumID: "album-1", Name: "Madvillainy"}

	mockService.On("AddToList", "user-1", req).Return(entry, nil)

	body, _ := json.Marshal(req)
	httpReq, _ := http.NewRequest("POST", "/list", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response models.ListEntry
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "album-1", response.AlbumID)
	assert.Nil(t, response.Score)

	mockService.AssertExpectations(t)
}

func TestAddToList_AlreadyListed(t *testing.T) {
	mockService := new(MockListService)
	handler := NewListHandler(mockService)
	router := setupRouter()
	router.POST("/list", fakeAuth("user-1"), handler.Add)

	mockService.On("AddToList", "user-1", mock.Anything).
		Return(nil, service.ErrAlreadyListed)

	body, _ := json.Marshal(dto.AddToListRequest{AlbumID: "album-1", Name: "Madvillainy"})
	req, _ := http.NewRequest("POST", "/list", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestAddToList_MissingName(t *testing.T) {
	mockService := new(MockListService)
	handler := NewListHandler(mockService)
	router := setupRouter()
	router.POST("/list", fakeAuth("user-1"), handler.Add)

	body, _ := json.Marshal(dto.AddToListRequest{AlbumID: "album-1"})
	req, _ := http.NewRequest("POST", "/list", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetScore_Success(t *testing.T) {
	mockService := new(MockListService)
	handler := NewListHandler(mockService)
	router := setupRouter()
	router.PUT("/list/:album_id/score", fakeAuth("user-1"), handler.SetScore)

	seven := 7.5
	entry := &models.ListEntry{ID: 1, UserID: "user-1", AlbumID: "album-1", Score: &seven}
	mockService.On("SetScore", "user-1", "album-1", &seven).Return(entry, nil)

	body, _ := json.Marshal(dto.SetScoreRequest{Score: &seven})
	req, _ := http.NewRequest("PUT", "/list/album-1/score", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.ListEntry
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotNil(t, response.Score)
	assert.Equal(t, 7.5, *response.Score)

	mockService.AssertExpectations(t)
}

func TestSetScore_NullClearsScore(t *testing.T) {
	mockService := new(MockListService)
	handler := NewListHandler(mockService)
	router := setupRouter()
	router.PUT("/list/:album_id/score", fakeAuth("user-1"), handler.SetScore)

	entry := &models.ListEntry{ID: 1, UserID: "user-1", AlbumID: "album-1", Score: nil}
	mockService.On("SetScore", "user-1", "album-1", (*float64)(nil)).Return(entry, nil)

	req, _ := http.NewRequest("PUT", "/list/album-1/score", bytes.NewBufferString(`{"score":null}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.ListEntry
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Nil(t, response.Score)

	mockService.AssertExpectations(t)
}

func TestSetScore_NotListed(t *testing.T) {
	mockService := new(MockListService)
	handler := NewListHandler(mockService)
	router := setupRouter()
	router.PUT("/list/:album_id/score", fakeAuth("user-1"), handler.SetScore)

	mockService.On("SetScore", "user-1", "album-1", mock.Anything).
		Return(nil, repository.ErrListEntryNotFound)

	req, _ := http.NewRequest("PUT", "/list/album-1/score", bytes.NewBufferString(`{"score":5}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestSetScore_AggregationConflict(t *testing.T) {
	mockService := new(MockListService)
	handler := NewListHandler(mockService)
	router := setupRouter()
	router.PUT("/list/:album_id/score", fakeAuth("user-1"), handler.SetScore)

	mockService.On("SetScore", "user-1", "album-1", mock.Anything).
		Return(nil, repository.ErrAggregationConflict)

	req, _ := http.NewRequest("PUT", "/list/album-1/score", bytes.NewBufferString(`{"score":5}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestRemoveFromList_Success(t *testing.T) {
	mockService := new(MockListService)
	handler := NewListHandler(mockService)
	router := setupRouter()
	router.DELETE("/list/:album_id", fakeAuth("user-1"), handler.Remove)

	mockService.On("RemoveFromList", "user-1", "album-1").Return(nil)

	req, _ := http.NewRequest("DELETE", "/list/album-1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestGetList_Success(t *testing.T) {
	mockService := new(MockListService)
	handler := NewListHandler(mockService)
	router := setupRouter()
	router.GET("/list", fakeAuth("user-1"), handler.Get)

	nine := 9.0
	entries := []models.ListEntry{
		{ID: 2, UserID: "user-1", AlbumID: "album-2", Name: "Donuts", Score: &nine},
		{ID: 1, UserID: "user-1", AlbumID: "album-1", Name: "Madvillainy"},
	}
	mockService.On("GetList", "user-1").Return(entries, nil)

	req, _ := http.NewRequest("GET", "/list", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Entries []models.ListEntry `json:"entries"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Entries, 2)
	assert.Equal(t, "album-2", response.Entries[0].AlbumID)

	mockService.AssertExpectations(t)
}

func TestGetList_Unauthenticated(t *testing.T) {
	mockService := new(MockListService)
	handler := NewListHandler(mockService)
	router := setupRouter()
	router.GET("/list", handler.Get)

	req, _ := http.NewRequest("GET", "/list", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
