package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.FlightQuote, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightQuote), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.FlightQuote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightQuote), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newFlightRouter(service *MockFlightUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewFlightHandler(service).Register(router.Group("/api/flights"))
	return router
}

func sampleQuote() domain.FlightQuote {
	departure := time.Now().Add(10 * 24 * time.Hour)
	return domain.FlightQuote{
		Flight: domain.Flight{
			ID:             1,
			FlightNo:       "AI101",
			Origin:         "DEL",
			Destination:    "BOM",
			DepartureTime:  departure,
			ArrivalTime:    departure.Add(2 * time.Hour),
			BaseFareCents:  800000,
			TotalSeats:     200,
			SeatsAvailable: 120,
			AirlineName:    "Air India",
		},
		PriceCents: 920000,
	}
}

func TestFlightHandler_Search(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := newFlightRouter(mockService)

	expected := domain.SearchFilter{Origin: "DEL", Destination: "BOM"}
	mockService.On("Search", mock.Anything, expected).Return([]domain.FlightQuote{sampleQuote()}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/flights/search?origin=DEL&destination=BOM", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []flightResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "AI101", resp[0].FlightNo)
	assert.Equal(t, 9200.0, resp[0].Price)
	assert.Equal(t, 120, resp[0].SeatsAvailable)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_Search_WithDate(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := newFlightRouter(mockService)

	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	expected := domain.SearchFilter{Origin: "DEL", Destination: "BOM", Date: date}
	mockService.On("Search", mock.Anything, expected).Return([]domain.FlightQuote{}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/flights/search?origin=DEL&destination=BOM&date=2026-09-14", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_Search_InvalidDate(t *testing.T) {
	router := newFlightRouter(&MockFlightUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/flights/search?date=14-09-2026", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlightHandler_Get(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := newFlightRouter(mockService)

	quote := sampleQuote()
	mockService.On("GetByID", mock.Anything, int64(1)).Return(&quote, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/flights/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp flightResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AI101", resp.FlightNo)
	assert.Equal(t, 9200.0, resp.Price)
}

func TestFlightHandler_Get_NotFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := newFlightRouter(mockService)

	mockService.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrFlightNotFound).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/flights/99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_Create(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := newFlightRouter(mockService)

	mockService.On("Create", mock.Anything, mock.AnythingOfType("*domain.Flight")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Flight).ID = 1
		}).Return(nil).Once()

	departure := time.Now().Add(10 * 24 * time.Hour).UTC()
	body, _ := json.Marshal(createFlightRequest{
		FlightNo:    "AI101",
		Origin:      "DEL",
		Destination: "BOM",
		Departure:   departure.Format(time.RFC3339),
		Arrival:     departure.Add(2 * time.Hour).Format(time.RFC3339),
		BaseFare:    8000.00,
		TotalSeats:  200,
		AirlineName: "Air India",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/flights/", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_Delete(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := newFlightRouter(mockService)

	mockService.On("Delete", mock.Anything, int64(1)).Return(nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/flights/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
