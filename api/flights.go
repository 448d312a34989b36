package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/search", h.search)
	router.GET("/:id", h.get)
	router.POST("/", h.create)
	router.DELETE("/:id", h.remove)
}

type flightResponse struct {
	FlightID       int64   `json:"flight_id"`
	FlightNo       string  `json:"flight_no"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	Departure      string  `json:"departure"`
	Arrival        string  `json:"arrival"`
	Price          float64 `json:"price"`
	SeatsAvailable int     `json:"seats_available"`
	AirlineName    string  `json:"airline_name"`
}

type createFlightRequest struct {
	FlightNo    string  `json:"flight_no"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Departure   string  `json:"departure"`
	Arrival     string  `json:"arrival"`
	BaseFare    float64 `json:"base_fare"`
	TotalSeats  int     `json:"total_seats"`
	AirlineName string  `json:"airline_name"`
}

func (h *FlightHandler) search(c *gin.Context) {
	filter := domain.SearchFilter{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
			return
		}
		filter.Date = date
	}

	quotes, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]flightResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, toFlightResponse(q.Flight, q.PriceCents))
	}
	c.JSON(http.StatusOK, out)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	quote, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(quote.Flight, quote.PriceCents))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	departure, err := time.Parse(time.RFC3339, req.Departure)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure, use RFC3339"})
		return
	}
	arrival, err := time.Parse(time.RFC3339, req.Arrival)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arrival, use RFC3339"})
		return
	}

	flight := &domain.Flight{
		FlightNo:      req.FlightNo,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		BaseFareCents: int64(math.Round(req.BaseFare * 100)),
		TotalSeats:    req.TotalSeats,
		AirlineName:   req.AirlineName,
	}
	if err := h.service.Create(c.Request.Context(), flight); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(*flight, flight.BaseFareCents))
}

func (h *FlightHandler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "flight deleted"})
}

func toFlightResponse(f domain.Flight, priceCents int64) flightResponse {
	return flightResponse{
		FlightID:       f.ID,
		FlightNo:       f.FlightNo,
		Origin:         f.Origin,
		Destination:    f.Destination,
		Departure:      f.DepartureTime.Format(time.RFC3339),
		Arrival:        f.ArrivalTime.Format(time.RFC3339),
		Price:          float64(priceCents) / 100,
		SeatsAvailable: f.SeatsAvailable,
		AirlineName:    f.AirlineName,
	}
}
