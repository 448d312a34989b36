package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedFlights() []domain.Flight {
	departure := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	return []domain.Flight{
		{
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
	}
}

func TestRedisCache_GetFlights_Miss(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, time.Minute)

	filter := domain.SearchFilter{Origin: "DEL", Destination: "BOM"}
	mockRedis.ExpectGet(flightsKey(filter)).RedisNil()

	flights, err := c.GetFlights(context.Background(), filter)

	require.NoError(t, err)
	assert.Nil(t, flights)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisCache_SetThenGetFlights(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, time.Minute)
	ctx := context.Background()

	filter := domain.SearchFilter{Origin: "DEL", Destination: "BOM"}
	flights := cachedFlights()
	payload, err := json.Marshal(flights)
	require.NoError(t, err)

	mockRedis.ExpectSet(flightsKey(filter), payload, time.Minute).SetVal("OK")
	mockRedis.ExpectGet(flightsKey(filter)).SetVal(string(payload))

	require.NoError(t, c.SetFlights(ctx, filter, flights))

	got, err := c.GetFlights(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, flights, got)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisCache_InvalidateFlights(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, time.Minute)

	keys := []string{
		flightsKeyPrefix + "DEL:BOM:",
		flightsKeyPrefix + "::",
	}
	mockRedis.ExpectScan(0, flightsKeyPrefix+"*", 0).SetVal(keys, 0)
	mockRedis.ExpectDel(keys...).SetVal(int64(len(keys)))

	assert.NoError(t, c.InvalidateFlights(context.Background()))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisCache_InvalidateFlights_NothingCached(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, time.Minute)

	mockRedis.ExpectScan(0, flightsKeyPrefix+"*", 0).SetVal([]string{}, 0)

	assert.NoError(t, c.InvalidateFlights(context.Background()))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestFlightsKey_FilterScoped(t *testing.T) {
	assert.Equal(t, "cache:flights:DEL:BOM:2026-09-14", flightsKey(domain.SearchFilter{
		Origin:      "del",
		Destination: "bom",
		Date:        time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
	}))
	assert.Equal(t, "cache:flights:::", flightsKey(domain.SearchFilter{}))
}
