package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"consultorio/internal/db"
	"consultorio/internal/entities"
	"consultorio/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubAvailabilityStore struct {
	mock.Mock
}

func (m *stubAvailabilityStore) ListSlots(ctx context.Context) ([]db.AvailabilitySlot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.AvailabilitySlot), args.Error(1)
}
func (m *stubAvailabilityStore) GetAvailableSlot(ctx context.Context, dayOfWeek, hour int) (*db.AvailabilitySlot, error) {
	args := m.Called(ctx, dayOfWeek, hour)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.AvailabilitySlot), args.Error(1)
}
func (m *stubAvailabilityStore) UpsertSlot(ctx context.Context, slot *db.AvailabilitySlot) error {
	return m.Called(ctx, slot).Error(0)
}
func (m *stubAvailabilityStore) BulkUpsertSlots(ctx context.Context, slots []db.AvailabilitySlot) ([]db.AvailabilitySlot, error) {
	args := m.Called(ctx, slots)
	return args.Get(0).([]db.AvailabilitySlot), args.Error(1)
}

type stubReservationStore struct {
	mock.Mock
}

func (m *stubReservationStore) CreateReservation(ctx context.Context, res *db.Reservation) error {
	return m.Called(ctx, res).Error(0)
}
func (m *stubReservationStore) GetReservationForSlotDate(ctx context.Context, dayOfWeek, hour int, date time.Time) (*db.Reservation, error) {
	args := m.Called(ctx, dayOfWeek, hour, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Reservation), args.Error(1)
}
func (m *stubReservationStore) ListReservations(ctx context.Context) ([]db.Reservation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.Reservation), args.Error(1)
}
func (m *stubReservationStore) GetReservationByID(ctx context.Context, id int) (*db.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Reservation), args.Error(1)
}
func (m *stubReservationStore) DeleteReservation(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type noopSender struct{}

func (noopSender) SendReservationEmail(entities.ReservationResponse, string) {}

func newRouter(slots *stubAvailabilityStore, reservations *stubReservationStore) *mux.Router {
	logger := zerolog.New(io.Discard)
	availabilitySvc := service.NewAvailabilityService(slots, &logger)
	reservationSvc := service.NewReservationService(reservations, slots, noopSender{}, &logger)

	availabilityHandler := NewAvailabilityHandler(availabilitySvc)
	reservationHandler := NewReservationHandler(reservationSvc)

	r := mux.NewRouter()
	r.HandleFunc("/api/availability", availabilityHandler.ListAvailability).Methods("GET")
	r.HandleFunc("/api/availability", availabilityHandler.UpsertAvailability).Methods("POST")
	r.HandleFunc("/api/availability/bulk", availabilityHandler.BulkUpsertAvailability).Methods("PUT")
	r.HandleFunc("/api/reservations", reservationHandler.CreateReservation).Methods("POST")
	r.HandleFunc("/api/reservations", reservationHandler.ListReservations).Methods("GET")
	r.HandleFunc("/api/reservations/{id}", reservationHandler.CancelReservation).Methods("DELETE")
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpsertAvailability(t *testing.T) {
	t.Run("RejectsDayOutOfRange", func(t *testing.T) {
		slots := new(stubAvailabilityStore)
		router := newRouter(slots, new(stubReservationStore))

		rec := doJSON(t, router, http.MethodPost, "/api/availability",
			map[string]interface{}{"day_of_week": 7, "hour": 10, "is_available": true})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		slots.AssertNotCalled(t, "UpsertSlot", mock.Anything, mock.Anything)
	})

	t.Run("RejectsHourOutOfRange", func(t *testing.T) {
		slots := new(stubAvailabilityStore)
		router := newRouter(slots, new(stubReservationStore))

		rec := doJSON(t, router, http.MethodPost, "/api/availability",
			map[string]interface{}{"day_of_week": 0, "hour": 24, "is_available": true})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ReturnsStoredSlot", func(t *testing.T) {
		slots := new(stubAvailabilityStore)
		router := newRouter(slots, new(stubReservationStore))

		slots.On("UpsertSlot", mock.Anything, mock.AnythingOfType("*db.AvailabilitySlot")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*db.AvailabilitySlot).ID = 12
			}).Return(nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/api/availability",
			map[string]interface{}{"day_of_week": 1, "hour": 9, "is_available": false})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp entities.SlotResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 12, resp.ID)
		assert.Equal(t, 1, resp.DayOfWeek)
		assert.False(t, resp.IsAvailable)
	})
}

func TestBulkUpsertAvailability(t *testing.T) {
	t.Run("AnyInvalidEntryAbortsBatch", func(t *testing.T) {
		slots := new(stubAvailabilityStore)
		router := newRouter(slots, new(stubReservationStore))

		rec := doJSON(t, router, http.MethodPut, "/api/availability/bulk", map[string]interface{}{
			"availabilities": []map[string]interface{}{
				{"day_of_week": 0, "hour": 10, "is_available": true},
				{"day_of_week": 0, "hour": 25, "is_available": true},
			},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		slots.AssertNotCalled(t, "BulkUpsertSlots", mock.Anything, mock.Anything)
	})

	t.Run("ReturnsResultsInInputOrder", func(t *testing.T) {
		slots := new(stubAvailabilityStore)
		router := newRouter(slots, new(stubReservationStore))

		slots.On("BulkUpsertSlots", mock.Anything, mock.AnythingOfType("[]db.AvailabilitySlot")).
			Return([]db.AvailabilitySlot{
				{ID: 1, DayOfWeek: 0, Hour: 10, IsAvailable: true},
				{ID: 2, DayOfWeek: 1, Hour: 11, IsAvailable: false},
			}, nil).Once()

		rec := doJSON(t, router, http.MethodPut, "/api/availability/bulk", map[string]interface{}{
			"availabilities": []map[string]interface{}{
				{"day_of_week": 0, "hour": 10, "is_available": true},
				{"day_of_week": 1, "hour": 11, "is_available": false},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []entities.SlotResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp, 2)
		assert.Equal(t, 1, resp[0].ID)
		assert.Equal(t, 2, resp[1].ID)
	})
}

func TestCreateReservation(t *testing.T) {
	validBody := func() map[string]interface{} {
		return map[string]interface{}{
			"day_of_week":      0,
			"hour":             10,
			"client_name":      "Alice",
			"client_email":     "a@x.com",
			"reservation_date": "2024-01-01T10:00:00Z",
		}
	}

	t.Run("ValidationRejections", func(t *testing.T) {
		cases := map[string]func(m map[string]interface{}){
			"EmptyName":    func(m map[string]interface{}) { m["client_name"] = "" },
			"NameTooLong":  func(m map[string]interface{}) { m["client_name"] = longName() },
			"BadEmail":     func(m map[string]interface{}) { m["client_email"] = "not-an-email" },
			"BadDate":      func(m map[string]interface{}) { m["reservation_date"] = "next tuesday" },
			"MissingDate":  func(m map[string]interface{}) { delete(m, "reservation_date") },
			"DayTooLarge":  func(m map[string]interface{}) { m["day_of_week"] = 9 },
			"NegativeHour": func(m map[string]interface{}) { m["hour"] = -1 },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				reservations := new(stubReservationStore)
				router := newRouter(new(stubAvailabilityStore), reservations)

				body := validBody()
				mutate(body)
				rec := doJSON(t, router, http.MethodPost, "/api/reservations", body)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				reservations.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("SlotNotAvailable", func(t *testing.T) {
		slots := new(stubAvailabilityStore)
		reservations := new(stubReservationStore)
		router := newRouter(slots, reservations)

		slots.On("GetAvailableSlot", mock.Anything, 0, 10).Return(nil, nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/api/reservations", validBody())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Time slot not available")
	})

	t.Run("Conflict", func(t *testing.T) {
		slots := new(stubAvailabilityStore)
		reservations := new(stubReservationStore)
		router := newRouter(slots, reservations)

		date := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		slots.On("GetAvailableSlot", mock.Anything, 0, 10).
			Return(&db.AvailabilitySlot{ID: 1, DayOfWeek: 0, Hour: 10, IsAvailable: true}, nil).Once()
		reservations.On("GetReservationForSlotDate", mock.Anything, 0, 10, date).
			Return(&db.Reservation{ID: 9}, nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/api/reservations", validBody())
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already reserved")
	})

	t.Run("Created", func(t *testing.T) {
		slots := new(stubAvailabilityStore)
		reservations := new(stubReservationStore)
		router := newRouter(slots, reservations)

		date := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		slots.On("GetAvailableSlot", mock.Anything, 0, 10).
			Return(&db.AvailabilitySlot{ID: 1, DayOfWeek: 0, Hour: 10, IsAvailable: true}, nil).Once()
		reservations.On("GetReservationForSlotDate", mock.Anything, 0, 10, date).Return(nil, nil).Once()
		reservations.On("CreateReservation", mock.Anything, mock.AnythingOfType("*db.Reservation")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*db.Reservation).ID = 77
			}).Return(nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/api/reservations", validBody())
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp entities.ReservationResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 77, resp.ID)
		assert.False(t, resp.CreatedAt.IsZero())
	})
}

func TestListReservations(t *testing.T) {
	reservations := new(stubReservationStore)
	router := newRouter(new(stubAvailabilityStore), reservations)

	jan15 := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	reservations.On("ListReservations", mock.Anything).Return([]db.Reservation{
		{ID: 2, Hour: 9, ReservationDate: jan15},
	}, nil).Once()

	rec := doJSON(t, router, http.MethodGet, "/api/reservations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []entities.ReservationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, 2, resp[0].ID)
}

func TestCancelReservation(t *testing.T) {
	t.Run("InvalidID", func(t *testing.T) {
		router := newRouter(new(stubAvailabilityStore), new(stubReservationStore))
		rec := doJSON(t, router, http.MethodDelete, "/api/reservations/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		reservations := new(stubReservationStore)
		router := newRouter(new(stubAvailabilityStore), reservations)

		reservations.On("GetReservationByID", mock.Anything, 42).Return(nil, nil).Once()

		rec := doJSON(t, router, http.MethodDelete, "/api/reservations/42", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Cancelled", func(t *testing.T) {
		reservations := new(stubReservationStore)
		router := newRouter(new(stubAvailabilityStore), reservations)

		reservations.On("GetReservationByID", mock.Anything, 5).
			Return(&db.Reservation{ID: 5}, nil).Once()
		reservations.On("DeleteReservation", mock.Anything, 5).Return(nil).Once()

		rec := doJSON(t, router, http.MethodDelete, "/api/reservations/5", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "cancelled successfully")
	})
}

func longName() string {
	b := make([]rune, 101)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
