package controllers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeedFiltersPublicNonDraft(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `trips` WHERE is_draft = .+ AND is_public = ").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery("SELECT \\* FROM `trips` WHERE is_draft = .+ AND is_public = .+ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).
			AddRow("trip-1", "user-2", "Altai 7 days"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-2"))
	mock.ExpectQuery("SELECT points.trip_id, point_images.image_url FROM `point_images` JOIN points").
		WithArgs("trip-1").
		WillReturnRows(sqlmock.NewRows([]string{"trip_id", "image_url"}).
			AddRow("trip-1", "https://storage.example.com/first.jpg").
			AddRow("trip-1", "https://storage.example.com/second.jpg"))

	r := newTestRouter("user-1")
	tc := NewTripController(db, "injoy_travel_bot")
	r.GET("/trips", tc.GetFeed)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Altai 7 days")
	// only the first photo per trip lands on the card
	assert.Contains(t, w.Body.String(), "first.jpg")
	assert.NotContains(t, w.Body.String(), "second.jpg")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFeedMineFiltersByOwner(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `trips` WHERE is_draft = .+ AND user_id = ").
		WithArgs(false, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectQuery("SELECT \\* FROM `trips` WHERE is_draft = .+ AND user_id = ").
		WithArgs(false, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}))

	r := newTestRouter("user-1")
	tc := NewTripController(db, "injoy_travel_bot")
	r.GET("/trips", tc.GetFeed)

	req := httptest.NewRequest(http.MethodGet, "/trips?mine=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTripNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `trips`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	r := newTestRouter("user-1")
	tc := NewTripController(db, "injoy_travel_bot")
	r.GET("/trips/:id", tc.GetTrip)

	req := httptest.NewRequest(http.MethodGet, "/trips/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTripRequiresOwnership(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `trips`")).
		WithArgs("trip-1", "user-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	r := newTestRouter("user-1")
	tc := NewTripController(db, "injoy_travel_bot")
	r.DELETE("/trips/:id", tc.DeleteTrip)

	req := httptest.NewRequest(http.MethodDelete, "/trips/trip-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetShareLinkBuildsDeepLink(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `trips`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "is_public"}).
			AddRow("trip-1", "user-2", "Altai 7 days", true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-2"))

	r := newTestRouter("user-1")
	tc := NewTripController(db, "injoy_travel_bot")
	r.GET("/share/:id", tc.GetShareLink)

	req := httptest.NewRequest(http.MethodGet, "/share/trip-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://t.me/injoy_travel_bot/app?startapp=trip_trip-1")
}
