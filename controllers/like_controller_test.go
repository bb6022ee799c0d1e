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

func TestLikeTripCreatesLikeAndBumpsCounter(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `trips`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "likes"}).AddRow("trip-1", 4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `trip_likes`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `trip_likes`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `trips` SET `likes`=likes").
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := newTestRouter("user-1")
	lc := NewLikeController(db)
	r.POST("/trips/:id/like", lc.LikeTrip)

	req := httptest.NewRequest(http.MethodPost, "/trips/trip-1/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"likes":5`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeTripTwiceIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `trips`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "likes"}).AddRow("trip-1", 4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `trip_likes`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "user_id"}).AddRow(1, "trip-1", "user-1"))

	r := newTestRouter("user-1")
	lc := NewLikeController(db)
	r.POST("/trips/:id/like", lc.LikeTrip)

	req := httptest.NewRequest(http.MethodPost, "/trips/trip-1/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"likes":4`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlikeTripWithoutExistingLikeSkipsCounter(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("DELETE FROM `trip_likes`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := newTestRouter("user-1")
	lc := NewLikeController(db)
	r.DELETE("/trips/:id/like", lc.UnlikeTrip)

	req := httptest.NewRequest(http.MethodDelete, "/trips/trip-1/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
