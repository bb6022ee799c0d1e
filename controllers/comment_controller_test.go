package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injoy-api/models"
)

func TestCreateCommentBumpsCounter(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `trips`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "comments"}).AddRow("trip-1", 2))
	mock.ExpectExec("INSERT INTO `trip_comments`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `trips` SET `comments`=comments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := newTestRouter("user-1")
	cc := NewCommentController(db)
	r.POST("/trips/:id/comments", cc.CreateComment)

	body := strings.NewReader(`{"text":"Amazing route!"}`)
	req := httptest.NewRequest(http.MethodPost, "/trips/trip-1/comments", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var comment models.TripComment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
	assert.Equal(t, "trip-1", comment.TripID)
	assert.Equal(t, "user-1", comment.UserID)
	assert.Equal(t, "Amazing route!", comment.Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommentUnknownTrip(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `trips`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	r := newTestRouter("user-1")
	cc := NewCommentController(db)
	r.POST("/trips/:id/comments", cc.CreateComment)

	req := httptest.NewRequest(http.MethodPost, "/trips/missing/comments", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCommentsListsOldestFirst(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `trip_comments` WHERE trip_id = .+ORDER BY created_at ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "user_id", "text"}).
			AddRow("c1", "trip-1", "user-2", "first").
			AddRow("c2", "trip-1", "user-3", "second"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-2").AddRow("user-3"))

	r := newTestRouter("user-1")
	cc := NewCommentController(db)
	r.GET("/trips/:id/comments", cc.GetComments)

	req := httptest.NewRequest(http.MethodGet, "/trips/trip-1/comments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var comments []models.TripComment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
}
