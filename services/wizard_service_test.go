package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injoy-api/models"
)

type fakeStore struct {
	mu     sync.Mutex
	trips  []models.Trip
	points []models.Point
	images []models.PointImage

	failTrip       bool
	failPointAfter int // fail the insert at this point order; -1 disables
}

func newFakeStore() *fakeStore {
	return &fakeStore{failPointAfter: -1}
}

func (f *fakeStore) CreateTrip(_ context.Context, trip *models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTrip {
		return errors.New("insert failed")
	}
	f.trips = append(f.trips, *trip)
	return nil
}

func (f *fakeStore) CreatePoint(_ context.Context, point *models.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPointAfter >= 0 && point.Order == f.failPointAfter {
		return errors.New("insert failed")
	}
	f.points = append(f.points, *point)
	return nil
}

func (f *fakeStore) CreatePointImage(_ context.Context, image *models.PointImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images = append(f.images, *image)
	return nil
}

type fakeUploader struct {
	mu      sync.Mutex
	keys    []string
	failOn  string // substring of key that triggers a failure
	started chan struct{}
	release chan struct{}
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{}
}

func (f *fakeUploader) MainPhotoKey(fileName string) string {
	return "miniINJOY/main-photos/" + fileName
}

func (f *fakeUploader) PointPhotoKey(tripID, pointID, fileName string) string {
	return fmt.Sprintf("miniINJOY/%s/%s/%s", tripID, pointID, fileName)
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && contains(key, f.failOn) {
		return "", errors.New("upload failed")
	}
	f.keys = append(f.keys, key)
	return "https://storage.example.com/" + key, nil
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestWizard(store *fakeStore, uploader *fakeUploader) *WizardService {
	return NewWizardService(store, uploader, testLogger())
}

// completeDraft fills a user's session with a saveable trip and one valid
// point carrying one JPEG photo.
func completeDraft(t *testing.T, ws *WizardService, userID string) {
	t.Helper()
	s := ws.Session(userID)
	require.NoError(t, s.AttachMainPhoto(jpegPhoto("main.jpg")))
	require.NoError(t, s.SubmitTripForm(validTripForm()))
	require.NoError(t, s.UpdatePoint(0, PointInput{
		Name:        "Lake Shore",
		HowToGet:    "By boat from the pier",
		Impressions: "Quiet and clear water",
	}))
	require.NoError(t, s.StageLocation(51.76, 87.25, 13))
	require.NoError(t, s.ConfirmLocation())
	require.NoError(t, s.AttachPointPhoto(0, jpegPhoto("shore.jpg")))
}

func TestSavePersistsTripPointAndImageInOrder(t *testing.T) {
	store := newFakeStore()
	ws := newTestWizard(store, newFakeUploader())
	completeDraft(t, ws, "user-1")

	tripID, err := ws.Save(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, tripID)

	require.Len(t, store.trips, 1)
	trip := store.trips[0]
	assert.Equal(t, tripID, trip.ID)
	assert.Equal(t, "user-1", trip.UserID)
	assert.Equal(t, "Altai 7 days", trip.Title)
	assert.Equal(t, 120000, trip.Budget)
	assert.False(t, trip.IsDraft)
	require.NotNil(t, trip.PhotoURL)

	require.Len(t, store.points, 1)
	point := store.points[0]
	assert.Equal(t, trip.ID, point.TripID)
	assert.Equal(t, "Lake Shore", point.Name)
	assert.Equal(t, 0, point.Order)

	require.Len(t, store.images, 1)
	image := store.images[0]
	assert.Equal(t, point.ID, image.PointID)
	assert.Equal(t, 0, image.Order)
	assert.Equal(t, "https://storage.example.com/miniINJOY/"+trip.ID+"/"+point.ID+"/shore.jpg", image.ImageURL)

	// the submitted draft does not survive: the next session is fresh
	assert.Equal(t, StepTrip, ws.Session("user-1").View().Step)
}

func TestSaveAssignsOrderFromArrayPosition(t *testing.T) {
	store := newFakeStore()
	ws := newTestWizard(store, newFakeUploader())
	completeDraft(t, ws, "user-1")

	s := ws.Session("user-1")
	s.AddPoint()
	require.NoError(t, s.UpdatePoint(1, PointInput{Name: "Pass", HowToGet: "Hike", Impressions: "Windy"}))
	require.NoError(t, s.StageLocation(50.05, 88.65, 11))
	require.NoError(t, s.ConfirmLocation())

	_, err := ws.Save(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, store.points, 2)
	assert.Equal(t, 0, store.points[0].Order)
	assert.Equal(t, "Lake Shore", store.points[0].Name)
	assert.Equal(t, 1, store.points[1].Order)
	assert.Equal(t, "Pass", store.points[1].Name)
}

func TestSaveAfterRemovingFirstPointRenumbersFromZero(t *testing.T) {
	store := newFakeStore()
	ws := newTestWizard(store, newFakeUploader())
	completeDraft(t, ws, "user-1")

	s := ws.Session("user-1")
	s.AddPoint()
	require.NoError(t, s.UpdatePoint(1, PointInput{Name: "Pass", HowToGet: "Hike", Impressions: "Windy"}))
	require.NoError(t, s.StageLocation(50.05, 88.65, 11))
	require.NoError(t, s.ConfirmLocation())
	require.NoError(t, s.RemovePoint(0))

	_, err := ws.Save(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, store.points, 1)
	assert.Equal(t, "Pass", store.points[0].Name)
	assert.Equal(t, 0, store.points[0].Order)
}

func TestSaveValidatesPointsBeforeAnyNetworkCall(t *testing.T) {
	store := newFakeStore()
	uploader := newFakeUploader()
	ws := newTestWizard(store, uploader)

	s := ws.Session("user-1")
	require.NoError(t, s.AttachMainPhoto(jpegPhoto("main.jpg")))
	require.NoError(t, s.SubmitTripForm(validTripForm()))
	// point left incomplete: no coordinates

	_, err := ws.Save(context.Background(), "user-1")
	require.Error(t, err)

	assert.Empty(t, uploader.keys)
	assert.Empty(t, store.trips)
}

func TestSaveRequiresCompletedTripForm(t *testing.T) {
	store := newFakeStore()
	ws := newTestWizard(store, newFakeUploader())
	ws.Session("user-1")

	_, err := ws.Save(context.Background(), "user-1")
	require.Error(t, err)
	assert.Empty(t, store.trips)
}

func TestSaveMainPhotoUploadFailureCreatesNothing(t *testing.T) {
	store := newFakeStore()
	uploader := newFakeUploader()
	uploader.failOn = "main-photos"
	ws := newTestWizard(store, uploader)
	completeDraft(t, ws, "user-1")

	_, err := ws.Save(context.Background(), "user-1")
	require.Error(t, err)

	assert.Empty(t, store.trips)
	assert.Empty(t, store.points)
}

func TestSaveTripInsertFailureCreatesNoPoints(t *testing.T) {
	store := newFakeStore()
	store.failTrip = true
	ws := newTestWizard(store, newFakeUploader())
	completeDraft(t, ws, "user-1")

	_, err := ws.Save(context.Background(), "user-1")
	require.Error(t, err)
	assert.Empty(t, store.points)
}

func TestSavePointInsertFailureKeepsEarlierRows(t *testing.T) {
	store := newFakeStore()
	store.failPointAfter = 1
	ws := newTestWizard(store, newFakeUploader())
	completeDraft(t, ws, "user-1")

	s := ws.Session("user-1")
	s.AddPoint()
	require.NoError(t, s.UpdatePoint(1, PointInput{Name: "Pass", HowToGet: "Hike", Impressions: "Windy"}))
	require.NoError(t, s.StageLocation(50.05, 88.65, 11))
	require.NoError(t, s.ConfirmLocation())

	_, err := ws.Save(context.Background(), "user-1")
	require.Error(t, err)

	// best-effort semantics: the trip row and the first point stay
	assert.Len(t, store.trips, 1)
	require.Len(t, store.points, 1)
	assert.Equal(t, 0, store.points[0].Order)
}

func TestSaveWhileInFlightIsRefused(t *testing.T) {
	store := newFakeStore()
	uploader := newFakeUploader()
	uploader.started = make(chan struct{}, 8)
	uploader.release = make(chan struct{})
	ws := newTestWizard(store, uploader)
	completeDraft(t, ws, "user-1")

	done := make(chan error, 1)
	go func() {
		_, err := ws.Save(context.Background(), "user-1")
		done <- err
	}()

	<-uploader.started // first save is inside the main photo upload

	_, err := ws.Save(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrSaveInProgress)

	close(uploader.release)
	require.NoError(t, <-done)

	// exactly one trip row despite the double tap
	assert.Len(t, store.trips, 1)
}

func TestEvictIdleSessions(t *testing.T) {
	ws := newTestWizard(newFakeStore(), newFakeUploader())
	ws.Session("user-1")
	ws.Session("user-2")

	assert.Equal(t, 0, ws.EvictIdleSessions(time.Hour))
	assert.Equal(t, 2, ws.EvictIdleSessions(-time.Second))
}
