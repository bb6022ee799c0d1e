// File: /services/wizard_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"injoy-api/models"
	"injoy-api/utils"
)

// TripStore is the slice of the data gateway the staged commit needs.
type TripStore interface {
	CreateTrip(ctx context.Context, trip *models.Trip) error
	CreatePoint(ctx context.Context, point *models.Point) error
	CreatePointImage(ctx context.Context, image *models.PointImage) error
}

// Uploader hands binaries to the object-storage collaborator and returns
// durable public URLs.
type Uploader interface {
	MainPhotoKey(fileName string) string
	PointPhotoKey(tripID, pointID, fileName string) string
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// WizardService owns every in-flight draft session, one per user, and runs
// the staged commit when a draft is saved.
type WizardService struct {
	mu       sync.Mutex
	sessions map[string]*DraftSession

	store    TripStore
	uploader Uploader
	log      *logrus.Logger
}

func NewWizardService(store TripStore, uploader Uploader, log *logrus.Logger) *WizardService {
	return &WizardService{
		sessions: make(map[string]*DraftSession),
		store:    store,
		uploader: uploader,
		log:      log,
	}
}

// Session returns the user's current draft session, creating a fresh one
// (trip step, single empty point) when none exists.
func (ws *WizardService) Session(userID string) *DraftSession {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	session, ok := ws.sessions[userID]
	if !ok {
		session = NewDraftSession()
		ws.sessions[userID] = session
	}
	return session
}

// Reset discards the user's draft and starts over.
func (ws *WizardService) Reset(userID string) *DraftSession {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	session := NewDraftSession()
	ws.sessions[userID] = session
	return session
}

func (ws *WizardService) drop(userID string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	delete(ws.sessions, userID)
}

// EvictIdleSessions discards sessions untouched for longer than maxIdle and
// reports how many were dropped. Drafts are in-memory only, so an abandoned
// wizard eventually releases its staged photo binaries.
func (ws *WizardService) EvictIdleSessions(maxIdle time.Duration) int {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	evicted := 0
	cutoff := time.Now().Add(-maxIdle)
	for userID, session := range ws.sessions {
		if session.lastTouched().Before(cutoff) {
			delete(ws.sessions, userID)
			evicted++
		}
	}
	return evicted
}

// validatePoints checks every point before any network call is made and
// reports a single aggregate error.
func validatePoints(points []PointDraft) error {
	for _, p := range points {
		if p.Name == "" || p.Latitude == nil || p.Longitude == nil || p.HowToGet == "" || p.Impressions == "" {
			return errors.New("please fill in all fields for every point of the trip")
		}
	}
	return nil
}

// Save runs the staged commit for the user's draft. The sequence is
// strictly ordered and never parallelized: main photo upload, trip insert,
// then per point in array order a point insert followed by that point's
// photo uploads and image inserts. The first failure aborts the remainder;
// rows already inserted stay (best-effort semantics). A save started while
// another is in flight returns ErrSaveInProgress without touching anything.
func (ws *WizardService) Save(ctx context.Context, userID string) (string, error) {
	session := ws.Session(userID)

	if err := session.beginSave(); err != nil {
		return "", err
	}
	defer session.endSave()

	if !session.isComplete() {
		return "", errors.New("trip details are not complete")
	}

	trip, points := session.commitSnapshot()
	if err := validatePoints(points); err != nil {
		return "", err
	}

	budget, err := utils.ParseBudget(trip.Budget)
	if err != nil {
		return "", err
	}
	startDate, err := utils.ParseDate(trip.StartDate)
	if err != nil {
		return "", err
	}
	endDate, err := utils.ParseDate(trip.EndDate)
	if err != nil {
		return "", err
	}

	logger := ws.log.WithFields(logrus.Fields{"user_id": userID, "points": len(points)})

	// Stage 1: main photo
	var mainPhotoURL *string
	if trip.MainPhoto != nil {
		key := ws.uploader.MainPhotoKey(trip.MainPhoto.Name)
		url, err := ws.uploader.Upload(ctx, key, trip.MainPhoto.ContentType, trip.MainPhoto.Data)
		if err != nil {
			logger.WithError(err).Error("main photo upload failed")
			return "", fmt.Errorf("failed to upload main photo: %w", err)
		}
		mainPhotoURL = &url
	}

	// Stage 2: trip row
	record := models.Trip{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     trip.Title,
		Country:   optional(trip.Country),
		Location:  optional(trip.Location),
		Lat:       trip.Lat,
		Lng:       trip.Lng,
		Budget:    budget,
		StartDate: startDate,
		EndDate:   endDate,
		PhotoURL:  mainPhotoURL,
		IsDraft:   false,
		IsPublic:  trip.IsPublic,
	}
	if err := ws.store.CreateTrip(ctx, &record); err != nil {
		logger.WithError(err).Error("trip insert failed")
		return "", fmt.Errorf("failed to create trip: %w", err)
	}

	// Stage 3: points in array order, each followed by its photos
	for i := range points {
		point := models.Point{
			ID:          uuid.New().String(),
			TripID:      record.ID,
			Name:        points[i].Name,
			Latitude:    points[i].Latitude,
			Longitude:   points[i].Longitude,
			HowToGet:    points[i].HowToGet,
			Impressions: points[i].Impressions,
			Order:       i,
		}
		if err := ws.store.CreatePoint(ctx, &point); err != nil {
			logger.WithError(err).WithField("order", i).Error("point insert failed")
			return "", fmt.Errorf("failed to create point: %w", err)
		}

		for j, photo := range points[i].Photos {
			if !utils.IsAllowedImageType(photo.ContentType) {
				return "", fmt.Errorf("unsupported file type for photo %d: use JPEG or PNG", j+1)
			}

			key := ws.uploader.PointPhotoKey(record.ID, point.ID, photo.Name)
			url, err := ws.uploader.Upload(ctx, key, photo.ContentType, photo.Data)
			if err != nil {
				logger.WithError(err).WithField("order", i).Error("point photo upload failed")
				return "", fmt.Errorf("failed to upload photo %d: %w", j+1, err)
			}

			image := models.PointImage{
				ID:       uuid.New().String(),
				PointID:  point.ID,
				ImageURL: url,
				Order:    j,
			}
			if err := ws.store.CreatePointImage(ctx, &image); err != nil {
				logger.WithError(err).WithField("order", i).Error("point image insert failed")
				return "", fmt.Errorf("failed to save image record: %w", err)
			}
		}
	}

	// The draft does not survive its own submission.
	ws.drop(userID)

	logger.WithField("trip_id", record.ID).Info("trip saved")
	return record.ID, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
