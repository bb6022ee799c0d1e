// File: /services/draft.go
package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"injoy-api/utils"
)

// StepTrip is the wizard step for the trip-level form. Steps >= 0 address
// the point at that index.
const StepTrip = -1

var (
	ErrLastPoint      = errors.New("a trip must contain at least one point")
	ErrPointNotFound  = errors.New("point index out of range")
	ErrSaveInProgress = errors.New("save already in progress")
	ErrNoMapCandidate = errors.New("no staged map selection")
)

// PhotoFile is a staged photo binary held in memory until commit.
type PhotoFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

type TripDraft struct {
	Title     string     `json:"title"`
	Country   string     `json:"country"`
	Location  string     `json:"location"`
	Lat       *float64   `json:"lat"`
	Lng       *float64   `json:"lng"`
	Budget    string     `json:"budget"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	MainPhoto *PhotoFile `json:"main_photo"`
	IsPublic  bool       `json:"is_public"`
}

type PointDraft struct {
	Name        string      `json:"name"`
	Latitude    *float64    `json:"latitude"`
	Longitude   *float64    `json:"longitude"`
	HowToGet    string      `json:"how_to_get"`
	Impressions string      `json:"impressions"`
	Photos      []PhotoFile `json:"photos"`
	Zoom        *int        `json:"zoom"`
}

// MapCandidate is a coordinate staged in the map overlay but not yet
// written into the focused point.
type MapCandidate struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

// Marker is one entry of the map overlay view: every other point as a
// numbered marker plus the focused point when it has coordinates.
type Marker struct {
	Number  int     `json:"number"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Focused bool    `json:"focused"`
}

// DraftSession holds one user's in-progress trip creation. The sequence of
// point drafts never becomes empty, and its array order is the single
// source of truth for the persisted point order.
type DraftSession struct {
	mu           sync.Mutex
	trip         TripDraft
	tripComplete bool
	points       []PointDraft
	step         int
	saving       bool
	mapCandidate *MapCandidate
	touchedAt    time.Time
}

func NewDraftSession() *DraftSession {
	return &DraftSession{
		trip:      TripDraft{IsPublic: true},
		points:    []PointDraft{{}},
		step:      StepTrip,
		touchedAt: time.Now(),
	}
}

type TripFormInput struct {
	Title     string   `json:"title"`
	Country   string   `json:"country"`
	Location  string   `json:"location"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Budget    string   `json:"budget"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	IsPublic  *bool    `json:"is_public"`
}

type PointInput struct {
	Name        string `json:"name"`
	HowToGet    string `json:"how_to_get"`
	Impressions string `json:"impressions"`
}

// SubmitTripForm validates the trip-level form and advances the wizard to
// the first point. On a validation failure the session is left untouched.
func (s *DraftSession) SubmitTripForm(form TripFormInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if form.Title == "" {
		return errors.New("please enter a trip title")
	}
	if s.trip.MainPhoto == nil {
		return errors.New("please add a main photo")
	}
	if form.Country == "" {
		return errors.New("please select a country")
	}
	if form.Location == "" {
		return errors.New("please select a location")
	}
	if _, err := utils.ParseBudget(form.Budget); err != nil {
		return errors.New("please enter a budget")
	}
	start, err := utils.ParseDate(form.StartDate)
	if err != nil {
		return errors.New("please select travel dates")
	}
	end, err := utils.ParseDate(form.EndDate)
	if err != nil {
		return errors.New("please select travel dates")
	}
	if end.Before(start) {
		return errors.New("end date must not be before start date")
	}

	s.trip.Title = form.Title
	s.trip.Country = form.Country
	s.trip.Location = form.Location
	s.trip.Lat = form.Lat
	s.trip.Lng = form.Lng
	s.trip.Budget = form.Budget
	s.trip.StartDate = form.StartDate
	s.trip.EndDate = form.EndDate
	if form.IsPublic != nil {
		s.trip.IsPublic = *form.IsPublic
	}
	s.tripComplete = true
	s.step = 0
	return nil
}

// AttachMainPhoto stages the trip's main photo. Only JPEG and PNG are
// accepted; nothing is uploaded until commit.
func (s *DraftSession) AttachMainPhoto(photo PhotoFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !utils.IsAllowedImageType(photo.ContentType) {
		return errors.New("please choose a JPEG or PNG image")
	}
	s.trip.MainPhoto = &photo
	return nil
}

func (s *DraftSession) RemoveMainPhoto() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.trip.MainPhoto = nil
}

// AddPoint appends a new empty point and focuses it. Always succeeds.
func (s *DraftSession) AddPoint() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.points = append(s.points, PointDraft{})
	s.step = len(s.points) - 1
	return s.step
}

// SelectPoint switches focus to the given index without any validation gate.
func (s *DraftSession) SelectPoint(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if index < 0 || index >= len(s.points) {
		return ErrPointNotFound
	}
	s.step = index
	return nil
}

// Back moves to the previous point, or to the trip form from point 0.
func (s *DraftSession) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.step <= 0 {
		s.step = StepTrip
		return
	}
	s.step--
}

// RemovePoint drops the point at index and renumbers the remainder by
// array reindex. Removing the last remaining point is refused.
func (s *DraftSession) RemovePoint(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if index < 0 || index >= len(s.points) {
		return ErrPointNotFound
	}
	if len(s.points) <= 1 {
		return ErrLastPoint
	}

	s.points = append(s.points[:index], s.points[index+1:]...)
	if s.step >= len(s.points) {
		s.step = len(s.points) - 1
	}
	return nil
}

func (s *DraftSession) UpdatePoint(index int, input PointInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if index < 0 || index >= len(s.points) {
		return ErrPointNotFound
	}
	p := &s.points[index]
	p.Name = input.Name
	p.HowToGet = input.HowToGet
	p.Impressions = input.Impressions
	return nil
}

// AttachPointPhoto stages a photo on the point at index. A rejected file
// leaves previously accepted photos unchanged.
func (s *DraftSession) AttachPointPhoto(index int, photo PhotoFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if index < 0 || index >= len(s.points) {
		return ErrPointNotFound
	}
	if !utils.IsAllowedImageType(photo.ContentType) {
		return fmt.Errorf("unsupported file type %q: use JPEG or PNG", photo.ContentType)
	}
	s.points[index].Photos = append(s.points[index].Photos, photo)
	return nil
}

func (s *DraftSession) RemovePointPhoto(index, photoIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if index < 0 || index >= len(s.points) {
		return ErrPointNotFound
	}
	photos := s.points[index].Photos
	if photoIndex < 0 || photoIndex >= len(photos) {
		return errors.New("photo index out of range")
	}
	s.points[index].Photos = append(photos[:photoIndex], photos[photoIndex+1:]...)
	return nil
}

// StageLocation holds a candidate coordinate pair from the map overlay.
// Nothing is written into the point until ConfirmLocation.
func (s *DraftSession) StageLocation(lat, lng float64, zoom int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !utils.IsValidLatitude(lat) || !utils.IsValidLongitude(lng) {
		return errors.New("invalid coordinates")
	}
	s.mapCandidate = &MapCandidate{Lat: lat, Lng: lng, Zoom: zoom}
	return nil
}

// ConfirmLocation writes the staged coordinate into the focused point and
// closes the overlay state.
func (s *DraftSession) ConfirmLocation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.mapCandidate == nil {
		return ErrNoMapCandidate
	}
	if s.step < 0 || s.step >= len(s.points) {
		return ErrPointNotFound
	}
	p := &s.points[s.step]
	lat, lng, zoom := s.mapCandidate.Lat, s.mapCandidate.Lng, s.mapCandidate.Zoom
	p.Latitude = &lat
	p.Longitude = &lng
	p.Zoom = &zoom
	s.mapCandidate = nil
	return nil
}

func (s *DraftSession) CancelLocation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.mapCandidate = nil
}

// Markers lists all points with coordinates for the map overlay, numbered
// by position, flagging the focused one.
func (s *DraftSession) Markers() []Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	markers := []Marker{}
	for i, p := range s.points {
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		markers = append(markers, Marker{
			Number:  i + 1,
			Lat:     *p.Latitude,
			Lng:     *p.Longitude,
			Focused: i == s.step,
		})
	}
	return markers
}

// Viewport is the map overlay's initial camera position.
type Viewport struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

const (
	pointZoom   = 13
	tripZoom    = 10
	countryZoom = 5
)

var defaultViewport = Viewport{Lat: 55.751244, Lng: 37.618423, Zoom: 3}

// countryCenters seeds the overlay camera when only the trip's country is
// known.
var countryCenters = map[string]Viewport{
	"Russia":     {Lat: 61.524, Lng: 105.3188, Zoom: countryZoom},
	"Kazakhstan": {Lat: 48.0196, Lng: 66.9237, Zoom: countryZoom},
	"Georgia":    {Lat: 42.3154, Lng: 43.3569, Zoom: countryZoom},
	"Armenia":    {Lat: 40.0691, Lng: 45.0382, Zoom: countryZoom},
	"Turkey":     {Lat: 38.9637, Lng: 35.2433, Zoom: countryZoom},
	"Italy":      {Lat: 41.8719, Lng: 12.5674, Zoom: countryZoom},
	"France":     {Lat: 46.2276, Lng: 2.2137, Zoom: countryZoom},
	"Spain":      {Lat: 40.4637, Lng: -3.7492, Zoom: countryZoom},
	"Thailand":   {Lat: 15.87, Lng: 100.9925, Zoom: countryZoom},
	"Japan":      {Lat: 36.2048, Lng: 138.2529, Zoom: countryZoom},
}

// Viewport resolves the overlay's starting camera: the focused point's
// coordinate, else the nearest previous point with one, else the trip
// location, else the country center, else the default.
func (s *DraftSession) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step >= 0 && s.step < len(s.points) {
		if v, ok := pointViewport(s.points[s.step]); ok {
			return v
		}
		for i := s.step - 1; i >= 0; i-- {
			if v, ok := pointViewport(s.points[i]); ok {
				return v
			}
		}
	}
	if s.trip.Lat != nil && s.trip.Lng != nil {
		return Viewport{Lat: *s.trip.Lat, Lng: *s.trip.Lng, Zoom: tripZoom}
	}
	if v, ok := countryCenters[s.trip.Country]; ok {
		return v
	}
	return defaultViewport
}

func pointViewport(p PointDraft) (Viewport, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return Viewport{}, false
	}
	zoom := pointZoom
	if p.Zoom != nil {
		zoom = *p.Zoom
	}
	return Viewport{Lat: *p.Latitude, Lng: *p.Longitude, Zoom: zoom}, true
}

// DraftView is the JSON projection of a session returned to the client.
type DraftView struct {
	Step         int           `json:"step"`
	Trip         TripDraft     `json:"trip"`
	TripComplete bool          `json:"trip_complete"`
	Points       []PointDraft  `json:"points"`
	Saving       bool          `json:"saving"`
	MapCandidate *MapCandidate `json:"map_candidate,omitempty"`
}

func (s *DraftSession) View() DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := make([]PointDraft, len(s.points))
	copy(points, s.points)
	return DraftView{
		Step:         s.step,
		Trip:         s.trip,
		TripComplete: s.tripComplete,
		Points:       points,
		Saving:       s.saving,
		MapCandidate: s.mapCandidate,
	}
}

// beginSave flips the in-flight flag, refusing re-entrant saves.
func (s *DraftSession) beginSave() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saving {
		return ErrSaveInProgress
	}
	s.saving = true
	return nil
}

func (s *DraftSession) endSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
}

// commitSnapshot captures the draft for the staged commit. The point slice
// is copied so the commit serializes the order observed at submit time.
func (s *DraftSession) commitSnapshot() (TripDraft, []PointDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := make([]PointDraft, len(s.points))
	copy(points, s.points)
	return s.trip, points
}

func (s *DraftSession) isComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tripComplete
}

func (s *DraftSession) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

func (s *DraftSession) touch() {
	s.touchedAt = time.Now()
}
