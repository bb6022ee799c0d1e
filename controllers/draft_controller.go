// File: /controllers/draft_controller.go
package controllers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"injoy-api/services"
)

type DraftController struct {
	wizard       *services.WizardService
	maxPhotoSize int64
}

func NewDraftController(wizard *services.WizardService, maxPhotoSize int64) *DraftController {
	return &DraftController{
		wizard:       wizard,
		maxPhotoSize: maxPhotoSize,
	}
}

// GetDraft returns the caller's current wizard state, creating a fresh
// draft when none exists.
func (dc *DraftController) GetDraft(c *gin.Context) {
	userID := c.GetString("user_id")
	c.JSON(http.StatusOK, dc.wizard.Session(userID).View())
}

// ResetDraft discards the current draft and starts over.
func (dc *DraftController) ResetDraft(c *gin.Context) {
	userID := c.GetString("user_id")
	c.JSON(http.StatusOK, dc.wizard.Reset(userID).View())
}

// SubmitTripForm validates the trip-level form and advances to the first
// point. On validation failure the draft is unchanged.
func (dc *DraftController) SubmitTripForm(c *gin.Context) {
	userID := c.GetString("user_id")

	var req services.TripFormInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := dc.wizard.Session(userID)
	if err := session.SubmitTripForm(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.View())
}

// AttachMainPhoto stages the trip's main photo from a multipart form.
func (dc *DraftController) AttachMainPhoto(c *gin.Context) {
	userID := c.GetString("user_id")

	photo, ok := dc.readPhoto(c)
	if !ok {
		return
	}

	session := dc.wizard.Session(userID)
	if err := session.AttachMainPhoto(photo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.View())
}

func (dc *DraftController) RemoveMainPhoto(c *gin.Context) {
	userID := c.GetString("user_id")
	session := dc.wizard.Session(userID)
	session.RemoveMainPhoto()
	c.JSON(http.StatusOK, session.View())
}

// AddPoint appends a new empty point and focuses it.
func (dc *DraftController) AddPoint(c *gin.Context) {
	userID := c.GetString("user_id")
	session := dc.wizard.Session(userID)
	session.AddPoint()
	c.JSON(http.StatusOK, session.View())
}

// SelectPoint switches the wizard focus to the given point index.
func (dc *DraftController) SelectPoint(c *gin.Context) {
	userID := c.GetString("user_id")
	index, ok := dc.pointIndex(c)
	if !ok {
		return
	}

	session := dc.wizard.Session(userID)
	if err := session.SelectPoint(index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.View())
}

// Back navigates to the previous point, or the trip form from point 0.
func (dc *DraftController) Back(c *gin.Context) {
	userID := c.GetString("user_id")
	session := dc.wizard.Session(userID)
	session.Back()
	c.JSON(http.StatusOK, session.View())
}

// UpdatePoint writes the point-level form fields.
func (dc *DraftController) UpdatePoint(c *gin.Context) {
	userID := c.GetString("user_id")
	index, ok := dc.pointIndex(c)
	if !ok {
		return
	}

	var req services.PointInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := dc.wizard.Session(userID)
	if err := session.UpdatePoint(index, req); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.View())
}

// RemovePoint drops a point; the last remaining point cannot be removed.
func (dc *DraftController) RemovePoint(c *gin.Context) {
	userID := c.GetString("user_id")
	index, ok := dc.pointIndex(c)
	if !ok {
		return
	}

	session := dc.wizard.Session(userID)
	if err := session.RemovePoint(index); err != nil {
		status := http.StatusBadRequest
		if err == services.ErrPointNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.View())
}

// AttachPointPhoto stages a photo on a point. Unsupported types are
// rejected here, before any upload ever happens.
func (dc *DraftController) AttachPointPhoto(c *gin.Context) {
	userID := c.GetString("user_id")
	index, ok := dc.pointIndex(c)
	if !ok {
		return
	}

	photo, ok := dc.readPhoto(c)
	if !ok {
		return
	}

	session := dc.wizard.Session(userID)
	if err := session.AttachPointPhoto(index, photo); err != nil {
		status := http.StatusBadRequest
		if err == services.ErrPointNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.View())
}

func (dc *DraftController) RemovePointPhoto(c *gin.Context) {
	userID := c.GetString("user_id")
	index, ok := dc.pointIndex(c)
	if !ok {
		return
	}
	photoIndex, err := strconv.Atoi(c.Param("photoIndex"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo index"})
		return
	}

	session := dc.wizard.Session(userID)
	if err := session.RemovePointPhoto(index, photoIndex); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.View())
}

// Lat/Lng are pointers so a 0 coordinate (equator, prime meridian) still
// passes the required check.
type StageLocationRequest struct {
	Lat  *float64 `json:"lat" binding:"required"`
	Lng  *float64 `json:"lng" binding:"required"`
	Zoom int      `json:"zoom"`
}

// StageLocation holds a candidate coordinate picked on the map overlay.
func (dc *DraftController) StageLocation(c *gin.Context) {
	userID := c.GetString("user_id")

	var req StageLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := dc.wizard.Session(userID)
	if err := session.StageLocation(*req.Lat, *req.Lng, req.Zoom); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.View())
}

// ConfirmLocation writes the staged coordinate into the focused point.
func (dc *DraftController) ConfirmLocation(c *gin.Context) {
	userID := c.GetString("user_id")

	session := dc.wizard.Session(userID)
	if err := session.ConfirmLocation(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.View())
}

func (dc *DraftController) CancelLocation(c *gin.Context) {
	userID := c.GetString("user_id")
	session := dc.wizard.Session(userID)
	session.CancelLocation()
	c.JSON(http.StatusOK, session.View())
}

// GetMarkers lists the draft's points with coordinates for the overlay,
// along with the resolved initial camera position.
func (dc *DraftController) GetMarkers(c *gin.Context) {
	userID := c.GetString("user_id")
	session := dc.wizard.Session(userID)
	c.JSON(http.StatusOK, gin.H{
		"markers":  session.Markers(),
		"viewport": session.Viewport(),
	})
}

// SaveDraft runs the staged commit and returns the new trip id. A save
// issued while another is in flight is refused without side effects.
func (dc *DraftController) SaveDraft(c *gin.Context) {
	userID := c.GetString("user_id")

	// a begun commit runs to first failure or completion even if the
	// client disconnects mid-save
	tripID, err := dc.wizard.Save(context.WithoutCancel(c.Request.Context()), userID)
	if err != nil {
		if err == services.ErrSaveInProgress {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"trip_id":  tripID,
		"redirect": "/trips/" + tripID,
	})
}

func (dc *DraftController) pointIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid point index"})
		return 0, false
	}
	return index, true
}

// readPhoto pulls the "photo" file out of a multipart form, enforcing the
// per-file size cap.
func (dc *DraftController) readPhoto(c *gin.Context) (services.PhotoFile, bool) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No photo file provided"})
		return services.PhotoFile{}, false
	}
	if fileHeader.Size > dc.maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo is too large"})
		return services.PhotoFile{}, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read photo"})
		return services.PhotoFile{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, dc.maxPhotoSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read photo"})
		return services.PhotoFile{}, false
	}

	return services.PhotoFile{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, true
}
