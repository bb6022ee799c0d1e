// File: /utils/validators.go
package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// AllowedImageTypes are the only photo formats accepted anywhere in the app.
var AllowedImageTypes = []string{"image/jpeg", "image/png"}

func IsAllowedImageType(contentType string) bool {
	for _, t := range AllowedImageTypes {
		if contentType == t {
			return true
		}
	}
	return false
}

// ParseBudget converts grouped-digit budget text ("120 000") to an integer.
func ParseBudget(value string) (int, error) {
	cleaned := strings.Join(strings.Fields(value), "")
	if cleaned == "" {
		return 0, errors.New("budget is empty")
	}
	budget, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, errors.New("budget must be a number")
	}
	if budget < 0 {
		return 0, errors.New("budget must not be negative")
	}
	return budget, nil
}

// ParseDate accepts the wire date format used by the app (YYYY-MM-DD).
func ParseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
