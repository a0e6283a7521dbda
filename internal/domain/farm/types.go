package farm

import (
	"math"
	"time"

	"github.com/yanqian/farmsight/internal/domain/timeseries"
)

const (
	metersPerDegree = 111000.0
	acresPerSqMeter = 0.000247105
)

// Bounds is the farm's latitude/longitude bounding box.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// Center returns the midpoint of the box as (lat, lng).
func (b Bounds) Center() (float64, float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLng + b.MaxLng) / 2
}

// Area approximates the box surface with a flat-earth projection.
func (b Bounds) Area() Area {
	avgLat, _ := b.Center()
	latMeters := (b.MaxLat - b.MinLat) * metersPerDegree
	lngMeters := (b.MaxLng - b.MinLng) * metersPerDegree * math.Cos(avgLat*math.Pi/180)
	sq := math.Abs(latMeters * lngMeters)
	return Area{SquareMeters: sq, Acres: sq * acresPerSqMeter}
}

// Area is the approximate farm surface.
type Area struct {
	SquareMeters float64 `json:"squareMeters"`
	Acres        float64 `json:"acres"`
}

// Farm is a monitored plot owned by one farmer.
type Farm struct {
	ID        string    `json:"id"`
	OwnerID   int64     `json:"ownerId"`
	Name      string    `json:"name"`
	Bounds    Bounds    `json:"bounds"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// Range is the observation window fed to the synthesizer.
func (f Farm) Range() timeseries.DateRange {
	return timeseries.DateRange{Start: f.StartDate, End: f.EndDate}
}

// CreateRequest captures the farm creation payload.
type CreateRequest struct {
	Name      string  `json:"name"`
	MinLat    float64 `json:"minLat"`
	MaxLat    float64 `json:"maxLat"`
	MinLng    float64 `json:"minLng"`
	MaxLng    float64 `json:"maxLng"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
}
