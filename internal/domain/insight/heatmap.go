package insight

import (
	"math"

	"github.com/yanqian/farmsight/internal/domain/catalog"
	"github.com/yanqian/farmsight/internal/domain/farm"
	"github.com/yanqian/farmsight/internal/domain/timeseries"
)

// GeoJSON shapes used by the heatmap payload.
type (
	Geometry struct {
		Type        string `json:"type"`
		Coordinates any    `json:"coordinates"`
	}

	Feature struct {
		Type       string         `json:"type"`
		Geometry   Geometry       `json:"geometry"`
		Properties map[string]any `json:"properties"`
	}

	FeatureCollection struct {
		Type     string    `json:"type"`
		Features []Feature `json:"features"`
	}
)

// Heatmap is a jittered intensity grid for one spectral index.
type Heatmap struct {
	Index       string            `json:"index"`
	Status      string            `json:"status"`
	Description string            `json:"description"`
	ColorScale  string            `json:"colorScale"`
	Center      [2]float64        `json:"center"`
	Boundary    Feature           `json:"boundary"`
	Points      FeatureCollection `json:"points"`
}

var colorScales = map[string]string{
	"NDVI":    "ndvi",
	"NDWI":    "water",
	"SAVI":    "default",
	"WBI":     "water",
	"RE-NDVI": "ndvi",
}

// intensityAt returns the raw pattern value for grid cell (i, j); noise is in [0,1).
func intensityAt(index string, i, j int, noise float64) float64 {
	fi, fj := float64(i), float64(j)
	switch index {
	case "NDVI":
		return 0.3 + 0.4*math.Sin(fi*0.3)*math.Cos(fj*0.3) + 0.1*noise
	case "NDWI":
		return 0.2 + 0.3*math.Cos(fi*0.2) + 0.1*noise
	case "SAVI":
		return 0.4 + 0.3*math.Sin(fj*0.4) + 0.1*noise
	case "WBI":
		return 0.5 + 0.4*math.Sin((fi+fj)*0.2) + 0.1*noise
	default:
		return 0.3 + 0.4*noise
	}
}

func buildHeatmap(f farm.Farm, m catalog.Metric, grid int, source timeseries.Source) Heatmap {
	b := f.Bounds
	latStep := (b.MaxLat - b.MinLat) / float64(grid)
	lngStep := (b.MaxLng - b.MinLng) / float64(grid)

	features := make([]Feature, 0, grid*grid)
	for i := 0; i < grid; i++ {
		for j := 0; j < grid; j++ {
			lat := b.MinLat + float64(i)*latStep + source.Float64()*latStep
			lng := b.MinLng + float64(j)*lngStep + source.Float64()*lngStep
			intensity := math.Max(0, math.Min(1, intensityAt(m.Name, i, j, source.Float64())))
			features = append(features, Feature{
				Type:       "Feature",
				Geometry:   Geometry{Type: "Point", Coordinates: []float64{lng, lat}},
				Properties: map[string]any{"intensity": intensity},
			})
		}
	}

	lat, lng := b.Center()
	scale, ok := colorScales[m.Name]
	if !ok {
		scale = "default"
	}
	return Heatmap{
		Index:       m.Name,
		Status:      m.Status,
		Description: m.Description,
		ColorScale:  scale,
		Center:      [2]float64{lng, lat},
		Boundary:    boundaryFeature(b),
		Points:      FeatureCollection{Type: "FeatureCollection", Features: features},
	}
}

func boundaryFeature(b farm.Bounds) Feature {
	ring := [][]float64{
		{b.MinLng, b.MinLat},
		{b.MaxLng, b.MinLat},
		{b.MaxLng, b.MaxLat},
		{b.MinLng, b.MaxLat},
		{b.MinLng, b.MinLat},
	}
	return Feature{
		Type:       "Feature",
		Geometry:   Geometry{Type: "Polygon", Coordinates: [][][]float64{ring}},
		Properties: map[string]any{},
	}
}
