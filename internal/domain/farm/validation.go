package farm

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yanqian/farmsight/pkg/util"
)

const (
	defaultStartDate = "2020-01-01"
	minStartYear     = 2000
	maxEndYear       = 2200
	maxNameLength    = 80
)

type validated struct {
	name   string
	bounds Bounds
	start  time.Time
	end    time.Time
}

func validateCreate(req CreateRequest, now time.Time) (validated, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return validated{}, errors.New("farm name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return validated{}, fmt.Errorf("farm name cannot exceed %d characters", maxNameLength)
	}

	bounds := Bounds{MinLat: req.MinLat, MaxLat: req.MaxLat, MinLng: req.MinLng, MaxLng: req.MaxLng}
	if err := validateBounds(bounds); err != nil {
		return validated{}, err
	}

	startRaw := strings.TrimSpace(req.StartDate)
	if startRaw == "" {
		startRaw = defaultStartDate
	}
	start, err := util.ParseDate(startRaw)
	if err != nil {
		return validated{}, errors.New("startDate must be formatted as YYYY-MM-DD")
	}
	end := util.TruncateDay(now)
	if endRaw := strings.TrimSpace(req.EndDate); endRaw != "" {
		end, err = util.ParseDate(endRaw)
		if err != nil {
			return validated{}, errors.New("endDate must be formatted as YYYY-MM-DD")
		}
	}
	if start.Year() < minStartYear {
		return validated{}, fmt.Errorf("start date must be from %d onward", minStartYear)
	}
	if end.Year() > maxEndYear {
		return validated{}, fmt.Errorf("end date must be no later than %d", maxEndYear)
	}
	if start.After(end) {
		return validated{}, errors.New("start date must not be after end date")
	}

	return validated{name: name, bounds: bounds, start: start, end: end}, nil
}

func validateBounds(b Bounds) error {
	for _, v := range []float64{b.MinLat, b.MaxLat, b.MinLng, b.MaxLng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("coordinates must be finite numbers")
		}
	}
	if b.MinLat >= b.MaxLat || b.MinLng >= b.MaxLng {
		return errors.New("min coordinates must be less than max coordinates")
	}
	if b.MinLat < -90 || b.MaxLat > 90 {
		return errors.New("latitude must be within -90 and 90")
	}
	if b.MinLng < -180 || b.MaxLng > 180 {
		return errors.New("longitude must be within -180 and 180")
	}
	return nil
}
