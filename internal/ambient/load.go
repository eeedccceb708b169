package ambient

import (
	"context"
	"runtime"

	"github.com/atinylittleshell/gprompt/internal/render"
	"go.uber.org/zap"
)

// SystemLoad renders an indicator when the one-minute load average exceeds
// the number of CPUs.
type SystemLoad struct {
	loadAverage func() (float64, error)
	cpus        func() int
	logger      *zap.Logger
}

// NewSystemLoad creates a facet reading the platform load average.
func NewSystemLoad(logger *zap.Logger) *SystemLoad {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemLoad{
		loadAverage: loadAverageOne,
		cpus:        runtime.NumCPU,
		logger:      logger,
	}
}

// Name returns the facet name.
func (s *SystemLoad) Name() string {
	return "system_load"
}

// Segments returns the congestion indicator, or nothing when the machine
// is not overloaded or the load cannot be read.
func (s *SystemLoad) Segments(_ context.Context) []render.Segment {
	load, err := s.loadAverage()
	if err != nil {
		s.logger.Debug("error reading load average", zap.Error(err))
		return nil
	}

	cpus := s.cpus()
	if cpus < 1 {
		cpus = 1
	}

	icon := loadIndicator(load / float64(cpus))
	if icon == "" {
		return nil
	}
	return []render.Segment{{Icon: icon}}
}

func loadIndicator(factor float64) string {
	switch {
	case factor > 4.0:
		return "😰"
	case factor > 3.0:
		return "😥"
	case factor > 2.0:
		return "😓"
	case factor > 1.0:
		return "😅"
	default:
		return ""
	}
}
