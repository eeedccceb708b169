package ambient

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinylittleshell/gprompt/internal/render"
	"github.com/distatus/battery"
	"go.uber.org/zap"
)

// DefaultPowerSupplyDir is where Linux exposes power supply health. On other
// platforms the directory does not exist and every battery counts as healthy.
const DefaultPowerSupplyDir = "/sys/class/power_supply"

const (
	iconBatteryFailure = "💥"
	iconCharging       = "⚡️"
	iconDischarging    = "🔋"
)

// cell is one battery as reported by the platform.
type cell struct {
	state   string  // lower-cased state name: charging, discharging, full, ...
	current float64 // mWh
	full    float64 // mWh
	rate    float64 // mW
}

func (c cell) percentage() (float64, bool) {
	if c.full <= 0 || c.current < 0 {
		return 0, false
	}
	return c.current / c.full * 100, true
}

func (c cell) timeUntilFull() (time.Duration, bool) {
	if c.rate <= 0 || c.full < c.current {
		return 0, false
	}
	return hoursToDuration((c.full - c.current) / c.rate), true
}

func (c cell) timeRemaining() (time.Duration, bool) {
	if c.rate <= 0 || c.current <= 0 {
		return 0, false
	}
	return hoursToDuration(c.current / c.rate), true
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// Battery renders charge and time estimates while charging, or running on,
// a battery that is not full.
type Battery struct {
	cells   func() ([]cell, error)
	healthy func() bool
	logger  *zap.Logger
}

// NewBattery creates a facet reading batteries from the platform. Health is
// read from the power supplies below dir; an empty dir uses
// DefaultPowerSupplyDir.
func NewBattery(dir string, logger *zap.Logger) *Battery {
	if dir == "" {
		dir = DefaultPowerSupplyDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Battery{
		cells:   readCells,
		healthy: func() bool { return powerSuppliesHealthy(dir) },
		logger:  logger,
	}
}

// Name returns the facet name.
func (b *Battery) Name() string {
	return "battery"
}

// Segments returns the battery summary, or nothing when there is no battery,
// the battery is neither charging nor discharging, or every battery is full.
func (b *Battery) Segments(_ context.Context) []render.Segment {
	cells, err := b.cells()
	if err != nil {
		b.logger.Debug("error reading batteries", zap.Error(err))
		return nil
	}
	if len(cells) == 0 {
		return nil
	}

	if !b.healthy() {
		return []render.Segment{{Icon: iconBatteryFailure}}
	}

	charging, discharging := false, false
	for _, c := range cells {
		switch c.state {
		case "charging":
			charging = true
		case "discharging":
			discharging = true
		}
	}

	var icon string
	switch {
	case charging:
		icon = iconCharging
	case discharging:
		icon = iconDischarging
	default:
		return nil
	}

	for _, c := range cells {
		pct, ok := c.percentage()
		if !ok {
			continue
		}
		charge := int(math.Ceil(pct))
		if charge >= 100 {
			continue
		}

		var remaining time.Duration
		if charging {
			remaining, ok = c.timeUntilFull()
		} else {
			remaining, ok = c.timeRemaining()
		}

		return []render.Segment{{
			Icon:  icon,
			Text:  formatBatteryInfo(charge, remaining, ok),
			Style: render.StyleDim,
		}}
	}

	return nil
}

// formatBatteryInfo renders "87%" optionally followed by " 1h 05m 09s".
func formatBatteryInfo(charge int, remaining time.Duration, hasTime bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d%%", charge)

	if hasTime {
		secs := int64(remaining / time.Second)
		hours := secs / 3600
		mins := (secs % 3600) / 60
		secs = secs % 60
		if hours > 0 {
			fmt.Fprintf(&b, " %dh", hours)
		}
		fmt.Fprintf(&b, " %02dm %02ds", mins, secs)
	}

	return b.String()
}

// readCells lists the platform batteries. Batteries that could only be read
// partially are kept with whatever values were available.
func readCells() ([]cell, error) {
	batteries, err := battery.GetAll()
	if err != nil && len(batteries) == 0 {
		return nil, fmt.Errorf("failed to list batteries: %w", err)
	}

	cells := make([]cell, 0, len(batteries))
	for _, bat := range batteries {
		if bat == nil {
			continue
		}
		cells = append(cells, cell{
			state:   strings.ToLower(bat.State.String()),
			current: bat.Current,
			full:    bat.Full,
			// Some drivers report a negative rate while discharging.
			rate: math.Abs(bat.ChargeRate),
		})
	}
	return cells, nil
}

// powerSuppliesHealthy reports false when any battery below dir declares a
// failed health state. A missing directory is healthy.
func powerSuppliesHealthy(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return true
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !strings.EqualFold(readAttr(path, "type"), "battery") {
			continue
		}
		switch strings.ToLower(readAttr(path, "health")) {
		case "", "good", "unknown":
		default:
			return false
		}
	}
	return true
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
