package ambient

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// loadShift is SI_LOAD_SHIFT from <linux/kernel.h>.
const loadShift = 16

func loadAverageOne() (float64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}
	return float64(info.Loads[0]) / float64(1<<loadShift), nil
}
