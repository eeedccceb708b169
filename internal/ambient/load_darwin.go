package ambient

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// loadavg mirrors struct loadavg from <sys/resource.h>.
type loadavg struct {
	load  [3]uint32
	scale int
}

func loadAverageOne() (float64, error) {
	raw, err := unix.SysctlRaw("vm.loadavg")
	if err != nil {
		return 0, fmt.Errorf("sysctl vm.loadavg: %w", err)
	}
	if len(raw) < int(unsafe.Sizeof(loadavg{})) {
		return 0, fmt.Errorf("sysctl vm.loadavg: short read of %d bytes", len(raw))
	}

	avg := *(*loadavg)(unsafe.Pointer(&raw[0]))
	if avg.scale == 0 {
		return 0, fmt.Errorf("sysctl vm.loadavg: zero scale")
	}
	return float64(avg.load[0]) / float64(avg.scale), nil
}
