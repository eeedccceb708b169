//go:build !linux && !darwin

package ambient

import "errors"

var errLoadUnsupported = errors.New("load average is not supported on this platform")

func loadAverageOne() (float64, error) {
	return 0, errLoadUnsupported
}
