//go:build !unix

package misc

import (
	"errors"
	"time"
)

func measureUsage(time.Duration) (processUsage, error) {
	return processUsage{}, errors.New("process usage is only available on unix")
}
