//go:build unix

package misc

import (
	"runtime"
	"time"

	"golang.org/x/sys/unix"
)

func cpuTime() (time.Duration, *unix.Rusage, error) {
	var usage unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &usage); err != nil {
		return 0, nil, err
	}
	return time.Duration(usage.Utime.Nano() + usage.Stime.Nano()), &usage, nil
}

// measureUsage samples the CPU time spent by the process over window.
func measureUsage(window time.Duration) (processUsage, error) {
	before, _, err := cpuTime()
	if err != nil {
		return processUsage{}, err
	}

	time.Sleep(window)

	after, usage, err := cpuTime()
	if err != nil {
		return processUsage{}, err
	}

	// ru_maxrss is in bytes on darwin, in kilobytes elsewhere.
	maxRSS := int64(usage.Maxrss)
	if runtime.GOOS != "darwin" {
		maxRSS *= 1024
	}

	return processUsage{
		cpuPercent:  float64(after-before) / float64(window) * 100,
		maxRSSBytes: maxRSS,
	}, nil
}
