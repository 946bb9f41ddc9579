package misc

type processUsage struct {
	cpuPercent  float64
	maxRSSBytes int64
}
