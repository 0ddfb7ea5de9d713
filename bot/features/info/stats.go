package info

import (
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	log "github.com/sirupsen/logrus"
)

// Stats holds process facts shown by /info and /uptime
type Stats struct {
	StartedAt    time.Time
	Version      string
	CommandCount func() int
}

// Uptime returns the time since the bot started
func (st *Stats) Uptime(now time.Time) time.Duration {
	return now.Sub(st.StartedAt)
}

// HostStats is a snapshot of the machine the bot runs on
type HostStats struct {
	Platform      string
	CPUCount      int
	CPUPercent    float64
	MemoryPercent float64
	MemoryUsedMB  uint64
	MemoryTotalMB uint64
	Goroutines    int
}

// collectHostStats reads host metrics. Fields that fail to load stay zero.
func collectHostStats() HostStats {
	stats := HostStats{Goroutines: runtime.NumGoroutine()}

	if count, err := cpu.Counts(true); err == nil {
		stats.CPUCount = count
	} else {
		log.WithError(err).Debug("Failed to read CPU count")
	}
	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		stats.CPUPercent = percent[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsedMB = vm.Used / 1024 / 1024
		stats.MemoryTotalMB = vm.Total / 1024 / 1024
	} else {
		log.WithError(err).Debug("Failed to read memory stats")
	}
	if hostInfo, err := host.Info(); err == nil {
		stats.Platform = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
	}

	return stats
}

func (h HostStats) memory() string {
	return fmt.Sprintf("%.1f%% (%d MB / %d MB)", h.MemoryPercent, h.MemoryUsedMB, h.MemoryTotalMB)
}
