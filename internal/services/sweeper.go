package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/coah80/docxify/internal/config"
	"github.com/coah80/docxify/internal/util"
)

type SweepReport struct {
	Scanned  int
	Removed  int
	Failures []error
}

// Sweeper removes files older than the retention threshold from the
// staging and output directories. It never fails; problems are collected in
// the report and logged.
type Sweeper struct {
	dirs      []string
	retention time.Duration
	diskMinGB float64
	remove    func(string) error

	// OnLowDisk is called after a sweep when free space is under the floor.
	OnLowDisk func(availGB, minGB float64)
}

func NewSweeper(cfg config.Config) *Sweeper {
	return &Sweeper{
		dirs:      []string{cfg.ConvertedDir, cfg.UploadDir},
		retention: cfg.Retention,
		diskMinGB: cfg.DiskSpaceMinGB,
		remove:    os.Remove,
	}
}

func (s *Sweeper) Sweep(now time.Time) SweepReport {
	var report SweepReport
	cutoff := now.Add(-s.retention)

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			report.Failures = append(report.Failures, fmt.Errorf("read %s: %w", dir, err))
			continue
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			report.Scanned++

			info, err := e.Info()
			if err != nil {
				// Gone since ReadDir, usually another sweep.
				continue
			}
			if !info.ModTime().Before(cutoff) {
				continue
			}

			p := filepath.Join(dir, e.Name())
			if err := s.remove(p); err != nil {
				if !os.IsNotExist(err) {
					report.Failures = append(report.Failures, err)
				}
				continue
			}
			report.Removed++
			log.Printf("[Sweep] Removed old file: %s", e.Name())
		}
	}

	for _, err := range report.Failures {
		log.Printf("[Sweep] %v", err)
	}
	s.logDiskSpace()
	return report
}

func (s *Sweeper) logDiskSpace() {
	if len(s.dirs) == 0 {
		return
	}
	ds, err := util.GetDiskSpace(s.dirs[len(s.dirs)-1])
	if err != nil {
		return
	}
	if ds.Below(s.diskMinGB) {
		log.Printf("[DiskSpace] WARNING: Only %.1fGB free, below %.1fGB threshold!", ds.AvailGB, s.diskMinGB)
		if s.OnLowDisk != nil {
			s.OnLowDisk(ds.AvailGB, s.diskMinGB)
		}
	}
}

// Start sweeps every interval until ctx is done. A zero interval disables
// periodic sweeping.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	log.Printf("[Sweep] Periodic sweep every %s", interval)
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(now)
			}
		}
	}()
}
