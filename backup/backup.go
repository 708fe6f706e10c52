// Package backup writes a daily xlsx snapshot of the catalog and prunes old ones.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/spreadsheet"
)

const (
	filePrefix = "products_"
	fileLayout = "2006-01-02_15-04-05"
)

// Source is the catalog being backed up.
type Source interface {
	All(ctx context.Context) ([]models.Product, error)
}

type Config struct {
	Dir       string
	Hour      int
	Retention time.Duration
}

// NextRun is the next hour:00 strictly after now, in now's location.
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run takes a snapshot every day at cfg.Hour until ctx is cancelled.
func Run(ctx context.Context, src Source, cfg Config) {
	for {
		next := NextRun(time.Now(), cfg.Hour)
		slog.Info("next catalog backup scheduled", "at", next.Format(time.DateTime))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		path, err := Snapshot(ctx, src, cfg.Dir, time.Now())
		if err != nil {
			slog.Error("catalog backup failed", "error", err)
		} else {
			slog.Info("catalog backed up", "path", path)
		}
		Cleanup(cfg.Dir, cfg.Retention, time.Now())
	}
}

// Snapshot writes the whole catalog to dir and returns the file path.
func Snapshot(ctx context.Context, src Source, dir string, at time.Time) (string, error) {
	products, err := src.All(ctx)
	if err != nil {
		return "", fmt.Errorf("load catalog: %w", err)
	}
	file, err := spreadsheet.Build(products)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filePrefix+at.Format(fileLayout)+".xlsx")
	if err := file.Save(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// Cleanup removes snapshots older than retention and reports how many went.
// Files it did not write are left alone.
func Cleanup(dir string, retention time.Duration, now time.Time) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Error("read backup directory", "dir", dir, "error", err)
		return 0
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || filepath.Ext(name) != ".xlsx" {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			slog.Error("remove old backup", "path", path, "error", err)
			continue
		}
		slog.Info("removed old backup", "path", path)
		removed++
	}
	return removed
}
