// Package watcher ingests roster PDFs dropped into a directory.
//
// Files are placed either directly in the watched directory, using the
// configured default hierarchy, or under COMPLEX/ZONE/CATEGORY
// subdirectories, which take precedence:
//
//	drop/ROHINI/NORTH/BAIL_ROSTER/bail-roster-2025-03-14.pdf
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driving"
	"github.com/custodia-labs/lexroster/internal/logger"
	"github.com/custodia-labs/lexroster/internal/normalisers/pdf"
)

// DefaultDebounce is how long a file must be quiet before it is ingested.
const DefaultDebounce = 750 * time.Millisecond

// ErrNoDir is returned when no directory is configured.
var ErrNoDir = errors.New("watcher: directory is required")

// Config configures a drop-folder watcher.
type Config struct {
	Dir string

	// Complex, Zone and Category apply to files outside a hierarchy
	// subdirectory. They may be empty, in which case such files are skipped.
	Complex  domain.Complex
	Zone     domain.Zone
	Category domain.Category

	// InitialScan ingests files already present at start-up.
	InitialScan bool

	Debounce time.Duration
}

// Watcher feeds dropped PDFs to the ingest service.
type Watcher struct {
	ingest driving.IngestService
	cfg    Config

	// ingested, when set, observes each successful ingest.
	ingested func(path string, doc *domain.Document)
}

// New creates a watcher. A partially set default hierarchy is rejected.
func New(ingest driving.IngestService, cfg Config) (*Watcher, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, ErrNoDir
	}
	if cfg.Complex != "" || cfg.Zone != "" || cfg.Category != "" {
		if err := domain.ValidateHierarchy(cfg.Complex, cfg.Zone, cfg.Category); err != nil {
			return nil, err
		}
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Watcher{ingest: ingest, cfg: cfg}, nil
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	pending := make(map[string]time.Time)
	err = filepath.WalkDir(w.cfg.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		if w.cfg.InitialScan && isPDF(path) {
			pending[path] = time.Time{}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	logger.Info("Watching %s for roster PDFs", w.cfg.Dir)

	ticker := time.NewTicker(w.cfg.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := fw.Add(ev.Name); err != nil {
						logger.Warn("Cannot watch %s: %v", ev.Name, err)
					}
					continue
				}
			}
			if isPDF(ev.Name) && (ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) {
				pending[ev.Name] = time.Now()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.cfg.Debounce {
					continue
				}
				delete(pending, path)
				w.ingestFile(ctx, path)
			}
		}
	}
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	req, err := w.request(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}

	doc, err := w.ingest.Ingest(ctx, req)
	if err != nil {
		logger.Error("Ingesting %s failed: %v", path, err)
		return
	}
	logger.Info("Ingested %s as %s", filepath.Base(path), doc.ID)
	if w.ingested != nil {
		w.ingested(path, doc)
	}
}

// request builds an ingest request from the file and its location.
func (w *Watcher) request(path string) (domain.IngestRequest, error) {
	complex, zone, category, err := w.hierarchy(path)
	if err != nil {
		return domain.IngestRequest{}, err
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return domain.IngestRequest{}, err
	}

	name := filepath.Base(path)
	return domain.IngestRequest{
		Complex:  complex,
		Zone:     zone,
		Category: category,
		Title:    pdf.TitleFromFileName(name),
		DocDate:  dateFromFileName(name),
		File:     buf,
		FileName: name,
	}, nil
}

// hierarchy reads COMPLEX/ZONE/CATEGORY from the path relative to the
// watched directory, falling back to the configured defaults.
func (w *Watcher) hierarchy(path string) (domain.Complex, domain.Zone, domain.Category, error) {
	rel, err := filepath.Rel(w.cfg.Dir, filepath.Dir(path))
	if err != nil {
		return "", "", "", err
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) == 3 {
		complex, err := domain.ParseComplex(parts[0])
		if err != nil {
			return "", "", "", err
		}
		zone, err := domain.ParseZone(parts[1])
		if err != nil {
			return "", "", "", err
		}
		category, err := domain.ParseCategory(parts[2])
		if err != nil {
			return "", "", "", err
		}
		return complex, zone, category, nil
	}

	if rel != "." || w.cfg.Complex == "" {
		return "", "", "", errors.New("no complex/zone/category for this location")
	}
	return w.cfg.Complex, w.cfg.Zone, w.cfg.Category, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// dateFromFileName finds a YYYY-MM-DD date in name.
func dateFromFileName(name string) *time.Time {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	for i := 0; i+10 <= len(base); i++ {
		if t, err := time.Parse("2006-01-02", base[i:i+10]); err == nil {
			return &t
		}
	}
	return nil
}
