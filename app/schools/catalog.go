package schools

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// Source says where the catalog reads its CSV from. Exactly one of Path and
// URL should be set. RefreshSchedule is a cron expression; empty disables
// scheduled reloads. Watch reloads a Path source whenever the file changes.
type Source struct {
	Path            string `json:"path"`
	URL             string `json:"url"`
	RefreshSchedule string `json:"refreshSchedule"`
	Watch           bool   `json:"watch"`
}

type Status struct {
	Count    int       `json:"count"`
	LoadedAt time.Time `json:"loadedAt"`
	Error    string    `json:"error,omitempty"`
}

// Result is a filtered and sorted view of the catalog.
type Result struct {
	Schools []School `json:"schools"`
	Markers []Marker `json:"markers"`
	Missing int      `json:"missingCoordinates"`
	Total   int      `json:"total"`
	Facets  Facets   `json:"facets"`
}

// Catalog holds the current school records. Reloads swap the records as a
// whole; a failed reload leaves the previous records in place.
type Catalog struct {
	src        Source
	httpClient *http.Client

	mu       sync.RWMutex
	records  []School
	facets   Facets
	index    *NameIndex
	loadedAt time.Time
	lastErr  error

	watcher     *fsnotify.Watcher
	cronSched   *cron.Cron
	watchCancel context.CancelFunc
}

func NewCatalog(src Source) *Catalog {
	return &Catalog{
		src:        src,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		facets:     FacetsOf(nil),
	}
}

func (c *Catalog) open(ctx context.Context) (io.ReadCloser, error) {
	if c.src.Path != "" {
		return os.Open(c.src.Path)
	}
	if c.src.URL == "" {
		return nil, fmt.Errorf("school source has neither path nor url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.src.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: status %d", c.src.URL, resp.StatusCode)
	}
	return resp.Body, nil
}

// Load reads the source and replaces the records.
func (c *Catalog) Load(ctx context.Context) error {
	rc, err := c.open(ctx)
	if err != nil {
		return c.fail(fmt.Errorf("opening school source: %w", err))
	}
	defer rc.Close()
	return c.LoadFrom(rc)
}

// LoadFrom parses r and replaces the records.
func (c *Catalog) LoadFrom(r io.Reader) error {
	records, err := ParseCSV(r)
	if err != nil {
		return c.fail(err)
	}
	index, err := NewNameIndex(records)
	if err != nil {
		return c.fail(err)
	}

	c.mu.Lock()
	old := c.index
	c.records = records
	c.facets = FacetsOf(records)
	c.index = index
	c.loadedAt = time.Now()
	c.lastErr = nil
	c.mu.Unlock()

	if old != nil {
		old.Close()
	}
	slog.Info("loaded school catalog", "count", len(records))
	return nil
}

func (c *Catalog) fail(err error) error {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	slog.Error("school catalog load failed, keeping previous records", "error", err)
	return err
}

// Records returns the current records. Callers must not modify them.
func (c *Catalog) Records() []School {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records
}

func (c *Catalog) Facets() Facets {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.facets
}

func (c *Catalog) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := Status{Count: len(c.records), LoadedAt: c.loadedAt}
	if c.lastErr != nil {
		st.Error = c.lastErr.Error()
	}
	return st
}

func (c *Catalog) Query(q Query) Result {
	c.mu.RLock()
	records, facets := c.records, c.facets
	c.mu.RUnlock()

	matched := Apply(records, q)
	markers, missing := Markers(matched)
	return Result{
		Schools: matched,
		Markers: markers,
		Missing: missing,
		Total:   len(records),
		Facets:  facets,
	}
}

// Search looks up schools by name. The read lock is held for the whole
// query so a reload cannot close the index underneath it.
func (c *Catalog) Search(ctx context.Context, q string, limit int) ([]School, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records, index := c.records, c.index
	if index == nil {
		return []School{}, nil
	}
	ids, err := index.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	out := make([]School, 0, len(ids))
	for _, i := range ids {
		if i >= 0 && i < len(records) {
			out = append(out, records[i])
		}
	}
	return out, nil
}

// Watch starts background reloads: a debounced file watcher when the source
// asks for one and the cron schedule when one is configured. Stop ends both.
func (c *Catalog) Watch(ctx context.Context) error {
	c.Stop()

	if c.src.RefreshSchedule != "" {
		sched := cron.New()
		_, err := sched.AddFunc(c.src.RefreshSchedule, func() {
			slog.Info("scheduled school catalog reload")
			c.Load(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", c.src.RefreshSchedule, err)
		}
		sched.Start()
		c.cronSched = sched
	}

	if c.src.Path == "" || !c.src.Watch {
		return nil
	}
	absPath, err := filepath.Abs(c.src.Path)
	if err != nil {
		return fmt.Errorf("bad school source path %q: %w", c.src.Path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	// fsnotify watches directories for file events
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %q: %w", filepath.Dir(absPath), err)
	}
	c.watcher = watcher

	watchCtx, cancel := context.WithCancel(ctx)
	c.watchCancel = cancel
	go func() {
		var timer *time.Timer
		for {
			select {
			case <-watchCtx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if p, _ := filepath.Abs(event.Name); p != absPath {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(500*time.Millisecond, func() {
					slog.Info("school source changed, reloading", "path", absPath)
					c.Load(watchCtx)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("school source watcher error", "error", err)
			}
		}
	}()
	slog.Info("watching school source", "path", absPath)
	return nil
}

func (c *Catalog) Stop() {
	if c.cronSched != nil {
		c.cronSched.Stop()
		c.cronSched = nil
	}
	if c.watchCancel != nil {
		c.watchCancel()
		c.watchCancel = nil
	}
	if c.watcher != nil {
		c.watcher.Close()
		c.watcher = nil
	}
}
