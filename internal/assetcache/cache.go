package assetcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mishannn/homesearch-go/internal/utils"
)

const indexSuffix = ".url"

// Cache resolves remote assets (3D models, floor plans) to local files. A file
// is downloaded once; later calls are served from memory or disk, and
// concurrent calls for the same URL share one download.
type Cache struct {
	dir        string
	httpClient *http.Client
	logger     *zap.Logger

	group singleflight.Group

	mu    sync.RWMutex
	paths map[string]string
}

type Stats struct {
	Dir  string
	Size int
	URLs []string
}

func New(dir string, httpClient *http.Client, logger *zap.Logger) (*Cache, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("can't create cache dir: %w", err)
	}

	return &Cache{
		dir:        dir,
		httpClient: httpClient,
		logger:     logger.Named("assetcache"),
		paths:      make(map[string]string),
	}, nil
}

// Get returns the local path of rawURL, downloading it if needed.
func (c *Cache) Get(ctx context.Context, rawURL string) (string, error) {
	c.mu.RLock()
	p, ok := c.paths[rawURL]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := c.group.Do(rawURL, func() (any, error) {
		return c.load(ctx, rawURL)
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

func (c *Cache) load(ctx context.Context, rawURL string) (string, error) {
	p, err := c.pathFor(rawURL)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(p); err == nil {
		c.logger.Debug("served from disk", zap.String("url", rawURL))
		c.remember(rawURL, p)
		return p, nil
	}

	c.logger.Info("downloading asset", zap.String("url", rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("can't create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("can't download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("can't download %s: status %d", rawURL, resp.StatusCode)
	}

	err = atomic.WriteFile(p, resp.Body)
	if err != nil {
		return "", fmt.Errorf("can't store %s: %w", rawURL, err)
	}

	err = os.WriteFile(p+indexSuffix, []byte(rawURL), 0o644)
	if err != nil {
		return "", fmt.Errorf("can't index %s: %w", rawURL, err)
	}

	c.remember(rawURL, p)
	return p, nil
}

func (c *Cache) remember(rawURL, p string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.paths[rawURL] = p
}

// pathFor names the file after the URL hash, keeping the extension so
// loaders that sniff it still work.
func (c *Cache) pathFor(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("can't parse asset url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported asset url scheme %q", u.Scheme)
	}

	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:16])+path.Ext(u.Path)), nil
}

// Warm downloads urls in the background of a caller that does not need the
// paths yet. Failures are logged and returned joined; they do not stop the
// other downloads.
func (c *Cache) Warm(ctx context.Context, urls []string, maxWorkers int) error {
	wp := utils.NewWorkerPool(c.Get, maxWorkers)
	wp.OnProgress(func(current, total int) {
		c.logger.Debug("warm progress", zap.Int("current", current), zap.Int("total", total))
	})

	_, err := wp.MapAll(ctx, utils.Unique(urls))
	if err != nil {
		c.logger.Warn("some assets were not cached", zap.Error(err))
	}

	return err
}

// Stats lists the URLs stored on disk.
func (c *Cache) Stats() (Stats, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*"+indexSuffix))
	if err != nil {
		return Stats{}, fmt.Errorf("can't list cache dir: %w", err)
	}

	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			continue
		}
		urls = append(urls, string(data))
	}
	sort.Strings(urls)

	return Stats{Dir: c.dir, Size: len(urls), URLs: urls}, nil
}

// Clear removes every cached file.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.paths = make(map[string]string)
	c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("can't list cache dir: %w", err)
	}

	var errs error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		errs = errors.Join(errs, os.Remove(filepath.Join(c.dir, e.Name())))
	}

	if errs != nil {
		return fmt.Errorf("can't clear cache: %w", errs)
	}

	return nil
}
