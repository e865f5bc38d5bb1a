package momentum

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/momentum/date"
	"go.uber.org/zap"
)

// contains http utils to deal with remote market data services

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base   http.RoundTripper
	period date.Period // zero value is daily
	dir    string
	logger *zap.Logger
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If a fresh cached response is not found, it proceeds
// with the actual HTTP request and caches the new response if it's successful.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}
	// the key embeds the current period identifier, so entries expire with it.
	rangeID := c.period.Range(date.Today()).Identifier()
	key := fmt.Sprintf("%s %s %s", rangeID, req.Method, req.URL.String())
	key = fmt.Sprintf("mom-%s-%x", c.period, sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		c.logger.Debug("cache hit", zap.String("host", req.URL.Host), zap.String("path", req.URL.Path))
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("http",
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.String("status", resp.Status))
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	if err := c.put(key, resp); err != nil {
		c.logger.Warn("cache write failed (ignored)", zap.Error(err))
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	// DumpResponse drains the body and replaces it with an in-memory copy.
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}

// NewCachingClient returns an http.Client that keeps successful GET responses
// on disk (in dir, or the system temp dir if empty) for the current period.
func NewCachingClient(period date.Period, dir string, timeout time.Duration, logger *zap.Logger) *http.Client {
	if dir == "" {
		dir = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &diskCache{base: http.DefaultTransport, period: period, dir: dir, logger: logger},
	}
}

// StatusError reports a non 200 response from a remote service.
type StatusError struct {
	Host, Path string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot http GET %v%v: %v", e.Host, e.Path, e.Status)
}

// GetJSON performs an HTTP GET request to the given address and unmarshals the
// JSON response body into data. Header values, if any, are added to the request.
func GetJSON(ctx context.Context, client *http.Client, addr string, header http.Header, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Host: req.URL.Host, Path: req.URL.Path, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return json.NewDecoder(resp.Body).Decode(data)
}
