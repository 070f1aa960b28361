package assist

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"
)

// contains http utils to deal with remote services

// diskCache implements a simple disk cache for HTTP responses.
// The cache key includes a time bucket, so entries expire after ttl without
// any cleanup pass. Prices are time-sensitive: the TTL must stay short.
type diskCache struct {
	base http.RoundTripper
	ttl  time.Duration
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// the key changes every ttl, so a cached entry is never served older than that.
	bucket := time.Now().Truncate(c.ttl).Unix()
	key := fmt.Sprintf("%d %s %s", bucket, req.Method, req.URL.String())
	key = fmt.Sprintf("assist-%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// CachedClient returns an http client whose responses are cached on disk and
// expire after ttl.
func CachedClient(ttl time.Duration) *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{base: http.DefaultTransport, ttl: ttl}
	return client
}

// Get performs an HTTP GET with the given headers and returns the body.
// Cancellation of ctx aborts the call: this is how per-call timeouts work.
func Get(ctx context.Context, client *http.Client, addr string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read http body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	return buf.Bytes(), nil
}

// JSONGet performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func JSONGet(ctx context.Context, client *http.Client, addr string, header http.Header, data any) error {
	body, err := Get(ctx, client, addr, header)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
