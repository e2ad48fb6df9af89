package shared

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPClientFactory creates HTTP clients with standardized transport settings.
// A zero timeout leaves the overall request unbounded and relies on the transport's own limits.
type HTTPClientFactory struct {
	defaultTimeout time.Duration
	mutex          sync.RWMutex
	clients        map[string]*http.Client
}

// NewHTTPClientFactory creates a new HTTP client factory
func NewHTTPClientFactory(defaultTimeout time.Duration) *HTTPClientFactory {
	return &HTTPClientFactory{
		defaultTimeout: defaultTimeout,
		clients:        make(map[string]*http.Client),
	}
}

// CreateHTTPClient returns a pooled client for the given timeout, creating it on first use.
// A negative timeout selects the factory default.
func (f *HTTPClientFactory) CreateHTTPClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = f.defaultTimeout
	}

	clientKey := fmt.Sprintf("timeout_%d", timeout.Milliseconds())

	f.mutex.RLock()
	if client, exists := f.clients[clientKey]; exists {
		f.mutex.RUnlock()
		return client
	}
	f.mutex.RUnlock()

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	f.mutex.Lock()
	if existing, exists := f.clients[clientKey]; exists {
		f.mutex.Unlock()
		return existing
	}
	f.clients[clientKey] = client
	f.mutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"component":  "HTTPClientFactory",
		"timeout":    timeout,
		"client_key": clientKey,
	}).Debug("Created new HTTP client")

	return client
}

// SetBrowserLikeHeaders configures HTTP request headers to mimic browser behavior
func SetBrowserLikeHeaders(request *http.Request, acceptHeader string) {
	request.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	request.Header.Set("Accept", acceptHeader)
	request.Header.Set("Accept-Language", "en-US,en;q=0.9")
	request.Header.Set("Cache-Control", "no-cache")
}

// ExecuteHTTPRequest performs a single attempt and records the outcome.
// Failed requests are not retried here; the caller's next scheduled cycle retries.
// Any response is returned to the caller, who owns its body, including non-2xx ones.
func ExecuteHTTPRequest(client *http.Client, request *http.Request, metrics *HTTPMetrics) (*http.Response, error) {
	logger := logrus.WithFields(logrus.Fields{
		"component": "HTTPClientFactory",
		"method":    request.Method,
		"url":       request.URL.Redacted(),
	})

	start := time.Now()
	response, err := client.Do(request)
	elapsed := time.Since(start)

	if err != nil {
		if metrics != nil {
			metrics.RecordHTTPRequest(false, 0, elapsed, "transport")
		}
		logger.WithError(err).Debug("HTTP request failed with network error")
		return nil, err
	}

	success := response.StatusCode >= 200 && response.StatusCode < 300
	if metrics != nil {
		errorType := ""
		if !success {
			errorType = "status"
		}
		metrics.RecordHTTPRequest(success, response.StatusCode, elapsed, errorType)
	}

	logger.WithFields(logrus.Fields{
		"status_code": response.StatusCode,
		"duration":    elapsed,
	}).Debug("HTTP request completed")

	return response, nil
}

// CleanupAllClients closes idle connections of all cached HTTP clients
func (f *HTTPClientFactory) CleanupAllClients() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for key, client := range f.clients {
		if transport, ok := client.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
		delete(f.clients, key)
	}

	logrus.WithField("component", "HTTPClientFactory").Debug("Cleaned up all cached HTTP clients")
}
