package clicktest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/zikuli/precision/internal/domain/model"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitReports submits click reports concurrently using a worker pool.
func submitReports(ctx context.Context, config *Config, reports []model.ClickReport, stats *Stats) error {
	log.Printf("📤 Submitting %d click reports with %d workers...", len(reports), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/click"

	var (
		submitted int64
		acked     int64
		rejected  int64
	)

	var lastReport atomic.Int64
	reportInterval := 1 * time.Second

	reportChan := make(chan model.ClickReport, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for report := range reportChan {
				select {
				case <-ctx.Done():
					return
				default:
					if submitSingleReport(client, url, report) {
						atomic.AddInt64(&acked, 1)
					} else {
						atomic.AddInt64(&rejected, 1)
					}
					atomic.AddInt64(&submitted, 1)

					last := lastReport.Load()
					now := time.Now().UnixNano()
					if now-last >= int64(reportInterval) && lastReport.CompareAndSwap(last, now) {
						total := atomic.LoadInt64(&submitted)
						ok := atomic.LoadInt64(&acked)
						bad := atomic.LoadInt64(&rejected)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (acked: %d, rejected: %d)",
								total, len(reports), ok, bad)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (acked: %d, rejected: %d)",
								total, len(reports), ok, bad)
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(reportChan)
		for _, report := range reports {
			select {
			case <-ctx.Done():
				return
			case reportChan <- report:
			}
		}
	}()

	wg.Wait()

	if !config.Verbose {
		fmt.Println()
	}

	stats.ClicksSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ClicksAcked = int(atomic.LoadInt64(&acked))
	stats.ClicksRejected = int(atomic.LoadInt64(&rejected))

	log.Printf(`✅ Click submission completed:
   Acked: %d
   Rejected: %d
`, stats.ClicksAcked, stats.ClicksRejected)

	return nil
}

// submitSingleReport submits one report and reports whether it was acked.
func submitSingleReport(client *HTTPClient, url string, report model.ClickReport) bool {
	resp, err := client.Post(url, report)
	if err != nil {
		return false
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return false
	}

	if resp.StatusCode != StatusOK {
		return false
	}

	var ack AckResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return false
	}
	return ack.Status == "ok" && ack.ReportID != ""
}

// fetchResults retrieves the current aggregate from the service.
func fetchResults(config *Config, client *HTTPClient) (*ResultsResponse, error) {
	resp, err := client.Get(config.BaseURL + "/results")
	if err != nil {
		return nil, fmt.Errorf("results request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read results body: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("results returned status %d", resp.StatusCode)
	}

	var results ResultsResponse
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}
	return &results, nil
}
