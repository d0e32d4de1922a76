package verify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/veritok/veritok/internal/model"
)

// SourceValidator HEAD-checks cited evidence URLs concurrently and
// records accessibility on each source. Audit aid only: dead links
// never change the verdict status.
type SourceValidator struct {
	httpClient *http.Client
	userAgent  string
	maxWorkers int
}

// NewSourceValidator creates a validator
func NewSourceValidator(timeout time.Duration, maxWorkers int, userAgent string) *SourceValidator {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &SourceValidator{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		maxWorkers: maxWorkers,
	}
}

// Check probes every source in place, bounded by maxWorkers
func (v *SourceValidator) Check(ctx context.Context, sources []model.EvidenceSource) {
	if len(sources) == 0 {
		return
	}

	sem := make(chan struct{}, v.maxWorkers)
	var wg sync.WaitGroup

	for i := range sources {
		wg.Add(1)
		go func(src *model.EvidenceSource) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			ok := v.accessible(ctx, src.URL)
			src.Accessible = &ok
		}(&sources[i])
	}

	wg.Wait()
}

func (v *SourceValidator) accessible(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	// Some hosts reject HEAD; treat method errors as accessible
	if resp.StatusCode == http.StatusMethodNotAllowed {
		return true
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
