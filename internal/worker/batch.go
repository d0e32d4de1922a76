package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/veritok/veritok/internal/model"
)

// Analyzer is the interface the batch processor drives. Satisfied by
// pipeline.Pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*model.AnalysisReport, error)
}

// BatchResult is the outcome of analyzing one URL in a batch
type BatchResult struct {
	URL    string
	Report *model.AnalysisReport
	Err    error
}

// BatchProcessor analyzes many URLs with bounded concurrency. Results
// keep the input order regardless of completion order.
type BatchProcessor struct {
	analyzer Analyzer
	workers  int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, workers int) *BatchProcessor {
	if workers <= 0 {
		workers = 1
	}
	return &BatchProcessor{analyzer: analyzer, workers: workers}
}

// ProcessURLs analyzes the given URLs concurrently
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []BatchResult {
	results := make([]BatchResult, len(urls))
	sem := make(chan struct{}, b.workers)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, link string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = BatchResult{URL: link, Err: ctx.Err()}
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			report, err := b.analyzer.Analyze(ctx, link)
			results[idx] = BatchResult{URL: link, Report: report, Err: err}
		}(i, u)
	}

	wg.Wait()
	return results
}

// ProcessFile reads URLs from a file (one per line, # comments) and
// analyzes them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]BatchResult, error) {
	urls, err := ReadURLsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}
	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads deduplicated URLs from a file
func ReadURLsFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
