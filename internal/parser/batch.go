package parser

import (
	"context"
	"sync"
)

// defaultBatchWorkers bounds concurrent per-line parses in a batch.
const defaultBatchWorkers = 8

// BatchRequest is a batch parse call. All lines share the province,
// default area code, and learning flag.
type BatchRequest struct {
	Inputs          []string
	Province        string
	DefaultAreaCode string
	Learn           bool
}

// BatchResult aggregates per-line results in input order.
type BatchResult struct {
	Results        []Result `json:"results"`
	TotalProcessed int      `json:"total_processed"`
	SuccessCount   int      `json:"success_count"`
	FailureCount   int      `json:"failure_count"`
}

// ParseBatch parses up to MaxBatchSize lines. Lines are independent, so
// they run on a bounded worker pool; results come back in input order
// and one bad line never aborts the batch.
func (e *Engine) ParseBatch(ctx context.Context, req BatchRequest) (BatchResult, error) {
	if len(req.Inputs) > MaxBatchSize {
		return BatchResult{}, &BatchSizeError{Got: len(req.Inputs), Max: MaxBatchSize}
	}

	results := make([]Result, len(req.Inputs))

	workers := e.workers
	if workers > len(req.Inputs) {
		workers = len(req.Inputs)
	}

	var wg sync.WaitGroup
	jobs := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.Parse(ctx, Request{
					Input:           req.Inputs[i],
					Province:        req.Province,
					DefaultAreaCode: req.DefaultAreaCode,
					Learn:           req.Learn,
				})
			}
		}()
	}

	for i := range req.Inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	batch := BatchResult{
		Results:        results,
		TotalProcessed: len(req.Inputs),
	}
	for _, r := range results {
		if r.Success {
			batch.SuccessCount++
		} else {
			batch.FailureCount++
		}
	}

	return batch, nil
}
