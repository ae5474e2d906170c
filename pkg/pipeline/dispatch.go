package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rgallet/mandagen/pkg/mandala"
	"github.com/rgallet/mandagen/pkg/observability"
)

// Progress is a snapshot of a running dispatch, emitted after every
// completed page. CompletedPages is monotonic; completion order is not
// page order.
type Progress struct {
	Page            int // design index that just finished
	CompletedPages  int
	TotalPages      int
	CompletedWeight int // sum of finished page weights
	TotalWeight     int
}

// Percent returns weighted completion in [0, 100].
func (p Progress) Percent() float64 {
	if p.TotalWeight == 0 {
		return 0
	}
	return 100 * float64(p.CompletedWeight) / float64(p.TotalWeight)
}

// renderResult carries one worker completion back to the collector.
type renderResult struct {
	page     int
	rendered *mandala.RenderedPage
	err      error
	elapsed  time.Duration
}

// Dispatch renders every design page of cfg across a fixed pool of
// cfg.Workers goroutines and returns the results ordered by page index.
//
// Completions are collected as they happen, never in submission order, and
// notify (if non-nil) is invoked from the collector goroutine after each
// one. On the first failure the remaining queue is abandoned, in-flight
// pages are allowed to finish and discarded, and a *mandala.RenderError
// naming the failed page is returned. A panic inside a worker is recovered
// and reported the same way, so a crash in one page's rendering cannot take
// down a long-lived host process.
func Dispatch(ctx context.Context, cfg mandala.GenerationConfig, notify func(Progress)) ([]*mandala.RenderedPage, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	results := make(chan renderResult)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				res := renderOne(ctx, page, cfg)
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Submit one task per design; stop feeding on cancellation.
	go func() {
		defer close(jobs)
		for n := 1; n <= cfg.Designs; n++ {
			select {
			case jobs <- n:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close results once every worker has drained out.
	go func() {
		wg.Wait()
		close(results)
	}()

	// Result slots are keyed by page index; completion order never matters.
	pages := make([]*mandala.RenderedPage, cfg.Designs)
	progress := Progress{
		TotalPages:  cfg.Designs,
		TotalWeight: mandala.TotalWeight(cfg),
	}

	var failure error
	for res := range results {
		if failure != nil {
			continue // draining after abort
		}
		if res.err != nil {
			failure = &mandala.RenderError{Page: res.page, Err: res.err}
			cancel()
			continue
		}

		pages[res.page-1] = res.rendered
		progress.Page = res.page
		progress.CompletedPages++
		progress.CompletedWeight += mandala.PageWeight(res.page, cfg)
		if notify != nil {
			notify(progress)
		}
	}

	if failure != nil {
		return nil, failure
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

// renderOne derives and renders a single page, converting panics into
// errors so one misbehaving page cannot crash the pool.
func renderOne(ctx context.Context, page int, cfg mandala.GenerationConfig) (res renderResult) {
	res.page = page
	start := time.Now()

	observability.Generation().OnPageStart(ctx, page)
	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("panic during render: %v", r)
		}
		res.elapsed = time.Since(start)
		observability.Generation().OnPageComplete(ctx, page, res.elapsed, res.err)
	}()

	res.rendered, res.err = mandala.Render(mandala.Derive(page, cfg))
	return res
}
