// Package pipeline drives one harvest cycle: discover candidate URLs,
// consult the fingerprint index, extract new articles, and persist
// them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"newsharvest/internal/classify"
	"newsharvest/internal/extract"
	"newsharvest/internal/harvester"
	"newsharvest/internal/metrics"
)

// Config controls Runner behavior.
type Config struct {
	// Limit truncates the discovered URL list; zero means no limit.
	Limit int
	// Concurrency is the worker pool size. One worker reproduces the
	// strictly sequential reference behavior.
	Concurrency int
	// RequestsPerSecond bounds the request rate against the origin
	// regardless of worker count.
	RequestsPerSecond float64
	// UserAgent is sent as the request identity header.
	UserAgent string
}

// CycleReport summarizes one cycle.
type CycleReport struct {
	Discovered int
	Saved      int
	Duplicates int
	Empty      int
	Failed     int
}

// Skipped is the combined skip count reported at cycle end.
func (r CycleReport) Skipped() int {
	return r.Duplicates + r.Empty
}

// Runner executes harvest cycles against a single publication.
type Runner struct {
	source     harvester.Source
	fetcher    harvester.Fetcher
	store      harvester.Store
	index      harvester.Index
	clock      harvester.Clock
	extractor  *extract.Extractor
	classifier *classify.Classifier
	limiter    *rate.Limiter
	logger     *zap.Logger
	cfg        Config
}

// New constructs a Runner.
func New(
	source harvester.Source,
	fetcher harvester.Fetcher,
	store harvester.Store,
	index harvester.Index,
	clock harvester.Clock,
	classifier *classify.Classifier,
	cfg Config,
	logger *zap.Logger,
) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1.25
	}
	return &Runner{
		source:     source,
		fetcher:    fetcher,
		store:      store,
		index:      index,
		clock:      clock,
		extractor:  extract.NewExtractor(source, clock),
		classifier: classifier,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
		cfg:        cfg,
	}
}

type outcome int

const (
	outcomeSaved outcome = iota
	outcomeDuplicate
	outcomeEmpty
	outcomeFailed
)

// RunCycle performs one discovery-through-persistence pass. Per-URL
// failures are logged and counted but never abort the cycle; only a
// discovery or index failure does.
func (r *Runner) RunCycle(ctx context.Context) (CycleReport, error) {
	runID := uuid.NewString()
	logger := r.logger.With(zap.String("cycle_id", runID))

	urls, err := r.discover(ctx)
	if err != nil {
		return CycleReport{}, fmt.Errorf("discover article urls: %w", err)
	}
	if r.cfg.Limit > 0 && len(urls) > r.cfg.Limit {
		urls = urls[:r.cfg.Limit]
	}
	logger.Info("cycle started", zap.Int("candidates", len(urls)))

	if err := r.index.Load(); err != nil {
		return CycleReport{}, fmt.Errorf("load fingerprint index: %w", err)
	}

	report := CycleReport{Discovered: len(urls)}
	for oc := range r.processAll(ctx, logger, urls) {
		switch oc {
		case outcomeSaved:
			report.Saved++
		case outcomeDuplicate:
			report.Duplicates++
		case outcomeEmpty:
			report.Empty++
		case outcomeFailed:
			report.Failed++
		}
	}

	metrics.IncCycles()
	logger.Info("cycle finished",
		zap.Int("saved", report.Saved),
		zap.Int("skipped", report.Skipped()),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// processAll fans the URL list out to the worker pool and returns the
// stream of per-URL outcomes. URLs are dispatched in discovery order.
func (r *Runner) processAll(ctx context.Context, logger *zap.Logger, urls []string) <-chan outcome {
	jobs := make(chan string)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobs {
				results <- r.processURL(ctx, logger, url)
			}
		}()
	}
	go func() {
		for _, url := range urls {
			jobs <- url
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()
	return results
}

// processURL runs the full per-URL pipeline. The fingerprint
// reservation is the single atomic admission step: once claimed, no
// other worker can fetch the same URL, and a failed pipeline releases
// the claim so a later cycle can retry.
func (r *Runner) processURL(ctx context.Context, logger *zap.Logger, url string) outcome {
	fingerprint := harvester.Fingerprint(url)
	if !r.index.Reserve(fingerprint) {
		logger.Debug("skipping known url", zap.String("url", url), zap.String("fingerprint", fingerprint))
		metrics.IncDuplicatesSkipped()
		return outcomeDuplicate
	}

	if err := r.limiter.Wait(ctx); err != nil {
		r.index.Release(fingerprint)
		logger.Warn("rate limit wait canceled", zap.String("url", url), zap.Error(err))
		return outcomeFailed
	}

	article, err := r.extractArticle(ctx, url)
	if err != nil {
		r.index.Release(fingerprint)
		// An empty body releases the reservation like any other
		// failure: the URL is retried every cycle until it yields
		// paragraphs. Deliberate, not an oversight.
		if errors.Is(err, extract.ErrEmptyBody) {
			logger.Info("article has no body text", zap.String("url", url))
			metrics.IncEmptyBodySkipped()
			return outcomeEmpty
		}
		logger.Error("article pipeline failed", zap.String("url", url), zap.Error(err))
		metrics.IncFetchFailures()
		return outcomeFailed
	}

	path, err := r.store.Save(ctx, article)
	if err != nil {
		r.index.Release(fingerprint)
		logger.Error("store write failed", zap.String("url", url), zap.Error(err))
		metrics.IncFetchFailures()
		return outcomeFailed
	}

	logger.Info("article saved",
		zap.String("url", url),
		zap.String("path", path),
		zap.Int("tags", len(article.Tags)),
	)
	metrics.IncArticlesSaved()
	return outcomeSaved
}

// extractArticle fetches, parses, extracts, classifies, and assembles
// the record fully in memory. Nothing is written until it succeeds.
func (r *Runner) extractArticle(ctx context.Context, url string) (harvester.Article, error) {
	resp, err := r.fetcher.Fetch(ctx, r.fetchRequest(url))
	if err != nil {
		return harvester.Article{}, fmt.Errorf("fetch: %w", err)
	}

	doc, err := extract.Parse(resp.Body)
	if err != nil {
		return harvester.Article{}, fmt.Errorf("parse: %w", err)
	}

	article, err := r.extractor.Extract(doc, url)
	if err != nil {
		return harvester.Article{}, err
	}

	derived := r.classifier.Classify(url, article.Title, article.Body)
	article.Tags = classify.Dedupe(append(article.Tags, derived...))
	return article, nil
}

func (r *Runner) discover(ctx context.Context) ([]string, error) {
	resp, err := r.fetcher.Fetch(ctx, r.fetchRequest(r.source.Homepage))
	if err != nil {
		return nil, fmt.Errorf("fetch homepage: %w", err)
	}
	doc, err := extract.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse homepage: %w", err)
	}
	return extract.DiscoverArticleURLs(doc, r.source)
}

func (r *Runner) fetchRequest(url string) harvester.FetchRequest {
	headers := http.Header{}
	if r.cfg.UserAgent != "" {
		headers.Set("User-Agent", r.cfg.UserAgent)
	}
	return harvester.FetchRequest{URL: url, Headers: headers}
}
