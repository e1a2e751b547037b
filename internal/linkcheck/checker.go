package linkcheck

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/siit-asr/faqserve/internal/faq"
)

// Checker probes the external links embedded in FAQ answers. Broken
// links are reported as warnings, never fatal: they must not block
// serving FAQ content.
type Checker struct {
	httpClient  *http.Client
	timeout     time.Duration
	concurrency int
	deepPDF     bool
	log         *slog.Logger
}

func NewChecker(timeout time.Duration, concurrency int, deepPDF bool, log *slog.Logger) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Checker{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout:     timeout,
		concurrency: concurrency,
		deepPDF:     deepPDF,
		log:         log,
	}
}

// EntryResult groups the link results for one entry.
type EntryResult struct {
	DocID    string   `json:"doc_id"`
	Topic    string   `json:"topic"`
	Question string   `json:"question"`
	Results  []Result `json:"results"`
}

// Report aggregates a full validation run.
type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Total       int           `json:"total"`
	OK          int           `json:"ok"`
	Broken      int           `json:"broken"`
	Unknown     int           `json:"unknown"`
	Entries     []EntryResult `json:"entries"`
}

// CheckAll validates every link in the given documents. Probes run
// concurrently up to the configured bound; each writes its own result
// slot, so no aggregation lock is needed. Cancelling ctx abandons
// in-flight probes, which then report as unknown.
func (c *Checker) CheckAll(ctx context.Context, docs []*faq.Document) *Report {
	report := &Report{GeneratedAt: time.Now()}

	for _, doc := range docs {
		for _, sec := range doc.Sections {
			for _, e := range sec.Entries {
				if len(e.Links) == 0 {
					continue
				}
				report.Entries = append(report.Entries, EntryResult{
					DocID:    doc.ID,
					Topic:    sec.Heading,
					Question: e.Question,
					Results:  make([]Result, len(e.Links)),
				})
			}
		}
	}

	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	ei := 0
	for _, doc := range docs {
		for _, sec := range doc.Sections {
			for _, e := range sec.Entries {
				if len(e.Links) == 0 {
					continue
				}
				slots := report.Entries[ei].Results
				ei++
				for li, link := range e.Links {
					wg.Add(1)
					sem <- struct{}{}
					go func(slot *Result, link faq.Link) {
						defer wg.Done()
						defer func() { <-sem }()
						*slot = c.CheckLink(ctx, link)
					}(&slots[li], link)
				}
			}
		}
	}
	wg.Wait()

	for _, er := range report.Entries {
		for _, r := range er.Results {
			report.Total++
			switch r.Status {
			case StatusOK:
				report.OK++
			case StatusUnknown:
				report.Unknown++
			default:
				report.Broken++
			}
		}
	}

	if c.log != nil {
		c.log.Info("link check complete",
			"total", report.Total, "ok", report.OK,
			"broken", report.Broken, "unknown", report.Unknown)
	}
	return report
}

// CheckEntry validates the links of a single entry sequentially.
func (c *Checker) CheckEntry(ctx context.Context, e faq.Entry) []Result {
	results := make([]Result, len(e.Links))
	for i, link := range e.Links {
		results[i] = c.CheckLink(ctx, link)
	}
	return results
}

// CheckLink validates one link syntactically and, for web links,
// probes reachability with at most one retry on transient failure.
func (c *Checker) CheckLink(ctx context.Context, l faq.Link) Result {
	res := Validate(l)
	if !res.OK || l.Kind == faq.LinkEmail {
		return res
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		r, err := c.probe(probeCtx, l)
		if err == nil {
			return r
		}
		lastErr = err
		if !IsRetryable(err) {
			break
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-probeCtx.Done():
			return unknown(l, probeCtx.Err())
		}
	}

	if probeCtx.Err() != nil {
		return unknown(l, probeCtx.Err())
	}
	return Result{Link: l, OK: false, Status: StatusBroken, Reason: lastErr.Error()}
}

// probe issues a HEAD request, falling back to a ranged GET for
// servers that reject HEAD. Transport errors and 5xx responses are
// returned as retryable.
func (c *Checker) probe(ctx context.Context, l faq.Link) (Result, error) {
	resp, err := c.do(ctx, http.MethodHead, l.URL, false)
	if err != nil {
		return Result{}, err
	}
	if resp == http.StatusMethodNotAllowed || resp == http.StatusNotImplemented {
		resp, err = c.do(ctx, http.MethodGet, l.URL, true)
		if err != nil {
			return Result{}, err
		}
	}

	switch {
	case resp >= 500:
		return Result{}, &RetryableError{Err: fmt.Errorf("status %d", resp)}
	case resp >= 400:
		return Result{Link: l, OK: false, Status: StatusBroken, Reason: fmt.Sprintf("status %d", resp)}, nil
	}

	if c.deepPDF && l.Kind == faq.LinkPDF {
		if err := c.verifyPDF(ctx, l.URL); err != nil {
			return Result{Link: l, OK: false, Status: StatusBroken, Reason: "reachable but " + err.Error()}, nil
		}
	}
	return Result{Link: l, OK: true, Status: StatusOK}, nil
}

func (c *Checker) do(ctx context.Context, method, rawURL string, ranged bool) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	if ranged {
		req.Header.Set("Range", "bytes=0-0")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, &RetryableError{Err: err}
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func unknown(l faq.Link, cause error) Result {
	reason := "check abandoned"
	if cause != nil {
		reason += ": " + cause.Error()
	}
	return Result{Link: l, OK: false, Status: StatusUnknown, Reason: reason}
}
