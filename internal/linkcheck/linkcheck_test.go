package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/siit-asr/faqserve/internal/faq"
)

func TestValidate_Syntactic(t *testing.T) {
	tests := []struct {
		name   string
		link   faq.Link
		wantOK bool
	}{
		{
			name:   "well-formed email without network",
			link:   faq.Link{URL: "mailto:asr@siit.tu.ac.th", Kind: faq.LinkEmail},
			wantOK: true,
		},
		{
			name:   "email missing local part",
			link:   faq.Link{URL: "mailto:@siit.tu.ac.th", Kind: faq.LinkEmail},
			wantOK: false,
		},
		{
			name:   "email domain without dot",
			link:   faq.Link{URL: "mailto:asr@localhost", Kind: faq.LinkEmail},
			wantOK: false,
		},
		{
			name:   "well-formed pdf url",
			link:   faq.Link{URL: "http://example.com/x.pdf", Kind: faq.LinkPDF},
			wantOK: true,
		},
		{
			name:   "well-formed website",
			link:   faq.Link{URL: "https://www.siit.tu.ac.th/registrar", Kind: faq.LinkWebsite},
			wantOK: true,
		},
		{
			name:   "missing scheme",
			link:   faq.Link{URL: "www.siit.tu.ac.th/registrar", Kind: faq.LinkWebsite},
			wantOK: false,
		},
		{
			name:   "ftp scheme rejected",
			link:   faq.Link{URL: "ftp://example.com/file", Kind: faq.LinkWebsite},
			wantOK: false,
		},
		{
			name:   "empty url",
			link:   faq.Link{URL: "", Kind: faq.LinkWebsite},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.link)
			if res.OK != tt.wantOK {
				t.Errorf("Validate(%q) ok = %v (reason %q), want %v", tt.link.URL, res.OK, res.Reason, tt.wantOK)
			}
		})
	}
}

func TestCheckLink_EmailSkipsNetwork(t *testing.T) {
	// No server running anywhere; an email link must still be ok.
	c := NewChecker(time.Second, 2, false, nil)
	res := c.CheckLink(context.Background(), faq.Link{URL: "mailto:asr@siit.tu.ac.th", Kind: faq.LinkEmail})
	if !res.OK || res.Status != StatusOK {
		t.Fatalf("expected email link ok without network, got %+v", res)
	}
}

func TestCheckLink_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewChecker(2*time.Second, 2, false, nil)
	res := c.CheckLink(context.Background(), faq.Link{URL: srv.URL, Kind: faq.LinkWebsite})
	if !res.OK || res.Status != StatusOK {
		t.Fatalf("expected ok, got %+v", res)
	}
}

func TestCheckLink_NotFoundIsBroken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewChecker(2*time.Second, 2, false, nil)
	res := c.CheckLink(context.Background(), faq.Link{URL: srv.URL + "/gone.pdf", Kind: faq.LinkPDF})
	if res.OK || res.Status != StatusBroken {
		t.Fatalf("expected broken, got %+v", res)
	}
}

func TestCheckLink_HeadRejectedFallsBackToGet(t *testing.T) {
	var sawGet atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet.Store(true)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewChecker(2*time.Second, 2, false, nil)
	res := c.CheckLink(context.Background(), faq.Link{URL: srv.URL, Kind: faq.LinkWebsite})
	if !res.OK {
		t.Fatalf("expected ok via GET fallback, got %+v", res)
	}
	if !sawGet.Load() {
		t.Error("expected a GET request after HEAD was rejected")
	}
}

func TestCheckLink_RetriesTransientOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewChecker(5*time.Second, 2, false, nil)
	res := c.CheckLink(context.Background(), faq.Link{URL: srv.URL, Kind: faq.LinkWebsite})
	if !res.OK {
		t.Fatalf("expected ok after one retry, got %+v", res)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", got)
	}
}

func TestCheckLink_PersistentFailureIsWarningNotFatal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewChecker(5*time.Second, 2, false, nil)
	res := c.CheckLink(context.Background(), faq.Link{URL: srv.URL, Kind: faq.LinkWebsite})
	if res.OK || res.Status != StatusBroken {
		t.Fatalf("expected broken warning, got %+v", res)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected retry capped at one extra attempt, got %d attempts", got)
	}
}

func TestCheckLink_CancelledReportsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
	}))
	defer srv.Close()

	c := NewChecker(100*time.Millisecond, 2, false, nil)
	res := c.CheckLink(context.Background(), faq.Link{URL: srv.URL, Kind: faq.LinkWebsite})
	if res.Status != StatusUnknown {
		t.Fatalf("expected unknown on abandoned check, got %+v", res)
	}
	if res.OK {
		t.Error("unresolved check must not report ok")
	}
}

func TestCheckAll_Report(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.pdf" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	docs := []*faq.Document{{
		ID: "registrar",
		Sections: []faq.Section{{
			Heading: "Registration",
			Entries: []faq.Entry{
				{
					Question: "How do I register online?",
					Topic:    "Registration",
					Links: []faq.Link{
						{Label: "Guide", URL: srv.URL + "/guide.pdf", Kind: faq.LinkPDF},
						{Label: "Old form", URL: srv.URL + "/missing.pdf", Kind: faq.LinkPDF},
						{Label: "ASR", URL: "mailto:asr@siit.tu.ac.th", Kind: faq.LinkEmail},
					},
				},
				{Question: "No links here?", Topic: "Registration"},
			},
		}},
	}}

	c := NewChecker(2*time.Second, 4, false, nil)
	report := c.CheckAll(context.Background(), docs)

	if report.Total != 3 {
		t.Fatalf("expected 3 checked links, got %d", report.Total)
	}
	if report.OK != 2 || report.Broken != 1 || report.Unknown != 0 {
		t.Errorf("unexpected counts: ok=%d broken=%d unknown=%d", report.OK, report.Broken, report.Unknown)
	}
	if len(report.Entries) != 1 {
		t.Fatalf("entries without links must not appear in the report, got %d groups", len(report.Entries))
	}
	if report.Entries[0].Question != "How do I register online?" {
		t.Errorf("unexpected report entry: %+v", report.Entries[0])
	}
}

func TestCheckEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	entry := faq.Entry{
		Question: "How do I register online?",
		Links: []faq.Link{
			{Label: "Guide", URL: srv.URL + "/x.pdf", Kind: faq.LinkPDF},
			{Label: "ASR", URL: "mailto:asr@siit.tu.ac.th", Kind: faq.LinkEmail},
		},
	}

	c := NewChecker(2*time.Second, 2, false, nil)
	results := c.CheckEntry(context.Background(), entry)
	if len(results) != 2 {
		t.Fatalf("expected one result per link, got %d", len(results))
	}
	for i, r := range results {
		if !r.OK {
			t.Errorf("result %d not ok: %+v", i, r)
		}
	}
}

func TestBackoffBounded(t *testing.T) {
	for attempt := 0; attempt < 6; attempt++ {
		d := Backoff(attempt)
		if d < 250*time.Millisecond || d > 1500*time.Millisecond {
			t.Errorf("Backoff(%d) = %v out of expected range", attempt, d)
		}
	}
}
