package linkcheck

import (
	"net/url"
	"strings"

	"github.com/siit-asr/faqserve/internal/faq"
)

// Status is the outcome of a single link check.
type Status string

const (
	StatusOK      Status = "ok"
	StatusBroken  Status = "broken"
	StatusUnknown Status = "unknown"
)

// Result is the validation outcome for one link.
type Result struct {
	Link   faq.Link `json:"link"`
	OK     bool     `json:"ok"`
	Status Status   `json:"status"`
	Reason string   `json:"reason,omitempty"`
}

// Validate checks a link for syntactic well-formedness. It is pure:
// email links are fully validated here and never hit the network.
func Validate(l faq.Link) Result {
	if strings.TrimSpace(l.URL) == "" {
		return broken(l, "empty url")
	}
	switch l.Kind {
	case faq.LinkEmail:
		return validateMailto(l)
	default:
		return validateHTTP(l)
	}
}

func validateMailto(l faq.Link) Result {
	lower := strings.ToLower(l.URL)
	if !strings.HasPrefix(lower, "mailto:") {
		return broken(l, "email link must use mailto: scheme")
	}
	addr := l.URL[len("mailto:"):]
	// Strip ?subject=... style parameters.
	if i := strings.IndexByte(addr, '?'); i >= 0 {
		addr = addr[:i]
	}
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" || domain == "" {
		return broken(l, "malformed mailbox address")
	}
	if !strings.Contains(domain, ".") || strings.ContainsAny(addr, " \t") {
		return broken(l, "malformed mailbox domain")
	}
	return Result{Link: l, OK: true, Status: StatusOK}
}

func validateHTTP(l faq.Link) Result {
	u, err := url.Parse(l.URL)
	if err != nil {
		return broken(l, "unparseable url: "+err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return broken(l, "scheme must be http or https")
	}
	if u.Host == "" {
		return broken(l, "missing host")
	}
	return Result{Link: l, OK: true, Status: StatusOK}
}

func broken(l faq.Link, reason string) Result {
	return Result{Link: l, OK: false, Status: StatusBroken, Reason: reason}
}
