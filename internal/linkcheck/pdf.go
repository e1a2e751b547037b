package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	pdflib "github.com/ledongthuc/pdf"
)

// maxPDFBytes caps how much of a linked form is downloaded for deep
// verification.
const maxPDFBytes = 20 << 20 // 20MB

// verifyPDF downloads a PDF-kind link and confirms the body actually
// parses as a PDF. Registrar form links have a habit of silently
// turning into login redirects or error pages that still return 200.
func (c *Checker) verifyPDF(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch pdf: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch pdf: status %d", resp.StatusCode)
	}

	// pdflib requires a ReadSeeker+size, so spool to a temp file.
	tmp, err := os.CreateTemp("", "faqserve-pdf-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, maxPDFBytes)); err != nil {
		tmp.Close()
		return fmt.Errorf("download pdf: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return fmt.Errorf("body does not parse as pdf: %w", err)
	}
	defer f.Close()
	if reader.NumPage() < 1 {
		return fmt.Errorf("body parses as pdf with no pages")
	}
	return nil
}
