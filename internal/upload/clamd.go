package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/dutchcoders/go-clamd"

	"github.com/MdFayaz7/portfolio1/internal/errcode"
)

// ClamdScanner streams uploads to a clamd daemon.
type ClamdScanner struct {
	client *clamd.Clamd
}

// NewClamdScanner returns a scanner for addr, e.g. "tcp://clamav:3310".
func NewClamdScanner(addr string) *ClamdScanner {
	return &ClamdScanner{client: clamd.NewClamd(addr)}
}

func (s *ClamdScanner) Scan(ctx context.Context, r io.Reader) error {
	abort := make(chan bool)
	defer close(abort)

	results, err := s.client.ScanStream(r, abort)
	if err != nil {
		return fmt.Errorf("scan file: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result, ok := <-results:
			if !ok {
				return nil
			}
			if result.Status != clamd.RES_OK {
				return errcode.Rejected("Malicious file detected")
			}
		}
	}
}
