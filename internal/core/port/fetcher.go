package port

import "context"

type FileFetcher interface {
	// Fetch returns the byte content of a file at the provided URL.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
