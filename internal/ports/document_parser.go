package ports

import "context"

type DocumentParser interface {
	Open(data []byte) (Document, error)
}

type Document interface {
	NumPages() int
	// PageFragments returns the ordered text fragments of a 1-based page.
	PageFragments(ctx context.Context, page int) ([]string, error)
}
