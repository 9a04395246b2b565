// Package pdf extracts page text with github.com/ledongthuc/pdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
	lpdf "github.com/ledongthuc/pdf"
)

type Parser struct{}

var _ ports.DocumentParser = Parser{}

func NewParser() Parser {
	return Parser{}
}

func (Parser) Open(data []byte) (doc ports.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("open pdf: %v: %w", r, domain.ErrIO)
		}
	}()

	reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w: %w", err, domain.ErrIO)
	}

	return &Document{reader: reader}, nil
}

// Document serialises access to the underlying reader, which is not safe
// for concurrent use.
type Document struct {
	mu     sync.Mutex
	reader *lpdf.Reader
}

func (d *Document) NumPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.reader.NumPage()
}

// PageFragments returns the page's text-show fragments, row by row from the
// top. Blank fragments are dropped.
func (d *Document) PageFragments(ctx context.Context, page int) (fragments []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if page < 1 || page > d.reader.NumPage() {
		return nil, fmt.Errorf("pdf page %d out of range: %w", page, domain.ErrIO)
	}

	defer func() {
		if r := recover(); r != nil {
			fragments, err = nil, fmt.Errorf("read pdf page %d: %v: %w", page, r, domain.ErrIO)
		}
	}()

	p := d.reader.Page(page)
	if p.V.IsNull() {
		return nil, nil
	}

	rows, err := p.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("read pdf page %d: %w: %w", page, err, domain.ErrIO)
	}

	for _, row := range rows {
		for _, text := range row.Content {
			if s := strings.TrimSpace(text.S); s != "" {
				fragments = append(fragments, s)
			}
		}
	}

	return fragments, nil
}
