package application

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
	"golang.org/x/sync/errgroup"
)

type FileKind string

const (
	FileKindText        FileKind = "text/plain"
	FileKindPDF         FileKind = "application/pdf"
	FileKindUnsupported FileKind = ""
)

const pageWorkers = 4

type LoadedFile struct {
	Name string
	Kind FileKind
	Text string
}

type InputService struct {
	parser   ports.DocumentParser
	readFile func(name string) ([]byte, error)
}

func NewInputService(parser ports.DocumentParser) *InputService {
	return &InputService{parser: parser, readFile: os.ReadFile}
}

// DetectFileKind trusts a .txt or .pdf extension and sniffs the content
// otherwise.
func DetectFileKind(name string, data []byte) FileKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return FileKindText
	case ".pdf":
		return FileKindPDF
	}

	sniffed := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(sniffed, "application/pdf"):
		return FileKindPDF
	case strings.HasPrefix(sniffed, "text/plain"):
		return FileKindText
	default:
		return FileKindUnsupported
	}
}

func (s *InputService) LoadFile(ctx context.Context, cmd LoadFileCommand) (LoadedFile, error) {
	if err := ctx.Err(); err != nil {
		return LoadedFile{}, err
	}

	file := LoadedFile{Name: filepath.Base(cmd.Path)}

	data, err := s.readFile(cmd.Path)
	if err != nil {
		return file, fmt.Errorf("read %q: %w: %w", file.Name, err, domain.ErrIO)
	}

	file.Kind = DetectFileKind(file.Name, data)
	switch file.Kind {
	case FileKindText:
		file.Text = string(data)
	case FileKindPDF:
		text, err := s.ExtractPDF(ctx, data)
		if err != nil {
			return file, err
		}
		file.Text = text
	default:
		return file, fmt.Errorf("load %q: %w", file.Name, domain.ErrUnsupportedFileType)
	}

	return file, nil
}

// ExtractPDF reads every page concurrently and joins the pages in page order.
func (s *InputService) ExtractPDF(ctx context.Context, data []byte) (string, error) {
	doc, err := s.parser.Open(data)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, doc.NumPages())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pageWorkers)
	for i := range pages {
		g.Go(func() error {
			fragments, err := doc.PageFragments(gctx, i+1)
			if err != nil {
				return fmt.Errorf("extract page %d: %w", i+1, err)
			}
			pages[i] = strings.Join(fragments, " ")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.TrimSpace(strings.Join(pages, " ")), nil
}
