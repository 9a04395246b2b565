package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/summ/internal/adapters/pdf"
	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFileKind(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		file string
		data []byte
		want FileKind
	}{
		{name: "txt extension", file: "notes.txt", data: []byte{0x00, 0x01}, want: FileKindText},
		{name: "upper-case pdf extension", file: "PAPER.PDF", data: []byte("whatever"), want: FileKindPDF},
		{name: "sniffed pdf", file: "download", data: []byte("%PDF-1.7\n..."), want: FileKindPDF},
		{name: "sniffed text", file: "README", data: []byte("plain words"), want: FileKindText},
		{name: "image", file: "photo.png", data: []byte("\x89PNG\r\n\x1a\n"), want: FileKindUnsupported},
		{name: "markdown is not accepted by extension", file: "doc.md", data: []byte("<html><body>"), want: FileKindUnsupported},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectFileKind(tc.file, tc.data))
		})
	}
}

func TestInputServiceLoadsTextVerbatim(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("  line one\nline two\n"), 0o600))

	file, err := NewInputService(mocks.NewMockDocumentParser(t)).LoadFile(context.Background(), LoadFileCommand{Path: path})
	require.NoError(t, err)
	assert.Equal(t, LoadedFile{Name: "notes.txt", Kind: FileKindText, Text: "  line one\nline two\n"}, file)
}

func TestInputServiceReadFailure(t *testing.T) {
	t.Parallel()

	_, err := NewInputService(mocks.NewMockDocumentParser(t)).LoadFile(context.Background(), LoadFileCommand{Path: filepath.Join(t.TempDir(), "missing.txt")})
	require.ErrorIs(t, err, domain.ErrIO)
}

func TestInputServiceRejectsUnsupportedType(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "image.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a...."), 0o600))

	_, err := NewInputService(mocks.NewMockDocumentParser(t)).LoadFile(context.Background(), LoadFileCommand{Path: path})
	require.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestInputServiceJoinsPdfPagesPositionally(t *testing.T) {
	t.Parallel()

	parser := mocks.NewMockDocumentParser(t)
	doc := mocks.NewMockDocument(t)
	data := []byte("%PDF-1.4 fake")

	parser.EXPECT().Open(data).Return(doc, nil).Once()
	doc.EXPECT().NumPages().Return(3).Once()

	// Page 1 finishes last; the join must still follow page order.
	var mu sync.Mutex
	finished := []int{}
	release := make(chan struct{})
	doc.EXPECT().PageFragments(mockAnyContext(), 1).RunAndReturn(func(ctx context.Context, page int) ([]string, error) {
		<-release
		mu.Lock()
		finished = append(finished, page)
		mu.Unlock()
		return []string{"Alpha", "beta"}, nil
	}).Once()
	for page, frags := range map[int][]string{2: {"gamma"}, 3: {"delta", "epsilon "}} {
		doc.EXPECT().PageFragments(mockAnyContext(), page).RunAndReturn(func(ctx context.Context, p int) ([]string, error) {
			mu.Lock()
			finished = append(finished, p)
			if len(finished) == 2 {
				close(release)
			}
			mu.Unlock()
			return frags, nil
		}).Once()
	}

	service := NewInputService(parser)
	service.readFile = func(string) ([]byte, error) { return data, nil }

	file, err := service.LoadFile(context.Background(), LoadFileCommand{Path: "/tmp/paper.pdf"})
	require.NoError(t, err)
	assert.Equal(t, FileKindPDF, file.Kind)
	assert.Equal(t, "Alpha beta gamma delta epsilon", file.Text)
	assert.Equal(t, 1, finished[2])
}

func TestInputServiceExtractsFixturePdf(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(filepath.Join("..", "adapters", "pdf", "testdata", "two-pages.pdf"))
	require.NoError(t, err)

	text, err := NewInputService(pdf.NewParser()).ExtractPDF(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Hello from page one second line Page two text", text)
}

func TestInputServicePdfPageFailure(t *testing.T) {
	t.Parallel()

	parser := mocks.NewMockDocumentParser(t)
	doc := mocks.NewMockDocument(t)

	parser.EXPECT().Open([]byte("pdf")).Return(doc, nil).Once()
	doc.EXPECT().NumPages().Return(1).Once()
	doc.EXPECT().PageFragments(mockAnyContext(), 1).Return(nil, domain.ErrIO).Once()

	_, err := NewInputService(parser).ExtractPDF(context.Background(), []byte("pdf"))
	require.ErrorIs(t, err, domain.ErrIO)
}

func TestInputServicePdfOpenFailure(t *testing.T) {
	t.Parallel()

	parser := mocks.NewMockDocumentParser(t)
	parser.EXPECT().Open([]byte("junk")).Return(nil, errors.New("malformed xref")).Once()

	_, err := NewInputService(parser).ExtractPDF(context.Background(), []byte("junk"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "malformed xref")
}

func TestInputServiceEmptyPdf(t *testing.T) {
	t.Parallel()

	parser := mocks.NewMockDocumentParser(t)
	doc := mocks.NewMockDocument(t)
	parser.EXPECT().Open([]byte("pdf")).Return(doc, nil).Once()
	doc.EXPECT().NumPages().Return(0).Once()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	text, err := NewInputService(parser).ExtractPDF(ctx, []byte("pdf"))
	require.NoError(t, err)
	assert.Empty(t, text)
}
