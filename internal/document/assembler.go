package document

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"sync"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// Dim is the size of a page in PDF user space units.
type Dim = types.Dim

var disableConfigDir sync.Once

// Assembler turns an ordered set of raster images into a PDF with one page per image.
type Assembler struct {
	decodeLimit int
}

// NewAssembler creates an Assembler. pdfcpu's on-disk config directory is disabled.
func NewAssembler() *Assembler {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Assembler{decodeLimit: 4}
}

func newConfiguration() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// Build returns the serialized PDF. Page i has exactly the pixel dimensions of blobs[i]
// with the image drawn at the origin. Any blob that cannot be embedded fails the whole build.
func (a *Assembler) Build(ctx context.Context, blobs [][]byte) ([]byte, error) {
	if len(blobs) == 0 {
		return nil, models.EmbedError(msgNoImages, fmt.Errorf("no images to assemble"))
	}

	sizes := make([]image.Point, len(blobs))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(a.decodeLimit)
	for i, blob := range blobs {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, format, err := image.Decode(bytes.NewReader(blob))
			if err != nil {
				return models.EmbedError(
					msgEmbedFailed,
					fmt.Errorf("page %d: failed to decode image: %w", i+1, err),
				)
			}
			b := img.Bounds()
			if b.Dx() <= 0 || b.Dy() <= 0 {
				return models.EmbedError(
					msgEmbedFailed,
					fmt.Errorf("page %d: empty %s image", i+1, format),
				)
			}
			sizes[i] = b.Size()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if models.KindOf(err) == models.KindEmbed {
			return nil, err
		}
		return nil, models.UnexpectedError(msgBuildCancelled, err)
	}

	readers := make([]io.Reader, len(blobs))
	for i, blob := range blobs {
		readers[i] = bytes.NewReader(blob)
	}

	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.Full

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, imp, newConfiguration()); err != nil {
		return nil, models.EmbedError(
			msgEmbedFailed,
			fmt.Errorf("failed to import images into PDF: %w", err),
		)
	}

	slog.Debug("PDF assembled.", "pageCount", len(blobs), "bytes", out.Len(), "firstPage", sizes[0].String())
	return out.Bytes(), nil
}

// Inspect returns the media box dimensions of every page of a serialized PDF.
func Inspect(pdf []byte) ([]Dim, error) {
	dims, err := api.PageDims(bytes.NewReader(pdf), newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	return dims, nil
}
