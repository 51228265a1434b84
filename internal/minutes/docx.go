package minutes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/common/units"
	"github.com/gomutex/godocx/docx"

	"github.com/sebayufm/notulen/internal/logger"
)

const (
	fontName  = "Calibri"
	fontSize  = 11
	titleSize = 14

	uploadsPrefix = "/uploads/"
	logoTimeout   = 10 * time.Second
)

// DocxWriter exports official minutes as a Word document.
type DocxWriter struct {
	uploadsDir string
	client     *http.Client
	logger     logger.Logger
}

// NewDocxWriter creates a DocxWriter resolving "/uploads/..." logos under uploadsDir.
func NewDocxWriter(uploadsDir string, log logger.Logger) *DocxWriter {
	return &DocxWriter{
		uploadsDir: uploadsDir,
		client:     &http.Client{Timeout: logoTimeout},
		logger:     log,
	}
}

// Write renders o and the signature fields of meta into a .docx at outputPath.
// A logo that cannot be loaded is logged and left out.
func (w *DocxWriter) Write(ctx context.Context, o Official, meta Meta, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	if o.Header.Logo != "" {
		w.addLogo(ctx, doc, o.Header.Logo)
	}

	for _, line := range strings.Split(o.Header.Instansi, "\n") {
		addStyledRun(doc.AddParagraph(""), line, true, fontSize)
	}
	addStyledRun(doc.AddParagraph(""), o.Header.Alamat, false, fontSize)
	addStyledRun(doc.AddParagraph(""), strings.Repeat("_", 64), false, fontSize)

	addStyledRun(doc.AddParagraph(""), o.Laporan.Judul, true, titleSize)

	for _, row := range detailRows(o.Laporan) {
		p := doc.AddParagraph("")
		addStyledRun(p, row[0]+"\t: ", false, fontSize)
		addStyledRun(p, row[1], false, fontSize)
	}

	doc.AddParagraph("")
	addStyledRun(doc.AddParagraph(""), "VII. Peserta Rapat", false, fontSize)
	if len(o.Laporan.Peserta) == 0 {
		addStyledRun(doc.AddParagraph(""), emptyMark, false, fontSize)
	}
	for i, p := range o.Laporan.Peserta {
		addStyledRun(doc.AddParagraph(""), fmt.Sprintf("%d. %s", i+1, p), false, fontSize)
	}

	doc.AddParagraph("")
	addStyledRun(doc.AddParagraph(""), "VIII. Hasil Rapat", false, fontSize)
	for _, sec := range hasilSections(o.Hasil) {
		if len(sec.Items) == 0 {
			continue
		}
		addStyledRun(doc.AddParagraph(""), sec.Title+":", true, fontSize)
		for i, it := range sec.Items {
			addStyledRun(doc.AddParagraph(""), fmt.Sprintf("%d. %s", i+1, it), false, fontSize)
		}
	}

	doc.AddParagraph("")
	addStyledRun(doc.AddParagraph(""), "IX. Penutup", false, fontSize)
	addStyledRun(doc.AddParagraph(""), o.Penutup, false, fontSize)

	addSignature(doc, meta)

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func addSignature(doc *docx.RootDoc, meta Meta) {
	for range 3 {
		doc.AddParagraph("")
	}

	addStyledRun(doc.AddParagraph(""), meta.TTDJabatan, false, fontSize)
	doc.AddParagraph("")
	doc.AddParagraph("")

	name := meta.TTDNama
	if name == "" {
		name = strings.Repeat("_", 20)
	}
	addStyledRun(doc.AddParagraph(""), name, true, fontSize)
	addStyledRun(doc.AddParagraph(""), meta.TTDPangkat, false, fontSize)
	if meta.TTDNIP != "" {
		addStyledRun(doc.AddParagraph(""), "NIP. "+meta.TTDNIP, true, fontSize)
	}
}

func (w *DocxWriter) addLogo(ctx context.Context, doc *docx.RootDoc, logo string) {
	path, cleanup, err := w.resolveLogo(ctx, strings.TrimSpace(logo))
	if err != nil {
		w.logger.Warn(ctx, "Skipping logo %s: %v", logo, err)
		return
	}
	defer cleanup()

	if _, err := doc.AddPicture(path, units.Inch(1), units.Inch(1)); err != nil {
		w.logger.Warn(ctx, "Skipping logo %s: %v", logo, err)
	}
}

// resolveLogo returns a local file holding the logo image.
func (w *DocxWriter) resolveLogo(ctx context.Context, logo string) (string, func(), error) {
	noop := func() {}

	if strings.HasPrefix(logo, uploadsPrefix) {
		path := filepath.Join(w.uploadsDir, filepath.Clean("/"+strings.TrimPrefix(logo, uploadsPrefix)))
		if _, err := os.Stat(path); err != nil {
			return "", noop, fmt.Errorf("logo file not found: %w", err)
		}
		return path, noop, nil
	}

	u, err := url.Parse(logo)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", noop, fmt.Errorf("unsupported logo path or URL scheme")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logo, nil)
	if err != nil {
		return "", noop, err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return "", noop, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", noop, fmt.Errorf("fetch logo: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "logo_*"+filepath.Ext(u.Path))
	if err != nil {
		return "", noop, err
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		cleanup()
		return "", noop, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, err
	}
	return tmp.Name(), cleanup, nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
