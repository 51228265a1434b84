package minutes

import (
	"fmt"
	"strings"
)

const emptyMark = "—"

type section struct {
	Title string
	Items []string
}

// hasilSections pairs each section heading with its items in document order.
func hasilSections(h Sections) []section {
	return []section{
		{"Keputusan", h.Keputusan},
		{"Tindak Lanjut", h.TindakLanjut},
		{"Isu/Kendala", h.Isu},
		{"Arahan", h.Arahan},
		{"Catatan", h.Catatan},
	}
}

// detailRows returns the numbered I to VI rows of the meeting details.
func detailRows(l Laporan) [][2]string {
	return [][2]string{
		{"I. Jenis/Sifat Rapat", orDefault(l.Jenis, emptyMark)},
		{"II. Hari", orDefault(l.Hari, emptyMark)},
		{"III. Tanggal", orDefault(l.Tanggal, emptyMark)},
		{"IV. Waktu", orDefault(l.Waktu, emptyMark)},
		{"V. Acara", orDefault(l.Acara, emptyMark)},
		{"VI. Pimpinan Rapat", orDefault(l.Pimpinan, emptyMark)},
	}
}

// RenderMarkdown renders the official minutes as a markdown document.
func RenderMarkdown(o Official) string {
	var b strings.Builder

	for _, line := range strings.Split(o.Header.Instansi, "\n") {
		fmt.Fprintf(&b, "**%s**  \n", line)
	}
	if o.Header.Alamat != "" {
		fmt.Fprintf(&b, "%s\n", o.Header.Alamat)
	}
	fmt.Fprintf(&b, "\n---\n\n# %s\n\n", o.Laporan.Judul)

	for _, row := range detailRows(o.Laporan) {
		fmt.Fprintf(&b, "- **%s:** %s\n", row[0], row[1])
	}

	b.WriteString("\n## VII. Peserta Rapat\n\n")
	if len(o.Laporan.Peserta) == 0 {
		b.WriteString(emptyMark + "\n")
	}
	for i, p := range o.Laporan.Peserta {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}

	b.WriteString("\n## VIII. Hasil Rapat\n")
	for _, sec := range hasilSections(o.Hasil) {
		if len(sec.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n", sec.Title)
		for i, it := range sec.Items {
			fmt.Fprintf(&b, "%d. %s\n", i+1, it)
		}
	}

	fmt.Fprintf(&b, "\n## IX. Penutup\n\n%s\n", o.Penutup)
	return b.String()
}
