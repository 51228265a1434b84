package minutes

import (
	"fmt"
	"strings"
	"time"
)

const (
	// CreatedAtLayout is the stored transcript timestamp layout.
	CreatedAtLayout = "2006-01-02 15:04:05"

	localMaxEach    = 40
	officialMaxEach = 50

	defaultJenis   = "Terbuka"
	defaultPenutup = "Rapat ditutup pada waktu yang telah ditentukan."
)

var (
	dayNames = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

	monthNames = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli",
		"Agustus", "September", "Oktober", "November", "Desember"}

	agenda = []string{"Pembukaan", "Pemaparan/Pembahasan", "Keputusan", "Tindak Lanjut", "Penutup"}
)

// Source is the transcript data a minutes document is built from.
type Source struct {
	Transcript string
	Summary    string
	Program    string
	CreatedAt  string
}

// Sections holds the text of every category bucket.
type Sections struct {
	Keputusan    []string `json:"keputusan"`
	TindakLanjut []string `json:"tindak_lanjut"`
	Isu          []string `json:"isu"`
	Arahan       []string `json:"arahan"`
	Catatan      []string `json:"catatan"`
}

// Local is the compact minutes layout.
type Local struct {
	Title   string   `json:"title"`
	Tanggal string   `json:"tanggal"`
	Agenda  []string `json:"agenda"`
	Sections
}

// Header is the official letterhead.
type Header struct {
	Instansi string `json:"instansi"`
	Alamat   string `json:"alamat"`
	Logo     string `json:"logo"`
}

// Laporan is the meeting detail block of the official layout.
type Laporan struct {
	Judul    string   `json:"judul"`
	Jenis    string   `json:"jenis"`
	Hari     string   `json:"hari"`
	Tanggal  string   `json:"tanggal"`
	Waktu    string   `json:"waktu"`
	Acara    string   `json:"acara"`
	Pimpinan string   `json:"pimpinan"`
	Peserta  []string `json:"peserta"`
}

// Official is the numbered government minutes layout (sections I to IX).
type Official struct {
	Header         Header   `json:"header"`
	Laporan        Laporan  `json:"laporan"`
	Hasil          Sections `json:"hasil"`
	Penutup        string   `json:"penutup"`
	Title          string   `json:"title"`
	TanggalDisplay string   `json:"tanggal_display"`
}

// BuildLocal classifies src into the compact layout.
func BuildLocal(src Source, meta Meta) Local {
	tanggal := src.CreatedAt
	if t, err := time.Parse(CreatedAtLayout, src.CreatedAt); err == nil {
		tanggal = DayName(t) + ", " + LongDate(t)
	}

	buckets := Extract(src.Transcript, src.Summary, localMaxEach, meta.CustomKeywords())
	return Local{
		Title:    title(src.Program),
		Tanggal:  tanggal,
		Agenda:   append([]string(nil), agenda...),
		Sections: sectionsOf(buckets),
	}
}

// BuildOfficial classifies src into the official layout. meta should already
// carry the station defaults (see Meta.WithDefaults).
func BuildOfficial(src Source, meta Meta) Official {
	hari, tanggal := "", src.CreatedAt
	if t, err := time.Parse(CreatedAtLayout, src.CreatedAt); err == nil {
		hari, tanggal = DayName(t), LongDate(t)
	}
	if meta.Tanggal != "" {
		tanggal = meta.Tanggal
	}

	buckets := Extract(src.Transcript, src.Summary, officialMaxEach, meta.CustomKeywords())
	return Official{
		Header: Header{
			Instansi: strings.ToUpper(meta.Instansi),
			Alamat:   meta.Alamat,
			Logo:     meta.Logo,
		},
		Laporan: Laporan{
			Judul:    "Laporan " + src.Program,
			Jenis:    orDefault(meta.Jenis, defaultJenis),
			Hari:     orDefault(meta.Hari, hari),
			Tanggal:  tanggal,
			Waktu:    meta.Waktu,
			Acara:    orDefault(meta.Acara, "Rapat "+src.Program),
			Pimpinan: meta.Pimpinan,
			Peserta:  append([]string{}, meta.Peserta...),
		},
		Hasil:          sectionsOf(buckets),
		Penutup:        orDefault(meta.Penutup, defaultPenutup),
		Title:          title(src.Program),
		TanggalDisplay: tanggal,
	}
}

// DayName returns the Indonesian weekday name of t.
func DayName(t time.Time) string {
	return dayNames[t.Weekday()]
}

// LongDate formats t as "02 Januari 2006".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

func title(program string) string {
	return "NOTULEN RAPAT " + strings.ToUpper(program)
}

func sectionsOf(b Buckets) Sections {
	return Sections{
		Keputusan:    b.Texts(Keputusan),
		TindakLanjut: b.Texts(TindakLanjut),
		Isu:          b.Texts(Isu),
		Arahan:       b.Texts(Arahan),
		Catatan:      b.Texts(Catatan),
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
