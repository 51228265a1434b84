package minutes

import (
	"encoding/json"
	"strings"
)

// Meta carries the letterhead, meeting details, signature block and custom
// keyword lists an operator attaches to a transcript.
type Meta struct {
	Instansi string   `json:"instansi,omitempty"`
	Alamat   string   `json:"alamat,omitempty"`
	Logo     string   `json:"logo,omitempty"`
	Nomor    string   `json:"nomor,omitempty"`
	Jenis    string   `json:"jenis,omitempty"`
	Hari     string   `json:"hari,omitempty"`
	Tanggal  string   `json:"tanggal,omitempty"`
	Waktu    string   `json:"waktu,omitempty"`
	Tempat   string   `json:"tempat,omitempty"`
	Acara    string   `json:"acara,omitempty"`
	Pimpinan string   `json:"pimpinan,omitempty"`
	Notulis  string   `json:"notulis,omitempty"`
	Peserta  []string `json:"peserta,omitempty"`
	Penutup  string   `json:"penutup,omitempty"`

	TTDJabatan string `json:"ttd_jabatan,omitempty"`
	TTDNama    string `json:"ttd_nama,omitempty"`
	TTDPangkat string `json:"ttd_pangkat,omitempty"`
	TTDNIP     string `json:"ttd_nip,omitempty"`

	KwKeputusan    []string `json:"kw_keputusan,omitempty"`
	KwTindakLanjut []string `json:"kw_tindak_lanjut,omitempty"`
	KwIsu          []string `json:"kw_isu,omitempty"`
	KwArahan       []string `json:"kw_arahan,omitempty"`
	KwCatatan      []string `json:"kw_catatan,omitempty"`
}

// CustomKeywords returns the non-empty keyword lists keyed by category.
func (m Meta) CustomKeywords() map[Category][]string {
	all := map[Category][]string{
		Keputusan:    m.KwKeputusan,
		TindakLanjut: m.KwTindakLanjut,
		Isu:          m.KwIsu,
		Arahan:       m.KwArahan,
		Catatan:      m.KwCatatan,
	}
	out := make(map[Category][]string)
	for c, kws := range all {
		if len(kws) > 0 {
			out[c] = kws
		}
	}
	return out
}

// WithDefaults fills the empty letterhead and signature fields of m from d.
func (m Meta) WithDefaults(d Meta) Meta {
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&m.Instansi, d.Instansi)
	fill(&m.Alamat, d.Alamat)
	fill(&m.Logo, d.Logo)
	fill(&m.TTDJabatan, d.TTDJabatan)
	fill(&m.TTDNama, d.TTDNama)
	fill(&m.TTDPangkat, d.TTDPangkat)
	fill(&m.TTDNIP, d.TTDNIP)
	return m
}

// ParseKeywordList accepts a JSON string array or a comma separated list
// and returns the trimmed non-empty entries.
func ParseKeywordList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &parts); err != nil {
			parts = strings.Split(strings.Trim(raw, "[]"), ",")
		}
	} else {
		parts = strings.Split(raw, ",")
	}

	var out []string
	for _, p := range parts {
		if p = strings.Trim(strings.TrimSpace(p), `"'`); p != "" {
			out = append(out, p)
		}
	}
	return out
}
