package httpapi

import (
	"encoding/json"
	"strings"

	"github.com/sebayufm/notulen/internal/minutes"
	"github.com/sebayufm/notulen/internal/transcribe"
)

type transcribeForm struct {
	Program     string `form:"program" validate:"max=200"`
	Mode        string `form:"mode" validate:"omitempty,oneof=auto manual"`
	ModelChoice string `form:"model_choice" validate:"omitempty,oneof=tiny base small medium"`
	Chunk       string `form:"chunk"`
	Summary     string `form:"summary"`
}

func (f transcribeForm) options() transcribe.Options {
	opts := transcribe.Options{
		Mode:        transcribe.ModeAuto,
		ManualModel: f.ModelChoice,
		Chunk:       checked(f.Chunk),
	}
	if f.Mode == string(transcribe.ModeManual) {
		opts.Mode = transcribe.ModeManual
	}
	if opts.ManualModel == "" {
		opts.ManualModel = "small"
	}
	return opts
}

func (f transcribeForm) program() string {
	if p := strings.TrimSpace(f.Program); p != "" {
		return p
	}
	return "Tanpa Nama"
}

// checked reports whether an HTML checkbox style value is set.
func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

type listQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type chatRequest struct {
	Text     string `json:"text" validate:"max=2000"`
	Username string `json:"username" validate:"max=64"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type jobResponse struct {
	JobID string `json:"job_id"`
}

type textResponse struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// keywordList decodes either a JSON string array or a single comma
// separated string.
type keywordList []string

func (k *keywordList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		var out []string
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*k = out
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*k = minutes.ParseKeywordList(raw)
	return nil
}

type metaRequest struct {
	Instansi string   `json:"instansi" validate:"max=300"`
	Alamat   string   `json:"alamat" validate:"max=300"`
	Logo     string   `json:"logo" validate:"omitempty,max=500"`
	Nomor    string   `json:"nomor" validate:"max=100"`
	Jenis    string   `json:"jenis" validate:"max=100"`
	Hari     string   `json:"hari" validate:"max=20"`
	Tanggal  string   `json:"tanggal" validate:"max=50"`
	Waktu    string   `json:"waktu" validate:"max=50"`
	Tempat   string   `json:"tempat" validate:"max=200"`
	Acara    string   `json:"acara" validate:"max=300"`
	Pimpinan string   `json:"pimpinan" validate:"max=200"`
	Notulis  string   `json:"notulis" validate:"max=200"`
	Peserta  []string `json:"peserta" validate:"max=200,dive,max=200"`
	Penutup  string   `json:"penutup" validate:"max=2000"`

	TTDJabatan string `json:"ttd_jabatan" validate:"max=200"`
	TTDNama    string `json:"ttd_nama" validate:"max=200"`
	TTDPangkat string `json:"ttd_pangkat" validate:"max=200"`
	TTDNIP     string `json:"ttd_nip" validate:"max=50"`

	KwKeputusan    keywordList `json:"kw_keputusan" validate:"max=100"`
	KwTindakLanjut keywordList `json:"kw_tindak_lanjut" validate:"max=100"`
	KwIsu          keywordList `json:"kw_isu" validate:"max=100"`
	KwArahan       keywordList `json:"kw_arahan" validate:"max=100"`
	KwCatatan      keywordList `json:"kw_catatan" validate:"max=100"`
}

func (r metaRequest) meta() minutes.Meta {
	trim := strings.TrimSpace
	var peserta []string
	for _, p := range r.Peserta {
		if p = trim(p); p != "" {
			peserta = append(peserta, p)
		}
	}
	return minutes.Meta{
		Instansi:       trim(r.Instansi),
		Alamat:         trim(r.Alamat),
		Logo:           trim(r.Logo),
		Nomor:          trim(r.Nomor),
		Jenis:          trim(r.Jenis),
		Hari:           trim(r.Hari),
		Tanggal:        trim(r.Tanggal),
		Waktu:          trim(r.Waktu),
		Tempat:         trim(r.Tempat),
		Acara:          trim(r.Acara),
		Pimpinan:       trim(r.Pimpinan),
		Notulis:        trim(r.Notulis),
		Peserta:        peserta,
		Penutup:        trim(r.Penutup),
		TTDJabatan:     trim(r.TTDJabatan),
		TTDNama:        trim(r.TTDNama),
		TTDPangkat:     trim(r.TTDPangkat),
		TTDNIP:         trim(r.TTDNIP),
		KwKeputusan:    r.KwKeputusan,
		KwTindakLanjut: r.KwTindakLanjut,
		KwIsu:          r.KwIsu,
		KwArahan:       r.KwArahan,
		KwCatatan:      r.KwCatatan,
	}
}

type minutesResponse struct {
	Official minutes.Official `json:"official"`
	Markdown string           `json:"markdown"`
	Meta     minutes.Meta     `json:"meta"`
}
