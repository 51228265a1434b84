package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/sebayufm/notulen/internal/chatbot"
	"github.com/sebayufm/notulen/internal/config"
	"github.com/sebayufm/notulen/internal/jobs"
	"github.com/sebayufm/notulen/internal/logger"
	"github.com/sebayufm/notulen/internal/minutes"
	"github.com/sebayufm/notulen/internal/store"
	"github.com/sebayufm/notulen/internal/store/storetest"
	"github.com/sebayufm/notulen/internal/transcribe"
)

type fakeJobs struct {
	submitted []jobs.Request
	progress  map[string][]jobs.Progress
	submitErr error
}

func (f *fakeJobs) Submit(_ context.Context, req jobs.Request) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, req)
	return "job-1", nil
}

// Progress pops the next state of a job, repeating the last one.
func (f *fakeJobs) Progress(_ context.Context, jobID string) (jobs.Progress, error) {
	states, ok := f.progress[jobID]
	if !ok {
		return jobs.Progress{}, jobs.ErrUnknownJob
	}
	p := states[0]
	if len(states) > 1 {
		f.progress[jobID] = states[1:]
	}
	return p, nil
}

func (f *fakeJobs) Clean(_ context.Context, id uint) (string, error) {
	if id == 404 {
		return "", store.ErrNotFound
	}
	return "bersih", nil
}

func (f *fakeJobs) Resummarize(context.Context, uint) (string, error) {
	return "- ringkas", nil
}

type fakeDocs struct {
	got minutes.Official
}

func (f *fakeDocs) Write(_ context.Context, o minutes.Official, _ minutes.Meta, path string) error {
	f.got = o
	return os.WriteFile(path, []byte("PK docx"), 0o644)
}

type testEnv struct {
	server  http.Handler
	jobs    *fakeJobs
	store   *storetest.Memory
	docs    *fakeDocs
	uploads string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Paths: config.PathsConfig{Uploads: t.TempDir(), Temp: t.TempDir()},
		Station: config.StationConfig{
			Instansi:   "Pemerintah Kota Tegal",
			Alamat:     "Jl. Pemuda No. 4",
			TTDJabatan: "SEKRETARIS DPRD",
		},
	}
	env := &testEnv{
		jobs:    &fakeJobs{progress: map[string][]jobs.Progress{}},
		store:   storetest.NewMemory(),
		docs:    &fakeDocs{},
		uploads: cfg.Paths.Uploads,
	}
	bot := chatbot.New(env.store, nil, logger.NewNop())
	h := NewHandler(cfg, env.jobs, env.store, bot, env.docs, logger.NewNop())
	h.eventInterval = 5 * time.Millisecond
	env.server = NewServer(config.ServerConfig{}, h)
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedTranscript(t *testing.T, text string) uint {
	t.Helper()
	tr := &store.Transcript{
		Program:    "Rapat Koordinasi",
		Filename:   "rapat.wav",
		Transcript: text,
		Meta:       datatypes.NewJSONType(minutes.Meta{}),
	}
	if err := e.store.CreateTranscript(context.Background(), tr); err != nil {
		t.Fatal(err)
	}
	return tr.ID
}

func multipartUpload(t *testing.T, filename string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if filename != "" {
		fw, err := w.CreateFormFile("audio", filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte("RIFF fake audio"))
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/transcribe", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestTranscribe(t *testing.T) {
	env := newTestEnv(t)
	req := multipartUpload(t, "rapat pagi.mp3", map[string]string{
		"program":      "Warta Pagi",
		"mode":         "manual",
		"model_choice": "medium",
		"chunk":        "on",
		"summary":      "on",
	})

	rec := env.do(req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp jobResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.JobID != "job-1" {
		t.Errorf("job_id = %q", resp.JobID)
	}

	if len(env.jobs.submitted) != 1 {
		t.Fatalf("submitted %d jobs", len(env.jobs.submitted))
	}
	got := env.jobs.submitted[0]
	if got.Program != "Warta Pagi" || got.Filename != "rapat_pagi.mp3" || !got.Summarize {
		t.Errorf("request = %+v", got)
	}
	want := transcribe.Options{Mode: transcribe.ModeManual, ManualModel: "medium", Chunk: true}
	if got.Options != want {
		t.Errorf("options = %+v, want %+v", got.Options, want)
	}
	if _, err := os.Stat(filepath.Join(env.uploads, "rapat_pagi.mp3")); err != nil {
		t.Errorf("upload not saved: %v", err)
	}
}

func TestTranscribeDefaults(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(multipartUpload(t, "a.wav", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := env.jobs.submitted[0]
	if got.Program != "Tanpa Nama" || got.Summarize || got.Options.Mode != transcribe.ModeAuto || got.Options.Chunk {
		t.Errorf("request = %+v", got)
	}
}

func TestTranscribeRejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		fields   map[string]string
	}{
		{name: "missing file"},
		{name: "unsupported format", filename: "video.mp4"},
		{name: "bad mode", filename: "a.wav", fields: map[string]string{"mode": "turbo"}},
		{name: "bad model", filename: "a.wav", fields: map[string]string{"model_choice": "huge"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(multipartUpload(t, tt.filename, tt.fields))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if body := decodeError(t, rec); body.Error != "invalid_argument" || body.Message == "" {
				t.Errorf("error body = %+v", body)
			}
			if len(env.jobs.submitted) != 0 {
				t.Error("rejected upload was submitted")
			}
		})
	}
}

func TestTranscribeSubmitFailureRemovesUpload(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.submitErr = errors.New("redis down")

	rec := env.do(multipartUpload(t, "a.wav", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, err := os.Stat(filepath.Join(env.uploads, "a.wav")); !os.IsNotExist(err) {
		t.Error("upload should be removed when the job cannot be queued")
	}
}

func TestProgress(t *testing.T) {
	env := newTestEnv(t)
	tid := uint(3)
	env.jobs.progress["j"] = []jobs.Progress{{Percent: 100, Message: "Selesai", Done: true, ResultID: &tid}}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/progress/j", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var p map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &p)
	if p["pct"] != float64(100) || p["done"] != true || p["tid"] != float64(3) || p["error"] != nil {
		t.Errorf("body = %s", rec.Body.String())
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/progress/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown job status = %d, want 404", rec.Code)
	}
}

func TestEventsStreamsUntilDone(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.progress["j"] = []jobs.Progress{
		{Percent: 10, Message: "Mulai proses"},
		{Percent: 88, Message: "Menggabungkan teks"},
		{Percent: 100, Message: "Selesai", Done: true},
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/events/j", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	events := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
	if len(events) != 3 {
		t.Fatalf("got %d events: %q", len(events), rec.Body.String())
	}
	if !strings.HasPrefix(events[0], `data: {"pct":10`) || !strings.Contains(events[2], `"done":true`) {
		t.Errorf("events = %q", events)
	}
}

func TestEventsUnknownJobWaits(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/events/none", nil).WithContext(ctx)
	rec := env.do(req)
	if !strings.Contains(rec.Body.String(), `"msg":"Menunggu…"`) {
		t.Errorf("body = %q, want waiting state", rec.Body.String())
	}
}

func TestTranscriptCRUD(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedTranscript(t, "Rapat dimulai.")
	audio := filepath.Join(env.uploads, "rapat.wav")
	if err := os.WriteFile(audio, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/transcripts?limit=5", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Rapat Koordinasi") {
		t.Fatalf("list = %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/transcripts?limit=500", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("limit=500 status = %d, want 400", rec.Code)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/transcripts/1", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"transcript":"Rapat dimulai."`) {
		t.Errorf("get = %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/transcripts/abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", rec.Code)
	}
	rec = env.do(httptest.NewRequest(http.MethodGet, "/transcripts/99", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d", rec.Code)
	}

	rec = env.do(httptest.NewRequest(http.MethodPost, "/transcripts/1/clean", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"text":"bersih"`) {
		t.Errorf("clean = %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(httptest.NewRequest(http.MethodPost, "/transcripts/404/clean", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("clean missing = %d", rec.Code)
	}

	rec = env.do(httptest.NewRequest(http.MethodPost, "/transcripts/1/delete", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(audio); !os.IsNotExist(err) {
		t.Error("audio file should be deleted with the transcript")
	}
	if _, err := env.store.GetTranscript(context.Background(), id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("transcript still stored: %v", err)
	}
}

const meetingText = "Rapat dimulai pukul sembilan. " +
	"Disepakati anggaran kegiatan disetujui sebesar sepuluh juta. " +
	"PIC: Budi menyiapkan laporan paling lambat Jumat."

func TestMinutes(t *testing.T) {
	env := newTestEnv(t)
	env.seedTranscript(t, meetingText)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/transcripts/1/minutes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	var resp minutesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Official.Header.Instansi != "PEMERINTAH KOTA TEGAL" {
		t.Errorf("Instansi = %q, want station default uppercased", resp.Official.Header.Instansi)
	}
	if resp.Official.Title != "NOTULEN RAPAT RAPAT KOORDINASI" {
		t.Errorf("Title = %q", resp.Official.Title)
	}
	if len(resp.Official.Hasil.Keputusan) == 0 {
		t.Errorf("Keputusan empty: %+v", resp.Official.Hasil)
	}
	if !strings.Contains(resp.Markdown, "Keputusan") {
		t.Errorf("Markdown = %q", resp.Markdown)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/transcripts/1/minutes?layout=local", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"agenda"`) {
		t.Errorf("local layout = %d %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateMinutesMeta(t *testing.T) {
	env := newTestEnv(t)
	env.seedTranscript(t, meetingText)

	body := `{"pimpinan":" Ketua DPRD ","peserta":["Anggota A"," ","Anggota B"],` +
		`"kw_catatan":"sambutan, doa","kw_isu":["\\bbanjir\\b"]}`
	req := httptest.NewRequest(http.MethodPut, "/transcripts/1/minutes/meta", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}

	tr, _ := env.store.GetTranscript(context.Background(), 1)
	meta := tr.Meta.Data()
	if meta.Pimpinan != "Ketua DPRD" || len(meta.Peserta) != 2 {
		t.Errorf("stored meta = %+v", meta)
	}
	if len(meta.KwCatatan) != 2 || meta.KwCatatan[1] != "doa" || len(meta.KwIsu) != 1 {
		t.Errorf("keywords = %v %v", meta.KwCatatan, meta.KwIsu)
	}
}

func TestUpdateMinutesMetaRejectsBadPattern(t *testing.T) {
	env := newTestEnv(t)
	env.seedTranscript(t, meetingText)

	req := httptest.NewRequest(http.MethodPut, "/transcripts/1/minutes/meta", strings.NewReader(`{"kw_isu":["(banjir"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	if body := decodeError(t, rec); !strings.Contains(body.Message, "invalid keyword pattern") {
		t.Errorf("message = %q", body.Message)
	}

	tr, _ := env.store.GetTranscript(context.Background(), 1)
	if len(tr.Meta.Data().KwIsu) != 0 {
		t.Error("invalid meta was stored")
	}
}

func TestMinutesDocx(t *testing.T) {
	env := newTestEnv(t)
	env.seedTranscript(t, meetingText)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/transcripts/1/minutes.docx", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "attachment") || !strings.Contains(cd, "Notulen - Rapat Koordinasi - ") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.String() != "PK docx" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if env.docs.got.Laporan.Acara != "Rapat Rapat Koordinasi" {
		t.Errorf("document Acara = %q", env.docs.got.Laporan.Acara)
	}
}

func TestChat(t *testing.T) {
	env := newTestEnv(t)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return env.do(req)
	}

	rec := post(`{"text":"help"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Perintah yang tersedia") {
		t.Errorf("help = %d %s", rec.Code, rec.Body.String())
	}

	rec = post(`{"text":"request Bengawan Solo - Gesang","username":"ani"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "sudah tercatat") {
		t.Fatalf("request = %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/requests", nil))
	var list []store.SongRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Username != "ani" || list[0].Message != "Bengawan Solo - Gesang" {
		t.Errorf("requests = %+v", list)
	}

	rec = post(`{"text":"` + strings.Repeat("a", 2001) + `"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized message status = %d", rec.Code)
	}
}

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: store.ErrNotFound, want: http.StatusNotFound},
		{name: "wrapped not found", err: errors.Join(errors.New("x"), store.ErrNotFound), want: http.StatusNotFound},
		{name: "unknown job", err: jobs.ErrUnknownJob, want: http.StatusNotFound},
		{name: "bad request", err: errBadRequest("nope", nil), want: http.StatusBadRequest},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := toAPIError(tt.err).Status; got != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, got, tt.want)
		}
	}
}
