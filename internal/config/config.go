package config

import (
	"fmt"
	"time"
)

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Minutes     MinutesConfig     `yaml:"minutes"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Server      ServerConfig      `yaml:"server"`
	Station     StationConfig     `yaml:"station"`
	Schedule    []ScheduleSlot    `yaml:"schedule"`
}

type WhisperConfig struct {
	Python       string        `yaml:"python"`
	Device       string        `yaml:"device"`
	Compute      string        `yaml:"compute"`
	Language     string        `yaml:"language"`
	Prompt       string        `yaml:"prompt"`
	BeamSize     int           `yaml:"beam_size"`
	BestOf       int           `yaml:"best_of"`
	MinSilenceMs int           `yaml:"min_silence_ms"`
	Timeout      time.Duration `yaml:"timeout"`
}

type FFmpegConfig struct {
	Binary         string `yaml:"binary"`
	ProbeBinary    string `yaml:"probe_binary"`
	SegmentSeconds int    `yaml:"segment_seconds"`
	Loudnorm       string `yaml:"loudnorm"`
}

type PathsConfig struct {
	Uploads string `yaml:"uploads"`
	Inbox   string `yaml:"inbox"`
	Temp    string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type MinutesConfig struct {
	MaxEach           int `yaml:"max_each"`
	SummarySentences  int `yaml:"summary_sentences"`
	FallbackSentences int `yaml:"fallback_sentences"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type DatabaseConfig struct {
	DSN         string `yaml:"dsn"`
	MaxConns    int    `yaml:"max_conns"`
	MinConns    int    `yaml:"min_conns"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type StationConfig struct {
	Name          string `yaml:"name"`
	NowPlayingURL string `yaml:"now_playing_url"`
	Instansi      string `yaml:"instansi"`
	Alamat        string `yaml:"alamat"`
	TTDJabatan    string `yaml:"ttd_jabatan"`
}

// ScheduleSlot seeds the broadcast schedule. DayOfWeek is 0=Monday .. 6=Sunday.
type ScheduleSlot struct {
	DayOfWeek int    `yaml:"day_of_week"`
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
	Program   string `yaml:"program"`
	Host      string `yaml:"host"`
}

// DefaultPrompt biases recognition towards station and regional names.
const DefaultPrompt = "Sebayu FM, Diskominfo, Tegal, Slawi, Brebes, " +
	"Berita Pagi, Musik Santai, Relaks Malam, Sabtu Ceria, Pemkab, notulensi rapat, agenda, keputusan."

var (
	validDevices  = map[string]bool{"auto": true, "cuda": true, "cpu": true}
	validComputes = map[string]bool{"float16": true, "int8_float16": true, "int8": true}
)

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Paths.Uploads == "" {
		return fmt.Errorf("paths.uploads is required")
	}

	if c.Whisper.Python == "" {
		c.Whisper.Python = "python3"
	}
	if c.Whisper.Device == "" {
		c.Whisper.Device = "auto"
	}
	if !validDevices[c.Whisper.Device] {
		return fmt.Errorf("whisper.device must be auto, cuda or cpu, got %q", c.Whisper.Device)
	}
	if c.Whisper.Compute == "" {
		c.Whisper.Compute = "float16"
	}
	if !validComputes[c.Whisper.Compute] {
		return fmt.Errorf("whisper.compute must be float16, int8_float16 or int8, got %q", c.Whisper.Compute)
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "id"
	}
	if c.Whisper.Prompt == "" {
		c.Whisper.Prompt = DefaultPrompt
	}
	if c.Whisper.BeamSize == 0 {
		c.Whisper.BeamSize = 5
	}
	if c.Whisper.BestOf == 0 {
		c.Whisper.BestOf = 5
	}
	if c.Whisper.MinSilenceMs == 0 {
		c.Whisper.MinSilenceMs = 500
	}

	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.FFmpeg.ProbeBinary == "" {
		c.FFmpeg.ProbeBinary = "ffprobe"
	}
	if c.FFmpeg.SegmentSeconds == 0 {
		c.FFmpeg.SegmentSeconds = 600
	}
	if c.FFmpeg.SegmentSeconds < 0 {
		return fmt.Errorf("ffmpeg.segment_seconds must be positive")
	}
	if c.FFmpeg.Loudnorm == "" {
		c.FFmpeg.Loudnorm = "loudnorm=I=-16:TP=-2:LRA=11"
	}

	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	if c.Minutes.MaxEach == 0 {
		c.Minutes.MaxEach = 40
	}
	if c.Minutes.SummarySentences == 0 {
		c.Minutes.SummarySentences = 18
	}
	if c.Minutes.FallbackSentences == 0 {
		c.Minutes.FallbackSentences = 30
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = 2
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 24 * time.Hour
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	if c.Station.Instansi == "" {
		c.Station.Instansi = "PEMERINTAH KOTA TEGAL\nSEKRETARIAT DPRD"
	}
	if c.Station.Alamat == "" {
		c.Station.Alamat = "Jl. Pemuda No. 4 Tegal • Telp/Faks (0283) 321506 Kode Pos 52111"
	}
	if c.Station.TTDJabatan == "" {
		c.Station.TTDJabatan = "SEKRETARIS DPRD KOTA TEGAL"
	}

	for i, s := range c.Schedule {
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
			return fmt.Errorf("schedule[%d].day_of_week must be 0..6", i)
		}
		if s.Program == "" {
			return fmt.Errorf("schedule[%d].program is required", i)
		}
	}

	return nil
}
