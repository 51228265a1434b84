package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sebayufm/notulen/internal/store"
)

const (
	greeting = "Halo! Ketik 'jadwal', 'siaran', 'lagu sekarang', atau 'request Judul - Artis'."
	helpText = "Perintah yang tersedia:\n" +
		"• jadwal: Lihat jadwal siaran hari ini\n" +
		"• siaran: Info program terjadwal sekarang\n" +
		"• lagu sekarang / status: Info lagu real-time dari Azuracast\n" +
		"• request Judul - Artis: Kirim request lagu\n" +
		"• help: Bantuan"
	fallback     = "Maaf, aku belum paham. Ketik 'help' untuk bantuan."
	requestAck   = "Oke, aku catat. (Akan tersimpan saat kamu kirim.)"
	requestSaved = "\n\n✅ Request kamu sudah tercatat. Terima kasih!"
	noProgram    = "Tidak ada program terjadwal saat ini."

	defaultUsername = "web-user"
	defaultPlatform = "web"
)

var dayNames = [7]string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}

// DayIndex maps a weekday to the schedule index, Monday being 0.
func DayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func (b *implBot) Reply(ctx context.Context, text string) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return greeting
	}
	lower := strings.ToLower(t)

	switch {
	case lower == "help" || lower == "bantuan" || lower == "/start":
		return helpText
	case strings.Contains(lower, "jadwal"):
		return b.todaySchedule(ctx)
	case strings.Contains(lower, "siaran"):
		return b.currentProgram(ctx)
	case strings.Contains(lower, "lagu") || strings.Contains(lower, "status"):
		return b.status(ctx)
	case isRequest(lower):
		return requestAck
	}
	return fallback
}

func (b *implBot) Handle(ctx context.Context, username, platform, text string) (string, error) {
	reply := b.Reply(ctx, text)

	t := strings.TrimSpace(text)
	if !isRequest(strings.ToLower(t)) {
		return reply, nil
	}
	_, payload, _ := strings.Cut(t, " ")
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return reply, nil
	}

	r := &store.SongRequest{
		Username: orDefault(strings.TrimSpace(username), defaultUsername),
		Platform: orDefault(platform, defaultPlatform),
		Message:  payload,
		Status:   "baru",
	}
	if err := b.store.CreateRequest(ctx, r); err != nil {
		return "", fmt.Errorf("save song request: %w", err)
	}
	b.logger.Info(ctx, "Song request from %s: %s", r.Username, r.Message)
	return reply + requestSaved, nil
}

func isRequest(lower string) bool {
	return strings.HasPrefix(lower, "request ") || strings.HasPrefix(lower, "req ")
}

func (b *implBot) todaySchedule(ctx context.Context) string {
	day := DayIndex(b.now().Weekday())
	slots, err := b.store.ScheduleFor(ctx, day)
	if err != nil {
		b.logger.Error(ctx, "Failed to read schedule: %v", err)
		return fmt.Sprintf("[Gagal ambil jadwal: %v]", err)
	}
	return ScheduleText(dayNames[day], slots)
}

// ScheduleText renders one day of slots, one line per slot.
func ScheduleText(day string, slots []store.ScheduleSlot) string {
	if len(slots) == 0 {
		return day + ": belum ada jadwal."
	}
	lines := make([]string, 0, len(slots)+1)
	lines = append(lines, "Jadwal "+day+":")
	for _, s := range slots {
		line := fmt.Sprintf("%s-%s: %s", s.StartTime, s.EndTime, s.Program)
		if s.Host != "" {
			line += " (host: " + s.Host + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (b *implBot) currentProgram(ctx context.Context) string {
	now := b.now()
	slots, err := b.store.ScheduleFor(ctx, DayIndex(now.Weekday()))
	if err != nil {
		b.logger.Error(ctx, "Failed to read schedule: %v", err)
		return noProgram
	}
	slot, ok := CurrentSlot(slots, now.Format("15:04"))
	if !ok {
		return noProgram
	}
	reply := "📻 Program terjadwal sekarang: " + slot.Program
	if slot.Host != "" {
		reply += " oleh " + slot.Host
	}
	return reply
}

// CurrentSlot returns the first slot with start <= hhmm < end.
func CurrentSlot(slots []store.ScheduleSlot, hhmm string) (store.ScheduleSlot, bool) {
	for _, s := range slots {
		if s.StartTime <= hhmm && hhmm < s.EndTime {
			return s, true
		}
	}
	return store.ScheduleSlot{}, false
}

func (b *implBot) status(ctx context.Context) string {
	if b.nowPlaying == nil {
		return fmt.Sprintf("[Gagal ambil status: %v]", errNoStatusAPI)
	}
	s, err := b.nowPlaying.Status(ctx)
	if err != nil {
		b.logger.Warn(ctx, "Now playing lookup failed: %v", err)
		return fmt.Sprintf("[Gagal ambil status: %v]", err)
	}
	return s
}

var errNoStatusAPI = errors.New("now playing URL not configured")

func orDefault(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
