package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type azuraClient struct {
	url    string
	client *http.Client
}

type azuraStatus struct {
	NowPlaying struct {
		Song struct {
			Title  string `json:"title"`
			Artist string `json:"artist"`
		} `json:"song"`
		Live *struct {
			IsLive       bool   `json:"is_live"`
			StreamerName string `json:"streamer_name"`
		} `json:"live"`
	} `json:"now_playing"`
	Listeners struct {
		Current int `json:"current"`
	} `json:"listeners"`
}

func (a *azuraClient) Status(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return "", err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("now playing API returned %s", resp.Status)
	}

	var st azuraStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return "", fmt.Errorf("decode now playing: %w", err)
	}
	return st.String(), nil
}

func (s azuraStatus) String() string {
	song := strings.TrimSpace(s.NowPlaying.Song.Title + " " + s.NowPlaying.Song.Artist)
	if live := s.NowPlaying.Live; live != nil && live.IsLive {
		name := live.StreamerName
		if name == "" {
			name = "penyiar"
		}
		return strings.TrimSpace("🎙️ Sedang live oleh " + name + " memutar " + song)
	}
	return fmt.Sprintf("🎶 Sekarang memutar: %s | 👥 %d pendengar", song, s.Listeners.Current)
}
