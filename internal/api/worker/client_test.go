package worker

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Zelus7/fantasy-dvp-builder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSWID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{ABC-123}", "{ABC-123}"},
		{"ABC-123", "{ABC-123}"},
		{"ABC-123}", "{ABC-123}"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSWID(tt.in))
	}
}

func TestCurrentWeekShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"trimmed shape", `{"currentWeek": 5}`, 5},
		{"scoreboard matchup period", `{"status": {"currentMatchupPeriod": 7}}`, 7},
		{"scoreboard latest scoring period", `{"status": {"latestScoringPeriod": 9}}`, 9},
		{"bare scoring period", `{"scoringPeriodId": 4}`, 4},
		{"matchup period wins over scoring period", `{"status": {"currentMatchupPeriod": 7}, "scoringPeriodId": 8}`, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/currentweek", r.URL.Path)
				assert.Equal(t, "2025", r.URL.Query().Get("season"))
				assert.Equal(t, "99", r.URL.Query().Get("leagueId"))
				assert.Equal(t, "s2-value", r.Header.Get("X-ESPN-S2"))
				assert.Equal(t, "{SWID-1}", r.Header.Get("X-ESPN-SWID"))
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(Config{
				BaseURL:  server.URL,
				LeagueID: "99",
				SWID:     "SWID-1", // braces added by normalization
				ESPNS2:   "s2-value",
			})

			week, err := client.CurrentWeek(2025)
			require.NoError(t, err)
			assert.Equal(t, tt.want, week)
		})
	}
}

func TestCurrentWeekUnresolved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"something": "else"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, LeagueID: "99"})
	_, err := client.CurrentWeek(2025)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWeekUnresolved))
}

func TestPublishDVP(t *testing.T) {
	var received models.DVPReport
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/dvp/cache_put", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"ok": true, "key": "dvp:WR"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	report := &models.DVPReport{
		Position: "WR",
		Season:   2025,
		Weeks:    []int{1, 2},
		Through:  2,
		Scoring:  "half",
		Data:     []models.RankedDefense{{Rank: 1, Team: "SF", PointsAllowed: 12.3}},
	}

	ack, err := client.PublishDVP(report)
	require.NoError(t, err)
	assert.Equal(t, true, ack["ok"])
	assert.Equal(t, "WR", received.Position)
	assert.Equal(t, 12.3, received.Data[0].PointsAllowed)
}

func TestPublishDVPFailureSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "bad credentials"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.PublishDVP(&models.DVPReport{Position: "WR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "bad credentials")
}

func TestPublishDVPFailureRawFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream exploded</html>"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.PublishDVP(&models.DVPReport{Position: "WR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
}
