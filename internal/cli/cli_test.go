package cli

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronzipp/escape-the-upside-down/internal/client"
	"github.com/aaronzipp/escape-the-upside-down/internal/config"
	"github.com/aaronzipp/escape-the-upside-down/internal/logging"
	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "play")
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestPlay(t *testing.T) {
	var mu sync.Mutex
	var requested []string
	handler := NewHandler(config.Default(), logging.Discard())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested = append(requested, r.Method+" "+r.URL.RequestURI())
		mu.Unlock()
		handler.ServeHTTP(w, r)
	}))
	defer srv.Close()

	var out bytes.Buffer
	report, err := Play(context.Background(), client.New(srv.URL, 5*time.Second), "Hellfire Club", &out)
	require.NoError(t, err, out.String())

	assert.NotEmpty(t, report.TeamID)
	assert.Contains(t, report.EscapeKey, "ESCAPE_Hellfire Club_")
	require.Len(t, report.Escapes, 2)

	// Exactly one request completed the pair
	successes := 0
	for _, role := range models.Roles {
		if report.Escapes[role].Success {
			successes++
		}
	}
	assert.Equal(t, 1, successes)

	// One hint goes through, the next two hit the team cooldown
	require.Len(t, report.Hints, 3)
	assert.NotEmpty(t, report.Hints[0].Hint)
	for _, h := range report.Hints[1:] {
		assert.NotEmpty(t, h.Warning)
		assert.Empty(t, h.Hint)
	}
	require.NotNil(t, report.Status)
	assert.True(t, report.Status.Escaped)
	assert.Equal(t, 2, report.Status.EscapeAttempts)

	id := report.TeamID
	mu.Lock()
	assert.Subset(t, requested, []string{
		"GET /",
		"GET /" + id + "/hint?friend=Eleven",
		"GET /" + id + "/hint?friend=Mike",
		"GET /" + id + "/hint",
		"GET /team_status/" + id,
		"GET /admin/all_teams",
	})
	mu.Unlock()

	text := out.String()
	assert.Contains(t, text, "POST /create_team")
	assert.Contains(t, text, "PATCH /fix")
	assert.Contains(t, text, "cooldown, ")
	assert.Contains(t, text, "GET /team_status/"+id)
	assert.Contains(t, text, "Team Hellfire Club successfully escaped the Upside Down!")
	assert.NotContains(t, text, "✗")
}

func TestPlay_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var out bytes.Buffer
	_, err := Play(context.Background(), client.New(url, time.Second), "Party", &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "✗")
}

func TestServeListener_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := config.Default()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ServeListener(ctx, ln, cfg, logging.Discard())
	}()

	c := client.New("http://"+ln.Addr().String(), 2*time.Second)
	require.Eventually(t, func() bool {
		_, err := c.Overview(context.Background())
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ESCAPE_SERVER_ADDR", ":7000")
	t.Setenv("ESCAPE_LOG_LEVEL", "WARN")

	root := NewRootCommand()
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	require.NoError(t, serve.ParseFlags([]string{"--log-level", "DEBUG", "--public-url", "https://escape.example"}))

	cfg, err := loadConfig(serve, &RootOptions{})
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr, "env applies when the flag is unset")
	assert.Equal(t, "https://escape.example", cfg.Server.PublicURL)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
}

func TestPlayCommand_URLFromConfig(t *testing.T) {
	srv := httptest.NewServer(NewHandler(config.Default(), logging.Discard()))
	defer srv.Close()

	t.Chdir(t.TempDir())
	t.Setenv("ESCAPE_SERVER_PUBLIC_URL", srv.URL)

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"play", "--team", "Byers"})
	require.NoError(t, root.Execute(), out.String())
	assert.Contains(t, out.String(), "Team Byers successfully escaped the Upside Down!")
}
