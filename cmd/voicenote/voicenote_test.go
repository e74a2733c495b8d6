package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"voice-notes/internal/auth"
	"voice-notes/internal/db"
	"voice-notes/internal/form"
	"voice-notes/internal/handlers"
	"voice-notes/internal/models"
	"voice-notes/internal/resources"
)

func TestDictateTask(t *testing.T) {
	f := form.TaskForm()
	input := "Renew passport.\n\n  Book the appointment online  \n"
	require.NoError(t, dictate(context.Background(), strings.NewReader(input), f))

	assert.Equal(t, "Renew passport", f.Get("title"))
	assert.Equal(t, "Book the appointment online", f.Get("description"))
}

func TestDictateNothing(t *testing.T) {
	f := form.NoteForm()
	require.NoError(t, dictate(context.Background(), strings.NewReader("\n \n"), f))
	assert.Empty(t, f.Get("content"))
}

func TestTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	_, err := readToken(path)
	assert.ErrorIs(t, err, errNotLoggedIn)

	require.NoError(t, writeToken(path, "abc.def.ghi"))
	token, err := readToken(path)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestCommandsAgainstServer(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	database, err := db.New(log, filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	a := auth.New(database, log, "cli-secret", time.Hour, auth.WithBcryptCost(bcrypt.MinCost))
	h := handlers.New(resources.New(database, log), a, log, 5*time.Second, "test")
	srv := httptest.NewServer(h.Routes(context.Background(), handlers.RouteOptions{}))
	t.Cleanup(srv.Close)

	global := []string{"--server", srv.URL, "--token", filepath.Join(t.TempDir(), "token")}
	with := func(args ...string) []string { return append(args, global...) }

	out := run(t, "", with("register", "--name", "Alice", "--email", "alice@example.com", "--password", "correct horse")...)
	assert.Contains(t, out, "Logged in as Alice")

	run(t, "milk\neggs\n", with("notes", "add", "--title", "Groceries", "--voice")...)

	out = run(t, "", with("notes", "list", "--json")...)
	var notes []models.Note
	require.NoError(t, json.Unmarshal([]byte(out), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "Groceries", notes[0].Title)
	assert.Equal(t, "milk eggs", notes[0].Content)

	run(t, "Ship v1. Tag the release\n", with("tasks", "add", "--voice", "--json=false")...)
	out = run(t, "", with("tasks", "list", "--json")...)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ship v1", tasks[0].Title)
	assert.Equal(t, "Tag the release", tasks[0].Description)

	out = run(t, "Check the changelog\n", with("tasks", "edit", tasks[0].ID, "--voice", "--priority", "high", "--json=false")...)
	assert.Contains(t, out, "Updated task "+tasks[0].ID)
	out = run(t, "", with("tasks", "list", "--json")...)
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ship v1", tasks[0].Title)
	assert.Equal(t, "Check the changelog", tasks[0].Description)
	assert.Equal(t, models.PriorityHigh, tasks[0].Priority)

	out = run(t, "", with("tasks", "toggle", tasks[0].ID, "--json=false")...)
	assert.Contains(t, out, "is done")

	out = run(t, "", with("stats")...)
	assert.Contains(t, out, "tasks: 1 (1 done, 0 pending)")
}
