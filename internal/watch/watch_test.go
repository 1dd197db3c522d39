package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnore(t *testing.T) {
	for name, want := range map[string]bool{
		"/m/Intro.page":   false,
		"/m/.Intro.page":  true,
		"/m/Intro.page~":  true,
		"/m/.Intro.swp":   true,
		"/m/#Intro.page#": true,
		"/m/api.yaml":     false,
	} {
		assert.Equal(t, want, shouldIgnore(name), name)
	}
}

func TestWatchSet_Relevant(t *testing.T) {
	dir := t.TempDir()
	manual := filepath.Join(dir, "manual")
	out := filepath.Join(manual, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))
	feed := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(feed, []byte("files: []\n"), 0o644))

	set, err := newWatchSet([]string{manual, feed, ""}, []string{out})
	require.NoError(t, err)

	assert.True(t, set.relevant(feed))
	assert.True(t, set.relevant(filepath.Join(manual, "guide", "Intro.page")))
	assert.False(t, set.relevant(filepath.Join(out, "index.html")))
	assert.False(t, set.relevant(filepath.Join(dir, "other.yaml")))
	assert.False(t, set.relevant(filepath.Join(manual, ".hidden")))
}

func TestNewWatchSet_Missing(t *testing.T) {
	_, err := newWatchSet([]string{filepath.Join(t.TempDir(), "nope")}, nil)
	require.Error(t, err)
}

func TestRun_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rebuilt := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, []string{dir}, Options{Debounce: 20 * time.Millisecond}, func(context.Context) error {
			rebuilt <- struct{}{}
			return nil
		})
	}()

	// The watcher registers asynchronously; keep touching until it notices.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
loop:
	for i := 0; ; i++ {
		select {
		case <-rebuilt:
			break loop
		case <-tick.C:
			require.NoError(t, os.WriteFile(filepath.Join(dir, "Intro.page"), []byte{byte('a' + i%26)}, 0o644))
		case <-deadline:
			t.Fatal("no rebuild after file change")
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
