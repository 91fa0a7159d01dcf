package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, cfg Config) (context.CancelFunc, chan error) {
	t.Helper()
	w, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, errCh
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()

	var (
		mu    sync.Mutex
		calls int
		got   []string
	)
	done := make(chan struct{}, 1)

	cancel, errCh := startWatcher(t, Config{
		Dir:      dir,
		Debounce: 150 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			calls++
			got = append(got, changed...)
			mu.Unlock()
			select {
			case done <- struct{}{}:
			default:
			}
			return nil
		},
	})

	for _, name := range []string{"a.param", "b.param", "c.param"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callback not invoked")
	}
	// Give a second callback the chance to show up if debouncing failed
	time.Sleep(300 * time.Millisecond)

	cancel()
	require.NoError(t, <-errCh)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
	assert.Subset(t, got, []string{"a.param", "b.param", "c.param"})
}

func TestWatcher_NewSubdirectoryIsWatched(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan []string, 10)

	_, _ = startWatcher(t, Config{
		Dir:      dir,
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			changes <- changed
			return nil
		},
	})

	sub := filepath.Join(dir, "ModA")
	require.NoError(t, os.Mkdir(sub, 0755))
	<-changes

	require.NoError(t, os.WriteFile(filepath.Join(sub, "item.param"), []byte("x"), 0644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case changed := <-changes:
			if assert.ObjectsAreEqual([]string{"ModA/item.param"}, changed) {
				return
			}
		case <-deadline:
			t.Fatal("change inside new directory not reported")
		}
	}
}

func TestWatcher_IgnoresTempFiles(t *testing.T) {
	w, err := New(Config{Dir: t.TempDir(), Ignore: []string{"chr/**"}})
	require.NoError(t, err)
	defer w.fsw.Close()

	assert.True(t, w.ignored(".meo-config-123"))
	assert.True(t, w.ignored("ModA/file.tmp"))
	assert.True(t, w.ignored("chr/c0000.anibnd"))
	assert.False(t, w.ignored("ModA/item.param"))
}

func TestWatcher_RunTwice(t *testing.T) {
	w, err := New(Config{Dir: t.TempDir()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
	assert.Error(t, w.Run(ctx))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{Dir: t.TempDir(), Ignore: []string{"[unclosed"}})
	assert.Error(t, err)

	_, err = New(Config{Dir: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
