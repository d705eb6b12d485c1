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

type collector struct {
	mu    sync.Mutex
	paths []string
}

func (c *collector) add(_ context.Context, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func startInbox(t *testing.T, dir string, c *collector) {
	t.Helper()
	in, err := NewInbox(dir, 50*time.Millisecond, nil, c.add)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = in.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// let the loop start
	time.Sleep(50 * time.Millisecond)
}

func TestInbox_ReportsNewExportOnce(t *testing.T) {
	dir := t.TempDir()
	c := &collector{}
	startInbox(t, dir, c)

	path := filepath.Join(dir, "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte("12/03/2024 09:15 - Carlos: oi\n"), 0o600))
	for i := 0; i < 3; i++ {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
		require.NoError(t, err)
		_, err = f.WriteString("12/03/2024 09:16 - Carlos: mais\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return len(c.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{path}, c.snapshot())
}

func TestInbox_IgnoresNonMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	c := &collector{}
	startInbox(t, dir, c)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chat.txt"), []byte("x"), 0o600))

	assert.Eventually(t, func() bool { return len(c.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "chat.txt", filepath.Base(c.snapshot()[0]))
}

func TestInbox_Existing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o700))

	in, err := NewInbox(dir, 0, nil, nil)
	require.NoError(t, err)

	paths, err := in.Existing()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}, paths)
	assert.Equal(t, DefaultDebounce, in.debounce)
	require.NoError(t, in.watcher.Close())
}

func TestNewInbox_RejectsMissingOrFileDir(t *testing.T) {
	_, err := NewInbox(filepath.Join(t.TempDir(), "missing"), 0, nil, nil)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	_, err = NewInbox(file, 0, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
