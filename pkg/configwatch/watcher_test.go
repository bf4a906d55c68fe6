package configwatch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type recorder struct {
	mu      sync.Mutex
	configs []*config.Config
	errs    []error
}

func (r *recorder) reload(cfg *config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs = append(r.configs, cfg)
}

func (r *recorder) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.configs), len(r.errs)
}

func (r *recorder) last() *config.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configs[len(r.configs)-1]
}

func startWatcher(t *testing.T, path string, rec *recorder) (context.CancelFunc, chan struct{}) {
	t.Helper()

	w, err := New(rec.reload, []string{path},
		WithDebounce(50*time.Millisecond),
		WithErrorHandler(rec.fail),
		WithLogger(quietLogger()),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	return cancel, done
}

func TestReloadOnWrite(t *testing.T) {
	testutil.IsolateEnv(t)
	dir := t.TempDir()
	path := testutil.WriteConfig(t, dir, "categories:\n  - id: work\n")

	rec := &recorder{}
	cancel, done := startWatcher(t, path, rec)
	defer func() { cancel(); <-done }()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("categories:\n  - id: work\n  - id: travel\n"), 0o644))
	}

	require.Eventually(t, func() bool {
		n, _ := rec.counts()
		return n >= 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"work", "travel"}, rec.last().CategoryIDs())
}

func TestInvalidReloadReported(t *testing.T) {
	testutil.IsolateEnv(t)
	dir := t.TempDir()
	path := testutil.WriteConfig(t, dir, "categories:\n  - id: work\n")

	rec := &recorder{}
	cancel, done := startWatcher(t, path, rec)
	defer func() { cancel(); <-done }()

	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - id: Work Stuff\n"), 0o644))

	require.Eventually(t, func() bool {
		_, errs := rec.counts()
		return errs >= 1
	}, 2*time.Second, 10*time.Millisecond)

	n, _ := rec.counts()
	assert.Zero(t, n)
}

func TestIgnoresOtherFiles(t *testing.T) {
	testutil.IsolateEnv(t)
	dir := t.TempDir()
	path := testutil.WriteConfig(t, dir, "categories:\n  - id: work\n")

	rec := &recorder{}
	cancel, done := startWatcher(t, path, rec)
	defer func() { cancel(); <-done }()

	testutil.WriteFile(t, dir, "notes.yml", "x: 1")
	time.Sleep(200 * time.Millisecond)

	n, errs := rec.counts()
	assert.Zero(t, n)
	assert.Zero(t, errs)
}

func TestStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.yml")

	loads := 0
	w, err := New(nil, []string{path},
		WithLoader(func() (*config.Config, error) { loads++; return &config.Config{}, nil }),
		WithLogger(quietLogger()),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.NoError(t, w.Close())
	assert.Zero(t, loads)
}

func TestNewRequiresFiles(t *testing.T) {
	_, err := New(nil, nil, WithLogger(quietLogger()))
	assert.Error(t, err)
}
