// # internal/core/watcher/watcher_test.go
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"wake/internal/shared/util"
)

type substringFilter string

func (f substringFilter) Excluded(path string) bool {
	return strings.Contains(path, string(f))
}

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(Options{Debounce: 100 * time.Millisecond}, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsBadDirPattern(t *testing.T) {
	if _, err := NewWatcher(Options{ExcludeDirs: []string{"[abc"}}, func([]string) {}); err == nil {
		t.Fatal("expected glob compile error")
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 4)
	w, err := NewWatcher(Options{Debounce: 100 * time.Millisecond, Filter: substringFilter("skipme")}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "mod.py")
	if err := os.WriteFile(testFile, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Neither a foreign extension nor a filtered path triggers a rescan.
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("text"), 0o644)
	os.WriteFile(filepath.Join(tmpDir, "skipme.py"), []byte("y = 2\n"), 0o644)

	select {
	case paths := <-changedFiles:
		t.Errorf("unexpected change event: %v", paths)
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "newdir")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "nested.py")
	if err := os.WriteFile(subFile, []byte("z = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
					break
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested file event in newly created directory")
		}
	}
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(Options{Debounce: 100 * time.Millisecond}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "old.py")
	newPath := filepath.Join(tmpDir, "new.py")
	if err := os.WriteFile(oldPath, []byte("pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == oldPath || p == newPath {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for rename event, old=%s new=%s", oldPath, newPath)
		}
	}
}

func TestWatcher_ExcludedDirectories(t *testing.T) {
	w, err := NewWatcher(Options{}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	for _, dir := range []string{"/p/__pycache__", "/p/.git", "/p/.venv"} {
		if !w.shouldExcludeDir(dir) {
			t.Errorf("expected %s to be excluded", dir)
		}
	}
	if w.shouldExcludeDir("/p/src") {
		t.Error("expected /p/src to be watched")
	}
	if !w.shouldExcludeFile("/p/src/README.md") {
		t.Error("expected non-source files to be excluded")
	}
	if w.shouldExcludeFile("/p/src/app.PY") {
		t.Error("expected extension match to be case-insensitive")
	}
}

func TestWatcher_RateLimitDefersFlush(t *testing.T) {
	var calls atomic.Int32
	limiter := util.NewLimiter(1, 1)
	w, err := NewWatcher(Options{Debounce: 20 * time.Millisecond, Limiter: limiter}, func([]string) {
		calls.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.scheduleChange("/p/a.py")
	time.Sleep(100 * time.Millisecond)
	w.scheduleChange("/p/b.py")
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected second flush to be deferred by the limiter, got %d calls", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected deferred flush to run once tokens refill, got %d calls", got)
	}
}
