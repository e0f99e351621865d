package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounceFileEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan FileEvent)
	out := make(chan FileEvent)
	go debounceFileEvents(ctx, in, out, 20*time.Millisecond)

	// A burst of events yields a single forwarded event, the last one
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		in <- FileEvent{Path: name, Op: fsnotify.Write, Time: time.Now()}
	}

	select {
	case evt := <-out:
		assert.Equal(t, "c.md", evt.Path)
	case <-time.After(time.Second):
		t.Fatal("debounced event never arrived")
	}

	// No further events pending
	select {
	case evt := <-out:
		t.Fatalf("unexpected extra event %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebounceClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	in := make(chan FileEvent)
	out := make(chan FileEvent)
	go debounceFileEvents(ctx, in, out, 10*time.Millisecond)

	cancel()

	select {
	case _, ok := <-out:
		assert.False(t, ok, "output channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("output channel never closed")
	}
}

func TestIgnoredPath(t *testing.T) {
	ignore := []string{".git", "node_modules"}

	assert.True(t, ignoredPath(".git", ignore))
	assert.True(t, ignoredPath(filepath.Join("corpus", ".git", "HEAD"), ignore))
	assert.True(t, ignoredPath(filepath.Join("corpus", "node_modules"), ignore))
	assert.False(t, ignoredPath(filepath.Join("corpus", "pg-migrations", "SKILL.md"), ignore))
}

func TestGetWatchConfigDefaults(t *testing.T) {
	config := getWatchConfigFromFlags(watchCmd, nil)
	require.NotNil(t, config)
	assert.Equal(t, ".", config.Root)
	assert.Equal(t, 500, config.DebounceTime)

	config = getWatchConfigFromFlags(watchCmd, []string{"./corpus"})
	assert.Equal(t, "./corpus", config.Root)
}
