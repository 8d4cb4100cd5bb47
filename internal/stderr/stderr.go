//go:build !windows

// Package stderr captures output that C libraries (ALSA via the audio
// backend) write straight to file descriptor 2 and forwards it to the log,
// so it cannot corrupt the TUI.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
)

var (
	mu         sync.Mutex
	origStderr = -1
	pipeRead   *os.File
	pipeWrite  *os.File
	done       chan struct{}
)

// Start redirects fd 2 into a pipe whose lines are logged at warn level.
// Call it early in main, before the audio backend initializes. On error the
// program can continue with the original stderr.
func Start() error {
	mu.Lock()
	defer mu.Unlock()
	if pipeRead != nil {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return err
	}

	origStderr = orig
	pipeRead = r
	pipeWrite = w
	done = make(chan struct{})

	go forward(r, done)
	return nil
}

func forward(r *os.File, done chan<- struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			log.Warn().Str("source", "stderr").Msg(line)
		}
	}
}

// WriteOriginal writes to the real stderr, bypassing capture. Fatal errors
// use it so they stay visible after the TUI exits.
func WriteOriginal(msg string) {
	mu.Lock()
	fd := origStderr
	mu.Unlock()
	if fd < 0 {
		fd = int(os.Stderr.Fd())
	}
	_, _ = syscall.Write(fd, []byte(msg))
}

// Stop restores the original stderr and waits for buffered lines to be
// logged.
func Stop() {
	mu.Lock()
	defer mu.Unlock()
	if pipeRead == nil {
		return
	}

	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)
	origStderr = -1

	// fd 2 no longer references the pipe, so closing our end delivers EOF.
	pipeWrite.Close()
	<-done
	pipeRead.Close()
	pipeRead, pipeWrite = nil, nil
}
