package sound

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileExtension is the extension of sound resources in a sounds directory.
const FileExtension = ".mp3"

// DirAudio resolves sounds to files in a directory.
//
// Decoding and output are left to the host platform; handles track their
// play state and log transitions.
type DirAudio struct {
	dir    string
	logger *slog.Logger
}

// NewDirAudio creates a DirAudio reading from dir.
func NewDirAudio(dir string, logger *slog.Logger) *DirAudio {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirAudio{dir: dir, logger: logger}
}

// Resolve returns a handle for <dir>/<name>.mp3.
func (a *DirAudio) Resolve(name string) (Handle, error) {
	path := filepath.Join(a.dir, name+FileExtension)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrResourceNotFound, path)
	}
	return &fileHandle{path: path, logger: a.logger.With("sound", name)}, nil
}

type fileHandle struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	playing bool
}

func (h *fileHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := os.Stat(h.path); err != nil {
		return err
	}
	h.playing = true
	h.logger.Info("sound playing", "path", h.path, "loop", true)
	return nil
}

func (h *fileHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.playing {
		return
	}
	h.playing = false
	h.logger.Info("sound stopped")
}

// MemoryAudio is an AudioService over a fixed set of names. Its handles
// only count plays.
type MemoryAudio struct {
	mu      sync.Mutex
	handles map[string]*MemoryHandle
}

// NewMemoryAudio creates a MemoryAudio knowing the given names. With no
// names, it knows the DefaultSounds.
func NewMemoryAudio(names ...string) *MemoryAudio {
	if len(names) == 0 {
		for _, s := range DefaultSounds {
			names = append(names, s.Name)
		}
	}
	a := &MemoryAudio{handles: make(map[string]*MemoryHandle, len(names))}
	for _, n := range names {
		a.handles[n] = &MemoryHandle{name: n}
	}
	return a
}

// Resolve returns the handle for name.
func (a *MemoryAudio) Resolve(name string) (Handle, error) {
	h := a.Handle(name)
	if h == nil {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}
	return h, nil
}

// Handle returns the concrete handle for name, or nil.
func (a *MemoryAudio) Handle(name string) *MemoryHandle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handles[name]
}

// MemoryHandle records how it was used.
type MemoryHandle struct {
	name string

	mu      sync.Mutex
	playing bool
	plays   int
	failErr error
}

// Play marks the handle playing.
func (h *MemoryHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failErr != nil {
		return h.failErr
	}
	h.playing = true
	h.plays++
	return nil
}

// Stop marks the handle silent.
func (h *MemoryHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
}

// Playing reports whether the handle is playing.
func (h *MemoryHandle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// Plays returns how many times Play succeeded.
func (h *MemoryHandle) Plays() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.plays
}

// FailWith makes subsequent Play calls return err (nil clears it).
func (h *MemoryHandle) FailWith(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failErr = err
}

// Compile-time interface satisfaction checks.
var (
	_ AudioService = (*DirAudio)(nil)
	_ AudioService = (*MemoryAudio)(nil)
	_ Handle       = (*fileHandle)(nil)
	_ Handle       = (*MemoryHandle)(nil)
)
