package sound

import (
	"log/slog"
	"sync"
)

// Player is the single alarm playback channel.
//
// Only one sound plays at a time: Play stops the current sound before
// starting the next. Stop is always safe to call.
type Player struct {
	mu      sync.Mutex
	catalog *Catalog
	logger  *slog.Logger

	current     Handle
	currentName string
}

// NewPlayer creates a Player for the sounds in catalog.
func NewPlayer(catalog *Catalog, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{catalog: catalog, logger: logger}
}

// Catalog returns the catalog the player resolves names against.
func (p *Player) Catalog() *Catalog {
	return p.catalog
}

// Play starts the named sound on a loop. Unknown names play the catalog
// default instead. The returned error is the handle's playback error; the
// channel is left silent in that case.
func (p *Player) Play(name string) error {
	h, err := p.catalog.Resolve(name)
	if err != nil {
		fallback := p.catalog.Default().Name
		p.logger.Warn("unknown alarm sound, using default", "sound", name, "default", fallback)
		name = fallback
		h, _ = p.catalog.Resolve(name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Stop()
		p.current = nil
		p.currentName = ""
	}
	if err := h.Play(); err != nil {
		p.logger.Error("alarm playback failed", "sound", name, "error", err)
		return err
	}
	p.current = h
	p.currentName = name
	return nil
}

// Stop silences the channel.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return
	}
	p.current.Stop()
	p.current = nil
	p.currentName = ""
}

// Playing returns the name of the sound currently playing.
func (p *Player) Playing() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentName, p.current != nil
}
