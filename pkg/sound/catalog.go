package sound

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Catalog errors.
var (
	// ErrResourceNotFound is returned when no audio asset exists for a sound name.
	ErrResourceNotFound = errors.New("sound resource not found")

	// ErrDuplicateSound is returned when a catalog lists the same name twice.
	ErrDuplicateSound = errors.New("duplicate sound name")

	// ErrEmptyCatalog is returned when a catalog would contain no sounds.
	ErrEmptyCatalog = errors.New("catalog has no sounds")
)

// Sound is one catalog entry.
type Sound struct {
	// Name is the machine name and the resource file name.
	Name string

	// DisplayName is shown to the user.
	DisplayName string
}

// NewSound returns a Sound whose display name is name with its first letter
// capitalized.
func NewSound(name string) Sound {
	return Sound{Name: name, DisplayName: capitalize(name)}
}

// String returns the display name.
func (s Sound) String() string {
	return s.DisplayName
}

// DefaultSounds is the shipped sound list. The first entry is the default.
var DefaultSounds = []Sound{
	{Name: "alarm", DisplayName: "Default"},
	{Name: "alarm2", DisplayName: "Alarm2"},
}

// Handle is a playable resource.
type Handle interface {
	// Play starts the sound, looping until Stop is called.
	Play() error

	// Stop stops the sound. Stopping a silent handle is a no-op.
	Stop()
}

// AudioService resolves sound names to playable handles.
type AudioService interface {
	Resolve(name string) (Handle, error)
}

// Catalog is an ordered, immutable set of resolved sounds.
type Catalog struct {
	sounds  []Sound
	index   map[string]int
	handles []Handle
}

// NewCatalog resolves every sound through audio. With no sounds given,
// DefaultSounds is used. Any resolution failure fails construction.
func NewCatalog(audio AudioService, sounds ...Sound) (*Catalog, error) {
	if len(sounds) == 0 {
		sounds = DefaultSounds
	}

	c := &Catalog{
		sounds:  make([]Sound, 0, len(sounds)),
		index:   make(map[string]int, len(sounds)),
		handles: make([]Handle, 0, len(sounds)),
	}
	for _, s := range sounds {
		if s.Name == "" {
			return nil, fmt.Errorf("sound: empty name in catalog")
		}
		if _, ok := c.index[s.Name]; ok {
			return nil, fmt.Errorf("sound %q: %w", s.Name, ErrDuplicateSound)
		}
		if s.DisplayName == "" {
			s.DisplayName = capitalize(s.Name)
		}

		h, err := audio.Resolve(s.Name)
		if err != nil {
			return nil, fmt.Errorf("sound %q: %w", s.Name, err)
		}

		c.index[s.Name] = len(c.sounds)
		c.sounds = append(c.sounds, s)
		c.handles = append(c.handles, h)
	}
	return c, nil
}

// MustCatalog is like NewCatalog but panics on error. The shipped sound
// set is expected to always resolve.
func MustCatalog(audio AudioService, sounds ...Sound) *Catalog {
	c, err := NewCatalog(audio, sounds...)
	if err != nil {
		panic(err)
	}
	return c
}

// Sounds returns the catalog entries in order.
func (c *Catalog) Sounds() []Sound {
	return append([]Sound(nil), c.sounds...)
}

// Lookup returns the entry for name.
func (c *Catalog) Lookup(name string) (Sound, bool) {
	i, ok := c.index[name]
	if !ok {
		return Sound{}, false
	}
	return c.sounds[i], true
}

// Default returns the first entry.
func (c *Catalog) Default() Sound {
	return c.sounds[0]
}

// Resolve returns the handle for name.
func (c *Catalog) Resolve(name string) (Handle, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("sound %q: %w", name, ErrResourceNotFound)
	}
	return c.handles[i], nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
