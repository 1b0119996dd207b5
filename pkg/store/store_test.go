package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multitimer/multitimer-go/pkg/timer"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 123000000, time.UTC)

func sampleRecords() []timer.Record {
	return []timer.Record{
		{ID: "b", Label: "Timer 2", ConfiguredSeconds: 90, Color: timer.Orange, AlarmSoundName: "alarm", DateAdded: epoch.Add(time.Minute)},
		{ID: "a", Label: "Timer 1", ConfiguredSeconds: 45, Color: timer.Red, AlarmSoundName: "alarm2", DateAdded: epoch},
		{ID: "c", Label: "Eggs", ConfiguredSeconds: 420, Color: timer.SkyBlue, AlarmSoundName: "alarm", DateAdded: epoch.Add(time.Minute)},
	}
}

func assertRecords(t *testing.T, want, got []timer.Record) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Label, g.Label)
		assert.Equal(t, w.ConfiguredSeconds, g.ConfiguredSeconds)
		assert.Equal(t, w.Color, g.Color)
		assert.Equal(t, w.AlarmSoundName, g.AlarmSoundName)
		assert.True(t, w.DateAdded.Equal(g.DateAdded), "record %s DateAdded = %v, want %v", w.ID, g.DateAdded, w.DateAdded)
	}
}

// backendCase opens a fresh backend; reopen returns a second handle on the
// same data, or nil if the backend does not persist.
type backendCase struct {
	name   string
	open   func(t *testing.T, dir string) Backend
	reopen bool
}

func backends() []backendCase {
	return []backendCase{
		{
			name: "Memory",
			open: func(t *testing.T, dir string) Backend { return NewMemoryStore() },
		},
		{
			name:   "JSON",
			open:   func(t *testing.T, dir string) Backend { return NewJSONStore(filepath.Join(dir, "sub", JSONFileName)) },
			reopen: true,
		},
		{
			name: "SQLite",
			open: func(t *testing.T, dir string) Backend {
				s, err := NewSQLiteStore(filepath.Join(dir, "sub", SQLiteFileName))
				require.NoError(t, err)
				return s
			},
			reopen: true,
		},
	}
}

func TestBackends(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			dir := t.TempDir()
			s := bc.open(t, dir)

			recs, err := s.LoadAll()
			require.NoError(t, err)
			assert.Empty(t, recs)

			for _, r := range sampleRecords() {
				require.NoError(t, s.Save(r))
			}

			ordered := []timer.Record{sampleRecords()[1], sampleRecords()[2], sampleRecords()[0]}
			recs, err = s.LoadAll()
			require.NoError(t, err)
			assertRecords(t, ordered, recs)

			// Replace keeps one row per id.
			edited := sampleRecords()[1]
			edited.Label = "Tea"
			edited.ConfiguredSeconds = 180
			require.NoError(t, s.Save(edited))

			require.NoError(t, s.Delete(sampleRecords()[2]))
			require.NoError(t, s.Delete(timer.Record{ID: "missing"}))

			want := []timer.Record{edited, sampleRecords()[0]}
			recs, err = s.LoadAll()
			require.NoError(t, err)
			assertRecords(t, want, recs)

			assert.ErrorIs(t, s.Save(timer.Record{}), ErrInvalidRecord)

			require.NoError(t, s.Close())
			_, err = s.LoadAll()
			assert.ErrorIs(t, err, ErrStoreClosed)
			assert.ErrorIs(t, s.Save(edited), ErrStoreClosed)
			assert.ErrorIs(t, s.Delete(edited), ErrStoreClosed)

			if bc.reopen {
				s2 := bc.open(t, dir)
				defer s2.Close()
				recs, err = s2.LoadAll()
				require.NoError(t, err)
				assertRecords(t, want, recs)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for _, kind := range []string{KindMemory, KindJSON, KindSQLite} {
		s, err := Open(kind, dir)
		require.NoError(t, err, kind)
		require.NoError(t, s.Save(sampleRecords()[0]), kind)
		require.NoError(t, s.Close(), kind)
	}

	assert.FileExists(t, filepath.Join(dir, JSONFileName))
	assert.FileExists(t, filepath.Join(dir, SQLiteFileName))

	_, err := Open("redis", dir)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestJSONStoreFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), JSONFileName)
	s := NewJSONStore(path)
	require.NoError(t, s.Save(sampleRecords()[1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": 1`)
	assert.Contains(t, string(data), `"configured_seconds": 45`)
	assert.Contains(t, string(data), `"alarm_sound_name": "alarm2"`)

	require.NoError(t, s.Delete(sampleRecords()[1]))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timers": []`)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	assert.NoFileExists(t, path)
}

func TestJSONStoreRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), JSONFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 9, "timers": []}`), 0644))

	_, err := NewJSONStore(path).LoadAll()
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), JSONFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"version":`), 0644))

	s := NewJSONStore(path)
	_, err := s.LoadAll()
	assert.Error(t, err)
	assert.Error(t, s.Save(sampleRecords()[0]), "a corrupt file is not overwritten")
}

func TestSQLiteInMemory(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(sampleRecords()[0]))
	recs, err := s.LoadAll()
	require.NoError(t, err)
	assertRecords(t, sampleRecords()[:1], recs)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestMemoryStoreInitial(t *testing.T) {
	s := NewMemoryStore(sampleRecords()...)
	assert.Equal(t, 3, s.Len())
}
