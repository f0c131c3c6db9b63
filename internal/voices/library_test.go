package voices_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Vovarama1992/saga_tts/internal/voices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLibrariesAreValid(t *testing.T) {
	t.Parallel()

	for _, lib := range []voices.Library{voices.DefaultOpenAILibrary(), voices.DefaultElevenLabsLibrary()} {
		for _, mode := range []voices.Mode{voices.ModeHash, voices.ModeGender, voices.ModeRandom} {
			require.NoError(t, lib.Validate(mode))
		}
	}
}

func TestLibrary_Validate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, voices.Library{}.Validate(voices.ModeHash), voices.ErrConfiguration)
	require.ErrorIs(t, voices.Library{Pool: []string{"ash"}}.Validate(voices.ModeGender), voices.ErrConfiguration)
	require.ErrorIs(t, voices.Library{Pool: []string{"ash"}}.Validate("loudest"), voices.ErrConfiguration)

	bad := voices.Library{Pool: []string{"ash"}, Reserved: map[string]string{"saga": ""}}
	require.ErrorIs(t, bad.Validate(voices.ModeHash), voices.ErrConfiguration)

	bad = voices.Library{Pool: []string{"ash", "v1/user"}}
	require.ErrorIs(t, bad.Validate(voices.ModeHash), voices.ErrConfiguration)

	bad = voices.Library{Pools: map[voices.Gender][]string{voices.Neutral: {"ok", "x?y"}}}
	require.ErrorIs(t, bad.Validate(voices.ModeGender), voices.ErrConfiguration)
}

func TestValidVoiceID(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"ash", "21m00Tcm4TlvDq8ikWAM", "custom-voice_2"} {
		assert.True(t, voices.ValidVoiceID(id), id)
	}
	for _, id := range []string{"", "..", "a/b", "a?b", "a b", "%2F", strings.Repeat("a", 129)} {
		assert.False(t, voices.ValidVoiceID(id), id)
	}
}

func TestLoadLibrary_OverridesSections(t *testing.T) {
	t.Parallel()

	data := `
pool: [garrick, osric, seraphina]
reserved:
  Saga: echo
keywords:
  male: [knight]
`
	path := filepath.Join(t.TempDir(), "voices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	base := voices.DefaultOpenAILibrary()
	lib, err := voices.LoadLibrary(path, base)
	require.NoError(t, err)

	assert.Equal(t, []string{"garrick", "osric", "seraphina"}, lib.Pool)
	assert.Equal(t, map[string]string{"Saga": "echo"}, lib.Reserved)
	assert.Equal(t, base.Pools, lib.Pools)

	p, err := voices.NewPolicy(voices.ModeGender, lib)
	require.NoError(t, err)
	assert.Equal(t, voices.Male, p.Classify("a wandering knight"))
	assert.Equal(t, voices.Neutral, p.Classify("an old king"))

	got, err := p.Assign("SAGA", "")
	require.NoError(t, err)
	assert.Equal(t, "echo", got.Voice)
}

func TestLoadLibrary_Errors(t *testing.T) {
	t.Parallel()

	_, err := voices.LoadLibrary(filepath.Join(t.TempDir(), "missing.yaml"), voices.Library{})
	require.Error(t, err)

	_, err = voices.ParseLibrary([]byte("pool: {not: [a list"), voices.Library{})
	require.Error(t, err)
}
