package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/splatpack/splat"
	"github.com/voxelsplace/splatpack/utils"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "splatpack", cmd.Use)

	for _, name := range []string{"convert", "gen", "inspect", "analyze"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestConvertCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	conv, _, err := cmd.Find([]string{"convert"})
	require.NoError(t, err)
	for flag, short := range map[string]string{
		"input": "i", "output": "o", "name": "n", "reorder": "r",
		"level": "l", "format": "f", "pad": "p", "quiet": "q", "json": "j",
	} {
		f := conv.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, short, f.Shorthand, flag)
	}
	assert.Equal(t, "0", conv.Flags().Lookup("level").DefValue)
}

func TestGenConvertInspect(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "room.ply")
	_, err := execute(t, "gen", "-o", in, "-n", "600", "--kind", "spacetime", "--seed", "5")
	require.NoError(t, err)

	out, err := execute(t, "convert", "-i", in, "-f", "spb", "-l", "0", "-r", "Hilbert", "-p", "--compress", "zstd")
	require.NoError(t, err)
	spb := filepath.Join(dir, "room.spb.zst")
	assert.Contains(t, out, spb)
	require.FileExists(t, spb)

	out, err = execute(t, "inspect", spb)
	require.NoError(t, err)
	assert.Contains(t, out, "container: spb (compression zstd)")
	assert.Contains(t, out, "SPACETIME")
	assert.Contains(t, out, "points:    768")

	out, err = execute(t, "analyze", "-i", in, "-r", "hilbert")
	require.NoError(t, err)
	assert.Contains(t, out, "chunks:        3")
}

func TestConvertUsesConfigProfile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "s.ply")
	require.NoError(t, utils.GenerateNoisePLY("static", 256, 20, 1, in))
	profile := filepath.Join(dir, "p.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("format: spb\nlevel: 2\n"), 0o644))

	_, err := execute(t, "--config", profile, "convert", "-i", in)
	require.NoError(t, err)
	m, err := utils.RunInspect(filepath.Join(dir, "s.spb"))
	require.NoError(t, err)
	assert.Equal(t, "low", m.Quality)

	// flags win over the profile
	_, err = execute(t, "--config", profile, "convert", "-i", in, "-l", "1", "-o", filepath.Join(dir, "m.spb"))
	require.NoError(t, err)
	m, err = utils.RunInspect(filepath.Join(dir, "m.spb"))
	require.NoError(t, err)
	assert.Equal(t, "medium", m.Quality)
}

func TestConvertFailures(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "s.ply")
	require.NoError(t, utils.GenerateNoisePLY("static", 16, 20, 1, in))

	_, err := execute(t, "convert", "-i", in, "-l", "3")
	assert.ErrorIs(t, err, splat.ErrInvalidQualityLevel)

	_, err = execute(t, "convert", "-i", filepath.Join(dir, "missing.ply"))
	assert.ErrorIs(t, err, utils.ErrInputNotFound)

	_, err = execute(t, "convert", "-i", in, "-o", filepath.Join(dir, "s.txt"))
	assert.ErrorIs(t, err, utils.ErrInvalidOutput)

	_, err = execute(t, "convert", "-i", in, "-r", "Peano")
	assert.Error(t, err)

	_, err = execute(t, "convert")
	assert.Error(t, err, "input is required")
}
