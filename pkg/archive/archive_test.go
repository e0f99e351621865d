package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSkillDir(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "references"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("---\nname: "+name+"\ndescription: Test.\n---\nBody.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "references", "extra.md"), []byte("# Extra\n"), 0o644))
	return dir
}

func TestArchivePath(t *testing.T) {
	assert.Equal(t, filepath.Join("corpus", "demo-skill")+".zip", ArchivePath(filepath.Join("corpus", "demo-skill")))
	assert.Equal(t, "demo-skill.zip", ArchivePath("demo-skill/"))
}

func TestPackAndVerify(t *testing.T) {
	tmpDir := t.TempDir()
	dir := makeSkillDir(t, tmpDir, "demo-skill")
	zipPath := ArchivePath(dir)

	require.NoError(t, Pack(dir, zipPath))

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"demo-skill/",
		"demo-skill/SKILL.md",
		"demo-skill/references/",
		"demo-skill/references/extra.md",
	}, names)

	diff, err := Verify(dir, zipPath)
	require.NoError(t, err)
	assert.True(t, diff.InSync())
}

func TestPackKeepsEmptyDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	dir := makeSkillDir(t, tmpDir, "empty-dirs")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	zipPath := ArchivePath(dir)

	require.NoError(t, Pack(dir, zipPath))

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	require.NoError(t, zr.Close())
	assert.Contains(t, names, "empty-dirs/assets/")

	dest := filepath.Join(tmpDir, "unpacked")
	require.NoError(t, Unpack(zipPath, dest))
	info, err := os.Stat(filepath.Join(dest, "empty-dirs", "assets"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPackSkipsOwnArchive(t *testing.T) {
	tmpDir := t.TempDir()
	dir := makeSkillDir(t, tmpDir, "self-zip")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "self-zip.zip"), []byte("stale archive"), 0o644))
	zipPath := filepath.Join(tmpDir, "out", "self-zip.zip")
	require.NoError(t, os.MkdirAll(filepath.Dir(zipPath), 0o755))

	require.NoError(t, Pack(dir, zipPath))

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()
	for _, f := range zr.File {
		assert.NotEqual(t, "self-zip/self-zip.zip", f.Name)
	}

	diff, err := Verify(dir, zipPath)
	require.NoError(t, err)
	assert.True(t, diff.InSync())
}

func TestVerifyRejectsUnprefixedMembers(t *testing.T) {
	tmpDir := t.TempDir()
	dir := makeSkillDir(t, tmpDir, "flat-skill")

	// A flat archive carries the same files without the {skill-name}/
	// member prefix the convention requires.
	zipPath := filepath.Join(tmpDir, "flat-skill.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for _, rel := range []string{"SKILL.md", "references/extra.md"} {
		content, readErr := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		require.NoError(t, readErr)
		w, createErr := zw.Create(rel)
		require.NoError(t, createErr)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	diff, err := Verify(dir, zipPath)
	require.NoError(t, err)
	assert.False(t, diff.InSync())
	assert.Contains(t, diff.Extra, "SKILL.md")
	assert.Contains(t, diff.Extra, "references/extra.md")
	assert.Contains(t, diff.Missing, "SKILL.md")
}

func TestVerifyDetectsDrift(t *testing.T) {
	tmpDir := t.TempDir()
	dir := makeSkillDir(t, tmpDir, "drift-skill")
	zipPath := ArchivePath(dir)
	require.NoError(t, Pack(dir, zipPath))

	t.Run("changed file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("---\nname: drift-skill\ndescription: Edited.\n---\nNew body.\n"), 0o644))

		diff, err := Verify(dir, zipPath)
		require.NoError(t, err)
		assert.False(t, diff.InSync())
		assert.Equal(t, []string{"SKILL.md"}, diff.Changed)
	})

	t.Run("new file missing from archive", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "NOTES.md"), []byte("notes\n"), 0o644))

		diff, err := Verify(dir, zipPath)
		require.NoError(t, err)
		assert.Contains(t, diff.Missing, "NOTES.md")
	})

	t.Run("file removed from directory", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(dir, "references", "extra.md")))

		diff, err := Verify(dir, zipPath)
		require.NoError(t, err)
		assert.Contains(t, diff.Extra, "references/extra.md")
	})
}

func TestVerifyMissingArchive(t *testing.T) {
	tmpDir := t.TempDir()
	dir := makeSkillDir(t, tmpDir, "no-zip")

	_, err := Verify(dir, ArchivePath(dir))
	assert.Error(t, err)
}

func TestUnpack(t *testing.T) {
	tmpDir := t.TempDir()
	dir := makeSkillDir(t, tmpDir, "round-trip")
	zipPath := ArchivePath(dir)
	require.NoError(t, Pack(dir, zipPath))

	dest := filepath.Join(tmpDir, "unpacked")
	require.NoError(t, Unpack(zipPath, dest))

	content, err := os.ReadFile(filepath.Join(dest, "round-trip", "SKILL.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "name: round-trip")

	_, err = os.Stat(filepath.Join(dest, "round-trip", "references", "extra.md"))
	assert.NoError(t, err)
}

func TestUnpackRejectsZipSlip(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "evil.zip")

	out, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	w, err := zw.Create("../escape.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("gotcha"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	dest := filepath.Join(tmpDir, "dest")
	err = Unpack(zipPath, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")

	_, statErr := os.Stat(filepath.Join(tmpDir, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
