// Package archive builds and verifies skill distribution archives. A skill
// directory ships as {skill-name}.zip whose members carry the
// {skill-name}/ prefix, matching `zip -r {skill-name}.zip {skill-name}/`
// run from the corpus root.
package archive

import (
	"archive/zip"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ArchivePath returns the conventional archive location for a skill
// directory: a sibling {skill-name}.zip.
func ArchivePath(skillDir string) string {
	return filepath.Clean(skillDir) + ".zip"
}

// Pack writes a zip archive of skillDir to outPath. Member names are
// prefixed with the skill directory basename; directory entries are kept so
// empty directories survive a pack/unpack round trip, file modes are
// preserved, and a stale {skill-name}.zip sitting inside the tree is not
// packed into its own replacement. filepath.Walk visits entries in lexical
// order, so two packs of the same tree produce the same member list.
func Pack(skillDir, outPath string) error {
	base := filepath.Base(filepath.Clean(skillDir))

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "failed to create archive")
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	walkErr := filepath.Walk(skillDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(skillDir, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			return addDir(zw, base, rel, info)
		}
		if rel == base+".zip" {
			return nil
		}
		return addFile(zw, skillDir, base, rel)
	})
	if walkErr != nil {
		zw.Close()
		return errors.Wrap(walkErr, "failed to walk skill directory")
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "failed to finalize archive")
	}
	return nil
}

// collectFiles gathers the relative file paths that belong in the archive
// for dir, excluding a stray conventional archive at the tree root.
func collectFiles(dir, base string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == base+".zip" {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk skill directory")
	}
	sort.Strings(files)
	return files, nil
}

func addDir(zw *zip.Writer, base, rel string, info os.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Wrap(err, "failed to build zip header")
	}

	name := base + "/"
	if rel != "." {
		name += filepath.ToSlash(rel) + "/"
	}
	hdr.Name = name

	if _, err := zw.CreateHeader(hdr); err != nil {
		return errors.Wrap(err, "failed to create zip entry")
	}
	return nil
}

func addFile(zw *zip.Writer, dir, base, rel string) error {
	path := filepath.Join(dir, rel)

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "failed to stat file")
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Wrap(err, "failed to build zip header")
	}
	hdr.Name = base + "/" + filepath.ToSlash(rel)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return errors.Wrap(err, "failed to create zip entry")
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return errors.Wrapf(err, "failed to write zip entry %s", hdr.Name)
	}
	return nil
}

// Diff describes how an archive diverges from its skill directory. Names
// are slash-separated paths relative to the skill directory.
type Diff struct {
	Missing []string // in the directory but not the archive
	Extra   []string // in the archive but not the directory
	Changed []string // present in both with different content
}

// InSync reports whether the archive matches the directory exactly.
func (d Diff) InSync() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0 && len(d.Changed) == 0
}

// Verify compares zipPath against skillDir member by member using CRC32
// checksums, without extracting the archive.
func Verify(skillDir, zipPath string) (Diff, error) {
	var d Diff

	base := filepath.Base(filepath.Clean(skillDir))

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return d, errors.Wrap(err, "failed to open archive")
	}
	defer zr.Close()

	archived := make(map[string]uint32)
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		// Members outside the {skill-name}/ prefix are foreign to the
		// convention and can never match a directory file
		if !strings.HasPrefix(f.Name, base+"/") {
			d.Extra = append(d.Extra, f.Name)
			continue
		}
		archived[strings.TrimPrefix(f.Name, base+"/")] = f.CRC32
	}

	files, err := collectFiles(skillDir, base)
	if err != nil {
		return d, err
	}

	seen := make(map[string]bool)
	for _, rel := range files {
		name := filepath.ToSlash(rel)
		seen[name] = true

		crc, ok := archived[name]
		if !ok {
			d.Missing = append(d.Missing, name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(skillDir, rel))
		if err != nil {
			return d, errors.Wrap(err, "failed to read file")
		}
		if crc32.ChecksumIEEE(content) != crc {
			d.Changed = append(d.Changed, name)
		}
	}

	for name := range archived {
		if !seen[name] {
			d.Extra = append(d.Extra, name)
		}
	}
	sort.Strings(d.Extra)

	return d, nil
}

// Unpack extracts zipPath into destDir, rejecting member names that would
// escape the destination.
func Unpack(zipPath, destDir string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return errors.Wrap(err, "failed to open archive")
	}
	defer zr.Close()

	for _, f := range zr.File {
		target := filepath.Join(destDir, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return errors.Errorf("archive member %q escapes destination", f.Name)
		}

		if strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrap(err, "failed to create directory")
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.Wrap(err, "failed to create directory")
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open zip entry")
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return errors.Wrapf(err, "failed to extract %s", f.Name)
	}
	return nil
}
