package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrOutputLocked is returned when another run holds the output root.
var ErrOutputLocked = errors.New("output root is locked by another run")

// ErrUnsafeName is returned for team or file names that would escape their directory.
var ErrUnsafeName = errors.New("unsafe path component")

// ErrUnsafeOutputRoot is returned when wiping the output root would remove
// something other than generated output.
var ErrUnsafeOutputRoot = errors.New("unsafe output root")

// ErrManifestIsInput is returned when the manifest would overwrite the input CSV.
var ErrManifestIsInput = errors.New("manifest path is the input csv")

// CheckOutputRoot rejects a root that is a filesystem root, the home directory
// or one of its ancestors, or that contains any of the protected paths.
func CheckOutputRoot(root string, protected ...string) error {
	resolved, err := resolvePath(root)
	if err != nil {
		return err
	}
	if filepath.Dir(resolved) == resolved {
		return fmt.Errorf("%w: %s is a filesystem root", ErrUnsafeOutputRoot, root)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if resolvedHome, err := resolvePath(home); err == nil && within(resolvedHome, resolved) {
			return fmt.Errorf("%w: %s contains the home directory", ErrUnsafeOutputRoot, root)
		}
	}
	for _, path := range protected {
		if path == "" {
			continue
		}
		resolvedPath, err := resolvePath(path)
		if err != nil {
			return err
		}
		if within(resolvedPath, resolved) {
			return fmt.Errorf("%w: %s contains %s", ErrUnsafeOutputRoot, root, path)
		}
	}
	return nil
}

// checkManifestPath fails when manifest and input name the same file.
func checkManifestPath(manifestPath, input string) error {
	a, err := resolvePath(manifestPath)
	if err != nil {
		return err
	}
	b, err := resolvePath(input)
	if err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("%w: %s", ErrManifestIsInput, input)
	}
	if mi, err := os.Stat(a); err == nil {
		if ii, err := os.Stat(b); err == nil && os.SameFile(mi, ii) {
			return fmt.Errorf("%w: %s and %s are the same file", ErrManifestIsInput, manifestPath, input)
		}
	}
	return nil
}

// resolvePath returns the absolute path with symlinks resolved as far as the
// path exists.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	if real, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		return filepath.Join(real, filepath.Base(abs)), nil
	}
	return abs, nil
}

// within reports whether path is root or lies below it.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// PrepareOutputRoot deletes root and everything below it, then recreates it
// empty. Roots rejected by CheckOutputRoot are left alone.
func PrepareOutputRoot(root string) error {
	if err := CheckOutputRoot(root); err != nil {
		return err
	}
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("remove output root %s: %w", root, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create output root %s: %w", root, err)
	}
	return nil
}

// lockPath places the lock next to root so wiping root leaves the lock intact.
func lockPath(root string) string {
	clean := filepath.Clean(root)
	return filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean)+".lock")
}

// lockOutputRoot takes an exclusive, non-blocking lock guarding root.
func lockOutputRoot(root string) (*flock.Flock, error) {
	path := lockPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrOutputLocked, path)
	}
	return lock, nil
}

// componentPath joins root with name after checking that name is a single
// path element.
func componentPath(root, name string) (string, error) {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return filepath.Join(root, name), nil
}
