// Package storage keeps the images attached to postings in a flat directory.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

var (
	// ErrExtensionNotAllowed is returned for files whose extension is not allow-listed.
	ErrExtensionNotAllowed = errors.New("file type not allowed")
	// ErrWrite wraps failures to persist an uploaded file.
	ErrWrite = errors.New("write upload")
	// ErrInvalidName is returned for names that cannot refer to a stored file.
	ErrInvalidName = errors.New("invalid file name")
)

// DefaultAllowedExtensions are the image types accepted when none are configured.
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "gif"}

// RemoveResult tells what Remove did. Callers may ignore it: removal is best-effort.
type RemoveResult int

const (
	Removed RemoveResult = iota
	Missing
	Failed
)

func (r RemoveResult) String() string {
	switch r {
	case Removed:
		return "removed"
	case Missing:
		return "missing"
	default:
		return "failed"
	}
}

// Uploads validates and stores image files under a single root.
type Uploads struct {
	fs      afero.Fs
	allowed map[string]struct{}
	now     func() time.Time
}

// New stores files in fs, accepting the given extensions (without dots, any case).
func New(fs afero.Fs, allowedExt []string) *Uploads {
	if len(allowedExt) == 0 {
		allowedExt = DefaultAllowedExtensions
	}
	allowed := make(map[string]struct{}, len(allowedExt))
	for _, e := range allowedExt {
		allowed[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))] = struct{}{}
	}
	return &Uploads{fs: fs, allowed: allowed, now: time.Now}
}

// NewOS stores files in dir on the local disk, creating it if needed.
func NewOS(dir string, allowedExt []string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), dir), allowedExt), nil
}

// Allowed reports whether name has an allow-listed extension. Only the text
// after the last dot is looked at; the content is not inspected.
func (u *Uploads) Allowed(name string) bool {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return false
	}
	_, ok := u.allowed[strings.ToLower(name[i+1:])]
	return ok
}

// Accept stores an uploaded form file and returns the name it was stored
// under. A nil header or one without a filename means no file was selected:
// it returns "" and no error.
func (u *Uploads) Accept(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", nil
	}
	if !u.Allowed(fh.Filename) {
		return "", fmt.Errorf("%w: %q", ErrExtensionNotAllowed, fh.Filename)
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %q: %v", ErrWrite, fh.Filename, err)
	}
	defer src.Close()
	return u.Save(fh.Filename, src)
}

// Save writes r under a name derived from original and returns that name.
func (u *Uploads) Save(original string, r io.Reader) (string, error) {
	if !u.Allowed(original) {
		return "", fmt.Errorf("%w: %q", ErrExtensionNotAllowed, original)
	}
	name, f, err := u.create(u.storedName(original))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = u.fs.Remove(name)
		return "", fmt.Errorf("%w: copy %q: %v", ErrWrite, name, err)
	}
	if err := f.Close(); err != nil {
		_ = u.fs.Remove(name)
		return "", fmt.Errorf("%w: close %q: %v", ErrWrite, name, err)
	}
	return name, nil
}

// Remove deletes a stored file. It never fails; the result only says what happened.
func (u *Uploads) Remove(name string) RemoveResult {
	if !validName(name) {
		return Failed
	}
	err := u.fs.Remove(name)
	switch {
	case err == nil:
		return Removed
	case errors.Is(err, os.ErrNotExist):
		return Missing
	default:
		return Failed
	}
}

// Open returns a stored file for reading.
func (u *Uploads) Open(name string) (afero.File, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return u.fs.Open(name)
}

// Exists reports whether a stored file is present.
func (u *Uploads) Exists(name string) bool {
	if !validName(name) {
		return false
	}
	ok, err := afero.Exists(u.fs, name)
	return err == nil && ok
}

// maxNameAttempts bounds the "-n" suffixes tried when a stored name is taken.
const maxNameAttempts = 100

// create opens a new file named base, or base with "-1", "-2", ... inserted
// before the extension when that name already exists. Existing files are
// never truncated.
func (u *Uploads) create(base string) (string, afero.File, error) {
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := base
	for n := 1; n <= maxNameAttempts; n++ {
		f, err := u.fs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		switch {
		case err == nil:
			return name, f, nil
		case !errors.Is(err, os.ErrExist):
			return "", nil, fmt.Errorf("%w: create %q: %v", ErrWrite, name, err)
		}
		name = stem + "-" + strconv.Itoa(n) + ext
	}
	return "", nil, fmt.Errorf("%w: no free name for %q", ErrWrite, base)
}

// storedName builds "{unix seconds}_{original}" and sanitizes it.
func (u *Uploads) storedName(original string) string {
	return SanitizeFilename(strconv.FormatInt(u.now().Unix(), 10) + "_" + original)
}

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	separators  = strings.NewReplacer("/", " ", `\`, " ")
)

// SanitizeFilename reduces name to a single path element made of ASCII
// letters, digits, '.', '_' and '-'. Path separators and whitespace become
// underscores; leading and trailing dots and underscores are dropped.
func SanitizeFilename(name string) string {
	name = strings.Join(strings.Fields(separators.Replace(name)), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// validName accepts only flat names as produced by SanitizeFilename.
func validName(name string) bool {
	return name != "" && name == path.Base(name) && name == SanitizeFilename(name)
}
