package notes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

const (
	DirName       = "notes_files"
	DefaultEditor = "nano"
)

var (
	ErrNotFound    = errors.New("notes: note not found")
	ErrInvalidName = errors.New("notes: invalid name")
)

// noteExts lists the accepted note extensions; new notes use the first.
var noteExts = []string{".md", ".txt"}

// Store is a directory tree of plain text notes. Folders are directories and
// there is no index file.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string { return s.root }

type Entry struct {
	Name     string
	IsFolder bool
}

// List returns the sub-folders and notes of folder, folders first.
func (s *Store) List(folder string) ([]Entry, error) {
	dir, err := s.dir(folder)
	if err != nil {
		return nil, err
	}
	items, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("notes: list %s: %w", folder, err)
	}
	out := make([]Entry, 0, len(items))
	for _, it := range items {
		if strings.HasPrefix(it.Name(), ".") {
			continue
		}
		if it.IsDir() {
			out = append(out, Entry{Name: it.Name(), IsFolder: true})
			continue
		}
		if ext := filepath.Ext(it.Name()); isNoteExt(ext) {
			out = append(out, Entry{Name: strings.TrimSuffix(it.Name(), ext)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsFolder != out[j].IsFolder {
			return out[i].IsFolder
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Path resolves the file of a note. An existing note keeps its extension;
// exists is false when the note would be created.
func (s *Store) Path(folder, title string) (path string, exists bool, err error) {
	if err := validName(title); err != nil {
		return "", false, err
	}
	dir, err := s.dir(folder)
	if err != nil {
		return "", false, err
	}
	for _, ext := range noteExts {
		p := filepath.Join(dir, title+ext)
		if _, statErr := os.Stat(p); statErr == nil {
			return p, true, nil
		}
	}
	return filepath.Join(dir, title+noteExts[0]), false, nil
}

// Prepare returns the path of a note ready for editing, creating the folder.
func (s *Store) Prepare(folder, title string) (string, bool, error) {
	path, exists, err := s.Path(folder, title)
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("notes: create folder: %w", err)
	}
	return path, exists, nil
}

func (s *Store) Read(folder, title string) (string, error) {
	path, exists, err := s.Path(folder, title)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("notes: read %s: %w", title, err)
	}
	return string(raw), nil
}

// Enter resolves name relative to folder. ".." moves up and stops at the
// root; an unknown folder is created.
func (s *Store) Enter(folder, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == ".." {
		parent := filepath.Dir(filepath.Clean(folder))
		if parent == "." || parent == string(filepath.Separator) {
			return "", nil
		}
		return parent, nil
	}
	if name == "" || name == "/" {
		return "", nil
	}
	if err := validName(name); err != nil {
		return "", err
	}
	next := filepath.Join(folder, name)
	dir, err := s.dir(next)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("notes: create folder %s: %w", name, err)
	}
	return next, nil
}

// EditorCommand builds the command opening path in editor. The editor may
// carry arguments, e.g. "code --wait".
func EditorCommand(editor, path string) *exec.Cmd {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		fields = []string{DefaultEditor}
	}
	args := append(fields[1:], path)
	return exec.Command(fields[0], args...)
}

func (s *Store) dir(folder string) (string, error) {
	clean := filepath.Clean(filepath.Join(string(filepath.Separator), folder))
	full := filepath.Join(s.root, clean)
	if !strings.HasPrefix(full, filepath.Clean(s.root)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, folder)
	}
	return full, nil
}

func validName(name string) error {
	n := strings.TrimSpace(name)
	if n == "" || n == "." || n == ".." || strings.ContainsAny(n, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func isNoteExt(ext string) bool {
	for _, e := range noteExts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
