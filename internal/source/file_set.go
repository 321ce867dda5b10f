package source

import (
	"fmt"
	"os"

	"fortio.org/safecast"
	"github.com/cespare/xxhash/v2"
)

// FileSet manages a collection of source files and provides offset resolution.
// It is not safe for concurrent use; the driver keeps one FileSet per pipeline.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the directory used to relativise paths, defaulting to the
// working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Fingerprint is the content hash stored in File.Hash.
func Fingerprint(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}

	normalizedPath := normalizePath(path)
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    Fingerprint(content),
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// AddRaw decodes raw bytes (BOM, UTF-16, CRLF) and adds the result.
func (fileSet *FileSet) AddRaw(path string, raw []byte, flags FileFlags) (FileID, error) {
	text, decoded, err := Decode(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return fileSet.Add(path, Normalize(text), flags|decoded), nil
}

// Load reads a file from disk and calls AddRaw.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.AddRaw(path, raw, 0)
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
// content must already be UTF-8.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	flags := FileVirtual
	content, crlf := normalizeCRLF(content)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		flags |= FileNoFinalNewline
	}
	return fileSet.Add(name, content, flags)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Len returns the number of files added so far.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// LineCount returns the number of lines; a trailing newline does not start a new line.
func (f *File) LineCount() int {
	if len(f.Content) == 0 {
		return 0
	}
	if f.Content[len(f.Content)-1] == '\n' {
		return len(f.LineIdx)
	}
	return len(f.LineIdx) + 1
}

// LineStart returns the byte offset of the 0-based line.
func (f *File) LineStart(line int) uint32 {
	if line <= 0 {
		return 0
	}
	if line > len(f.LineIdx) {
		return uint32(len(f.Content)) // #nosec G115 -- checked in Add
	}
	return f.LineIdx[line-1] + 1
}

// LineEnd returns the offset just past the last character of the 0-based line,
// excluding the newline.
func (f *File) LineEnd(line int) uint32 {
	if line < len(f.LineIdx) && line >= 0 {
		return f.LineIdx[line]
	}
	return uint32(len(f.Content)) // #nosec G115 -- checked in Add
}

// LineOf returns the 0-based line holding off.
func (f *File) LineOf(off uint32) int {
	return lineOf(f.LineIdx, off)
}

// Line returns the text of the 0-based line without its terminator.
func (f *File) Line(line int) string {
	if line < 0 || line >= f.LineCount() {
		return ""
	}
	return string(f.Content[f.LineStart(line):f.LineEnd(line)])
}

// Lines splits Content into lines without terminators.
func (f *File) Lines() []string {
	n := f.LineCount()
	out := make([]string, n)
	for i := range n {
		out[i] = f.Line(i)
	}
	return out
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	return f.Line(int(lineNum) - 1)
}
