package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	// FileUTF16LE and FileUTF16BE record the original encoding of a file
	// that was transcoded to UTF-8 on load.
	FileUTF16LE
	FileUTF16BE
	// FileNoFinalNewline is set when the last line is not terminated.
	FileNoFinalNewline
)

// File captures metadata and content for a single source file.
// Content is always UTF-8 with LF line endings.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    uint64
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Has reports whether all bits of flag are set.
func (f FileFlags) Has(flag FileFlags) bool {
	return f&flag == flag
}
