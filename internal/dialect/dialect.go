package dialect

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the source language variant a file is analysed as.
// Both is only meaningful for header candidates that serve either language.
type Kind uint8

const (
	Unknown Kind = iota
	C
	CPP
	Both

	kindCount
)

func (k Kind) String() string {
	switch k {
	case C:
		return "c"
	case CPP:
		return "cpp"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}

// MarshalText lets Kind appear as a plain string in JSON, YAML and msgpack.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the names produced by Parse.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Accepts reports whether a candidate tagged k may be offered to a file of
// dialect file.
func (k Kind) Accepts(file Kind) bool {
	switch k {
	case Both:
		return file == C || file == CPP
	case C, CPP:
		return k == file
	default:
		return false
	}
}

// Parse converts a user supplied name. "auto" and "" yield Unknown.
func Parse(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "unknown":
		return Unknown, nil
	case "c":
		return C, nil
	case "cpp", "c++", "cxx", "cc":
		return CPP, nil
	case "both":
		return Both, nil
	}
	return Unknown, fmt.Errorf("unknown dialect %q (want c, cpp or auto)", s)
}

var extensions = map[string]Kind{
	".c":   C,
	".cpp": CPP,
	".cc":  CPP,
	".cxx": CPP,
	".c++": CPP,
	".cp":  CPP,
	".hpp": CPP,
	".hh":  CPP,
	".hxx": CPP,
	".h++": CPP,
	".ipp": CPP,
	".tpp": CPP,
	".inl": CPP,
	".ixx": CPP,
	".h":   Unknown, // решается по содержимому
}

// FromPath maps a file extension to a dialect. Unknown means the content
// decides; ok is false for extensions that are not C or C++ at all.
func FromPath(path string) (k Kind, ok bool) {
	ext := filepath.Ext(path)
	if k, ok = extensions[ext]; ok {
		return k, true
	}
	// .C and .H are C++ by convention on case-sensitive systems
	if ext == ".C" || ext == ".H" {
		return CPP, true
	}
	k, ok = extensions[strings.ToLower(ext)]
	return k, ok
}

// IsSourcePath reports whether path has a C or C++ extension.
func IsSourcePath(path string) bool {
	_, ok := FromPath(path)
	return ok
}
