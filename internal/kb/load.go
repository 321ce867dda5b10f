package kb

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"autoinclude/internal/dialect"
)

//go:embed data/stdlib.yaml
var stdlibYAML []byte

var (
	defaultOnce sync.Once
	defaultBase *Base
	defaultErr  error
)

// Default returns the built-in standard library table. It is parsed once.
func Default() *Base {
	defaultOnce.Do(func() {
		defaultBase, defaultErr = Parse(stdlibYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("kb: embedded dataset is invalid: %v", defaultErr))
	}
	return defaultBase
}

// ErrDataset wraps every validation failure reported by Parse.
var ErrDataset = errors.New("invalid knowledge base dataset")

type dataset struct {
	Version  int              `yaml:"version"`
	C        []headerSection  `yaml:"c"`
	CPP      []headerSection  `yaml:"cpp"`
	Literals []literalSection `yaml:"literals"`
	Shared   []sharedEntry    `yaml:"shared"`
}

type headerSection struct {
	Header    string   `yaml:"header"`
	CXX       string   `yaml:"cxx"`
	Quoted    bool     `yaml:"quoted"`
	Priority  int      `yaml:"priority"`
	Function  []string `yaml:"function"`
	Type      []string `yaml:"type"`
	Macro     []string `yaml:"macro"`
	Object    []string `yaml:"object"`
	Namespace []string `yaml:"namespace"`
}

type literalSection struct {
	Header string   `yaml:"header"`
	Suffix []string `yaml:"suffix"`
}

type sharedEntry struct {
	Symbol     string            `yaml:"symbol"`
	Kind       string            `yaml:"kind"`
	Candidates []sharedCandidate `yaml:"candidates"`
}

type sharedCandidate struct {
	Header   string       `yaml:"header"`
	Dialect  dialect.Kind `yaml:"dialect"`
	Priority int          `yaml:"priority"`
	Quoted   bool         `yaml:"quoted"`
}

// Parse builds a Base from a YAML dataset in the format of the embedded
// standard library table. Unknown fields are rejected.
func Parse(data []byte) (*Base, error) {
	var ds dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrDataset, err)
	}
	if ds.Version != 1 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrDataset, ds.Version)
	}

	b := newBase()
	for i := range ds.C {
		if err := b.addCSection(&ds.C[i]); err != nil {
			return nil, err
		}
	}
	for i := range ds.CPP {
		if err := b.addCPPSection(&ds.CPP[i]); err != nil {
			return nil, err
		}
	}
	for _, lit := range ds.Literals {
		if lit.Header == "" {
			return nil, fmt.Errorf("%w: literal section without header", ErrDataset)
		}
		for _, s := range lit.Suffix {
			if !strings.HasPrefix(s, `""`) && !strings.HasPrefix(s, "0") {
				return nil, fmt.Errorf("%w: literal key %q must start with \"\" or 0", ErrDataset, s)
			}
			b.add(s, LiteralSuffix, HeaderCandidate{Header: lit.Header, IsSystem: true, Dialect: dialect.CPP})
		}
	}
	for _, sh := range ds.Shared {
		kind, err := parseKind(sh.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDataset, sh.Symbol, err)
		}
		if sh.Symbol == "" || len(sh.Candidates) == 0 {
			return nil, fmt.Errorf("%w: shared entry %q has no candidates", ErrDataset, sh.Symbol)
		}
		for _, c := range sh.Candidates {
			if c.Header == "" || c.Dialect == dialect.Unknown {
				return nil, fmt.Errorf("%w: shared entry %q: candidate needs header and dialect", ErrDataset, sh.Symbol)
			}
			b.add(sh.Symbol, kind, HeaderCandidate{
				Header:   c.Header,
				IsSystem: !c.Quoted,
				Dialect:  c.Dialect,
				Priority: c.Priority,
			})
		}
	}
	b.seal()
	return b, nil
}

func (s *headerSection) each(fn func(name string, kind SymbolKind)) {
	groups := []struct {
		names []string
		kind  SymbolKind
	}{
		{s.Function, Function},
		{s.Type, Type},
		{s.Macro, Macro},
		{s.Object, Object},
		{s.Namespace, Namespace},
	}
	for _, g := range groups {
		for _, n := range g.names {
			fn(n, g.kind)
		}
	}
}

// addCSection registers a C header. With a C++ wrapper the wrapper wins in
// C++ files, the .h spelling stays acceptable one step behind, and
// non-macro names also become std::name.
func (b *Base) addCSection(s *headerSection) error {
	if s.Header == "" {
		return fmt.Errorf("%w: c section without header", ErrDataset)
	}
	var err error
	s.each(func(name string, kind SymbolKind) {
		if err != nil {
			return
		}
		if name == "" || strings.Contains(name, "::") {
			err = fmt.Errorf("%w: %s: bad C symbol %q", ErrDataset, s.Header, name)
			return
		}
		if s.CXX == "" {
			b.add(name, kind, HeaderCandidate{Header: s.Header, IsSystem: !s.Quoted, Dialect: dialect.C, Priority: s.Priority})
			return
		}
		b.add(name, kind, HeaderCandidate{Header: s.Header, IsSystem: !s.Quoted, Dialect: dialect.Both, Priority: s.Priority + 1})
		b.add(name, kind, HeaderCandidate{Header: s.CXX, IsSystem: true, Dialect: dialect.CPP, Priority: s.Priority})
		if kind != Macro {
			b.add("std::"+name, kind, HeaderCandidate{Header: s.CXX, IsSystem: true, Dialect: dialect.CPP, Priority: s.Priority})
		}
	})
	if err != nil {
		return err
	}
	if s.CXX != "" {
		b.noteHeader(s.CXX, dialect.CPP)
	}
	b.noteHeader(s.Header, dialect.C)
	return nil
}

func (b *Base) addCPPSection(s *headerSection) error {
	if s.Header == "" {
		return fmt.Errorf("%w: cpp section without header", ErrDataset)
	}
	if s.CXX != "" {
		return fmt.Errorf("%w: %s: cxx is only valid in c sections", ErrDataset, s.Header)
	}
	var err error
	s.each(func(name string, kind SymbolKind) {
		if err != nil {
			return
		}
		if name == "" || strings.HasPrefix(name, "std::") {
			err = fmt.Errorf("%w: %s: bad C++ symbol %q", ErrDataset, s.Header, name)
			return
		}
		b.add("std::"+name, kind, HeaderCandidate{Header: s.Header, IsSystem: !s.Quoted, Dialect: dialect.CPP, Priority: s.Priority})
	})
	if err != nil {
		return err
	}
	b.noteHeader(s.Header, dialect.CPP)
	return nil
}
