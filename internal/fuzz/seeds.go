package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"autoinclude/internal/dialect"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

var inlineSeeds = []string{
	"",
	"int main(void) { return 0; }\n",
	"#include <stdio.h>\nint main(void) { printf(\"hi\\n\"); }\n",
	"#pragma once\nsize_t n;\n",
	"#ifndef A_H\n#define A_H\nuint8_t b;\n#endif\n",
	"#!/usr/bin/env tcc -run\nint main(void) { return abs(-1); }\n",
	"/* open\nint x = strlen(\"a\");\n",
	"#include <vector>\nint main() { std::string s; std::cout << s; }\n",
	"using namespace std;\nvector<int> v;\r\nmap<int, int> m;\r\n",
	"#include foo.h\n#include MACRO_HEADER\nFILE *f;\n",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "driver", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по testdata, добавляем все исходники C и C++
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !dialect.IsSourcePath(path) {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
