// Copyright © 2026 Kenneth VanderLinde kwvanderlinde@gmail.com
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
)

// Minimal doc generator:
// - Reads docs/commands/*.md as canonical command docs
// - Generates:
//   - docs/man/share/man1/cached-<cmd>.1 via md2man (convert full markdown)
//   - docs/tldr/cached-<cmd>.md using the examples block and short description

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	commandsDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	if err := os.MkdirAll(manOutDir, 0o755); err != nil {
		fatalf("creating man output dir: %v", err)
	}
	if err := os.MkdirAll(tldrOutDir, 0o755); err != nil {
		fatalf("creating tldr output dir: %v", err)
	}

	entries, err := os.ReadDir(commandsDir)
	if err != nil {
		fatalf("reading commands dir %s: %v", commandsDir, err)
	}

	var processed int
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		cmd := strings.TrimSuffix(e.Name(), ".md")
		inPath := filepath.Join(commandsDir, e.Name())
		raw, err := os.ReadFile(inPath)
		if err != nil {
			fatalf("reading %s: %v", inPath, err)
		}

		manBytes := md2man.Render(raw)
		manPath := filepath.Join(manOutDir, fmt.Sprintf("cached-%s.1", cmd))
		if err := writeFileIfChanged(manPath, manBytes, writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd, err)
		}

		tldr := buildTLDR(cmd, string(raw))
		tldrPath := filepath.Join(tldrOutDir, fmt.Sprintf("cached-%s.md", cmd))
		if err := writeFileIfChanged(tldrPath, []byte(tldr), writeOnlyIfChanged); err != nil {
			fatalf("writing TLDR for %s: %v", cmd, err)
		}

		processed++
	}

	if processed == 0 {
		fatalf("no command markdown found under %s", commandsDir)
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

var h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// buildTLDR assembles a tldr page from the doc's title and its first fenced
// example block. Code comments become the example descriptions.
func buildTLDR(cmd, md string) string {
	var b strings.Builder
	b.WriteString("# cached-" + cmd + "\n\n")

	title := "cached " + cmd
	if m := h1Re.FindStringSubmatch(md); m != nil {
		title = strings.TrimSpace(m[1])
	}
	b.WriteString("> " + title + "\n")
	b.WriteString("> More information: https://github.com/kwvanderlinde/cachedgo.\n\n")

	examples := extractExamples(md)
	if len(examples) == 0 {
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`cached " + cmd + " --help`\n")
		return b.String()
	}

	for i, ex := range examples {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + ex.desc + ":\n\n")
		b.WriteString("`" + ex.cmd + "`\n")
	}
	return b.String()
}

type example struct {
	desc string
	cmd  string
}

// extractExamples pulls `# description` / command pairs from the first
// fenced code block in the doc.
func extractExamples(md string) []example {
	const fence = "```"
	start := strings.Index(md, fence)
	if start < 0 {
		return nil
	}
	rest := md[start+len(fence):]
	end := strings.Index(rest, fence)
	if end < 0 {
		return nil
	}

	var exs []example
	desc := "Example"
	for _, ln := range strings.Split(rest[:end], "\n") {
		s := strings.TrimSpace(ln)
		switch {
		case s == "" || s == "sh":
		case strings.HasPrefix(s, "#"):
			desc = strings.TrimSpace(strings.TrimPrefix(s, "#"))
		default:
			exs = append(exs, example{desc: desc, cmd: strings.Join(strings.Fields(s), " ")})
			desc = "Example"
		}
	}
	return exs
}
