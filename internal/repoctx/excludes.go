package repoctx

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// userExcludes returns the ignore patterns git applies on top of the
// worktree's .gitignore files and info/exclude. Only one core.excludesFile
// applies: repository config wins over global, global over system. With none
// configured, git falls back to $XDG_CONFIG_HOME/git/ignore.
func (h *Handle) userExcludes() []gitignore.Pattern {
	if path := h.configuredExcludesFile(); path != "" {
		return readExcludesFile(path)
	}

	root := osfs.New("/")
	if patterns, err := gitignore.LoadGlobalPatterns(root); err == nil && len(patterns) > 0 {
		return patterns
	}
	if patterns, err := gitignore.LoadSystemPatterns(root); err == nil && len(patterns) > 0 {
		return patterns
	}

	if path := defaultExcludesFile(); path != "" {
		return readExcludesFile(path)
	}
	return nil
}

// configuredExcludesFile reads core.excludesFile from the repository config.
func (h *Handle) configuredExcludesFile() string {
	cfg, err := h.repo.Config()
	if err != nil || cfg.Raw == nil || !cfg.Raw.HasSection("core") {
		return ""
	}
	return cfg.Raw.Section("core").Option("excludesfile")
}

func defaultExcludesFile() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "git", "ignore")
}

// readExcludesFile parses a gitignore-format file. Missing or unreadable files
// have no patterns.
func readExcludesFile(path string) []gitignore.Pattern {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, rest)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}
