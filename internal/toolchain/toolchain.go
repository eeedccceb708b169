// Package toolchain detects language toolchains for the repository being
// shown in the prompt and resolves the compiler or runtime version to
// display. Detection is driven by marker files in the working tree root and
// never reports an error: anything missing simply produces no hint.
package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/atinylittleshell/gprompt/internal/render"
	"github.com/atinylittleshell/gprompt/internal/styles"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds a single version query.
	DefaultTimeout = 2 * time.Second

	RustIcon = "🦀"
	JavaIcon = "☕️"
)

var (
	ErrNoMarker        = errors.New("no project marker")
	ErrNoJavaHome      = errors.New("JAVA_HOME is not set")
	ErrUnparsedVersion = errors.New("unrecognized version output")
)

// RustMarker identifies a Cargo project.
const RustMarker = "Cargo.toml"

// JavaMarkers identify a JVM project. Order only matters for logging.
var JavaMarkers = []string{
	"build.gradle",
	"pom.xml",
	"build.gradle.kts",
	"build.sbt",
	"build.xml",
	".java-version",
}

// Ecosystem names a detected toolchain family.
type Ecosystem string

const (
	Rust Ecosystem = "rust"
	Java Ecosystem = "java"
)

// Hint is one detected toolchain and the version label to display.
type Hint struct {
	Ecosystem Ecosystem
	Icon      string
	Version   string
}

// Segment renders the hint in its ecosystem color.
func (h Hint) Segment() render.Segment {
	role := styles.RoleRust
	if h.Ecosystem == Java {
		role = styles.RoleJava
	}
	return render.Segment{
		Icon:  h.Icon,
		Text:  h.Version,
		Color: styles.Color(role),
	}
}

// Options configure a Detector.
type Options struct {
	// Rustc is the compiler binary; defaults to "rustc".
	Rustc string
	// JavaHome is the Java installation path, usually $JAVA_HOME.
	JavaHome string
	// Timeout bounds each version query; defaults to DefaultTimeout.
	Timeout time.Duration
	Runner  Runner
	Logger  *zap.Logger
}

// Detector evaluates every supported ecosystem independently.
type Detector struct {
	rustc    string
	javaHome string
	timeout  time.Duration
	runner   Runner
	logger   *zap.Logger
}

// NewDetector creates a Detector, filling unset options with defaults.
func NewDetector(opts Options) *Detector {
	d := &Detector{
		rustc:    opts.Rustc,
		javaHome: opts.JavaHome,
		timeout:  opts.Timeout,
		runner:   opts.Runner,
		logger:   opts.Logger,
	}
	if d.rustc == "" {
		d.rustc = "rustc"
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	if d.runner == nil {
		d.runner = NewExecRunner()
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// Detect returns the hints for root in display order: Rust, then Java.
func (d *Detector) Detect(ctx context.Context, root string) []Hint {
	var hints []Hint

	if hint, err := d.Rust(ctx, root); err == nil {
		hints = append(hints, hint)
	} else {
		d.logger.Debug("no rust hint", zap.String("root", root), zap.Error(err))
	}

	if hint, err := d.Java(root); err == nil {
		hints = append(hints, hint)
	} else {
		d.logger.Debug("no java hint", zap.String("root", root), zap.Error(err))
	}

	return hints
}

// Rust reports the rustc version when root holds a Cargo manifest.
func (d *Detector) Rust(ctx context.Context, root string) (Hint, error) {
	if !isRegularFile(filepath.Join(root, RustMarker)) {
		return Hint{}, ErrNoMarker
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	out, err := d.runner.Output(ctx, d.rustc, "--version")
	if err != nil {
		return Hint{}, err
	}

	version, err := parseRustcVersion(out)
	if err != nil {
		return Hint{}, err
	}

	return Hint{Ecosystem: Rust, Icon: RustIcon, Version: version}, nil
}

// parseRustcVersion extracts "1.75.0" from "rustc 1.75.0 (82e1608df 2023-12-21)".
// The token must parse as a semantic version, so wrapper messages printed on
// stdout (rustup's "error: toolchain ...") produce no hint.
func parseRustcVersion(out string) (string, error) {
	line, _, _ := strings.Cut(out, "\n")
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", ErrUnparsedVersion
	}
	if _, err := semver.NewVersion(fields[1]); err != nil {
		return "", ErrUnparsedVersion
	}
	return fields[1], nil
}

// Java reports the JAVA_HOME leaf directory when root holds a JVM build file.
func (d *Detector) Java(root string) (Hint, error) {
	marker, found := lo.Find(JavaMarkers, func(name string) bool {
		return isRegularFile(filepath.Join(root, name))
	})
	if !found {
		return Hint{}, ErrNoMarker
	}

	if d.javaHome == "" {
		return Hint{}, ErrNoJavaHome
	}

	home := d.javaHome
	if info, err := os.Lstat(home); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if target, err := os.Readlink(home); err == nil {
			home = target
		}
	}

	version := filepath.Base(filepath.Clean(home))
	if version == "." || version == string(filepath.Separator) {
		return Hint{}, ErrUnparsedVersion
	}

	d.logger.Debug("java project detected", zap.String("marker", marker), zap.String("java_home", home))
	return Hint{Ecosystem: Java, Icon: JavaIcon, Version: version}, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
