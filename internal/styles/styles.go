package styles

import (
	"strings"

	"github.com/muesli/termenv"
)

// 256-color palette indices used across the prompt.
const (
	GREEN  = "64"
	VIOLET = "61"
	PURPLE = "125"
	BLUE   = "33"
	RED    = "124"
	YELLOW = "136"
	ORANGE = "166"
	CYAN   = "37"
)

// Role names a presentation slot in the prompt line.
type Role string

const (
	RoleDirectory     Role = "directory"
	RoleBranch        Role = "branch"
	RoleDetached      Role = "detached"
	RoleStatusAlert   Role = "status_alert"
	RoleStatusNeutral Role = "status_neutral"
	RoleRepoState     Role = "repo_state"
	RoleContinuation  Role = "continuation"
	RoleRust          Role = "rust"
	RoleJava          Role = "java"
)

// Palette maps presentation roles to terminal colors.
var Palette = map[Role]string{
	RoleDirectory:     GREEN,
	RoleBranch:        VIOLET,
	RoleDetached:      PURPLE,
	RoleStatusAlert:   RED,
	RoleStatusNeutral: BLUE,
	RoleRepoState:     PURPLE,
	RoleContinuation:  YELLOW,
	RoleRust:          ORANGE,
	RoleJava:          CYAN,
}

// Color returns the palette color for a role, or "" when the role is unknown.
func Color(role Role) string {
	return Palette[role]
}

// Profile picks the termenv color profile for a GPROMPT_COLOR setting.
// Prompt output is captured by the shell rather than written to a TTY, so
// the profile is never auto-detected.
func Profile(mode string, noColor bool) termenv.Profile {
	if noColor {
		return termenv.Ascii
	}

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "never", "none", "ascii", "off":
		return termenv.Ascii
	case "ansi", "16":
		return termenv.ANSI
	case "truecolor", "24bit":
		return termenv.TrueColor
	default:
		return termenv.ANSI256
	}
}
