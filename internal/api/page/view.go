package page

import (
	"fmt"
	"net/url"
	"strings"
)

// ViewMode is the profile page's view state. The page is in normal mode
// unless the member explicitly asked to see it as a visitor would; nothing
// but an explicit action moves it back.
type ViewMode string

const (
	ViewNormal  ViewMode = "normal"
	ViewVisitor ViewMode = "visitor"
)

// Action is a control the page exposes in a given view state.
type Action string

const (
	ActionEditProfile   Action = "edit_profile"
	ActionChangeAvatar  Action = "change_avatar"
	ActionChangeCover   Action = "change_cover"
	ActionCopyLink      Action = "copy_link"
	ActionViewAsVisitor Action = "view_as_visitor"
	ActionSignOut       Action = "sign_out"
	ActionExitPreview   Action = "exit_preview"
)

// ParseViewMode validates a view query value. Empty means normal.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case "", ViewNormal:
		return ViewNormal, nil
	case ViewVisitor:
		return ViewVisitor, nil
	default:
		return "", fmt.Errorf("unknown view mode: %q", s)
	}
}

// EnterPreview transitions normal -> visitor. Already-previewing stays put.
func (m ViewMode) EnterPreview() ViewMode { return ViewVisitor }

// ExitPreview transitions visitor -> normal.
func (m ViewMode) ExitPreview() ViewMode { return ViewNormal }

// Actions returns the control set for the view state: the full edit/share
// surface in normal mode, only the exit control while previewing.
func (m ViewMode) Actions() []Action {
	if m == ViewVisitor {
		return []Action{ActionExitPreview}
	}
	return []Action{
		ActionEditProfile,
		ActionChangeAvatar,
		ActionChangeCover,
		ActionCopyLink,
		ActionViewAsVisitor,
		ActionSignOut,
	}
}

// ShareLink builds the shareable profile URL, <origin>/perfil/<username>.
func ShareLink(origin, username string) string {
	return strings.TrimRight(origin, "/") + "/perfil/" + url.PathEscape(username)
}
