package services

import "github.com/terraincognita07/ekklesia/internal/models"

// Caller is the authenticated identity a request runs as.
type Caller struct {
	UserID   string
	Username string
	FullName string
	Role     models.Role
	MemberID *uint
}

func IsAdminCaller(caller *Caller) bool {
	return caller != nil && caller.Role == models.RoleAdmin
}

// IsEditorRole reports whether role may write member records.
func IsEditorRole(role models.Role) bool {
	switch role {
	case models.RoleAdmin, models.RolePresbyter, models.RoleDeacon:
		return true
	default:
		return false
	}
}

func requireCaller(caller *Caller) error {
	if caller == nil || caller.UserID == "" {
		return ErrUnauthenticated
	}
	for _, role := range models.Roles() {
		if caller.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

func requireEditor(caller *Caller) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if !IsEditorRole(caller.Role) {
		return ErrForbidden
	}
	return nil
}

func requireAdmin(caller *Caller) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if !IsAdminCaller(caller) {
		return ErrForbidden
	}
	return nil
}

// requireAdminOnOther runs the self check before the role check so a caller
// targeting its own account always gets ErrForbiddenSelfModification.
func requireAdminOnOther(caller *Caller, targetUserID string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if caller.UserID == targetUserID {
		return ErrForbiddenSelfModification
	}
	if !IsAdminCaller(caller) {
		return ErrForbidden
	}
	return nil
}
