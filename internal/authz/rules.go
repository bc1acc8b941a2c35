// Package authz holds the authorization rules as pure predicates over
// (actor, action, target). Handlers evaluate these before any mutation;
// nothing here touches the database.
package authz

import (
	"github.com/matercare/api/internal/models"
)

// Actor is the authenticated identity making a request, as carried by
// the access token.
type Actor struct {
	ID   uint
	Role models.Role
}

// CanReadUser: a user may read their own record, staff may read anyone.
func CanReadUser(actor Actor, targetID uint) bool {
	return actor.ID == targetID || actor.Role.IsStaff()
}

// CanCreateUser: only staff create ordinary user accounts.
func CanCreateUser(actor Actor) bool {
	return actor.Role.IsStaff()
}

// CanUpdateUser: users change their own data, staff change anyone's.
func CanUpdateUser(actor Actor, targetID uint) bool {
	return actor.ID == targetID || actor.Role.IsStaff()
}

// CanDeleteUser: staff delete accounts, never their own.
func CanDeleteUser(actor Actor, targetID uint) bool {
	return actor.Role.IsStaff() && actor.ID != targetID
}

// CanReadAdminAccounts gates the admin-user listing surface.
func CanReadAdminAccounts(actor Actor) bool {
	return actor.Role.IsStaff()
}

// CanWriteAdminAccounts: staff create and update staff/admin accounts.
func CanWriteAdminAccounts(actor Actor) bool {
	return actor.Role.IsStaff()
}

// CanDeleteAdminAccounts: only the admin tier deletes staff/admin accounts.
func CanDeleteAdminAccounts(actor Actor) bool {
	return actor.Role.IsAdmin()
}

// OwnsProfile reports whether the profile belongs to the actor. A profile
// whose user reference was cleared belongs to nobody.
func OwnsProfile(actor Actor, profile *models.UserProfile) bool {
	return profile.UserID != nil && *profile.UserID == actor.ID
}

// CanModifyProfile: owners change their own profile; staff manage any
// profile through the admin surface.
func CanModifyProfile(actor Actor, profile *models.UserProfile) bool {
	return OwnsProfile(actor, profile) || actor.Role.IsStaff()
}

// CanManageProfiles gates the admin profile surface.
func CanManageProfiles(actor Actor) bool {
	return actor.Role.IsStaff()
}

// CanManagePregnancyRecords gates the pregnant-woman records.
func CanManagePregnancyRecords(actor Actor) bool {
	return actor.Role.IsStaff()
}
