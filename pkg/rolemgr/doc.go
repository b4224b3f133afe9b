// Package rolemgr applies named bulk role operations to selections of member
// accounts.
//
// # Operations
//
// Seven operations are supported:
//
//	clear_roles           remove all groups, clear is_staff and is_superuser
//	promote_to_admin      ensure group "admin", set is_staff and is_superuser
//	promote_to_core       ensure group "core", set is_staff
//	promote_to_pickleader ensure group "pickleader", set is_staff
//	promote_to_volunteer  ensure group "volunteer"
//	promote_to_owner      ensure group "owner"
//	deactivate            clear is_active unless the account is a superuser
//
// "Ensure group" uses get-or-create semantics: the group is created on first
// use and never duplicated. All operations are idempotent per account.
//
// # Batch semantics
//
// Apply processes the selection sequentially with per-item isolation: one
// failing account is reported in its ItemResult while the rest of the batch
// proceeds, and there is no batch-level rollback. Superusers are protected
// from deactivation; the skip is silent, not an error.
//
// The package also derives the read-only display values of the account
// listing (is_core, is_admin, group summary) and its filter predicates.
package rolemgr
