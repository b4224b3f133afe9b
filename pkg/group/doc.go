// Package group manages named role labels and account membership.
//
// Groups are a shared lookup-or-create registry: GetOrCreateGroup is atomic
// with respect to the group name, so concurrent bulk actions never create
// duplicate groups. Membership operations are idempotent.
package group
