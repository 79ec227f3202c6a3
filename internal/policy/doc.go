// Package policy holds the registry's decision rules. Every function here is
// pure: it sees only its arguments and never touches storage.
//
// Rules:
//   - Accounts may only be created for emails in the institutional domain.
//   - An item may be mutated by its owner or by an admin, nobody else.
//   - Contact details are shown to signed-in actors only.
//   - Status changes follow the lifecycle table; admins may always force an
//     item to returned.
package policy
