// Package identity resolves the identifier a node uses to recognise itself in
// its own peer list.
//
// A node that cannot identify itself must not cascade: it could call itself
// and loop. Resolvers therefore report success explicitly.
//
//	id, ok := identity.Default().LocalIdentifier()
//	if !ok {
//	    // perform the action locally only
//	}
package identity
