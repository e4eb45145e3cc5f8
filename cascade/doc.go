// Package cascade runs an action on the local node and fans the same action
// out to a fixed set of peer nodes over HTTP, collecting every outcome into
// one report.
//
// Propagation is single-hop: outbound calls carry the cascade-disable marker
// (cascade=false by default) and a node receiving it only acts locally. A node
// that cannot resolve its own identifier does not cascade at all, since it
// cannot leave itself out of the peer list.
//
// Units of work run with bounded parallelism under one deadline. Failures of
// the local action, of a peer, or of a unit itself become entries in the
// report; Run never returns an error.
//
//	engine, err := cascade.New(cascade.Config[Flush]{
//	    ActionDescription: "flush cache",
//	    Hosts:             []string{"http://nodeA:8080", "http://nodeB:8080"},
//	    Path:              "/cache/flush",
//	    LocalAction:       flushLocal,
//	})
//	results := engine.Run(ctx, Flush{Region: "eu"}, true)
package cascade
