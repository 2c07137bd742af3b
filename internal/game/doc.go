// Package game implements the table and betting engine for Texas Hold'em.
//
// The main types are Table, which owns the seats, stakes and prompts for
// one game, and HandState, which runs the betting state machine for a
// single hand from the blinds through showdown settlement.
//
// # Basic Usage
//
// Seat players at a table, then deal hands:
//
//	t := game.NewTable(game.WithStakes(5))
//	t.Join("p1", "Alice")
//	t.Join("p2", "Bob")
//	h, _ := t.StartHand()
//	for !h.Complete() {
//	    p := h.PlayerToAct()
//	    t.Act(p.ID, game.Call, 0)
//	}
//
// # Deterministic Testing
//
// Shuffles draw from the table's random source; tests pass a seeded one:
//
//	rng := rand.New(rand.NewSource(42))
//	t := game.NewTable(game.WithRand(rng))
//
// # Concurrency
//
// A Table is not safe for concurrent use. Confine each table to a single
// goroutine; tables share nothing, so any number of them can run in
// parallel.
package game
