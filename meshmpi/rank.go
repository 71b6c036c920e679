// Package meshmpi is the "MPI wrapper" external collaborator named in
// spec.md §1/§6: a minimal distributed-memory message-passing substrate
// that the connector (C3) and refine schedule (C6) build their collective
// and point-to-point operations on, instead of binding to a real MPI
// library (none exists anywhere in the retrieved corpus). It is grounded
// on the teacher's akita-based component/port/engine model: a "rank" plays
// the role of one akita component, and asynchronous point-to-point
// deliveries are driven by an akita sim.Engine ticking a completion-queue
// stage, exactly the pattern spec.md §9 "Non-local graph construction"
// calls for.
package meshmpi

import "fmt"

// Rank identifies one process in the communicator. Everything in amrmesh
// that is a "distributed-memory" algorithm is parameterized over Rank
// rather than over goroutines/threads, so a single process can simulate an
// arbitrary rank count deterministically (useful for the bridge() and
// refine-schedule tests in spec.md §8, which must be reproducible).
type Rank int

func (r Rank) String() string { return fmt.Sprintf("rank%d", int(r)) }
