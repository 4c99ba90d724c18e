// Package lib provides a Go SDK for embedding the opsq task queue simulator.
//
// This package allows applications to seed a task queue, advance the
// simulation and read the task state without shelling out to the opsq CLI
// binary. It is useful for demos, fixtures and building dashboards on top of
// the simulator.
//
// # Quick Start
//
// Create a simulator from the embedded seed and advance it:
//
//	sim, err := lib.New(ctx, lib.Config{RandomSeed: 42})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Advance one tick.
//	report, _ := sim.Tick(ctx)
//	fmt.Println(report.Version)
//
//	// Read the state.
//	tasks, _ := sim.ListTasks(ctx, &lib.ListTasksOpts{Scope: lib.ScopeIndividual})
//	task, _ := sim.GetTask(ctx, "1")
//	counts, _ := sim.Counts(ctx)
//
// # Seeding
//
// The tasks are loaded from [Config].Tasks when set, from the YAML file at
// [Config].SeedPath otherwise, and from the embedded dataset when both are
// empty.
//
// # Running
//
// [Simulator.Run] ticks the simulation on a wall clock interval until the
// context is canceled or a stop condition is met:
//
//	ticks, err := sim.Run(ctx, &lib.RunOpts{
//	    Interval:      100 * time.Millisecond,
//	    UntilComplete: true,
//	    OnTick: func(r lib.TickReport) {
//	        fmt.Printf("tick %d: %d steps finished\n", r.Version, len(r.StepsCompleted))
//	    },
//	})
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: Task does not exist.
//   - [ErrAlreadyExists]: Seed tasks with the same ID.
//   - [ErrNotValid]: Invalid input (e.g. a task with an unknown status).
//
// # Thread Safety
//
// A [Simulator] is safe for concurrent use from multiple goroutines. Ticks are
// serialized, reads always observe a complete tick.
package lib
