package lib_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slok/opsq/pkg/lib"
)

// This example shows how to seed a simulator with custom tasks and tick it
// until every task is complete.
func Example_seedAndTick() {
	ctx := context.Background()

	sim, err := lib.New(ctx, lib.Config{
		RandomSeed:   42,
		StepDuration: 30 * time.Second,
		Tasks: []lib.Task{
			{
				ID:   "t1",
				Name: "Draft Proposal",
				User: "You",
				LLM:  "GPT-4",
				Steps: []lib.Step{
					{Name: "Outline", LLM: "GPT-4"},
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}

	for {
		report, err := sim.Tick(ctx)
		if err != nil {
			panic(err)
		}
		if report.AllComplete {
			break
		}
	}

	task, err := sim.GetTask(ctx, "t1")
	if err != nil {
		panic(err)
	}

	fmt.Printf("%s: %s %d%% (step took %s)\n", task.Name, task.Status, task.Progress, task.Steps[0].Duration)

	// Output:
	// Draft Proposal: complete 100% (step took 30s)
}

// This example shows how to list the tasks of the active user from the
// embedded seed.
func Example_listTasks() {
	ctx := context.Background()

	sim, err := lib.New(ctx, lib.Config{})
	if err != nil {
		panic(err)
	}

	tasks, err := sim.ListTasks(ctx, &lib.ListTasksOpts{Scope: lib.ScopeIndividual})
	if err != nil {
		panic(err)
	}

	for _, t := range tasks {
		fmt.Printf("%s %s\n", t.ID, t.User)
	}

	// Output:
	// 1 You
	// 3 You
}

// This example shows how to check for specific errors.
func Example_errorHandling() {
	ctx := context.Background()

	sim, err := lib.New(ctx, lib.Config{})
	if err != nil {
		panic(err)
	}

	_, err = sim.GetTask(ctx, "nonexistent")
	if errors.Is(err, lib.ErrNotFound) {
		fmt.Println("task not found")
	}

	// Output:
	// task not found
}
