package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fittrack/internal/client/models"
)

func (a *App) Goals(ctx context.Context) error {
	list, err := a.fitness.Goals(ctx)
	if err != nil {
		return err
	}
	printGoals(a.out, list)
	return nil
}

// AddGoal prompts for a goal and creates it with no progress yet.
func (a *App) AddGoal(ctx context.Context) error {
	var (
		g   models.Goal
		err error
	)

	if g.Type, err = a.promptRequired("Goal type (e.g. distance, workouts)"); err != nil {
		return err
	}
	target, err := a.promptFloat("Target", true)
	if err != nil {
		return err
	}
	g.Target = *target
	deadline, err := a.prompt("Deadline YYYY-MM-DD (optional)")
	if err != nil {
		return err
	}
	if g.Deadline, err = parseOptionalDate(deadline); err != nil {
		return err
	}

	created, err := a.fitness.AddGoal(ctx, g)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Goal %s created\n", created.ID)
	return nil
}

// Progress records the current value of a goal.
func (a *App) Progress(ctx context.Context, id string) error {
	current, err := a.promptFloat("Current value", true)
	if err != nil {
		return err
	}

	g, err := a.fitness.RecordProgress(ctx, models.ID(id), *current)
	if err != nil {
		return err
	}
	printGoals(a.out, []models.Goal{*g})
	return nil
}

func (a *App) DeleteGoal(ctx context.Context, id string) error {
	if err := a.fitness.DeleteGoal(ctx, models.ID(id)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Goal %s deleted\n", id)
	return nil
}
