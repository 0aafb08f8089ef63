package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fittrack/internal/client/models"
)

func (a *App) Workouts(ctx context.Context) error {
	list, err := a.fitness.Workouts(ctx)
	if err != nil {
		return err
	}
	printWorkouts(a.out, list)
	return nil
}

func (a *App) Workout(ctx context.Context, id string) error {
	w, err := a.fitness.Workout(ctx, models.ID(id))
	if err != nil {
		return err
	}
	printWorkout(a.out, w)
	return nil
}

// AddWorkout prompts for a workout and records it.
func (a *App) AddWorkout(ctx context.Context) error {
	var (
		w   models.Workout
		err error
	)

	if w.Title, err = a.promptRequired("Title"); err != nil {
		return err
	}
	if w.Type, err = a.promptRequired("Type (e.g. cardio, strength)"); err != nil {
		return err
	}
	if w.Duration, err = a.promptInt("Duration in minutes"); err != nil {
		return err
	}
	if w.Calories, err = a.promptInt("Calories burned"); err != nil {
		return err
	}
	distance, err := a.promptFloat("Distance in km (optional)", false)
	if err != nil {
		return err
	}
	if distance != nil {
		w.Distance = *distance
	}
	if w.Notes, err = a.prompt("Notes (optional)"); err != nil {
		return err
	}
	date, err := a.prompt("Date YYYY-MM-DD (empty for today)")
	if err != nil {
		return err
	}
	if w.Date, err = parseOptionalDate(date); err != nil {
		return err
	}

	created, err := a.fitness.AddWorkout(ctx, w)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Workout %s saved\n", created.ID)
	return nil
}

func (a *App) DeleteWorkout(ctx context.Context, id string) error {
	if err := a.fitness.DeleteWorkout(ctx, models.ID(id)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Workout %s deleted\n", id)
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	s, err := a.fitness.Stats(ctx)
	if err != nil {
		return err
	}
	printStats(a.out, s)
	return nil
}
