package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/fittrack/internal/client/models"
)

func workoutPath(id models.ID) string {
	return "/workouts/" + url.PathEscape(string(id))
}

func (c *Client) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	var out []models.Workout
	if err := c.do(ctx, http.MethodGet, "/workouts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetWorkout(ctx context.Context, id models.ID) (*models.Workout, error) {
	var out models.Workout
	if err := c.do(ctx, http.MethodGet, workoutPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	var out models.Workout
	if err := c.do(ctx, http.MethodPost, "/workouts", w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateWorkout(ctx context.Context, id models.ID, w models.Workout) (*models.Workout, error) {
	var out models.Workout
	if err := c.do(ctx, http.MethodPut, workoutPath(id), w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWorkout(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, workoutPath(id), nil, nil)
}

// WorkoutStats returns the server-computed summary.
func (c *Client) WorkoutStats(ctx context.Context) (*models.Stats, error) {
	var out models.Stats
	if err := c.do(ctx, http.MethodGet, "/workouts/stats/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
