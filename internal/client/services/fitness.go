package services

import (
	"context"

	"github.com/dmitrijs2005/fittrack/internal/client/models"
)

// FitnessAPI is the part of the API client serving workouts and goals.
type FitnessAPI interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id models.ID) (*models.Workout, error)
	CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)
	UpdateWorkout(ctx context.Context, id models.ID, w models.Workout) (*models.Workout, error)
	DeleteWorkout(ctx context.Context, id models.ID) error
	WorkoutStats(ctx context.Context) (*models.Stats, error)

	ListGoals(ctx context.Context) ([]models.Goal, error)
	CreateGoal(ctx context.Context, g models.Goal) (*models.Goal, error)
	UpdateGoal(ctx context.Context, id models.ID, u models.GoalUpdate) (*models.Goal, error)
	DeleteGoal(ctx context.Context, id models.ID) error
}

// FitnessService exposes workouts, goals and stats to the CLI.
type FitnessService interface {
	Workouts(ctx context.Context) ([]models.Workout, error)
	Workout(ctx context.Context, id models.ID) (*models.Workout, error)
	AddWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)
	EditWorkout(ctx context.Context, id models.ID, w models.Workout) (*models.Workout, error)
	DeleteWorkout(ctx context.Context, id models.ID) error
	Stats(ctx context.Context) (*models.Stats, error)

	Goals(ctx context.Context) ([]models.Goal, error)
	AddGoal(ctx context.Context, g models.Goal) (*models.Goal, error)
	RecordProgress(ctx context.Context, id models.ID, current float64) (*models.Goal, error)
	DeleteGoal(ctx context.Context, id models.ID) error
}

type fitnessService struct {
	api FitnessAPI
}

func NewFitnessService(api FitnessAPI) FitnessService {
	return &fitnessService{api: api}
}

func (s *fitnessService) Workouts(ctx context.Context) ([]models.Workout, error) {
	return s.api.ListWorkouts(ctx)
}

func (s *fitnessService) Workout(ctx context.Context, id models.ID) (*models.Workout, error) {
	return s.api.GetWorkout(ctx, id)
}

func (s *fitnessService) AddWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	return s.api.CreateWorkout(ctx, w)
}

func (s *fitnessService) EditWorkout(ctx context.Context, id models.ID, w models.Workout) (*models.Workout, error) {
	return s.api.UpdateWorkout(ctx, id, w)
}

func (s *fitnessService) DeleteWorkout(ctx context.Context, id models.ID) error {
	return s.api.DeleteWorkout(ctx, id)
}

func (s *fitnessService) Stats(ctx context.Context) (*models.Stats, error) {
	return s.api.WorkoutStats(ctx)
}

func (s *fitnessService) Goals(ctx context.Context) ([]models.Goal, error) {
	return s.api.ListGoals(ctx)
}

func (s *fitnessService) AddGoal(ctx context.Context, g models.Goal) (*models.Goal, error) {
	return s.api.CreateGoal(ctx, g)
}

// RecordProgress sets the goal's current value.
func (s *fitnessService) RecordProgress(ctx context.Context, id models.ID, current float64) (*models.Goal, error) {
	return s.api.UpdateGoal(ctx, id, models.GoalUpdate{Current: &current})
}

func (s *fitnessService) DeleteGoal(ctx context.Context, id models.ID) error {
	return s.api.DeleteGoal(ctx, id)
}
