package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/fittrack/internal/client/models"
)

func goalPath(id models.ID) string {
	return "/goals/" + url.PathEscape(string(id))
}

func (c *Client) ListGoals(ctx context.Context) ([]models.Goal, error) {
	var out []models.Goal
	if err := c.do(ctx, http.MethodGet, "/goals", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateGoal(ctx context.Context, g models.Goal) (*models.Goal, error) {
	var out models.Goal
	if err := c.do(ctx, http.MethodPost, "/goals", g, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateGoal(ctx context.Context, id models.ID, u models.GoalUpdate) (*models.Goal, error) {
	var out models.Goal
	if err := c.do(ctx, http.MethodPut, goalPath(id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGoal(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, goalPath(id), nil, nil)
}
