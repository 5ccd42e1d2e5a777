package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"questpath/models"
)

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp models.LoginResponse
	err := c.Do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", &Error{Status: http.StatusOK, Message: "Login response did not include a token."}
	}
	return resp.AccessToken, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.Do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateDisplayName(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	if err := c.Do(ctx, http.MethodPatch, "/auth/me", models.UpdateUserRequest{DisplayName: name}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) MyGoals(ctx context.Context) ([]models.Goal, error) {
	goals := []models.Goal{}
	if err := c.Do(ctx, http.MethodGet, "/goals/me", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *Client) CreateGoal(ctx context.Context, description string) (*models.Goal, error) {
	var g models.Goal
	if err := c.Do(ctx, http.MethodPost, "/goals", models.CreateGoalRequest{Description: description}, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) Goal(ctx context.Context, id int) (*models.Goal, error) {
	var g models.Goal
	if err := c.Do(ctx, http.MethodGet, "/goals/"+strconv.Itoa(id), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) Leaderboard(ctx context.Context) (*models.Leaderboard, error) {
	var lb models.Leaderboard
	if err := c.Do(ctx, http.MethodGet, "/leaderboard", nil, &lb); err != nil {
		return nil, err
	}
	if lb.Entries == nil {
		lb.Entries = []models.LeaderboardEntry{}
	}
	return &lb, nil
}

func (c *Client) ProgressionStats(ctx context.Context) (*models.ProfileStats, error) {
	var st models.ProfileStats
	if err := c.Do(ctx, http.MethodGet, "/progression/stats", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
