package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/auragophers/aurago/internal/models"
)

// AccountAPI wraps the login endpoint.
type AccountAPI struct {
	c *Client
}

func NewAccountAPI(c *Client) *AccountAPI {
	return &AccountAPI{c: c}
}

type loginRequest struct {
	User             loginUser `json:"user"`
	Locale           string    `json:"locale"`
	DeviceIdentifier string    `json:"identifier_for_vendor"`
	AppIdentifier    string    `json:"app_identifier"`
}

type loginUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Result struct {
		CurrentUser models.User `json:"current_user"`
	} `json:"result"`
}

// Login authenticates against login.json and stores the returned auth
// token and user id on the transport, so every later request carries
// them. The device identifier mimics the mobile client's per-install id.
func (a *AccountAPI) Login(ctx context.Context, email, password string) (*models.User, error) {
	req := loginRequest{
		User:             loginUser{Email: email, Password: password},
		Locale:           "en-US",
		DeviceIdentifier: uuid.NewString(),
		AppIdentifier:    "com.pushd.Framelord",
	}

	var resp loginResponse
	if err := a.c.Post(ctx, "login.json", req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	user := resp.Result.CurrentUser
	a.c.SetAuth(user.AuthToken, user.ID)
	return &user, nil
}
