package api

import (
	"context"
	"net/url"
)

// Login exchanges credentials for a bearer token using the OAuth2
// password-form contract. It performs only the I/O: storing the returned
// token is the caller's job, keeping session state out of the client.
func (c *Client) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var out TokenResponse
	if err := c.postForm(ctx, "/login/access-token", form, &out); err != nil {
		return TokenResponse{}, err
	}
	return out, nil
}

// Signup creates an account. There is no combined signup+login endpoint;
// compose with Login for an immediate session.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (User, error) {
	var out User
	if err := c.postJSON(ctx, "/signup", req, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// CurrentUser returns the authenticated user's profile. Fails with
// ErrUnauthorized when no valid credential accompanies the request.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var out User
	if err := c.getJSON(ctx, "/users/me", &out); err != nil {
		return User{}, err
	}
	return out, nil
}
