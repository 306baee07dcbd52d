package robinhood

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/rob/broker"
	"github.com/rustyeddy/rob/config"
)

const loginAttempts = 3

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	MFACode      string `json:"mfa_code,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Login authenticates the client. A cached session token is tried
// first; otherwise a password grant is attempted up to three times,
// regenerating the TOTP code between attempts in case it expired.
func (c *Client) Login(ctx context.Context, creds config.Credentials) error {
	if c.loginFromCache(ctx) {
		return nil
	}

	if !creds.Complete() {
		return &broker.AuthError{Reason: "username and password are required"}
	}

	var lastErr error
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		code, err := c.mfaCode(creds)
		if err != nil {
			return err
		}

		log.Debug().Int("attempt", attempt).Bool("mfa", code != "").Msg("attempting login")

		resp, err := c.requestToken(ctx, tokenRequest{
			GrantType: "password",
			Username:  creds.Username,
			Password:  creds.Password,
			MFACode:   code,
		})
		if err == nil {
			c.adoptSession(resp)
			return nil
		}
		lastErr = err

		// A fresh code may succeed where an expired one was rejected.
		if creds.TOTPSecret == "" {
			break
		}
	}

	return &broker.AuthError{Reason: "invalid credentials or 2FA code", Err: lastErr}
}

// Logout revokes the access token. The cached refresh token is kept so
// the next run can skip the full password grant.
func (c *Client) Logout(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/oauth2/revoke_token/", map[string]string{"token": c.token}, nil)
	c.token = ""
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	log.Debug().Msg("session revoked")
	return nil
}

// mfaCode returns the 2FA code to send: an explicit code if configured,
// otherwise one generated from the TOTP shared secret (30 second step).
// Accounts without 2FA send no code at all.
func (c *Client) mfaCode(creds config.Credentials) (string, error) {
	if creds.MFACode != "" {
		return creds.MFACode, nil
	}
	if creds.TOTPSecret == "" {
		return "", nil
	}

	code, err := totp.GenerateCode(creds.TOTPSecret, time.Now())
	if err != nil {
		return "", &broker.AuthError{Reason: "could not generate TOTP code", Err: err}
	}
	return code, nil
}

func (c *Client) loginFromCache(ctx context.Context) bool {
	cache, err := loadSessionCache(c.cachePath)
	if err != nil {
		return false
	}

	if cache.AccessToken != "" && time.Now().Before(cache.ExpiresAt) {
		c.token = cache.AccessToken
		// A stale token still passes the expiry check when the server
		// revoked it early; verify with a cheap account call.
		if _, err := c.GetCashBalance(ctx); err == nil {
			log.Debug().Msg("authenticated with cached session token")
			return true
		}
		c.token = ""
	}

	if cache.RefreshToken != "" {
		resp, err := c.requestToken(ctx, tokenRequest{
			GrantType:    "refresh_token",
			RefreshToken: cache.RefreshToken,
		})
		if err == nil {
			log.Debug().Msg("authenticated with refreshed session token")
			c.adoptSession(resp)
			return true
		}
		log.Debug().Err(err).Msg("cached session invalid, removing")
		clearSessionCache(c.cachePath)
	}

	return false
}

func (c *Client) requestToken(ctx context.Context, req tokenRequest) (tokenResponse, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/oauth2/token/", req, &resp); err != nil {
		return tokenResponse{}, err
	}
	if resp.AccessToken == "" {
		return tokenResponse{}, fmt.Errorf("token response missing access token")
	}
	return resp, nil
}

func (c *Client) adoptSession(resp tokenResponse) {
	c.token = resp.AccessToken

	expiresIn := resp.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	cache := sessionCache{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
	if err := saveSessionCache(c.cachePath, cache); err != nil {
		log.Warn().Err(err).Msg("could not save session token")
	}
}
