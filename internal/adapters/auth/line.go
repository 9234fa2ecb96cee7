package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"courtshare/internal/domain"
)

const lineVerifyURL = "https://api.line.me/oauth2/v2.1/verify"

// lineEndpoint is LINE Login v2.1. Client credentials go in the form body.
var lineEndpoint = oauth2.Endpoint{
	AuthURL:   "https://access.line.me/oauth2/v2.1/authorize",
	TokenURL:  "https://api.line.me/oauth2/v2.1/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// lineIDToken is the payload LINE returns for a verified ID token.
type lineIDToken struct {
	Subject  string `json:"sub"`
	Audience string `json:"aud"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type lineProvider struct {
	config    *oauth2.Config
	verifyURL string
}

// NewLineProvider returns an IdentityProvider for LINE Login.
// LINE only shares an email when the channel has the email permission and the user consents;
// profiles without one are refused by the OAuth verifier.
func NewLineProvider(channelID, channelSecret, redirectURL string) domain.IdentityProvider {
	return &lineProvider{
		config: &oauth2.Config{
			ClientID:     channelID,
			ClientSecret: channelSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     lineEndpoint,
		},
		verifyURL: lineVerifyURL,
	}
}

func (p *lineProvider) Name() string { return domain.LoginMethodLine }

func (p *lineProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades the code for tokens and reads the profile from the ID token, which LINE
// verifies server-side.
func (p *lineProvider) Exchange(ctx context.Context, code string) (*domain.ExternalProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, errors.New("exchange code: no id_token in response")
	}

	form := url.Values{"id_token": {rawIDToken}, "client_id": {p.config.ClientID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify id token: unexpected status %d", resp.StatusCode)
	}
	var claims lineIDToken
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode id token: %w", err)
	}
	if claims.Audience != p.config.ClientID {
		return nil, fmt.Errorf("verify id token: audience %q does not match channel", claims.Audience)
	}
	return &domain.ExternalProfile{
		Provider:      p.Name(),
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.Email != "",
		Name:          claims.Name,
	}, nil
}
