package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/viper"
	"golang.org/x/oauth2"
)

// Profile is the userinfo document the identity provider returns after
// a successful code exchange.
type Profile struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Picture       string `json:"picture"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	EmailVerified bool   `json:"email_verified"`
}

// IdentityClient drives the authorization-code flow against the
// external identity provider. ProdPush never sees credentials; it only
// redirects the browser and exchanges the returned code.
type IdentityClient struct {
	config      *oauth2.Config
	userinfoURL string
	logoutURL   string
}

// NewIdentityClient builds the client from the identity.* config block.
func NewIdentityClient() (*IdentityClient, error) {
	clientID := viper.GetString("identity.client_id")
	if clientID == "" {
		return nil, fmt.Errorf("identity.client_id is not configured")
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: viper.GetString("identity.client_secret"),
		RedirectURL:  viper.GetString("identity.redirect_url"),
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  viper.GetString("identity.auth_url"),
			TokenURL: viper.GetString("identity.token_url"),
		},
	}

	return &IdentityClient{
		config:      cfg,
		userinfoURL: viper.GetString("identity.userinfo_url"),
		logoutURL:   viper.GetString("identity.logout_url"),
	}, nil
}

// LoginURL is the provider page an unauthenticated user is redirected to.
func (ic *IdentityClient) LoginURL(state string) string {
	return ic.config.AuthCodeURL(state)
}

// RegisterURL asks the provider to show its sign-up screen instead of
// the login screen.
func (ic *IdentityClient) RegisterURL(state string) string {
	return ic.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "create"))
}

// LogoutURL clears the provider-side session and bounces the browser
// back to returnTo.
func (ic *IdentityClient) LogoutURL(returnTo string) string {
	u, err := url.Parse(ic.logoutURL)
	if err != nil || ic.logoutURL == "" {
		return returnTo
	}
	q := u.Query()
	q.Set("client_id", ic.config.ClientID)
	q.Set("returnTo", returnTo)
	u.RawQuery = q.Encode()
	return u.String()
}

// Exchange trades the callback code for a token and fetches the user's
// profile from the userinfo endpoint.
func (ic *IdentityClient) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := ic.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange authorization code: %w", err)
	}

	client := ic.config.Client(ctx, token)
	resp, err := client.Get(ic.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned non-200 status: %s", resp.Status)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("unable to decode userinfo response: %w", err)
	}
	if profile.Sub == "" {
		return nil, fmt.Errorf("identity provider returned a profile without a subject")
	}

	return &profile, nil
}
