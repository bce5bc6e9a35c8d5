package domain

// TokenPair is the bearer credential pair returned by the auth endpoints.
// The access token is short-lived; the refresh token is used exactly once
// per refresh cycle to mint a new pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthSession is the payload of /auth/login, /auth/register and /auth/me.
type AuthSession struct {
	User   *User      `json:"user"`
	Tokens *TokenPair `json:"tokens,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName string   `json:"full_name"`
	Phone    string   `json:"phone"`
	Role     UserRole `json:"role,omitempty"`
}
