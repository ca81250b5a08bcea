package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// Identity is the normalized claims value extracted from a verified token.
// Authorization decisions consume this struct, never raw claims.
type Identity struct {
	UID    string
	Email  string
	Groups []string
	Role   string
}

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return IdentityFromClaims(result.UID, result.Claims), nil
}

func IdentityFromClaims(uid string, claims map[string]interface{}) *Identity {
	identity := &Identity{UID: uid}

	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		identity.Role = role
	}
	if groups, ok := claims["groups"].([]interface{}); ok {
		for _, g := range groups {
			if name, ok := g.(string); ok {
				identity.Groups = append(identity.Groups, name)
			}
		}
	}

	return identity
}

// IsAdmin is the single authorization policy for admin-gated routes: the
// provider's groups claim contains "admin", or the role claim says so.
func (i *Identity) IsAdmin() bool {
	if i == nil {
		return false
	}
	if i.Role == "admin" {
		return true
	}
	for _, g := range i.Groups {
		if g == "admin" {
			return true
		}
	}
	return false
}
