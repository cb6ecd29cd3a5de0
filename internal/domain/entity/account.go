package entity

import (
	"context"
	"time"
)

// Account is the authenticated caller, as asserted by the auth provider's token.
type Account struct {
	ID       string
	Email    string
	Username string
	FullName string
}

// Profile is the persisted account profile row.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type accountCtxKey struct{}

// ContextWithAccount attaches the authenticated account to ctx.
func ContextWithAccount(ctx context.Context, acct Account) context.Context {
	return context.WithValue(ctx, accountCtxKey{}, acct)
}

// AccountFromContext returns the authenticated account, if any.
func AccountFromContext(ctx context.Context) (Account, bool) {
	acct, ok := ctx.Value(accountCtxKey{}).(Account)
	if !ok || acct.ID == "" {
		return Account{}, false
	}
	return acct, true
}

// RequireAccount fails fast with ErrUnauthenticated when ctx carries no account.
func RequireAccount(ctx context.Context) (Account, error) {
	acct, ok := AccountFromContext(ctx)
	if !ok {
		return Account{}, ErrUnauthenticated
	}
	return acct, nil
}
