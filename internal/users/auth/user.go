package auth

import (
	"time"

	"github.com/dkovalyov/revory/internal/platform/sec"
)

// User is a registered account. There are no passwords: identity is proven
// by exchanging an emailed confirmation code for a JWT.
type User struct {
	ID        string       `json:"-"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Bio       string       `json:"bio"`
	Role      sec.UserRole `json:"role"`
	CreatedAt time.Time    `json:"-"`
	UpdatedAt time.Time    `json:"-"`
}

// State snapshots the identity fields bound into confirmation codes.
// Changing any of them invalidates codes issued before the change.
func (user *User) State() sec.AccountState {
	return sec.AccountState{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}
}
