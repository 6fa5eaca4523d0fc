package schema

import "github.com/dkovalyov/revory/internal/platform/constants"

// RefAccountTable represents the 'users.account' table
type RefAccountTable struct {
	Table     string
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
	CreatedAt string
	UpdatedAt string
}

// RefAccount is the schema definition for users.account
var RefAccount = RefAccountTable{
	Table:     constants.SchemaUsers + ".account",
	ID:        "id",
	Username:  "username",
	Email:     "email",
	FirstName: "firstname",
	LastName:  "lastname",
	Bio:       "bio",
	Role:      "role",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t RefAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.FirstName, t.LastName, t.Bio, t.Role, t.CreatedAt, t.UpdatedAt}
}
