// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns used by the SQL repositories.
package schema

import "github.com/taibuivan/applytrack/internal/platform/constants"

// AccountTable represents the 'users.account' table.
type AccountTable struct {
	Table     string
	ID        string
	Email     string
	Password  string
	CreatedAt string
	UpdatedAt string
}

// Account is the schema definition for users.account.
//
// Password holds either a bcrypt hash or, for rows predating hashing, plaintext.
var Account = AccountTable{
	Table:     constants.SchemaUsers + ".account",
	ID:        "id",
	Email:     "email",
	Password:  "password",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all column names in table order.
func (t AccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.Password, t.CreatedAt, t.UpdatedAt}
}
