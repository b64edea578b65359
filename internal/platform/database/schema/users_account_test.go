// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountTable(t *testing.T) {
	assert.Equal(t, "users.account", Account.Table)
	assert.Equal(t, []string{"id", "email", "password", "createdat", "updatedat"}, Account.Columns())
}
