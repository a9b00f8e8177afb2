package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_BundlesPresent(t *testing.T) {
	tr, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, tr.Languages())
}

func TestT_LookupAndFallback(t *testing.T) {
	tr, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Cannot delete the last administrator", tr.T("en", "users.last_admin"))
	assert.Equal(t, "Identifiants invalides", tr.T("fr", "login.invalid"))

	// Missing key and missing language both fall back to the key.
	assert.Equal(t, "no.such.key", tr.T("en", "no.such.key"))
	assert.Equal(t, "login.invalid", tr.T("de", "login.invalid"))
}

func TestTable_ReturnsCopy(t *testing.T) {
	tr, err := Load()
	require.NoError(t, err)

	table := tr.Table("en")
	require.NotNil(t, table)
	table["login.invalid"] = "mutated"
	assert.Equal(t, "Invalid credentials", tr.T("en", "login.invalid"))

	assert.Nil(t, tr.Table("de"))
}
