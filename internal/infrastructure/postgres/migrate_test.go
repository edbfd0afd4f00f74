package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrator_ArchivosEmbebidosOrdenados(t *testing.T) {
	m := NewMigrator(nil)
	names, err := m.names()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_webhook_events.sql"}, names)

	body, err := fs.ReadFile(m.files, "0001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "payment_id       BIGINT UNIQUE")
	assert.Contains(t, string(body), "stripe_payment_intent_id TEXT NOT NULL UNIQUE")
}
