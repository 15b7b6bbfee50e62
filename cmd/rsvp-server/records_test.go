package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/storage"
)

func TestRecordsCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rsvp.db")
	s, err := storage.NewSQLiteAppender(dbPath)
	require.NoError(t, err)
	_, err = s.AppendRow(context.Background(), storage.Row{"山田太郎", "やまだたろう", "ご出席", "a@b.com", "", "おめでとう"})
	require.NoError(t, err)
	_, err = s.AppendRow(context.Background(), storage.Row{"佐藤花子", "さとうはなこ", "ご欠席", "c@d.com", "", ""})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	run := func(args ...string) string {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(append([]string{"records", "--db", dbPath}, args...))
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	t.Run("all", func(t *testing.T) {
		out := run()
		assert.Contains(t, out, "RSVPs (2 total)")
		assert.Contains(t, out, "Message: おめでとう")
	})

	t.Run("by status", func(t *testing.T) {
		out := run("--status", "not-attending")
		assert.Contains(t, out, "RSVPs (1 total)")
		assert.Contains(t, out, "佐藤花子")
		assert.NotContains(t, out, "山田太郎")
	})

	t.Run("empty status result", func(t *testing.T) {
		assert.Contains(t, run("--status", "unspecified"), "No RSVPs with status 'unspecified'.")
	})

	t.Run("invalid status", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"records", "--db", dbPath, "--status", "maybe"})
		assert.ErrorContains(t, cmd.Execute(), `invalid status "maybe"`)
	})
}
