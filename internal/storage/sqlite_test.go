package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteAppender(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteAppender(filepath.Join(t.TempDir(), "nested", "rsvp.db"))
	require.NoError(t, err)
	defer s.Close()

	first := Row{"山田太郎", "やまだたろう", "ご出席", "a@b.com", "", ""}
	second := Row{"佐藤花子", "さとうはなこ", "ご欠席", "c@d.com", "そば", "残念です"}

	ack, err := s.AppendRow(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "rsvp_records/1", ack.Ref)

	ack, err = s.AppendRow(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "rsvp_records/2", ack.Ref)

	t.Run("list all", func(t *testing.T) {
		records, err := s.ListRecords(ctx, "")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, first, records[0].Row)
		assert.Equal(t, second, records[1].Row)
		assert.False(t, records[0].CreatedAt.IsZero())
	})

	t.Run("filter by attendance", func(t *testing.T) {
		records, err := s.ListRecords(ctx, "ご欠席")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, int64(2), records[0].ID)
	})
}
