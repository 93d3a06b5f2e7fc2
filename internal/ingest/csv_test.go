package ingest

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Post ID,User Handle,Username,Datetime,Content,Replies,Reposts,Likes,Views,Post URL\n"

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"  ", 0},
		{"0", 0},
		{"42", 42},
		{"1,204", 1204},
		{"3K", 3000},
		{"3.4K", 3400},
		{"12.5k", 12500},
		{"1.2M", 1200000},
		{"2B", 2000000000},
	}
	for _, tt := range tests {
		got, err := ParseCount(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseCountInvalid(t *testing.T) {
	for _, in := range []string{"abc", "-3", "K", "1.5", "--", "NaNK", "infM", "-InfB", "1e300K", "9.3e18B"} {
		_, err := ParseCount(in)
		assert.Error(t, err, in)
	}
}

func TestReaderRows(t *testing.T) {
	data := header +
		`1001,@alice,Alice,2024-01-02 10:00,"Rates are up, again",3,1.2K,"2,500",10K,https://x.com/alice/status/1001` + "\n" +
		`1002,@bob,Bob,2024-01-03 11:00,hello,,,,,https://x.com/bob/status/1002` + "\n"

	rd, err := NewReader(strings.NewReader(data))
	require.NoError(t, err)

	p, err := rd.Next()
	require.NoError(t, err)
	assert.Equal(t, "1001", p.PostID)
	assert.Equal(t, "@alice", p.UserHandle)
	assert.Equal(t, "Alice", p.Username)
	assert.Equal(t, "2024-01-02 10:00", p.Datetime)
	assert.Equal(t, "Rates are up, again", p.Content)
	assert.Equal(t, 3, p.Replies)
	assert.Equal(t, 1200, p.Reposts)
	assert.Equal(t, 2500, p.Likes)
	assert.Equal(t, 10000, p.Views)
	assert.Equal(t, "https://x.com/alice/status/1001", p.PostURL)
	assert.Nil(t, p.CategoryID)

	p, err = rd.Next()
	require.NoError(t, err)
	assert.Equal(t, "1002", p.PostID)
	assert.Zero(t, p.Replies)
	assert.Zero(t, p.Views)

	_, err = rd.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderOptionalColumns(t *testing.T) {
	data := "\ufeffPost URL,Post ID,Content\nhttps://x.com/s/7,7,hi\n"

	rd, err := NewReader(strings.NewReader(data))
	require.NoError(t, err)

	p, err := rd.Next()
	require.NoError(t, err)
	assert.Equal(t, "7", p.PostID)
	assert.Equal(t, "hi", p.Content)
	assert.Equal(t, "https://x.com/s/7", p.PostURL)
	assert.Zero(t, p.Likes)
	assert.Empty(t, p.Username)
}

func TestReaderMissingPostID(t *testing.T) {
	data := header +
		"1,@a,A,,ok,,,,,u\n" +
		"\"\",@b,B,,\"multi\nline\",,,,,u\n"

	rd, err := NewReader(strings.NewReader(data))
	require.NoError(t, err)

	_, err = rd.Next()
	require.NoError(t, err)

	_, err = rd.Next()
	require.ErrorIs(t, err, ErrMissingPostID)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Line)
	assert.Contains(t, err.Error(), "line 3")
}

func TestReaderBadCount(t *testing.T) {
	data := header + "1,@a,A,,ok,lots,,,,u\n"

	rd, err := NewReader(strings.NewReader(data))
	require.NoError(t, err)

	_, err = rd.Next()
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Line)
	assert.Contains(t, err.Error(), "Replies")
}

func TestReaderHeaderErrors(t *testing.T) {
	_, err := NewReader(strings.NewReader(""))
	assert.Error(t, err)

	_, err = NewReader(strings.NewReader("Username,Content\nbob,hi\n"))
	assert.ErrorContains(t, err, "Post ID")
}
