package limiter

import (
	"context"
	"encoding/hex"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return mock
}

func TestHashIP_Stable(t *testing.T) {
	t.Parallel()
	a := HashIP("10.0.0.1")
	b := HashIP("10.0.0.1")
	c := HashIP("10.0.0.2")
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestHashIP_StorableInTextColumn(t *testing.T) {
	t.Parallel()
	// ip_hash is a TEXT column; Postgres rejects values that are not valid
	// UTF-8, so the key must stay hex-encoded rather than raw digest bytes.
	for _, ip := range []string{"10.0.0.1", "192.168.1.77", "2001:db8::1", "::1", ""} {
		h := HashIP(ip)
		require.True(t, utf8.ValidString(h), "HashIP(%q) = %q not valid UTF-8", ip, h)
		raw, err := hex.DecodeString(h)
		require.NoError(t, err)
		require.Len(t, raw, 32)
	}
}

func TestAllow_NoRowMeansAllowed(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	l := NewPGWithQuerier(mock, 15*time.Minute, 5, 15*time.Minute)
	ip := HashIP("10.0.0.1")

	mock.ExpectQuery(`SELECT blocked_until FROM login_limiter WHERE ip_hash=\$1`).
		WithArgs(ip).
		WillReturnError(pgx.ErrNoRows)
	ok, _, err := l.Allow(context.Background(), ip)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAllow_Blocked(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	l := NewPGWithQuerier(mock, 15*time.Minute, 5, 15*time.Minute)
	ip := HashIP("10.0.0.1")

	until := time.Now().Add(10 * time.Minute)
	mock.ExpectQuery(`SELECT blocked_until FROM login_limiter WHERE ip_hash=\$1`).
		WithArgs(ip).
		WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(until))
	ok, retry, err := l.Allow(context.Background(), ip)
	require.NoError(t, err)
	require.False(t, ok)
	require.Greater(t, retry, time.Duration(0))
}

func TestAllow_ExpiredBlock(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	l := NewPGWithQuerier(mock, 15*time.Minute, 5, 15*time.Minute)
	ip := HashIP("10.0.0.1")

	mock.ExpectQuery(`SELECT blocked_until FROM login_limiter WHERE ip_hash=\$1`).
		WithArgs(ip).
		WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(time.Now().Add(-time.Minute)))
	ok, _, err := l.Allow(context.Background(), ip)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFailure_BelowThreshold(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	l := NewPGWithQuerier(mock, 15*time.Minute, 5, 15*time.Minute)
	ip := HashIP("10.0.0.1")

	mock.ExpectQuery(`INSERT INTO login_limiter`).
		WithArgs(ip, 15*time.Minute).
		WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(2))
	blocked, _, err := l.Failure(context.Background(), ip)
	require.NoError(t, err)
	require.False(t, blocked)
}

func TestFailure_ThresholdBlocks(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	l := NewPGWithQuerier(mock, 15*time.Minute, 5, 30*time.Minute)
	ip := HashIP("10.0.0.1")

	mock.ExpectQuery(`INSERT INTO login_limiter`).
		WithArgs(ip, 15*time.Minute).
		WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(5))
	mock.ExpectExec(`UPDATE login_limiter SET blocked_until=\$2 WHERE ip_hash=\$1`).
		WithArgs(ip, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	blocked, retry, err := l.Failure(context.Background(), ip)
	require.NoError(t, err)
	require.True(t, blocked)
	require.Equal(t, 30*time.Minute, retry)
}

func TestSuccess_ResetsCounters(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	l := NewPGWithQuerier(mock, 15*time.Minute, 5, 15*time.Minute)
	ip := HashIP("10.0.0.1")

	mock.ExpectExec(`INSERT INTO login_limiter`).
		WithArgs(ip).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, l.Success(context.Background(), ip))
}
