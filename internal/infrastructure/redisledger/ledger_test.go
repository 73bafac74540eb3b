package redisledger

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultKey(t *testing.T) {
	rdb, _ := redismock.NewClientMock()

	assert.Equal(t, DefaultKey, New(rdb, "").key)
	assert.Equal(t, "tickers", New(rdb, "tickers").key)
}

func TestLedger_Claim(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	ledger := New(rdb, "tickers")
	ctx := context.Background()

	mock.ExpectSAdd("tickers", "BTMN").SetVal(1)
	mock.ExpectSAdd("tickers", "BTMN").SetVal(0)

	first, err := ledger.Claim(ctx, "BTMN")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := ledger.Claim(ctx, "BTMN")
	require.NoError(t, err)
	assert.False(t, second)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestLedger_Claim_Error(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	ledger := New(rdb, "tickers")

	mock.ExpectSAdd("tickers", "BTMN").SetErr(errors.New("READONLY You can't write against a read only replica"))

	_, err := ledger.Claim(context.Background(), "BTMN")
	assert.ErrorContains(t, err, "READONLY")
}

func TestLedger_Claimed(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	ledger := New(rdb, "tickers")

	mock.ExpectSMembers("tickers").SetVal([]string{"AMZN", "BTMN"})

	symbols, err := ledger.Claimed(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AMZN", "BTMN"}, symbols)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
