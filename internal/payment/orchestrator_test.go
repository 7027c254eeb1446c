package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/celosoul/celosoul/internal/chain"
	chainmock "github.com/celosoul/celosoul/internal/chain/mock"
	"github.com/celosoul/celosoul/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecipient = "0x395358d1236D01de9193b1F3AEB61A1ACb2Af2b9"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockClient() *chainmock.Provider {
	return chainmock.New(discardLogger())
}

func TestSendValidation(t *testing.T) {
	tests := []struct {
		name      string
		recipient string
		amount    domain.Amount
	}{
		{name: "zero amount", recipient: testRecipient, amount: domain.MustParseAmount("0")},
		{name: "malformed recipient", recipient: "not-an-address", amount: domain.MustParseAmount("5")},
		{name: "empty recipient", recipient: "", amount: domain.MustParseAmount("5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockClient()
			o := New(client, chain.CUSDAddressSepolia, discardLogger())

			st, err := o.Send(context.Background(), tt.recipient, tt.amount)
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

			// Rejected synchronously: no state mutation, nothing submitted
			assert.Equal(t, domain.PaymentStatusIdle, st.Status)
			assert.Equal(t, domain.PaymentStatusIdle, o.State().Status)
			assert.Equal(t, 0, client.SubmitTransferCalls)
		})
	}
}

func TestSendWithoutSigningClient(t *testing.T) {
	o := New(nil, chain.CUSDAddressSepolia, discardLogger())

	_, err := o.Send(context.Background(), testRecipient, domain.MustParseAmount("5"))
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Equal(t, domain.PaymentStatusIdle, o.State().Status)
}

func TestSendSuccessPath(t *testing.T) {
	client := newMockClient()
	client.SubmitTransferHash = "0xabc123"

	done := make(chan struct{})
	o := New(client, chain.CUSDAddressSepolia, discardLogger(),
		WithSuccessDelay(time.Millisecond),
		WithOnSuccess(func() { close(done) }),
	)

	var seen []domain.PaymentStatus
	o.Subscribe(func(st State) {
		seen = append(seen, st.Status)
	})

	st, err := o.Send(context.Background(), testRecipient, domain.MustParseAmount("5"))
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusSuccess, st.Status)
	assert.Equal(t, "0xabc123", st.TxHash)
	assert.Empty(t, st.ErrorMessage)
	assert.Equal(t, []domain.PaymentStatus{
		domain.PaymentStatusConfirming,
		domain.PaymentStatusPending,
		domain.PaymentStatusSuccess,
	}, seen)

	// The on-success callback fires after the configured delay
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("on-success callback never fired")
	}
}

func TestSendWalletRejection(t *testing.T) {
	client := newMockClient()
	client.SubmitTransferError = chain.ErrUserRejected

	o := New(client, chain.CUSDAddressSepolia, discardLogger())

	st, err := o.Send(context.Background(), testRecipient, domain.MustParseAmount("5"))
	require.NoError(t, err, "wallet rejection is a terminal state, not an escaping error")

	assert.Equal(t, domain.PaymentStatusError, st.Status)
	assert.Empty(t, st.TxHash, "no hash exists before the wallet approves")
	assert.NotEmpty(t, st.ErrorMessage)
	assert.Equal(t, 0, client.AwaitCalls, "rejection skips confirmation entirely")
}

func TestSendRevertedTransaction(t *testing.T) {
	client := newMockClient()
	client.SubmitTransferHash = "0xabc123"
	client.AwaitReceipt = &chain.Receipt{Status: chain.ReceiptStatusReverted}

	o := New(client, chain.CUSDAddressSepolia, discardLogger())

	st, err := o.Send(context.Background(), testRecipient, domain.MustParseAmount("5"))
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusError, st.Status)
	assert.Equal(t, "0xabc123", st.TxHash, "hash retained for explorer lookup")
	assert.NotEmpty(t, st.ErrorMessage)
}

func TestSendConfirmationFailure(t *testing.T) {
	client := newMockClient()
	client.SubmitTransferHash = "0xabc123"
	client.AwaitError = errors.New("rpc timeout")

	o := New(client, chain.CUSDAddressSepolia, discardLogger())

	st, err := o.Send(context.Background(), testRecipient, domain.MustParseAmount("5"))
	require.NoError(t, err)

	// The wait failed, not necessarily the transaction; the hash must
	// survive so the user can check an explorer manually.
	assert.Equal(t, domain.PaymentStatusError, st.Status)
	assert.Equal(t, "0xabc123", st.TxHash)
	assert.Contains(t, st.ErrorMessage, "rpc timeout")
}

func TestSendRejectedWhileInFlight(t *testing.T) {
	client := newMockClient()
	o := New(client, chain.CUSDAddressSepolia, discardLogger())

	// Drive to a terminal state first
	_, err := o.Send(context.Background(), testRecipient, domain.MustParseAmount("1"))
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusSuccess, o.State().Status)

	// A second Send without Reset is a synchronous rejection
	_, err = o.Send(context.Background(), testRecipient, domain.MustParseAmount("1"))
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Equal(t, 1, client.SubmitTransferCalls)
}

func TestResetAllowsRetryAfterError(t *testing.T) {
	client := newMockClient()
	client.SubmitTransferError = chain.ErrUserRejected

	o := New(client, chain.CUSDAddressSepolia, discardLogger())

	st, err := o.Send(context.Background(), testRecipient, domain.MustParseAmount("5"))
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusError, st.Status)

	o.Reset()
	st = o.State()
	assert.Equal(t, domain.PaymentStatusIdle, st.Status)
	assert.Empty(t, st.TxHash)
	assert.Empty(t, st.ErrorMessage)

	// Retry succeeds once the wallet cooperates
	client.SubmitTransferError = nil
	st, err = o.Send(context.Background(), testRecipient, domain.MustParseAmount("5"))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSuccess, st.Status)
}

func TestSendRecordsRecipientAndAmount(t *testing.T) {
	client := newMockClient()
	o := New(client, chain.CUSDAddressSepolia, discardLogger())

	amount := domain.MustParseAmount("12.5")
	st, err := o.Send(context.Background(), testRecipient, amount)
	require.NoError(t, err)

	assert.Equal(t, testRecipient, st.Recipient)
	assert.Equal(t, "12.5", st.Amount.String())
	assert.Equal(t, testRecipient, client.LastRecipient)
	assert.Equal(t, "12500000000000000000", client.LastAmount.String())
}
