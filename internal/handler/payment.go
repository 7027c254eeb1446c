package handler

import (
	"github.com/celosoul/celosoul/internal/chain"
	"github.com/celosoul/celosoul/internal/payment"
)

// paymentPayload is the wire shape of a payment flow snapshot.
type paymentPayload struct {
	FlowID       string `json:"flowId"`
	Status       string `json:"status"`
	Amount       string `json:"amount,omitempty"`
	Recipient    string `json:"recipient,omitempty"`
	TxHash       string `json:"txHash,omitempty"`
	ExplorerURL  string `json:"explorerUrl,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func newPaymentPayload(st payment.State, chainID int) paymentPayload {
	p := paymentPayload{
		FlowID:       st.FlowID.String(),
		Status:       string(st.Status),
		Recipient:    st.Recipient,
		TxHash:       st.TxHash,
		ErrorMessage: st.ErrorMessage,
	}
	if st.Amount.IsPositive() {
		p.Amount = st.Amount.String()
	}
	if st.TxHash != "" {
		p.ExplorerURL = chain.ExplorerTxURL(chainID, st.TxHash)
	}
	return p
}
