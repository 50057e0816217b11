package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/venkatakausik18/snap-n-shop-central/pkg/stripe"
)

type Client struct {
	mock.Mock
}

func (m *Client) CreatePaymentIntent(ctx context.Context, req *stripe.PaymentIntentRequest) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, req)

	intent, _ := args.Get(0).(*stripe.PaymentIntent)

	return intent, args.Error(1)
}

func (m *Client) VerifyWebhookSignature(payload []byte, signature string) (stripe.Event, error) {
	args := m.Called(payload, signature)

	return args.Get(0).(stripe.Event), args.Error(1)
}
