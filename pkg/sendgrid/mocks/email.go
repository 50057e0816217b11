package mocks

import (
	"context"

	sendgridgo "github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/mock"
	"github.com/venkatakausik18/snap-n-shop-central/pkg/sendgrid"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) Send(ctx context.Context, msg *sendgrid.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *EmailService) GetSendGridClient() *sendgridgo.Client {
	client, _ := m.Called().Get(0).(*sendgridgo.Client)

	return client
}
