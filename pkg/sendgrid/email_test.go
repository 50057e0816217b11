package sendgrid_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sendgrid_client "github.com/venkatakausik18/snap-n-shop-central/pkg/sendgrid"
)

func TestNewEmailService(t *testing.T) {
	service := sendgrid_client.NewEmailService("test-api-key", "sender@example.com", "Test Sender")

	assert.NotNil(t, service)
	assert.NotNil(t, service.GetSendGridClient())
}

type sendgridV3Payload struct {
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestEmailService_Send(t *testing.T) {
	apiKey := "SG.test-api-key"
	fromEmail := "orders@example.com"
	fromName := "Snap N Shop"

	tests := []struct {
		name          string
		msg           *sendgrid_client.Message
		status        int
		expectedError string
		checkPayload  func(t *testing.T, payload sendgridV3Payload)
	}{
		{
			name: "Success - text and html",
			msg: &sendgrid_client.Message{
				To:      "jane@example.com",
				ToName:  "Jane",
				Subject: "Order ORD-1-ABCDEF confirmed",
				Text:    "Thanks for your order",
				HTML:    "<p>Thanks for your order</p>",
			},
			status: http.StatusAccepted,
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Personalizations, 1)
				pers := p.Personalizations[0]
				require.Len(t, pers.To, 1)
				assert.Equal(t, "jane@example.com", pers.To[0]["email"])
				assert.Equal(t, "Jane", pers.To[0]["name"])
				assert.Equal(t, "Order ORD-1-ABCDEF confirmed", pers.Subject)
				assert.Equal(t, fromEmail, p.From["email"])
				assert.Equal(t, fromName, p.From["name"])
				require.Len(t, p.Content, 2)
				assert.Equal(t, "text/plain", p.Content[0].Type)
				assert.Equal(t, "text/html", p.Content[1].Type)
			},
		},
		{
			name:   "Success - text only",
			msg:    &sendgrid_client.Message{To: "jane@example.com", Subject: "Hi", Text: "Plain"},
			status: http.StatusAccepted,
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Content, 1)
				assert.Equal(t, "Plain", p.Content[0].Value)
			},
		},
		{
			name:          "Failure - API error",
			msg:           &sendgrid_client.Message{To: "bad@example.com", Subject: "Hi", Text: "Plain"},
			status:        http.StatusBadRequest,
			expectedError: "failed to send email, status code: 400",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var payload sendgridV3Payload

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))

				body, err := io.ReadAll(r.Body)
				assert.NoError(t, err)
				assert.NoError(t, json.Unmarshal(body, &payload))

				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			service := sendgrid_client.NewEmailService(apiKey, fromEmail, fromName)
			service.GetSendGridClient().Request.BaseURL = server.URL

			err := service.Send(t.Context(), tc.msg)

			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)

				return
			}

			require.NoError(t, err)

			if tc.checkPayload != nil {
				tc.checkPayload(t, payload)
			}
		})
	}
}
