package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailauth/internal/domain"
	"mailauth/internal/transport/rest"
)

type stubResetService struct {
	requestOutcome domain.ResetOutcome
	resetOutcome   domain.ResetOutcome
}

func (s *stubResetService) RequestReset(ctx context.Context, req domain.RequestResetRequest) domain.ResetOutcome {
	return s.requestOutcome
}

func (s *stubResetService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) domain.ResetOutcome {
	return s.resetOutcome
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) rest.StatusResponse {
	t.Helper()
	var res rest.StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func TestRequestResetAlwaysAnswers200(t *testing.T) {
	outcomes := []domain.ResetOutcome{
		{Status: domain.StatusPending, Message: "Password reset email sent"},
		{Status: domain.StatusFailed, Reason: domain.ReasonUserNotFound, Message: "No account with the email provided exists"},
		{Status: domain.StatusFailed, Reason: domain.ReasonMailFailed, Message: "Password reset email failed"},
	}

	for _, outcome := range outcomes {
		t.Run(string(outcome.Status)+"/"+string(outcome.Reason), func(t *testing.T) {
			handler := rest.NewResetHandler(&stubResetService{requestOutcome: outcome})

			body := `{"email":"a@x.com","redirectUrl":"https://app.example.com/reset"}`
			req := httptest.NewRequest(http.MethodPost, "/requestPasswordReset", strings.NewReader(body))
			rec := httptest.NewRecorder()

			handler.RequestReset(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			res := decodeStatus(t, rec)
			assert.Equal(t, string(outcome.Status), res.Status)
			assert.Equal(t, outcome.Message, res.Message)
		})
	}
}

func TestResetPasswordAlwaysAnswers200(t *testing.T) {
	outcomes := []domain.ResetOutcome{
		{Status: domain.StatusSuccess, Message: "Password has been reset successfully"},
		{Status: domain.StatusFailed, Reason: domain.ReasonNotFound, Message: "Password reset request not found"},
		{Status: domain.StatusFailed, Reason: domain.ReasonExpired, Message: "Password reset link has expired"},
		{Status: domain.StatusFailed, Reason: domain.ReasonInvalidToken, Message: "Invalid password reset details passed"},
		{Status: domain.StatusFailed, Reason: domain.ReasonUpdateFailed, Message: "Updating user password failed"},
	}

	for _, outcome := range outcomes {
		t.Run(string(outcome.Status)+"/"+string(outcome.Reason), func(t *testing.T) {
			handler := rest.NewResetHandler(&stubResetService{resetOutcome: outcome})

			body := `{"userId":"64b0f1e2a3c4d5e6f7a8b9c0","resetString":"token","newPassword":"newpassword"}`
			req := httptest.NewRequest(http.MethodPost, "/resetPassword", strings.NewReader(body))
			rec := httptest.NewRecorder()

			handler.ResetPassword(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			res := decodeStatus(t, rec)
			assert.Equal(t, string(outcome.Status), res.Status)
			assert.Equal(t, outcome.Message, res.Message)
		})
	}
}

func TestResetValidation(t *testing.T) {
	handler := rest.NewResetHandler(&stubResetService{})

	t.Run("requestPasswordReset rejects bad email", func(t *testing.T) {
		body := `{"email":"not-an-email","redirectUrl":"https://app.example.com/reset"}`
		req := httptest.NewRequest(http.MethodPost, "/requestPasswordReset", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.RequestReset(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("resetPassword rejects missing fields", func(t *testing.T) {
		body := `{"userId":"64b0f1e2a3c4d5e6f7a8b9c0"}`
		req := httptest.NewRequest(http.MethodPost, "/resetPassword", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ResetPassword(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body answers 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/resetPassword", strings.NewReader("{"))
		rec := httptest.NewRecorder()

		handler.ResetPassword(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
