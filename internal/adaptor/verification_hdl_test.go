package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"phone-auth/internal/usecase"
	"phone-auth/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubVerification scripts the service outcomes for handler tests.
type stubVerification struct {
	issueErr  error
	verifyErr error
	lastIP    string
}

func (s *stubVerification) Issue(ctx context.Context, ip, number string) (string, error) {
	s.lastIP = ip
	return "482913", s.issueErr
}

func (s *stubVerification) Verify(ctx context.Context, ip, number, code string) error {
	s.lastIP = ip
	return s.verifyErr
}

func (s *stubVerification) Check(ctx context.Context, number, code string) error { return nil }

func (s *stubVerification) Consume(ctx context.Context, number, code string) error { return nil }

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.RemoteAddr = "203.0.113.7:40000"
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestCheckNumber_OK(t *testing.T) {
	stub := &stubVerification{}
	h := NewVerificationHandler(stub, zap.NewNop())

	w := postJSON(t, h.CheckNumber, "/api/check-number", `{"number":"09123456789"}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Status)
	require.Equal(t, "you should receive an sms in a moment", resp.Message)
	require.Equal(t, "203.0.113.7", stub.lastIP)
}

func TestCheckNumber_InvalidNumberRejectedBeforeService(t *testing.T) {
	stub := &stubVerification{}
	h := NewVerificationHandler(stub, zap.NewNop())

	w := postJSON(t, h.CheckNumber, "/api/check-number", `{"number":"12345"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, stub.lastIP, "service must not be reached")
}

func TestCheckNumber_AlreadyRegistered(t *testing.T) {
	stub := &stubVerification{issueErr: usecase.ErrAlreadyRegistered}
	h := NewVerificationHandler(stub, zap.NewNop())

	w := postJSON(t, h.CheckNumber, "/api/check-number", `{"number":"09123456789"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "already exists", decodeResponse(t, w).Message)
}

func TestCheckNumber_Blocked(t *testing.T) {
	stub := &stubVerification{issueErr: usecase.ErrBlocked}
	h := NewVerificationHandler(stub, zap.NewNop())

	w := postJSON(t, h.CheckNumber, "/api/check-number", `{"number":"09123456789"}`)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "We are sorry you have been blocked for an hour.", decodeResponse(t, w).Message)
}

func TestVerifyCode_Outcomes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantPrefix string
	}{
		{"valid", nil, http.StatusOK, "correct code"},
		{"wrong", usecase.ErrCodeNotFound, http.StatusNotAcceptable, "provided code is wrong"},
		{"expired", usecase.ErrCodeExpired, http.StatusNotAcceptable, "provided code is not valid anymore"},
		{"blocked", usecase.ErrBlocked, http.StatusForbidden, "We are sorry"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubVerification{verifyErr: tc.err}
			h := NewVerificationHandler(stub, zap.NewNop())

			w := postJSON(t, h.VerifyCode, "/api/code-verification", `{"number":"09123456789","code":"482913"}`)

			require.Equal(t, tc.wantCode, w.Code)
			require.Contains(t, decodeResponse(t, w).Message, tc.wantPrefix)
		})
	}
}

func TestVerifyCode_MalformedBody(t *testing.T) {
	h := NewVerificationHandler(&stubVerification{}, zap.NewNop())

	w := postJSON(t, h.VerifyCode, "/api/code-verification", `{not json`)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
