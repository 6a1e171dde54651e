package bookit_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bookit/bookit-web/pkg/bookit"
	"github.com/bookit/bookit-web/pkg/circuitbreaker"
	apperrors "github.com/bookit/bookit-web/pkg/errors"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	args := m.Called(url, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Get(url string) (*http.Response, error) {
	args := m.Called(url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestClient_LoginSendsFormWithHeaders(t *testing.T) {
	httpMock := new(MockHTTPClient)
	client := bookit.NewClient("https://api.test/bookit/api/", "Bearer secret", httpMock, nil)

	var captured *http.Request
	var form url.Values
	httpMock.On("Do", mock.AnythingOfType("*http.Request")).
		Run(func(args mock.Arguments) {
			captured = args.Get(0).(*http.Request)
			raw, _ := io.ReadAll(captured.Body)
			form, _ = url.ParseQuery(string(raw))
		}).
		Return(jsonResponse(200, `{"usuario":{"id":7},"token":"abc"}`), nil).Once()

	resp, err := client.Login(context.Background(), "ana@example.com", "secreto")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "https://api.test/bookit/api/usuario/login", captured.URL.String())
	assert.Equal(t, "Bearer secret", captured.Header.Get("Authorization"))
	assert.Equal(t, "application/json", captured.Header.Get("Accept"))
	assert.Equal(t, "no-store", captured.Header.Get("Cache-Control"))
	assert.Equal(t, "application/x-www-form-urlencoded", captured.Header.Get("Content-Type"))
	assert.Equal(t, "ana@example.com", form.Get("correo"))
	assert.Equal(t, "secreto", form.Get("contrasena"))

	assert.True(t, resp.OK())
	assert.Equal(t, "abc", resp.Payload.Text("token"))
	user, ok := resp.Payload.Object("usuario")
	require.True(t, ok)
	assert.Equal(t, "7", user.Scalar("id"))

	httpMock.AssertExpectations(t)
}

func TestClient_SchoolInfoEscapesCode(t *testing.T) {
	httpMock := new(MockHTTPClient)
	client := bookit.NewClient("https://api.test", "Bearer k", httpMock, nil)

	httpMock.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodGet &&
			req.URL.EscapedPath() == "/escuela/consulta/AB%2FC12" &&
			req.Header.Get("Content-Type") == ""
	})).Return(jsonResponse(200, `{"Id":1}`), nil).Once()

	resp, err := client.SchoolInfo(context.Background(), "AB/C12")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	httpMock.AssertExpectations(t)
}

func TestClient_NonSuccessStatusIsNotAnError(t *testing.T) {
	httpMock := new(MockHTTPClient)
	client := bookit.NewClient("https://api.test", "Bearer k", httpMock, nil)

	httpMock.On("Do", mock.Anything).Return(jsonResponse(404, `<html>not found</html>`), nil).Once()

	resp, err := client.LinkSchool(context.Background(), "7", "ABC123")
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, 404, resp.StatusCode)
	assert.Empty(t, resp.Payload, "non-JSON bodies decode as an empty payload")
}

func TestClient_TransportErrorIsWrapped(t *testing.T) {
	httpMock := new(MockHTTPClient)
	client := bookit.NewClient("https://api.test", "Bearer k", httpMock, nil)

	httpMock.On("Do", mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).Once()

	resp, err := client.RecoverPassword(context.Background(), "ana@example.com")
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "recover_password")
}

func TestClient_BreakerStateDisabledWithoutBreaker(t *testing.T) {
	client := bookit.NewClient("https://api.test", "Bearer k", new(MockHTTPClient), nil)
	assert.Equal(t, "disabled", client.BreakerState())
	assert.False(t, client.BreakerOpen())
}

func newTrippingBreaker(name string) *gobreaker.CircuitBreaker {
	cfg := circuitbreaker.DefaultConfig(name)
	cfg.Timeout = time.Minute
	cfg.ReadyToTrip = func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 2 }
	return circuitbreaker.NewCircuitBreaker(cfg)
}

func TestClient_TransportErrorsOpenBreaker(t *testing.T) {
	httpMock := new(MockHTTPClient)
	client := bookit.NewClient("https://api.test", "Bearer k", httpMock, newTrippingBreaker("bookit-transport"))

	httpMock.On("Do", mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).Twice()

	for i := 0; i < 2; i++ {
		_, err := client.LinkedSchools(context.Background(), "7")
		require.Error(t, err)
	}

	assert.True(t, client.BreakerOpen())
	assert.Equal(t, "open", client.BreakerState())

	_, err := client.LinkedSchools(context.Background(), "7")
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	httpMock.AssertNumberOfCalls(t, "Do", 2)
}

func TestClient_CanceledRequestsDoNotOpenBreaker(t *testing.T) {
	httpMock := new(MockHTTPClient)
	client := bookit.NewClient("https://api.test", "Bearer k", httpMock, newTrippingBreaker("bookit-canceled"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	canceled := &url.Error{Op: "Post", URL: "https://api.test/usuario/login", Err: context.Canceled}
	httpMock.On("Do", mock.Anything).Return(nil, canceled).Times(5)

	for i := 0; i < 5; i++ {
		_, err := client.Login(ctx, "ana@example.com", "secreto")
		require.ErrorIs(t, err, context.Canceled)
	}

	assert.False(t, client.BreakerOpen())
	assert.Equal(t, "closed", client.BreakerState())
}
