package services_test

import (
	"context"
	"errors"
	"net/url"

	"github.com/bookit/bookit-web/pkg/bookit"
	"github.com/stretchr/testify/mock"
)

// MockBookitAPI is a mock implementation of services.BookitAPI
type MockBookitAPI struct {
	mock.Mock
}

func (m *MockBookitAPI) response(args mock.Arguments) (*bookit.Response, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookit.Response), args.Error(1)
}

func (m *MockBookitAPI) Login(ctx context.Context, correo, contrasena string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, correo, contrasena))
}

func (m *MockBookitAPI) Register(ctx context.Context, path string, form url.Values) (*bookit.Response, error) {
	return m.response(m.Called(ctx, path, form))
}

func (m *MockBookitAPI) RecoverPassword(ctx context.Context, correo string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, correo))
}

func (m *MockBookitAPI) VerifyAccount(ctx context.Context, userID, code string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, userID, code))
}

func (m *MockBookitAPI) SchoolInfo(ctx context.Context, code string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, code))
}

func (m *MockBookitAPI) LinkedSchools(ctx context.Context, userID string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, userID))
}

func (m *MockBookitAPI) LinkSchool(ctx context.Context, userID, code string) (*bookit.Response, error) {
	return m.response(m.Called(ctx, userID, code))
}

var errStoreClosed = errors.New("store closed")

// memoryStore is an in-memory session.Store
type memoryStore struct {
	values     map[string]string
	failWrites bool
	writes     int
}

func newMemoryStore(kv ...string) *memoryStore {
	s := &memoryStore{values: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		s.values[kv[i]] = kv[i+1]
	}
	return s
}

func (s *memoryStore) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *memoryStore) Set(name, value string) error {
	if s.failWrites {
		return errStoreClosed
	}
	s.writes++
	s.values[name] = value
	return nil
}

func (s *memoryStore) Delete(name string) error {
	if s.failWrites {
		return errStoreClosed
	}
	s.writes++
	delete(s.values, name)
	return nil
}
