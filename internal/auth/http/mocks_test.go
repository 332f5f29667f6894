package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
	userUseCase "github.com/allisson/useradmin/internal/user/usecase"
)

// MockAuthenticator is a mock implementation of usecase.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssueTokenOutput), args.Error(1)
}

func (m *MockAuthenticator) Mint(
	ctx context.Context,
	snapshot authDomain.UserSnapshot,
) (*authDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, snapshot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssueTokenOutput), args.Error(1)
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, rawToken string) (*authDomain.Principal, error) {
	args := m.Called(ctx, rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

func (m *MockAuthenticator) Revoke(ctx context.Context, principal *authDomain.Principal) error {
	args := m.Called(ctx, principal)
	return args.Error(0)
}

// MockUserUseCase is a mock implementation of usecase.UseCase
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Register(
	ctx context.Context,
	input userUseCase.RegisterUserInput,
) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserUseCase) Get(ctx context.Context, id int64) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserUseCase) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserUseCase) ChangePassword(
	ctx context.Context,
	id int64,
	input userUseCase.ChangePasswordInput,
) (*userDomain.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserUseCase) UpdateRole(ctx context.Context, id int64, roleID int64) (*userDomain.User, error) {
	args := m.Called(ctx, id, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// MockVerificationUseCase is a mock implementation of userUseCase.VerificationUseCase
type MockVerificationUseCase struct {
	mock.Mock
}

func (m *MockVerificationUseCase) Issue(ctx context.Context, user *userDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockVerificationUseCase) Verify(
	ctx context.Context,
	input userUseCase.VerifyUserInput,
) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}
