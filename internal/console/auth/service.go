// Package auth validates credential submissions and resolves the console identity.
package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"shivaccounts.cloud/console/internal/console/rbac"
)

// ReservedEmail is the single address the mock treats as already registered.
const ReservedEmail = "admin@shiv.com"

// Identity is the outcome of a successful login or signup.
type Identity struct {
	UID   string
	Email string
	Role  rbac.Role
}

// Result is what Authenticate returns for a submission that passed validation.
// Authenticated is false for forgot-password submissions, which only acknowledge the request.
type Result struct {
	Identity      Identity
	Authenticated bool
	Notice        string
}

// Service authenticates credential submissions.
type Service interface {
	Authenticate(ctx context.Context, sub Submission) (Result, FieldErrors)
}

// MockService reproduces the placeholder rules of the console mockup. A real identity
// provider plugs in by implementing Service.
type MockService struct {
	newUID func() string
}

// NewMockService constructs the mock identity service.
func NewMockService() *MockService {
	return &MockService{newUID: func() string { return uuid.NewString() }}
}

var folder = cases.Fold()

// Authenticate validates the submission, then derives the role from the email.
func (s *MockService) Authenticate(ctx context.Context, sub Submission) (Result, FieldErrors) {
	if err := ctx.Err(); err != nil {
		return Result{}, FieldErrors{FieldEmail: "Request cancelled"}
	}

	sub.Email = strings.TrimSpace(sub.Email)
	if errs := Validate(sub); !errs.OK() {
		return Result{}, errs
	}
	if sub.Mode == ModeSignup && folder.String(sub.Email) == folder.String(ReservedEmail) {
		return Result{}, FieldErrors{FieldEmail: msgEmailInUse}
	}

	if sub.Mode == ModeForgot {
		return Result{Notice: "If an account exists for " + sub.Email + ", a reset link has been sent."}, nil
	}

	uid := "mock"
	if s != nil && s.newUID != nil {
		uid = s.newUID()
	}
	return Result{
		Identity: Identity{
			UID:   uid,
			Email: sub.Email,
			Role:  DeriveRole(sub.Email),
		},
		Authenticated: true,
	}, nil
}

// DeriveRole assigns Customer to any email containing "customer" and Admin otherwise.
func DeriveRole(email string) rbac.Role {
	if strings.Contains(email, "customer") {
		return rbac.RoleCustomer
	}
	return rbac.RoleAdmin
}
