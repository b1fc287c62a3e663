package services

import (
	"context"
	"errors"
	"strings"

	"github.com/markdave123-py/Uncouple/internal/core"
	"github.com/markdave123-py/Uncouple/internal/models"
)

type UserService struct {
	db     core.DbClient
	admins map[string]bool
}

// NewUserService creates the account service. Accounts registered with one
// of adminEmails get the admin role.
func NewUserService(db core.DbClient, adminEmails ...string) *UserService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalizeEmail(e)] = true
	}
	return &UserService{db: db, admins: admins}
}

func (s *UserService) Create(ctx context.Context, u *models.User) error {
	if u == nil || u.Email == "" || u.PasswordHash == "" {
		return errors.New("invalid user payload")
	}
	u.Email = normalizeEmail(u.Email)
	u.Role = models.UserRoleMember
	if s.admins[u.Email] {
		u.Role = models.UserRoleAdmin
	}
	return s.db.CreateUser(ctx, u)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.db.GetUserByEmail(ctx, normalizeEmail(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
