package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// User is a club member. Deleting a user cascades to their posts, registrations and winner records.
type User struct {
	ID                  uint `gorm:"primarykey"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Username            string `gorm:"size:20;uniqueIndex;not null"`
	Email               string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash        string `gorm:"size:128;not null"`
	IsAdmin             bool   `gorm:"not null;default:false"`
	FirstName           string `gorm:"size:30;not null"`
	LastName            string `gorm:"size:30;not null"`
	EmailVerified       bool   `gorm:"not null;default:false"`
	UsernameLastChanged *time.Time
}

func (c *Client) CreateUser(ctx context.Context, user *User) error {
	user.Email = normalizeEmail(user.Email)
	if err := c.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Error("failed to create user", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by ID", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return c.findUser(ctx, "email = ?", normalizeEmail(email))
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return c.findUser(ctx, "username = ?", strings.TrimSpace(username))
}

// GetUserByLogin resolves a login identifier, which may be either an e-mail address or a username.
func (c *Client) GetUserByLogin(ctx context.Context, identifier string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return c.GetUserByEmail(ctx, identifier)
	}
	return c.GetUserByUsername(ctx, identifier)
}

func (c *Client) findUser(ctx context.Context, query string, args ...any) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

// UsernameTaken reports whether another user (id != exceptID) already uses username.
func (c *Client) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	return c.exists(ctx, &User{}, "username = ? AND id <> ?", strings.TrimSpace(username), exceptID)
}

// EmailTaken reports whether another user (id != exceptID) already uses email.
func (c *Client) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	return c.exists(ctx, &User{}, "email = ? AND id <> ?", normalizeEmail(email), exceptID)
}

func (c *Client) exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Client) UpdateUser(ctx context.Context, user *User) error {
	return c.db.WithContext(ctx).Model(user).Select("Username", "FirstName", "LastName", "UsernameLastChanged").Updates(user).Error
}

func (c *Client) SetUserAdmin(ctx context.Context, id uint, isAdmin bool) error {
	return c.updateUserColumn(ctx, id, "is_admin", isAdmin)
}

func (c *Client) SetEmailVerified(ctx context.Context, id uint) error {
	return c.updateUserColumn(ctx, id, "email_verified", true)
}

func (c *Client) SetPasswordHash(ctx context.Context, id uint, hash string) error {
	return c.updateUserColumn(ctx, id, "password_hash", hash)
}

func (c *Client) updateUserColumn(ctx context.Context, id uint, column string, value any) error {
	res := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		log.Error("failed to update user", "column", column, "error", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUser removes the user. Posts, registrations and winner records go with it through the foreign keys.
func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	res := c.db.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		log.Error("failed to delete user", "error", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListUsers returns all users, administrators first, then by id.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("is_admin DESC").Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
