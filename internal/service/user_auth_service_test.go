package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "unit-test-secret-key-0123456789abcdef"
	cfg.JWT.ExpireHours = 1
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}
	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterAndParseToken(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, token, expiresAt, err := svc.Register(RegisterInput{
		Email:     "  Ada@Example.COM ",
		Password:  "Sup3rSecret",
		FirstName: " Ada ",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email should be normalized, got %q", user.Email)
	}
	if user.FirstName != "Ada" {
		t.Fatalf("first name should be trimmed, got %q", user.FirstName)
	}
	if !user.IsActive || user.IsStaff {
		t.Fatalf("new user flags mismatch: %+v", user)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("register should stamp last login")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("token expiry should be in the future")
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.IsStaff {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestRegisterRejectsDuplicateAndInvalidInput(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register(RegisterInput{Email: "dup@example.com", Password: "Sup3rSecret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	// 邮箱判重不区分大小写
	if _, _, _, err := svc.Register(RegisterInput{Email: "DUP@example.com", Password: "Sup3rSecret"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email want ErrEmailTaken got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "Sup3rSecret"}); !errors.Is(err, ErrEmailInvalid) {
		t.Fatalf("bad email want ErrEmailInvalid got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "weak@example.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password want ErrWeakPassword got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "weak@example.com", Password: "alllowercase1"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("missing uppercase want ErrWeakPassword got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	registered, _, _, err := svc.Register(RegisterInput{Email: "login@example.com", Password: "Sup3rSecret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, _, err := svc.Login("Login@Example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID || token == "" {
		t.Fatalf("login result mismatch: id=%d token=%q", user.ID, token)
	}

	if _, _, _, err := svc.Login("login@example.com", "WrongPass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("ghost@example.com", "Sup3rSecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email want ErrInvalidCredentials got %v", err)
	}

	if err := db.Model(&models.User{}).Where("id = ?", registered.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("login@example.com", "Sup3rSecret"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("disabled user want ErrUserDisabled got %v", err)
	}
}

func TestLoginRememberMeExtendsExpiry(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)
	svc.cfg.JWT.RememberMeExpireHours = 720

	if _, _, _, err := svc.Register(RegisterInput{Email: "remember@example.com", Password: "Sup3rSecret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, shortExpiry, err := svc.LoginWithRememberMe("remember@example.com", "Sup3rSecret", false)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	_, _, longExpiry, err := svc.LoginWithRememberMe("remember@example.com", "Sup3rSecret", true)
	if err != nil {
		t.Fatalf("remember-me login failed: %v", err)
	}
	if !longExpiry.After(shortExpiry.Add(24 * time.Hour)) {
		t.Fatalf("remember-me expiry should be much later: short=%v long=%v", shortExpiry, longExpiry)
	}
}

func TestParseUserJWTRejectsBadTokens(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, token, _, err := svc.Register(RegisterInput{Email: "token@example.com", Password: "Sup3rSecret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.ParseUserJWT("garbage.token.value"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage token want ErrTokenInvalid got %v", err)
	}

	// 换密钥后旧 token 失效
	svc.cfg.JWT.SecretKey = "a-different-secret-key-0123456789abc"
	if _, err := svc.ParseUserJWT(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("token with wrong secret want ErrTokenInvalid got %v", err)
	}
	_ = user
}

func TestChangePassword(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, _, _, err := svc.Register(RegisterInput{Email: "change@example.com", Password: "Sup3rSecret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "WrongPass1", "An0therSecret"); !errors.Is(err, ErrPasswordIncorrect) {
		t.Fatalf("wrong old password want ErrPasswordIncorrect got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "Sup3rSecret", "weak"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak new password want ErrWeakPassword got %v", err)
	}
	if err := svc.ChangePassword(user.ID+1000, "Sup3rSecret", "An0therSecret"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user want ErrUserNotFound got %v", err)
	}

	if err := svc.ChangePassword(user.ID, "Sup3rSecret", "An0therSecret"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, _, err := svc.Login("change@example.com", "Sup3rSecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password should stop working, got %v", err)
	}
	if _, _, _, err := svc.Login("change@example.com", "An0therSecret"); err != nil {
		t.Fatalf("new password should work, got %v", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, _, _, err := svc.Register(RegisterInput{
		Email:     "profile@example.com",
		Password:  "Sup3rSecret",
		FirstName: "Grace",
		LastName:  "Hopper",
		Phone:     "555-0101",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	newPhone := " 555-0202 "
	updated, err := svc.UpdateProfile(user.ID, nil, nil, &newPhone)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.Phone != "555-0202" {
		t.Fatalf("phone want 555-0202 got %q", updated.Phone)
	}
	// nil 字段保持不变
	if updated.FirstName != "Grace" || updated.LastName != "Hopper" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	if _, err := svc.UpdateProfile(0, nil, nil, nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("zero id want ErrUserNotFound got %v", err)
	}
}
