// Package auth проверяет учётные данные операторов по фиксированной таблице ролей
// и выпускает/проверяет сессионные токены.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"

	"github.com/magabrotheeeer/vpn-dashboard/internal/config"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/password"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// Роли операторов.
const (
	RoleVPN   = "vpn"
	RoleCodex = "codex"
)

// Service отвечает за вход операторов и проверку сессии.
type Service struct {
	accounts map[string]config.Account
	roles    []string
	jwtMaker jwt.Maker
}

// NewService создаёт Service. Таблица учётных данных копируется и дальше не меняется.
func NewService(creds config.Credentials, jwtMaker jwt.Maker) *Service {
	accounts := make(map[string]config.Account)
	roles := make([]string, 0, 2)
	for role, acc := range creds.Roles() {
		if acc.Login == "" || acc.PasswordHash == "" {
			continue
		}
		accounts[role] = acc
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return &Service{
		accounts: accounts,
		roles:    roles,
		jwtMaker: jwtMaker,
	}
}

// Login ищет роль с совпадающим логином и паролем и возвращает её вместе с токеном сессии.
func (s *Service) Login(login, rawPassword string) (role string, token string, err error) {
	const op = "auth.Login"
	matched := ""
	for _, r := range s.roles {
		acc := s.accounts[r]
		if subtle.ConstantTimeCompare([]byte(acc.Login), []byte(login)) == 1 && matched == "" {
			matched = r
		}
	}

	hash := ""
	if matched != "" {
		hash = s.accounts[matched].PasswordHash
	}
	if err := password.CompareHash(hash, rawPassword); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	token, err = s.jwtMaker.GenerateToken(login, matched)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return matched, token, nil
}

// Authorize проверяет токен сессии и возвращает роль оператора.
func (s *Service) Authorize(token string) (string, error) {
	const op = "auth.Authorize"
	if token == "" {
		return "", fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) {
			return "", fmt.Errorf("%s: %w: %w", op, models.ErrUnauthorized, err)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := s.accounts[claims.Role]; !ok {
		return "", fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}
	return claims.Role, nil
}
