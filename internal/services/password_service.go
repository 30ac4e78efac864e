package services

import (
	"errors"
	"fmt"
	"regexp"

	"expense-tracker/internal/config"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultBCryptCost = 12

	DefaultMinPasswordLength = 8
	MaxPasswordLength        = 72 // bcrypt input limit
)

var (
	ErrPasswordEmpty       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrPasswordTooLong     = fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	ErrPasswordNoUppercase = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLowercase = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoNumber    = errors.New("password must contain at least one number")
	ErrPasswordNoSpecial   = errors.New("password must contain at least one special character")

	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	numberRegex    = regexp.MustCompile(`[0-9]`)
	specialRegex   = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{}|;:,.<>?]`)
)

// PasswordService hashes passwords and enforces the configured policy
type PasswordService struct {
	cost           int
	minLength      int
	requireUpper   bool
	requireLower   bool
	requireNumber  bool
	requireSpecial bool
}

// NewPasswordService builds a password service from the security config.
// A nil config or zero values fall back to the defaults.
func NewPasswordService(cfg *config.SecurityConfig) PasswordServiceInterface {
	ps := &PasswordService{
		cost:      DefaultBCryptCost,
		minLength: DefaultMinPasswordLength,
	}
	if cfg == nil {
		return ps
	}

	if cfg.BCryptCost >= bcrypt.MinCost && cfg.BCryptCost <= bcrypt.MaxCost {
		ps.cost = cfg.BCryptCost
	}
	if cfg.PasswordMinLength > 0 {
		ps.minLength = cfg.PasswordMinLength
	}
	ps.requireUpper = cfg.RequireUppercase
	ps.requireLower = cfg.RequireLowercase
	ps.requireNumber = cfg.RequireNumbers
	ps.requireSpecial = cfg.RequireSpecialChars

	return ps
}

// ValidatePassword checks a password against the policy
func (ps *PasswordService) ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordEmpty
	}

	if len(password) < ps.minLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooShort, ps.minLength)
	}

	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}

	if ps.requireUpper && !uppercaseRegex.MatchString(password) {
		return ErrPasswordNoUppercase
	}

	if ps.requireLower && !lowercaseRegex.MatchString(password) {
		return ErrPasswordNoLowercase
	}

	if ps.requireNumber && !numberRegex.MatchString(password) {
		return ErrPasswordNoNumber
	}

	if ps.requireSpecial && !specialRegex.MatchString(password) {
		return ErrPasswordNoSpecial
	}

	return nil
}

// HashPassword validates and hashes a password using bcrypt
func (ps *PasswordService) HashPassword(password string) (string, error) {
	if err := ps.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("password validation failed: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), ps.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// ComparePassword reports whether password matches hash
func (ps *PasswordService) ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordStrength returns a score from 0-100
func (ps *PasswordService) PasswordStrength(password string) int {
	if password == "" {
		return 0
	}

	score := lengthScore(len(password))
	score += diversityScore(password)
	score += entropyBonus(password)

	if score > 100 {
		score = 100
	}

	return score
}

func lengthScore(length int) int {
	score := 0
	for _, threshold := range []int{8, 12, 16, 20} {
		if length >= threshold {
			score += 10
		}
	}
	return score
}

func diversityScore(password string) int {
	score := 0
	for _, re := range []*regexp.Regexp{uppercaseRegex, lowercaseRegex, numberRegex, specialRegex} {
		if re.MatchString(password) {
			score += 15
		}
	}
	return score
}

func entropyBonus(password string) int {
	unique := make(map[rune]struct{})
	for _, r := range password {
		unique[r] = struct{}{}
	}

	switch {
	case len(unique) > len(password)*3/4:
		return 10
	case len(unique) > len(password)/2:
		return 5
	default:
		return 0
	}
}
