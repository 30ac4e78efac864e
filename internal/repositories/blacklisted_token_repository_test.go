package repositories

import (
	"testing"
	"time"

	"expense-tracker/internal/database"
	"expense-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestBlacklistedTokenRepository(t *testing.T) {
	suite.Run(t, new(BlacklistedTokenRepositorySuite))
}

type BlacklistedTokenRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo BlacklistedTokenRepositoryInterface
	user *models.User
}

func (s *BlacklistedTokenRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewBlacklistedTokenRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "token_user")
}

func (s *BlacklistedTokenRepositorySuite) TestCreateAndLookup() {
	jti := uuid.NewString()
	s.Require().NoError(s.repo.Create(models.NewBlacklistedToken(jti, s.user.ID, time.Now().Add(time.Hour))))

	token, err := s.repo.GetByJTI(jti)
	s.NoError(err)
	s.Equal(s.user.ID, token.UserID)
	s.NotZero(token.BlacklistedAt)

	blacklisted, err := s.repo.IsBlacklisted(jti)
	s.NoError(err)
	s.True(blacklisted)
}

func (s *BlacklistedTokenRepositorySuite) TestCreate_TwiceIsNoop() {
	jti := uuid.NewString()
	s.Require().NoError(s.repo.Create(models.NewBlacklistedToken(jti, s.user.ID, time.Now().Add(time.Hour))))
	s.NoError(s.repo.Create(models.NewBlacklistedToken(jti, s.user.ID, time.Now().Add(time.Hour))))
}

func (s *BlacklistedTokenRepositorySuite) TestUnknownJTI() {
	_, err := s.repo.GetByJTI("missing")
	s.ErrorIs(err, ErrTokenNotFound)

	blacklisted, err := s.repo.IsBlacklisted("missing")
	s.NoError(err)
	s.False(blacklisted)
}

func (s *BlacklistedTokenRepositorySuite) TestDeleteExpired() {
	s.Require().NoError(s.repo.Create(models.NewBlacklistedToken("old", s.user.ID, time.Now().Add(-time.Minute))))
	s.Require().NoError(s.repo.Create(models.NewBlacklistedToken("new", s.user.ID, time.Now().Add(time.Hour))))

	removed, err := s.repo.DeleteExpired()
	s.NoError(err)
	s.Equal(int64(1), removed)

	blacklisted, err := s.repo.IsBlacklisted("new")
	s.NoError(err)
	s.True(blacklisted)
}
