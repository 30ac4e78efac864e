package repositories

import (
	"testing"
	"time"

	"expense-tracker/internal/database"
	"expense-tracker/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestReceiptRepository(t *testing.T) {
	suite.Run(t, new(ReceiptRepositorySuite))
}

type ReceiptRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo ReceiptRepositoryInterface
	user *models.User
	tx   *models.Transaction
}

func (s *ReceiptRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewReceiptRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "receipt_owner")
	s.tx = database.CreateTestTransaction(s.T(), s.db, s.user, 42, "food", "groceries", time.Now())
}

func (s *ReceiptRepositorySuite) receipt(path string, size int64) *models.Receipt {
	return &models.Receipt{
		UserID:        s.user.ID,
		TransactionID: s.tx.ID,
		StoragePath:   path,
		ContentType:   "image/png",
		SizeBytes:     size,
	}
}

func (s *ReceiptRepositorySuite) TestUpsert_ReplacesExisting() {
	first := s.receipt("https://b.s3.us-east-1.amazonaws.com/receipts/a.png", 100)
	s.Require().NoError(s.repo.Upsert(first))

	second := s.receipt("https://b.s3.us-east-1.amazonaws.com/receipts/b.png", 200)
	s.Require().NoError(s.repo.Upsert(second))
	s.Equal(first.ID, second.ID)

	found, err := s.repo.GetByTransactionForUser(s.tx.ID, s.user.ID)
	s.Require().NoError(err)
	s.Equal("https://b.s3.us-east-1.amazonaws.com/receipts/b.png", found.StoragePath)
	s.Equal(int64(200), found.SizeBytes)
}

func (s *ReceiptRepositorySuite) TestUpsert_Invalid() {
	s.Error(s.repo.Upsert(nil))
	s.Error(s.repo.Upsert(s.receipt("", 1)))
}

func (s *ReceiptRepositorySuite) TestGetByTransactionForUser_OtherUser() {
	s.Require().NoError(s.repo.Upsert(s.receipt("https://b.s3.us-east-1.amazonaws.com/receipts/a.png", 1)))
	other := database.CreateTestUser(s.T(), s.db, "intruder")

	_, err := s.repo.GetByTransactionForUser(s.tx.ID, other.ID)
	s.ErrorIs(err, ErrReceiptNotFound)
}

func (s *ReceiptRepositorySuite) TestDeleteByTransaction() {
	s.Require().NoError(s.repo.Upsert(s.receipt("https://b.s3.us-east-1.amazonaws.com/receipts/a.png", 1)))

	s.NoError(s.repo.DeleteByTransaction(s.tx.ID))
	_, err := s.repo.GetByTransactionForUser(s.tx.ID, s.user.ID)
	s.ErrorIs(err, ErrReceiptNotFound)

	s.NoError(s.repo.DeleteByTransaction(s.tx.ID))
}
