package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openacct/openacct/internal/apperrors"
	"github.com/openacct/openacct/internal/core/domain"
	portssvc "github.com/openacct/openacct/internal/core/ports/services"
	"github.com/openacct/openacct/internal/core/services"
	"github.com/openacct/openacct/internal/dto"
)

type EntryServiceTestSuite struct {
	suite.Suite
	mockEntryRepo   *MockEntryRepository
	mockAccountRepo *MockAccountRepository
	mockOffsetRepo  *MockOffsetRepository
	mockAuthorizer  *MockAuthorizer
	service         portssvc.EntrySvcFacade

	userID         string
	cashAccount    domain.Account
	payableAccount domain.Account
}

func (s *EntryServiceTestSuite) SetupTest() {
	s.mockEntryRepo = new(MockEntryRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockOffsetRepo = new(MockOffsetRepository)
	s.mockAuthorizer = new(MockAuthorizer)
	s.service = services.NewEntryService(s.mockEntryRepo, s.mockAccountRepo, s.mockOffsetRepo, s.mockAuthorizer)

	s.userID = uuid.NewString()
	s.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1111",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	s.payableAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "2151",
		AccountType: domain.Liability,
		NeedsOffset: true,
		IsActive:    true,
	}
}

func (s *EntryServiceTestSuite) balancedRequest() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		Date: time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		Note: "office rent",
		LineItems: []dto.CreateLineItemRequest{
			{AccountID: s.payableAccount.AccountID, CurrencyCode: "USD", Side: domain.Debit, Amount: decimal.NewFromInt(100)},
			{AccountID: s.cashAccount.AccountID, CurrencyCode: "USD", Side: domain.Credit, Amount: decimal.NewFromInt(100)},
		},
	}
}

func (s *EntryServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		s.cashAccount.AccountID:    s.cashAccount,
		s.payableAccount.AccountID: s.payableAccount,
	}
}

func (s *EntryServiceTestSuite) TestCreateEntrySuccess() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{s.payableAccount.AccountID, s.cashAccount.AccountID}).
		Return(s.accountsMap(), nil).Once()

	var saved domain.JournalEntry
	s.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.JournalEntry) }).
		Return(4, nil).Once()

	entry, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal(4, entry.EntryNo)
	// Timestamp input collapses to the calendar date.
	s.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), entry.EntryDate)
	s.Equal(s.userID, entry.CreatedBy)

	s.Require().Len(saved.LineItems, 2)
	s.Equal(1, saved.LineItems[0].LineNo)
	s.Equal(1, saved.LineItems[1].LineNo) // first of its own side
	s.Equal(saved.EntryID, saved.LineItems[0].EntryID)

	s.mockAuthorizer.AssertExpectations(s.T())
	s.mockAccountRepo.AssertExpectations(s.T())
	s.mockEntryRepo.AssertExpectations(s.T())
}

func (s *EntryServiceTestSuite) TestCreateEntryRetriesOrdinalCollision() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(s.accountsMap(), nil).Once()
	// Two saves lose the same-date ordinal race before one sticks.
	s.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).
		Return(0, apperrors.ErrConflict).Twice()
	s.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).
		Return(3, nil).Once()

	entry, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().NoError(err)
	s.Equal(3, entry.EntryNo)
	s.mockEntryRepo.AssertExpectations(s.T())
}

func (s *EntryServiceTestSuite) TestCreateEntryExhaustsOrdinalRetries() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(s.accountsMap(), nil).Once()
	s.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).
		Return(0, apperrors.ErrConflict).Times(3)

	_, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockEntryRepo.AssertExpectations(s.T())
}

func (s *EntryServiceTestSuite) TestCreateEntryAuthFailure() {
	ctx := context.Background()
	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(apperrors.ErrForbidden).Once()

	_, err := s.service.CreateEntry(ctx, s.balancedRequest(), s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.mockEntryRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (s *EntryServiceTestSuite) TestCreateEntryUnbalanced() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.LineItems[1].Amount = decimal.NewFromInt(90)

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(s.accountsMap(), nil).Once()

	_, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockEntryRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (s *EntryServiceTestSuite) TestCreateEntryPerCurrencyBalance() {
	ctx := context.Background()
	req := s.balancedRequest()
	// Balanced in total but not per currency.
	req.LineItems[1].CurrencyCode = "EUR"

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(s.accountsMap(), nil).Once()

	_, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *EntryServiceTestSuite) TestCreateEntryOffsetOnPlainAccount() {
	ctx := context.Background()
	originalID := uuid.NewString()
	req := s.balancedRequest()
	req.LineItems[1].OriginalID = &originalID // cash account does not track offsets

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(s.accountsMap(), nil).Once()

	_, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockEntryRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (s *EntryServiceTestSuite) TestCreateEntryOffsetExceedsNet() {
	ctx := context.Background()
	original := domain.LineItem{
		LineItemID:   uuid.NewString(),
		EntryID:      uuid.NewString(),
		AccountID:    s.payableAccount.AccountID,
		CurrencyCode: "USD",
		Side:         domain.Credit,
		Amount:       decimal.NewFromInt(100),
	}
	partial := domain.LineItem{
		LineItemID:   uuid.NewString(),
		AccountID:    s.payableAccount.AccountID,
		CurrencyCode: "USD",
		Side:         domain.Debit,
		Amount:       decimal.NewFromInt(60),
		OriginalID:   &original.LineItemID,
	}

	req := dto.CreateEntryRequest{
		Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		LineItems: []dto.CreateLineItemRequest{
			// Net after the partial offset is 40; 50 must be rejected.
			{AccountID: s.payableAccount.AccountID, CurrencyCode: "USD", Side: domain.Debit, Amount: decimal.NewFromInt(50), OriginalID: &original.LineItemID},
			{AccountID: s.cashAccount.AccountID, CurrencyCode: "USD", Side: domain.Credit, Amount: decimal.NewFromInt(50)},
		},
	}

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(s.accountsMap(), nil).Once()
	s.mockEntryRepo.On("FindLineItemByID", ctx, original.LineItemID).Return(&original, nil).Once()
	s.mockOffsetRepo.On("FindOffsets", ctx, s.payableAccount.AccountID, "USD").
		Return([]domain.LineItem{partial}, nil).Once()

	_, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockEntryRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (s *EntryServiceTestSuite) TestReorderEntriesSuccess() {
	ctx := context.Background()
	date := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	idA, idB, idC := "entry-a", "entry-b", "entry-c"

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockEntryRepo.On("ListEntryOrdinals", ctx, date).
		Return(map[string]int{idA: 1, idB: 2, idC: 3}, nil).Once()
	s.mockEntryRepo.On("UpdateEntryOrdinals", ctx, date,
		map[string]int{idC: 1, idA: 2, idB: 3}, s.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := s.service.ReorderEntries(ctx, date, []string{idC, idA, idB}, s.userID)

	s.Require().NoError(err)
	s.mockEntryRepo.AssertExpectations(s.T())
}

func (s *EntryServiceTestSuite) TestReorderEntriesRejectsPartialPermutation() {
	ctx := context.Background()
	date := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockEntryRepo.On("ListEntryOrdinals", ctx, date).
		Return(map[string]int{"entry-a": 1, "entry-b": 2}, nil).Once()

	err := s.service.ReorderEntries(ctx, date, []string{"entry-a"}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockEntryRepo.AssertNotCalled(s.T(), "UpdateEntryOrdinals",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *EntryServiceTestSuite) TestFindOrderHoles() {
	ctx := context.Background()
	holeDate := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cleanDate := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	dupDate := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleViewer).Return(nil).Once()
	s.mockEntryRepo.On("ListEntryOrdinalsByPeriod", ctx, mock.AnythingOfType("domain.Period")).
		Return(map[time.Time][]int{
			holeDate:  {1, 3},
			cleanDate: {1, 2, 3},
			dupDate:   {1, 2, 2},
		}, nil).Once()

	holes, err := s.service.FindOrderHoles(ctx, domain.Period{}, s.userID)

	s.Require().NoError(err)
	s.Equal([]time.Time{holeDate, dupDate}, holes)
}

func (s *EntryServiceTestSuite) TestDeleteEntryBlockedByOffsetReference() {
	ctx := context.Background()
	entryID := uuid.NewString()
	original := domain.LineItem{
		LineItemID:   uuid.NewString(),
		EntryID:      entryID,
		AccountID:    s.payableAccount.AccountID,
		CurrencyCode: "USD",
		Side:         domain.Credit,
		Amount:       decimal.NewFromInt(75),
	}
	offsetFromElsewhere := domain.LineItem{
		LineItemID:   uuid.NewString(),
		EntryID:      uuid.NewString(),
		AccountID:    s.payableAccount.AccountID,
		CurrencyCode: "USD",
		Side:         domain.Debit,
		Amount:       decimal.NewFromInt(75),
		OriginalID:   &original.LineItemID,
	}

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockEntryRepo.On("FindLineItemsByEntryID", ctx, entryID).
		Return([]domain.LineItem{original}, nil).Once()
	s.mockOffsetRepo.On("FindOffsets", ctx, s.payableAccount.AccountID, "USD").
		Return([]domain.LineItem{offsetFromElsewhere}, nil).Once()

	err := s.service.DeleteEntry(ctx, entryID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockEntryRepo.AssertNotCalled(s.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

func (s *EntryServiceTestSuite) TestDeleteEntrySuccess() {
	ctx := context.Background()
	entryID := uuid.NewString()
	item := domain.LineItem{
		LineItemID:   uuid.NewString(),
		EntryID:      entryID,
		AccountID:    s.cashAccount.AccountID,
		CurrencyCode: "USD",
		Side:         domain.Debit,
		Amount:       decimal.NewFromInt(10),
	}

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockEntryRepo.On("FindLineItemsByEntryID", ctx, entryID).
		Return([]domain.LineItem{item}, nil).Once()
	s.mockOffsetRepo.On("FindOffsets", ctx, s.cashAccount.AccountID, "USD").
		Return([]domain.LineItem{}, nil).Once()
	s.mockEntryRepo.On("DeleteEntry", ctx, entryID).Return(nil).Once()

	err := s.service.DeleteEntry(ctx, entryID, s.userID)

	s.Require().NoError(err)
	s.mockEntryRepo.AssertExpectations(s.T())
}

func TestEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntryServiceTestSuite))
}
