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

type OffsetServiceTestSuite struct {
	suite.Suite
	mockOffsetRepo  *MockOffsetRepository
	mockAccountRepo *MockAccountRepository
	mockAuthorizer  *MockAuthorizer
	service         portssvc.OffsetSvcFacade

	userID  string
	payable domain.Account
}

func (s *OffsetServiceTestSuite) SetupTest() {
	s.mockOffsetRepo = new(MockOffsetRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockAuthorizer = new(MockAuthorizer)
	s.service = services.NewOffsetService(s.mockOffsetRepo, s.mockAccountRepo, s.mockAuthorizer)

	s.userID = uuid.NewString()
	s.payable = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "2151",
		AccountType: domain.Liability,
		NeedsOffset: true,
		IsActive:    true,
	}
}

func (s *OffsetServiceTestSuite) original(id string, day int, amount int64) domain.LineItem {
	return domain.LineItem{
		LineItemID:   id,
		EntryID:      uuid.NewString(),
		AccountID:    s.payable.AccountID,
		CurrencyCode: "USD",
		Side:         domain.Credit,
		Amount:       decimal.NewFromInt(amount),
		EntryDate:    time.Date(2026, 7, day, 0, 0, 0, 0, time.UTC),
	}
}

func (s *OffsetServiceTestSuite) candidate(id string, day int, amount int64) domain.LineItem {
	return domain.LineItem{
		LineItemID:   id,
		EntryID:      uuid.NewString(),
		AccountID:    s.payable.AccountID,
		CurrencyCode: "USD",
		Side:         domain.Debit,
		Amount:       decimal.NewFromInt(amount),
		EntryDate:    time.Date(2026, 7, day, 0, 0, 0, 0, time.UTC),
	}
}

func (s *OffsetServiceTestSuite) TestUnmatchedOriginalsExcludesFullyOffset() {
	ctx := context.Background()
	settled := s.original("orig-settled", 1, 100)
	open := s.original("orig-open", 2, 80)
	offset := s.candidate("off-1", 3, 100)
	offset.OriginalID = &settled.LineItemID

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleViewer).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.payable.AccountID).Return(&s.payable, nil).Once()
	s.mockOffsetRepo.On("FindOriginals", ctx, s.payable.AccountID, "USD", domain.Credit).
		Return([]domain.LineItem{settled, open}, nil).Once()
	s.mockOffsetRepo.On("FindOffsets", ctx, s.payable.AccountID, "USD").
		Return([]domain.LineItem{offset}, nil).Once()

	statuses, err := s.service.UnmatchedOriginals(ctx, s.payable.AccountID, "USD", s.userID)

	s.Require().NoError(err)
	s.Require().Len(statuses, 1)
	s.Equal("orig-open", statuses[0].Item.LineItemID)
	s.True(statuses[0].Net.Equal(decimal.NewFromInt(80)))
}

func (s *OffsetServiceTestSuite) TestUnmatchedOriginalsRejectsPlainAccount() {
	ctx := context.Background()
	plain := domain.Account{AccountID: uuid.NewString(), Code: "1111", AccountType: domain.Asset, IsActive: true}

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleViewer).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, plain.AccountID).Return(&plain, nil).Once()

	_, err := s.service.UnmatchedOriginals(ctx, plain.AccountID, "USD", s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockOffsetRepo.AssertNotCalled(s.T(), "FindOriginals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *OffsetServiceTestSuite) TestProposeMatchesPairsEqualAmounts() {
	ctx := context.Background()
	origA := s.original("orig-a", 1, 100)
	origB := s.original("orig-b", 2, 250)
	candMatch := s.candidate("cand-100", 5, 100)
	candStray := s.candidate("cand-70", 6, 70)

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleViewer).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.payable.AccountID).Return(&s.payable, nil).Once()
	s.mockOffsetRepo.On("FindOriginals", ctx, s.payable.AccountID, "USD", domain.Credit).
		Return([]domain.LineItem{origA, origB}, nil).Once()
	s.mockOffsetRepo.On("FindOffsets", ctx, s.payable.AccountID, "USD").
		Return([]domain.LineItem{}, nil).Once()
	s.mockOffsetRepo.On("FindOffsetCandidates", ctx, s.payable.AccountID, "USD", domain.Debit).
		Return([]domain.LineItem{candMatch, candStray}, nil).Once()

	proposal, err := s.service.ProposeMatches(ctx, s.payable.AccountID, "USD", s.userID)

	s.Require().NoError(err)
	s.Require().Len(proposal.Pairs, 1)
	s.Equal("orig-a", proposal.Pairs[0].Original.LineItemID)
	s.Equal("cand-100", proposal.Pairs[0].Offset.LineItemID)
	s.Require().Len(proposal.UnmatchedOriginals, 1)
	s.Equal("orig-b", proposal.UnmatchedOriginals[0].Item.LineItemID)
	s.Require().Len(proposal.UnmatchedOffsets, 1)
	s.Equal("cand-70", proposal.UnmatchedOffsets[0].LineItemID)
}

func (s *OffsetServiceTestSuite) TestConfirmMatchesSuccess() {
	ctx := context.Background()
	orig := s.original("orig-a", 1, 100)
	cand := s.candidate("cand-100", 5, 100)

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.payable.AccountID).Return(&s.payable, nil).Once()
	s.mockOffsetRepo.On("FindOriginals", ctx, s.payable.AccountID, "USD", domain.Credit).
		Return([]domain.LineItem{orig}, nil).Once()
	s.mockOffsetRepo.On("FindOffsets", ctx, s.payable.AccountID, "USD").
		Return([]domain.LineItem{}, nil).Once()
	s.mockOffsetRepo.On("FindLineItemsByIDs", ctx, []string{cand.LineItemID}).
		Return(map[string]domain.LineItem{cand.LineItemID: cand}, nil).Once()
	s.mockOffsetRepo.On("ApplyMatches", ctx, mock.AnythingOfType("[]domain.MatchPair"), s.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	req := dto.ConfirmMatchesRequest{Pairs: []dto.ConfirmMatchPair{{OriginalID: orig.LineItemID, OffsetID: cand.LineItemID}}}
	n, err := s.service.ConfirmMatches(ctx, s.payable.AccountID, "USD", req, s.userID)

	s.Require().NoError(err)
	s.Equal(1, n)
	s.mockOffsetRepo.AssertExpectations(s.T())
}

func (s *OffsetServiceTestSuite) TestConfirmMatchesRejectsOverOffset() {
	ctx := context.Background()
	orig := s.original("orig-a", 1, 100)
	earlier := s.candidate("off-earlier", 2, 60)
	earlier.OriginalID = &orig.LineItemID
	cand := s.candidate("cand-100", 5, 100) // net is only 40 by now

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.payable.AccountID).Return(&s.payable, nil).Once()
	s.mockOffsetRepo.On("FindOriginals", ctx, s.payable.AccountID, "USD", domain.Credit).
		Return([]domain.LineItem{orig}, nil).Once()
	s.mockOffsetRepo.On("FindOffsets", ctx, s.payable.AccountID, "USD").
		Return([]domain.LineItem{earlier}, nil).Once()
	s.mockOffsetRepo.On("FindLineItemsByIDs", ctx, []string{cand.LineItemID}).
		Return(map[string]domain.LineItem{cand.LineItemID: cand}, nil).Once()

	req := dto.ConfirmMatchesRequest{Pairs: []dto.ConfirmMatchPair{{OriginalID: orig.LineItemID, OffsetID: cand.LineItemID}}}
	_, err := s.service.ConfirmMatches(ctx, s.payable.AccountID, "USD", req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockOffsetRepo.AssertNotCalled(s.T(), "ApplyMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *OffsetServiceTestSuite) TestConfirmMatchesRejectsReusedOffset() {
	ctx := context.Background()
	origA := s.original("orig-a", 1, 100)
	origB := s.original("orig-b", 2, 100)
	cand := s.candidate("cand-100", 5, 100)

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.payable.AccountID).Return(&s.payable, nil).Once()
	s.mockOffsetRepo.On("FindOriginals", ctx, s.payable.AccountID, "USD", domain.Credit).
		Return([]domain.LineItem{origA, origB}, nil).Once()
	s.mockOffsetRepo.On("FindOffsets", ctx, s.payable.AccountID, "USD").
		Return([]domain.LineItem{}, nil).Once()
	s.mockOffsetRepo.On("FindLineItemsByIDs", ctx, []string{cand.LineItemID, cand.LineItemID}).
		Return(map[string]domain.LineItem{cand.LineItemID: cand}, nil).Once()

	// One debit leg cannot settle two originals at once.
	req := dto.ConfirmMatchesRequest{Pairs: []dto.ConfirmMatchPair{
		{OriginalID: origA.LineItemID, OffsetID: cand.LineItemID},
		{OriginalID: origB.LineItemID, OffsetID: cand.LineItemID},
	}}
	_, err := s.service.ConfirmMatches(ctx, s.payable.AccountID, "USD", req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockOffsetRepo.AssertNotCalled(s.T(), "ApplyMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *OffsetServiceTestSuite) TestConfirmMatchesRejectsAssignedOffset() {
	ctx := context.Background()
	orig := s.original("orig-a", 1, 100)
	other := uuid.NewString()
	cand := s.candidate("cand-100", 5, 100)
	cand.OriginalID = &other

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleEditor).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.payable.AccountID).Return(&s.payable, nil).Once()
	s.mockOffsetRepo.On("FindOriginals", ctx, s.payable.AccountID, "USD", domain.Credit).
		Return([]domain.LineItem{orig}, nil).Once()
	s.mockOffsetRepo.On("FindOffsets", ctx, s.payable.AccountID, "USD").
		Return([]domain.LineItem{}, nil).Once()
	s.mockOffsetRepo.On("FindLineItemsByIDs", ctx, []string{cand.LineItemID}).
		Return(map[string]domain.LineItem{cand.LineItemID: cand}, nil).Once()

	req := dto.ConfirmMatchesRequest{Pairs: []dto.ConfirmMatchPair{{OriginalID: orig.LineItemID, OffsetID: cand.LineItemID}}}
	_, err := s.service.ConfirmMatches(ctx, s.payable.AccountID, "USD", req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestOffsetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OffsetServiceTestSuite))
}
