package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/openacct/openacct/internal/core/domain"
	portssvc "github.com/openacct/openacct/internal/core/ports/services"
	"github.com/openacct/openacct/internal/core/services"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockAccountRepo   *MockAccountRepository
	mockAuthorizer    *MockAuthorizer
	service           portssvc.LedgerSvcFacade

	userID      string
	cashAccount domain.Account
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.mockReportingRepo = new(MockReportingRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockAuthorizer = new(MockAuthorizer)
	s.service = services.NewLedgerService(s.mockReportingRepo, s.mockAccountRepo, s.mockAuthorizer)

	s.userID = uuid.NewString()
	s.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1111",
		AccountType: domain.Asset,
		IsActive:    true,
	}
}

func (s *LedgerServiceTestSuite) item(id string, day int, side domain.EntrySide, amount int64) domain.LineItem {
	return domain.LineItem{
		LineItemID:   id,
		AccountID:    s.cashAccount.AccountID,
		CurrencyCode: "USD",
		Side:         side,
		Amount:       decimal.NewFromInt(amount),
		EntryDate:    time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC),
	}
}

func (s *LedgerServiceTestSuite) TestLedgerWithBroughtForward() {
	ctx := context.Background()
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	period := domain.Period{From: &from}
	items := []domain.LineItem{
		s.item("li-1", 3, domain.Debit, 50),
		s.item("li-2", 5, domain.Credit, 30),
	}

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleViewer).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.cashAccount.AccountID).Return(&s.cashAccount, nil).Once()
	s.mockReportingRepo.On("GetBroughtForward", ctx, s.cashAccount.AccountID, "USD", from).
		Return(decimal.NewFromInt(120), decimal.NewFromInt(100), nil).Once()
	s.mockReportingRepo.On("GetLedgerItems", ctx, s.cashAccount.AccountID, "USD", period).
		Return(items, nil).Once()

	report, err := s.service.Ledger(ctx, s.cashAccount.AccountID, "USD", period, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(report.BroughtForward)
	s.True(report.BroughtForward.Equal(decimal.NewFromInt(20)))
	s.Require().Len(report.Rows, 2)
	s.True(report.Rows[0].Balance.Equal(decimal.NewFromInt(70)))
	s.True(report.Rows[1].Balance.Equal(decimal.NewFromInt(40)))
	s.True(report.TotalDebit.Equal(decimal.NewFromInt(50)))
	s.True(report.TotalCredit.Equal(decimal.NewFromInt(30)))
	s.True(report.EndingBalance.Equal(decimal.NewFromInt(40)))
}

func (s *LedgerServiceTestSuite) TestLedgerUnboundedPeriodHasNoBroughtForward() {
	ctx := context.Background()
	period := domain.Period{}

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleViewer).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.cashAccount.AccountID).Return(&s.cashAccount, nil).Once()
	s.mockReportingRepo.On("GetLedgerItems", ctx, s.cashAccount.AccountID, "USD", period).
		Return([]domain.LineItem{s.item("li-1", 3, domain.Debit, 50)}, nil).Once()

	report, err := s.service.Ledger(ctx, s.cashAccount.AccountID, "USD", period, s.userID)

	s.Require().NoError(err)
	s.Nil(report.BroughtForward)
	s.True(report.EndingBalance.Equal(decimal.NewFromInt(50)))
	s.mockReportingRepo.AssertNotCalled(s.T(), "GetBroughtForward",
		context.Background(), s.cashAccount.AccountID, "USD")
}

func (s *LedgerServiceTestSuite) TestLedgerEmptyRangeKeepsSeed() {
	ctx := context.Background()
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	period := domain.Period{From: &from, To: &to}

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleViewer).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.cashAccount.AccountID).Return(&s.cashAccount, nil).Once()
	s.mockReportingRepo.On("GetBroughtForward", ctx, s.cashAccount.AccountID, "USD", from).
		Return(decimal.NewFromInt(500), decimal.Zero, nil).Once()
	s.mockReportingRepo.On("GetLedgerItems", ctx, s.cashAccount.AccountID, "USD", period).
		Return([]domain.LineItem{}, nil).Once()

	report, err := s.service.Ledger(ctx, s.cashAccount.AccountID, "USD", period, s.userID)

	s.Require().NoError(err)
	s.Empty(report.Rows)
	s.Require().NotNil(report.BroughtForward)
	s.True(report.BroughtForward.Equal(decimal.NewFromInt(500)))
	s.True(report.EndingBalance.Equal(decimal.NewFromInt(500)))
}

func (s *LedgerServiceTestSuite) TestLedgerCreditNormalSign() {
	ctx := context.Background()
	payable := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "2151",
		AccountType: domain.Liability,
		NeedsOffset: true,
		IsActive:    true,
	}
	period := domain.Period{}
	items := []domain.LineItem{
		{
			LineItemID: "li-1", AccountID: payable.AccountID, CurrencyCode: "USD",
			Side: domain.Credit, Amount: decimal.NewFromInt(200),
			EntryDate: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			LineItemID: "li-2", AccountID: payable.AccountID, CurrencyCode: "USD",
			Side: domain.Debit, Amount: decimal.NewFromInt(80),
			EntryDate: time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC),
		},
	}

	s.mockAuthorizer.On("AuthorizeUserAction", ctx, s.userID, domain.RoleViewer).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, payable.AccountID).Return(&payable, nil).Once()
	s.mockReportingRepo.On("GetLedgerItems", ctx, payable.AccountID, "USD", period).
		Return(items, nil).Once()

	report, err := s.service.Ledger(ctx, payable.AccountID, "USD", period, s.userID)

	s.Require().NoError(err)
	s.True(report.Rows[0].Balance.Equal(decimal.NewFromInt(200)))
	s.True(report.Rows[1].Balance.Equal(decimal.NewFromInt(120)))
	s.True(report.EndingBalance.Equal(decimal.NewFromInt(120)))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
