package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"paystack-storefront/internal/apperr"
	"paystack-storefront/internal/dto"
	"paystack-storefront/internal/model"
	"paystack-storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RegisterMemberParams struct {
	Email      string
	FirstName  string
	LastName   string
	Phone      string
	BirthDate  *time.Time
	Membership string
}

type MembershipService interface {
	Register(ctx context.Context, params RegisterMemberParams) (*dto.MemberResponse, error)
	Get(ctx context.Context, email string) (*dto.MemberResponse, error)
	AddAddress(ctx context.Context, email string, req *dto.AddressRequest) (*model.Address, error)
	RecordTopUp(ctx context.Context, email string, amountPaid uint, description string) (*model.PboTopUp, error)
	FileComplaint(ctx context.Context, email string, subject, body string) (*model.Complaint, error)
	Delete(ctx context.Context, email string) error
}

type membershipServiceImpl struct {
	db         *gorm.DB
	memberRepo repository.MemberRepository
	logger     *slog.Logger
}

func NewMembershipService(db *gorm.DB, memberRepo repository.MemberRepository, logger *slog.Logger) MembershipService {
	return &membershipServiceImpl{
		db:         db,
		memberRepo: memberRepo,
		logger:     logger,
	}
}

// Register enrols the user with params.Email in the loyalty programme,
// creating the user first if needed. New members start with an empty
// voucher balance.
func (s *membershipServiceImpl) Register(ctx context.Context, params RegisterMemberParams) (*dto.MemberResponse, error) {
	if params.Email == "" {
		return nil, apperr.ErrEmailRequired
	}

	membership, err := model.ParseMembership(params.Membership)
	if err != nil {
		return nil, apperr.ErrInvalidMembership.WithDetails(params.Membership)
	}

	if _, err := s.memberRepo.FindPboByEmail(ctx, params.Email); err == nil {
		return nil, apperr.ErrMemberAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find member: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := &model.User{
			Email:     params.Email,
			FirstName: params.FirstName,
			LastName:  params.LastName,
		}
		if err := s.memberRepo.FirstOrCreateUser(ctx, tx, user); err != nil {
			return fmt.Errorf("store user in db: %w", err)
		}

		return s.memberRepo.CreatePbo(ctx, tx, &model.Pbo{
			UserID:         user.ID,
			Phone:          params.Phone,
			BirthDate:      params.BirthDate,
			Membership:     membership,
			VoucherBalance: decimal.Zero,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrMemberAlreadyExists
		}
		return nil, fmt.Errorf("register member: %w", err)
	}

	s.logger.InfoContext(ctx, "member registered", slog.String("membership", string(membership)))

	return s.Get(ctx, params.Email)
}

func (s *membershipServiceImpl) Get(ctx context.Context, email string) (*dto.MemberResponse, error) {
	user, err := s.memberRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	pbo, err := s.findPbo(ctx, email)
	if err != nil {
		return nil, err
	}

	addresses, err := s.memberRepo.ListAddresses(ctx, pbo.ID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}

	return &dto.MemberResponse{
		Pbo:       pbo,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Addresses: addresses,
	}, nil
}

func (s *membershipServiceImpl) AddAddress(ctx context.Context, email string, req *dto.AddressRequest) (*model.Address, error) {
	pbo, err := s.findPbo(ctx, email)
	if err != nil {
		return nil, err
	}

	address := &model.Address{
		PboID:       pbo.ID,
		HouseNumber: req.HouseNumber,
		Street:      req.Street,
		City:        req.City,
		State:       req.State,
	}
	if err := s.memberRepo.AddAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("store address: %w", err)
	}
	return address, nil
}

// RecordTopUp writes a top-up to the member's ledger. The voucher balance is
// kept by back-office bookkeeping and is not changed here.
func (s *membershipServiceImpl) RecordTopUp(ctx context.Context, email string, amountPaid uint, description string) (*model.PboTopUp, error) {
	if amountPaid == 0 {
		return nil, apperr.ErrInvalidAmount.WithDetails("top-up amount must be positive")
	}

	pbo, err := s.findPbo(ctx, email)
	if err != nil {
		return nil, err
	}

	topUp := &model.PboTopUp{
		PboID:       pbo.ID,
		AmountPaid:  amountPaid,
		Description: description,
	}
	if err := s.memberRepo.CreateTopUp(ctx, topUp); err != nil {
		return nil, fmt.Errorf("store top-up: %w", err)
	}

	s.logger.InfoContext(ctx, "top-up recorded",
		slog.Uint64("pbo_id", uint64(pbo.ID)),
		slog.Uint64("amount_paid", uint64(amountPaid)))

	return topUp, nil
}

func (s *membershipServiceImpl) FileComplaint(ctx context.Context, email string, subject, body string) (*model.Complaint, error) {
	pbo, err := s.findPbo(ctx, email)
	if err != nil {
		return nil, err
	}

	complaint := &model.Complaint{PboID: pbo.ID, Subject: subject, Body: body}
	if err := s.memberRepo.CreateComplaint(ctx, complaint); err != nil {
		return nil, fmt.Errorf("store complaint: %w", err)
	}
	return complaint, nil
}

func (s *membershipServiceImpl) Delete(ctx context.Context, email string) error {
	pbo, err := s.findPbo(ctx, email)
	if err != nil {
		return err
	}

	err = s.memberRepo.DeletePbo(ctx, pbo.ID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrMemberNotFound
	case errors.Is(err, repository.ErrProtected):
		return apperr.ErrMemberProtected.WithDetails(err.Error())
	default:
		return fmt.Errorf("delete member: %w", err)
	}
}

func (s *membershipServiceImpl) findPbo(ctx context.Context, email string) (*model.Pbo, error) {
	pbo, err := s.memberRepo.FindPboByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return pbo, nil
}
