package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dairymart/internal/config"
	"dairymart/internal/dto"
	"dairymart/internal/model"
	"dairymart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Profile(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*model.User, error)

	ListAddresses(ctx context.Context, userID uint) ([]*model.Address, error)
	CreateAddress(ctx context.Context, userID uint, req dto.AddressRequest) (*model.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID uint, req dto.AddressRequest) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uint) error
}

type accountServiceImpl struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWT
}

func NewAccountService(userRepo repository.UserRepository, jwtCfg config.JWT) AccountService {
	return &accountServiceImpl{userRepo: userRepo, jwtCfg: jwtCfg}
}

func (s *accountServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, conflict("an account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.authResponse(user)
}

func (s *accountServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, badRequest("invalid email or password")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, badRequest("invalid email or password")
	}

	return s.authResponse(user)
}

func (s *accountServiceImpl) authResponse(user *model.User) (*dto.AuthResponse, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"admin": user.IsAdmin,
		"exp":   time.Now().Add(time.Duration(s.jwtCfg.ExpiryHours) * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			Phone:   user.Phone,
			IsAdmin: user.IsAdmin,
		},
	}, nil
}

func (s *accountServiceImpl) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *accountServiceImpl) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*model.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Phone = req.Phone
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *accountServiceImpl) ListAddresses(ctx context.Context, userID uint) ([]*model.Address, error) {
	return s.userRepo.ListAddresses(ctx, userID)
}

func (s *accountServiceImpl) CreateAddress(ctx context.Context, userID uint, req dto.AddressRequest) (*model.Address, error) {
	if req.IsDefault {
		if err := s.userRepo.ClearDefaultAddress(ctx, userID); err != nil {
			return nil, fmt.Errorf("clear default address: %w", err)
		}
	}

	address := &model.Address{
		UserID:    userID,
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		IsDefault: req.IsDefault,
	}
	if err := s.userRepo.CreateAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return address, nil
}

func (s *accountServiceImpl) UpdateAddress(ctx context.Context, userID, addressID uint, req dto.AddressRequest) (*model.Address, error) {
	address, err := s.userRepo.FindAddress(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("address not found")
		}
		return nil, err
	}

	if req.IsDefault && !address.IsDefault {
		if err := s.userRepo.ClearDefaultAddress(ctx, userID); err != nil {
			return nil, fmt.Errorf("clear default address: %w", err)
		}
	}

	address.Name = req.Name
	address.Phone = req.Phone
	address.Address = req.Address
	address.City = req.City
	address.IsDefault = req.IsDefault
	if err := s.userRepo.UpdateAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	return address, nil
}

func (s *accountServiceImpl) DeleteAddress(ctx context.Context, userID, addressID uint) error {
	return s.userRepo.DeleteAddress(ctx, userID, addressID)
}
