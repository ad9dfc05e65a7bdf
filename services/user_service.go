package services

import (
	"context"

	"storefront-service/models"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages profiles and saved delivery addresses.
type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, *ServiceError)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, *ServiceError)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, *ServiceError)
	AddAddress(ctx context.Context, userID uuid.UUID, req *models.AddressRequest) (*models.Address, *ServiceError)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) *ServiceError
}

type userServiceImpl struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{users: users, logger: logger}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, *ServiceError) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "User not found"}
	}
	addresses, err := s.users.FindAddresses(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load addresses", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load profile"}
	}
	user.Addresses = addresses
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, *ServiceError) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "User not found"}
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update profile"}
	}
	return user, nil
}

func (s *userServiceImpl) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, *ServiceError) {
	addresses, err := s.users.FindAddresses(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list addresses", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list addresses"}
	}
	return addresses, nil
}

// AddAddress saves a new delivery address. Marking it default clears the
// previous default first.
func (s *userServiceImpl) AddAddress(ctx context.Context, userID uuid.UUID, req *models.AddressRequest) (*models.Address, *ServiceError) {
	if req.IsDefault {
		if err := s.users.ClearDefaultAddress(ctx, userID); err != nil {
			s.logger.Error("Failed to clear default address", zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to save address"}
		}
	}

	address := &models.Address{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        req.Type,
		AddressLine: req.AddressLine,
		City:        req.City,
		Pincode:     req.Pincode,
		IsDefault:   req.IsDefault,
	}
	if err := s.users.CreateAddress(ctx, address); err != nil {
		s.logger.Error("Failed to save address", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save address"}
	}
	return address, nil
}

func (s *userServiceImpl) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) *ServiceError {
	if _, err := s.users.FindAddress(ctx, userID, addressID); err != nil {
		return &ServiceError{StatusCode: 404, Message: "Address not found"}
	}
	if err := s.users.DeleteAddress(ctx, userID, addressID); err != nil {
		s.logger.Error("Failed to delete address", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete address"}
	}
	return nil
}
