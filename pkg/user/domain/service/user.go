package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yutosuda/EC-sub001/pkg/event"
	"github.com/yutosuda/EC-sub001/pkg/user/domain/model"
)

var (
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrUserCannotBeChanged = errors.New("user cannot be changed in its current state")
)

const minPasswordLength = 8

type UserService interface {
	RegisterUser(firstName, lastName, email, plainTextPassword string) (*model.User, error)
	UpdateProfile(userID uuid.UUID, firstName, lastName string) error
	GetUser(userID uuid.UUID) (*model.User, error)
	SuspendUser(userID uuid.UUID) error
	ActivateUser(userID uuid.UUID) error
	DeactivateUser(userID uuid.UUID) error
}

func NewUserService(repo model.UserRepository, passwords model.PasswordManager, dispatcher event.Dispatcher) UserService {
	return &userService{repo: repo, passwords: passwords, dispatcher: dispatcher}
}

type userService struct {
	repo       model.UserRepository
	passwords  model.PasswordManager
	dispatcher event.Dispatcher
}

func (s *userService) RegisterUser(firstName, lastName, email, plainTextPassword string) (*model.User, error) {
	if len(plainTextPassword) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.repo.FindByEmail(email); err == nil {
		return nil, model.ErrEmailTaken
	}

	hashedPassword, err := s.passwords.Hash(plainTextPassword)
	if err != nil {
		return nil, err
	}

	userID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:             userID,
		Email:          email,
		HashedPassword: hashedPassword,
		FirstName:      firstName,
		LastName:       lastName,
		Status:         model.Active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.UserRegistered{UserID: userID, Email: email})
	return user, nil
}

func (s *userService) UpdateProfile(userID uuid.UUID, firstName, lastName string) error {
	user, err := s.repo.Find(userID)
	if err != nil {
		return err
	}
	if user.Status == model.Deactivated {
		return ErrUserCannotBeChanged
	}

	user.FirstName = firstName
	user.LastName = lastName

	if err := s.updateUser(user); err != nil {
		return err
	}

	_ = s.dispatcher.Dispatch(model.UserProfileUpdated{UserID: userID})
	return nil
}

func (s *userService) GetUser(userID uuid.UUID) (*model.User, error) {
	return s.repo.Find(userID)
}

func (s *userService) SuspendUser(userID uuid.UUID) error {
	return s.changeStatus(userID, model.Suspended)
}

func (s *userService) ActivateUser(userID uuid.UUID) error {
	return s.changeStatus(userID, model.Active)
}

func (s *userService) DeactivateUser(userID uuid.UUID) error {
	return s.changeStatus(userID, model.Deactivated)
}

func (s *userService) changeStatus(userID uuid.UUID, status model.UserStatus) error {
	user, err := s.repo.Find(userID)
	if err != nil {
		return err
	}
	if user.Status == status {
		return nil
	}

	user.Status = status

	if err := s.updateUser(user); err != nil {
		return err
	}

	_ = s.dispatcher.Dispatch(model.UserStatusChanged{UserID: userID, NewStatus: status})
	return nil
}

func (s *userService) updateUser(user *model.User) error {
	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(user)
}
