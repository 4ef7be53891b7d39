package service

import (
	"errors"

	"ratehub/internal/api/authz"
	"ratehub/internal/api/dto"
	"ratehub/internal/api/models"
	"ratehub/internal/api/repository"

	"gorm.io/gorm"
)

type UserService interface {
	List(actor authz.Actor, page, pageSize int, search string) (*dto.PaginatedUserResponse, error)
	Create(actor authz.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(actor authz.Actor, username string) (*dto.UserResponse, error)
	Update(actor authz.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(actor authz.Actor, username string) error
	GetMe(actor authz.Actor) (*dto.UserResponse, error)
	UpdateMe(actor authz.Actor, req dto.UpdateMeRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(actor authz.Actor, page, pageSize int, search string) (*dto.PaginatedUserResponse, error) {
	if err := authorize(actor, authz.ActionRead, authz.ResourceUser, ""); err != nil {
		return nil, err
	}

	users, total, err := s.userRepo.List(page, pageSize, search)
	if err != nil {
		return nil, err
	}

	userResponses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		userResponses = append(userResponses, *dto.FromModelToUserResponse(&users[i]))
	}

	return dto.NewPaginatedUserResponse(userResponses, int(total), page, pageSize), nil
}

func (s *userService) Create(actor authz.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := authorize(actor, authz.ActionCreate, authz.ResourceUser, ""); err != nil {
		return nil, err
	}
	if req.Username == reservedUsername {
		return nil, ErrReservedUsername
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, ErrNameInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Get(actor authz.Actor, username string) (*dto.UserResponse, error) {
	user, err := s.findByUsername(username)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionRead, authz.ResourceUser, ""); err != nil {
		return nil, err
	}

	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Update(actor authz.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.findByUsername(username)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionUpdate, authz.ResourceUser, ""); err != nil {
		return nil, err
	}

	if err := s.applyProfileChanges(user, req.Username, req.Email, req.FirstName, req.LastName, req.Bio); err != nil {
		return nil, err
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Delete(actor authz.Actor, username string) error {
	if _, err := s.findByUsername(username); err != nil {
		return err
	}
	if err := authorize(actor, authz.ActionDelete, authz.ResourceUser, ""); err != nil {
		return err
	}

	if err := s.userRepo.Delete(username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) GetMe(actor authz.Actor) (*dto.UserResponse, error) {
	if err := authorize(actor, authz.ActionRead, authz.ResourceSelf, actor.ID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// UpdateMe applies a partial self-profile update. The role field of the
// payload is never applied here: the stored role always survives unchanged,
// whatever the caller sent.
func (s *userService) UpdateMe(actor authz.Actor, req dto.UpdateMeRequest) (*dto.UserResponse, error) {
	if err := authorize(actor, authz.ActionUpdate, authz.ResourceSelf, actor.ID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	keepRole := user.Role
	if err := s.applyProfileChanges(user, req.Username, req.Email, req.FirstName, req.LastName, req.Bio); err != nil {
		return nil, err
	}
	user.Role = keepRole

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) findByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// applyProfileChanges mutates the user in place from optional fields,
// guarding username/email uniqueness.
func (s *userService) applyProfileChanges(user *models.User, username, email, firstName, lastName, bio *string) error {
	if username != nil && *username != user.Username {
		if *username == reservedUsername {
			return ErrReservedUsername
		}
		if _, err := s.userRepo.FindByUsername(*username); err == nil {
			return ErrNameInUse
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user.Username = *username
	}
	if email != nil && *email != user.Email {
		if _, err := s.userRepo.FindByEmail(*email); err == nil {
			return ErrEmailInUse
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user.Email = *email
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if bio != nil {
		user.Bio = *bio
	}
	return nil
}
