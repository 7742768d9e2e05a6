package service

import (
	"fmt"
	"log/slog"

	"github.com/templui/imagerepo/internal/model"
	"github.com/templui/imagerepo/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
	imageService   *ImageService
}

// UserSummary is a user with the number of images they own
type UserSummary struct {
	User   *model.User
	Images int
}

func NewUserService(userRepository repository.UserRepository, imageService *ImageService) *UserService {
	return &UserService{
		userRepository: userRepository,
		imageService:   imageService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Summaries() ([]UserSummary, error) {
	users, err := s.userRepository.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		count, err := s.imageService.Count(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count images for %s: %w", user.Username, err)
		}
		summaries = append(summaries, UserSummary{User: user, Images: count})
	}

	return summaries, nil
}

// DeleteAccount removes the user together with every image they own
func (s *UserService) DeleteAccount(username string) error {
	user, err := s.userRepository.ByUsername(username)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.imageService.DeleteAllUserImagesFromStorage(user.ID)
	if err != nil {
		// Log warning but don't fail - orphaned files are better than failed deletion
		slog.Warn("failed to delete user images from storage", "user_id", user.ID, "error", err)
	}

	// Foreign key CASCADE removes the image rows
	err = s.userRepository.Delete(user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user account deleted", "user_id", user.ID, "username", user.Username)
	return nil
}
