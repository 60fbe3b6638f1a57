package usecase

import (
	"context"

	"github.com/Bankydog/auth-service/internal/model"
	"github.com/Bankydog/auth-service/internal/repository"
)

// UserUsecase exposes account queries outside the credential lifecycle:
// the principal lookup behind protected requests and the administrative
// listing.
type UserUsecase interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
}

type userUsecase struct {
	userRepo repository.UserRepository
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.userRepo.GetUserByEmail(ctx, email)
}

func (u *userUsecase) ListUsers(ctx context.Context) ([]*model.User, error) {
	return u.userRepo.ListUsers(ctx)
}
