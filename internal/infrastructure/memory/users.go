package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria. El email se compara sin distinguir mayúsculas.
type UserRepo struct{ acc accessor }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo {
	return &UserRepo{acc: s.locked}
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.acc(func(s *state) error {
		for _, other := range s.users {
			if strings.EqualFold(other.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.acc(func(s *state) error {
		if u, ok := s.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.acc(func(s *state) error {
		for _, u := range s.users {
			if strings.EqualFold(u.Email, email) {
				cp := u
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}
