package password

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/yutosuda/EC-sub001/pkg/user/domain/model"
)

func NewBcryptManager(cost int) model.PasswordManager {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptManager{cost: cost}
}

type bcryptManager struct {
	cost int
}

func (m *bcryptManager) Hash(plainTextPassword string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), m.cost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hashed), nil
}

func (m *bcryptManager) Check(hashedPassword, plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainTextPassword))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "check password")
	}
	return true, nil
}
