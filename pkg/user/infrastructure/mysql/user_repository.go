package mysql

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yutosuda/EC-sub001/pkg/user/domain/model"
)

func NewUserRepository(db *sqlx.DB) model.UserRepository {
	return &userRepository{db: db}
}

type userRepository struct {
	db *sqlx.DB
}

type userRow struct {
	ID             string    `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *userRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *userRepository) Create(user *model.User) error {
	const query = `
		INSERT INTO users
			(id, email, hashed_password, first_name, last_name, status, created_at, updated_at)
		VALUES
			(:id, :email, :hashed_password, :first_name, :last_name, :status, :created_at, :updated_at)`
	_, err := r.db.NamedExec(query, toRow(user))
	return errors.Wrap(err, "insert user")
}

func (r *userRepository) Update(user *model.User) error {
	const query = `
		UPDATE users SET
			email = :email,
			hashed_password = :hashed_password,
			first_name = :first_name,
			last_name = :last_name,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`
	result, err := r.db.NamedExec(query, toRow(user))
	if err != nil {
		return errors.Wrap(err, "update user")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update user")
	}
	if affected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Find(id uuid.UUID) (*model.User, error) {
	var row userRow
	err := r.db.Get(&row, `SELECT * FROM users WHERE id = ?`, id.String())
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return fromRow(row)
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var row userRow
	err := r.db.Get(&row, `SELECT * FROM users WHERE email = ?`, email)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user by email")
	}
	return fromRow(row)
}

func toRow(user *model.User) userRow {
	return userRow{
		ID:             user.ID.String(),
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Status:         string(user.Status),
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func fromRow(row userRow) (*model.User, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse user id")
	}

	return &model.User{
		ID:             id,
		Email:          row.Email,
		HashedPassword: row.HashedPassword,
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		Status:         model.UserStatus(row.Status),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}
