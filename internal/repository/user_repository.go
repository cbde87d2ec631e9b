package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/event-discovery/internal/model"
	"github.com/iliyamo/event-discovery/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// NewUserParams carries everything needed to register an account.
// District, city, language and interests are optional profile fields.
type NewUserParams struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
	District    string
	City        string
	Language    string
	Interests   string
}

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, p NewUserParams, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	hash, err := utils.HashPassword(p.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, display_name, role, district, city, language, interests)
		 VALUES (?,?,?,?,?,?,?,?)`,
		email, hash, p.DisplayName, p.Role, p.District, p.City, p.Language, p.Interests)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const userColumns = `id, email, password_hash, display_name, avatar_url, role,
	district, city, language, interests, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u      model.User
		avatar sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &avatar, &u.Role,
		&u.District, &u.City, &u.Language, &u.Interests, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.AvatarURL = avatar.String
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, email))
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id))
}
