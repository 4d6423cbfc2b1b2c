package repository

import (
	"context"
	"errors"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pawhome/adoption-api/internal/domain"
)

const uniqueViolationCode = "23505"

type postgresUserRepository struct {
	conn Connection
}

func NewPostgresUser(conn Connection) domain.UserRepository {
	return &postgresUserRepository{conn: conn}
}

// Create implements domain.UserRepository.
func (p *postgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (first_name, last_name, phone_number, email, password, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING *`
	rows, err := p.conn.Query(ctx, query,
		user.FirstName, user.LastName, user.PhoneNumber, user.Email, user.Password)
	if err != nil {
		return err
	}
	err = pgxscan.ScanOne(user, rows)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return domain.ErrConflict
	}
	return err
}

// GetByID implements domain.UserRepository.
func (p *postgresUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var user domain.User
	rows, err := p.conn.Query(ctx, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		return user, err
	}
	err = pgxscan.ScanOne(&user, rows)
	if err != nil {
		if pgxscan.NotFound(err) {
			return user, domain.ErrNotFound
		}
		return user, err
	}
	return user, nil
}

// GetByEmail implements domain.UserRepository.
func (p *postgresUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	rows, err := p.conn.Query(ctx, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		return user, err
	}
	err = pgxscan.ScanOne(&user, rows)
	if err != nil {
		if pgxscan.NotFound(err) {
			return user, domain.ErrNotFound
		}
		return user, err
	}
	return user, nil
}
