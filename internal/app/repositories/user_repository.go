package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skosana/student-portal/internal/app/models"
	"github.com/skosana/student-portal/internal/pkg/apperrors"
	"github.com/skosana/student-portal/internal/pkg/dberrors"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create inserts a new user row and sets its generated ID. A unique
	// constraint violation is returned as apperrors.ErrAccountExists,
	// making the insert itself the authoritative uniqueness check.
	Create(ctx context.Context, user *models.User) error

	// GetByEmail retrieves the credential columns for a login attempt.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID retrieves the profile columns for display.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// ExistsByEmailOrStudentNum runs the combined registration
	// uniqueness query.
	ExistsByEmailOrStudentNum(ctx context.Context, email, studentNum string) (bool, error)

	// UpdateProfile updates the editable profile fields.
	UpdateProfile(ctx context.Context, id int64, name, surname, contactNum, moduleCode string) error

	// UpdateProfilePicture records the stored picture path.
	UpdateProfilePicture(ctx context.Context, id int64, path string) error
}

// PostgresUserRepository implements UserRepository over a pgx pool.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new PostgresUserRepository
func NewUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Create inserts a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, surname, student_num, contact_num, module_code, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		user.Name, user.Surname, user.StudentNum, user.ContactNum,
		user.ModuleCode, user.Email, user.PasswordHash).Scan(&user.ID)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAccountExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user's credentials by email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash
		FROM users
		WHERE email = $1`,
		email).Scan(&user.ID, &user.Email, &user.PasswordHash)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user's profile fields by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{ID: id}
	err := r.db.QueryRow(ctx, `
		SELECT name, surname, email, contact_num, module_code, profile_picture
		FROM users
		WHERE id = $1`,
		id).Scan(&user.Name, &user.Surname, &user.Email,
		&user.ContactNum, &user.ModuleCode, &user.ProfilePicture)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching user by id: %w", err)
	}

	return user, nil
}

// ExistsByEmailOrStudentNum checks whether either identifier is already taken
func (r *PostgresUserRepository) ExistsByEmailOrStudentNum(ctx context.Context, email, studentNum string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR student_num = $2)`,
		email, studentNum).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking account existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile updates the editable profile fields
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id int64, name, surname, contactNum, moduleCode string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET name = $1, surname = $2, contact_num = $3, module_code = $4, updated_at = NOW()
		WHERE id = $5`,
		name, surname, contactNum, moduleCode, id)

	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateProfilePicture records the stored picture path
func (r *PostgresUserRepository) UpdateProfilePicture(ctx context.Context, id int64, path string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET profile_picture = $1, updated_at = NOW()
		WHERE id = $2`,
		path, id)

	if err != nil {
		return fmt.Errorf("error updating profile picture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
