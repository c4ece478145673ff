package queries

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goaltracker/goaltracker-backend/app/models"
	"github.com/google/uuid"
)

type UserQueries struct {
	DB *sql.DB
}

const userColumns = `id, email, username, password_hash, first_name, last_name, preferences, created, updated`

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var prefsBytes []byte
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&prefsBytes,
		&u.Created,
		&u.Updated,
	)
	if err != nil {
		return u, err
	}
	if len(prefsBytes) > 0 {
		if err := json.Unmarshal(prefsBytes, &u.Preferences); err != nil {
			return u, fmt.Errorf("unable to decode preferences: %w", err)
		}
	}
	return u, nil
}

func (q *UserQueries) GetUserByID(id uuid.UUID) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(q.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, models.ErrUserNotFound
		}
		return u, fmt.Errorf("unable to get user: %w", err)
	}
	return u, nil
}

func (q *UserQueries) GetUserByEmail(email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(q.DB.QueryRow(query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, models.ErrUserNotFound
		}
		return u, fmt.Errorf("unable to get user: %w", err)
	}
	return u, nil
}

func (q *UserQueries) GetUserByUsername(username string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(q.DB.QueryRow(query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, models.ErrUserNotFound
		}
		return u, fmt.Errorf("unable to get user: %w", err)
	}
	return u, nil
}

func (q *UserQueries) CreateUser(u *models.User) error {
	prefs, err := json.Marshal(u.Preferences)
	if err != nil {
		return fmt.Errorf("unable to encode preferences: %w", err)
	}
	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = q.DB.Exec(query,
		u.ID, u.Email, u.Username, u.PasswordHash,
		u.FirstName, u.LastName, prefs, u.Created, u.Updated,
	)
	if err != nil {
		return fmt.Errorf("unable to create user: %w", err)
	}
	return nil
}

func (q *UserQueries) UpdateUser(u *models.User) error {
	prefs, err := json.Marshal(u.Preferences)
	if err != nil {
		return fmt.Errorf("unable to encode preferences: %w", err)
	}
	u.Updated = time.Now()
	query := `UPDATE users SET username = $1, first_name = $2, last_name = $3, preferences = $4, updated = $5
			  WHERE id = $6`
	res, err := q.DB.Exec(query, u.Username, u.FirstName, u.LastName, prefs, u.Updated, u.ID)
	if err != nil {
		return fmt.Errorf("unable to update user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (q *UserQueries) DeleteUser(id uuid.UUID) error {
	res, err := q.DB.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("unable to delete user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrUserNotFound
	}
	return nil
}
