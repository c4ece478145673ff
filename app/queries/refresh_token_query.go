package queries

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/goaltracker/goaltracker-backend/app/models"
	"github.com/google/uuid"
)

type RefreshTokenQueries struct {
	DB *sql.DB
}

func (q *RefreshTokenQueries) CreateRefreshToken(rt *models.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, token, expires_at, revoked, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := q.DB.Exec(query, rt.ID, rt.UserID, rt.Token, rt.ExpiresAt, rt.Revoked, rt.CreatedAt)
	if err != nil {
		return fmt.Errorf("unable to create refresh token: %w", err)
	}
	return nil
}

func (q *RefreshTokenQueries) GetRefreshTokenByToken(token string) (models.RefreshToken, error) {
	rt := models.RefreshToken{}
	query := `SELECT id, user_id, token, expires_at, revoked, created_at FROM refresh_tokens WHERE token = $1`
	err := q.DB.QueryRow(query, token).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.Revoked, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rt, errors.New("refresh token not found")
		}
		return rt, fmt.Errorf("unable to get refresh token: %w", err)
	}
	return rt, nil
}

func (q *RefreshTokenQueries) RevokeRefreshTokenByToken(token string) error {
	res, err := q.DB.Exec(`UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("unable to revoke refresh token: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.New("no refresh token revoked")
	}
	return nil
}

func (q *RefreshTokenQueries) RevokeRefreshTokensByUser(userID uuid.UUID) error {
	_, err := q.DB.Exec(`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("unable to revoke refresh tokens for user: %w", err)
	}
	return nil
}
