package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/site-platform/internal/models"
)

const userColumns = `uid, email, password_hash, role, site_slug, plan, billing_status,
			      billing_next, billing_amount, billing_currency, billing_provider, created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	var siteSlug sql.NullString
	var billingNext sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.Role, &siteSlug, &u.Plan,
		&u.BillingStatus, &billingNext, &u.BillingAmount, &u.BillingCurrency,
		&u.BillingProvider, &u.CreatedAt); err != nil {
		return nil, err
	}
	if siteSlug.Valid {
		u.SiteSlug = &siteSlug.String
	}
	if billingNext.Valid {
		u.BillingNext = &billingNext.Time
	}
	return u, nil
}

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Возвращает ErrAlreadyExists, если почта уже занята.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, password_hash, role, site_slug, plan, billing_status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Role, user.SiteSlug, user.Plan,
		user.BillingStatus).Scan(&newUID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		if isForeignKeyViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrMissingReference)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по почте, поиск регистронезависимый.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserBySiteSlug возвращает пользователя, владеющего сайтом с данным слагом.
func (s *Storage) GetUserBySiteSlug(ctx context.Context, slug string) (*models.User, error) {
	const op = "storage.GetUserBySiteSlug"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE site_slug = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUserBilling обновляет биллинговые поля пользователя
// и возвращает количество изменённых строк.
func (s *Storage) UpdateUserBilling(ctx context.Context, userUID, status string,
	next *time.Time, amount float64, currency, provider string) (int, error) {
	const op = "storage.UpdateUserBilling"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET billing_status = $1, billing_next = $2, billing_amount = $3,
			      billing_currency = $4, billing_provider = $5
			  WHERE uid = $6`
	result, err := s.DB.ExecContext(ctx, query, status, next, amount, currency, provider, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetUserBillingStatus обновляет только статус оплаты пользователя.
func (s *Storage) SetUserBillingStatus(ctx context.Context, userUID, status string) (int, error) {
	const op = "storage.SetUserBillingStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET billing_status = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, status, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateUserPlan обновляет тарифный план пользователя.
func (s *Storage) UpdateUserPlan(ctx context.Context, userUID, plan string) (int, error) {
	const op = "storage.UpdateUserPlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET plan = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, plan, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListOverdueUsers возвращает пользователей, у которых дата следующего списания
// раньше переданной границы, а статус оплаты ещё не cancelled или suspended.
func (s *Storage) ListOverdueUsers(ctx context.Context, cutoff time.Time) ([]*models.User, error) {
	const op = "storage.ListOverdueUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE billing_next IS NOT NULL
			    AND billing_next < $1
			    AND billing_status NOT IN ('cancelled', 'suspended')
			  ORDER BY billing_next`
	rows, err := s.DB.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	err = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
