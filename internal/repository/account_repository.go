package repository

import (
	"context"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, display_name, email, password_hash, year, department, preorientation, telegram_chat_id, created_at`

type AccountRepository struct {
	*base.Repository
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{Repository: base.NewRepository(pool)}
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var account model.Account
	err := row.Scan(
		&account.ID,
		&account.DisplayName,
		&account.Email,
		&account.PasswordHash,
		&account.Year,
		&account.Department,
		&account.Preorientation,
		&account.TelegramChatID,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Create создаёт новый аккаунт
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (display_name, email, password_hash, year, department, preorientation)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		account.DisplayName,
		account.Email,
		account.PasswordHash,
		account.Year,
		account.Department,
		account.Preorientation,
	).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return base.Wrap("create account", model.ErrConflict)
		}
		return base.Wrap("create account", err)
	}

	return nil
}

// GetByID получает аккаунт по ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Wrap("get account by id", err)
	}

	return account, nil
}

// GetByEmail получает аккаунт по email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1)`

	account, err := scanAccount(r.QueryRow(ctx, query, email))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Wrap("get account by email", err)
	}

	return account, nil
}

// GetByTelegramChatID получает аккаунт, привязанный к Telegram-чату
func (r *AccountRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE telegram_chat_id = $1`

	account, err := scanAccount(r.QueryRow(ctx, query, chatID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Wrap("get account by telegram chat id", err)
	}

	return account, nil
}

// GetByIDs получает аккаунты по списку ID
func (r *AccountRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Account, error) {
	if len(ids) == 0 {
		return []*model.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1) ORDER BY display_name`

	rows, err := r.Query(ctx, query, ids)
	if err != nil {
		return nil, base.Wrap("get accounts by ids", err)
	}
	defer rows.Close()

	accounts := []*model.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, base.Wrap("scan account", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, base.Wrap("iterate accounts", err)
	}

	return accounts, nil
}

// UpdateProfile обновляет имя и учебные данные
func (r *AccountRepository) UpdateProfile(ctx context.Context, account *model.Account) error {
	query := `
		UPDATE accounts
		SET display_name = $1, year = $2, department = $3, preorientation = $4
		WHERE id = $5
	`

	affected, err := r.ExecAffected(
		ctx, query,
		account.DisplayName,
		account.Year,
		account.Department,
		account.Preorientation,
		account.ID,
	)
	if err != nil {
		return base.Wrap("update account profile", err)
	}

	if affected == 0 {
		return base.Wrap("update account profile", model.ErrNotFound)
	}

	return nil
}

// UpdateTelegramChatID привязывает чат Telegram для уведомлений.
// Чат, уже привязанный к другому аккаунту, даёт ErrConflict.
func (r *AccountRepository) UpdateTelegramChatID(ctx context.Context, id uuid.UUID, chatID *int64) error {
	query := `UPDATE accounts SET telegram_chat_id = $1 WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, chatID, id)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return base.Wrap("update telegram chat id", model.ErrConflict)
		}
		return base.Wrap("update telegram chat id", err)
	}

	if affected == 0 {
		return base.Wrap("update telegram chat id", model.ErrNotFound)
	}

	return nil
}
