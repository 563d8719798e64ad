package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

// Subscription возвращает состояние подписки личности. Гость без записи получает
// нулевое состояние, отсутствующий участник: storage.ErrNotFound.
func (s *Storage) Subscription(ctx context.Context, id models.Identity) (*models.Subscription, error) {
	const op = "storage.Subscription"

	var (
		sub       models.Subscription
		expiry    sql.NullTime
		lastCheck sql.NullTime
	)
	switch id.Kind {
	case models.IdentityMember:
		err := s.DB.QueryRowContext(ctx,
			`SELECT role, expiry_date, tickets, last_daily_check FROM members WHERE id = $1`,
			id.MemberID).Scan(&sub.Role, &expiry, &sub.Tickets, &lastCheck)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case models.IdentityGuest:
		sub.Role = models.RoleGuest
		err := s.DB.QueryRowContext(ctx,
			`SELECT tickets, last_daily_check FROM guest_subscriptions WHERE guest_id = $1`,
			id.GuestID).Scan(&sub.Tickets, &lastCheck)
		if errors.Is(err, sql.ErrNoRows) {
			return &sub, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	default:
		return &models.Subscription{Role: models.RoleOwner}, nil
	}

	if expiry.Valid {
		t := expiry.Time.UTC()
		sub.ExpiryDate = &t
	}
	if lastCheck.Valid {
		t := lastCheck.Time.UTC()
		sub.LastDailyCheck = &t
	}
	return &sub, nil
}

// GrantBonus начисляет amount билетов и отмечает день day, если бонус за этот день
// ещё не выдавался. Условие проверяется в самом UPDATE, поэтому из двух конкурирующих
// запросов начисление получит только один. Возвращает баланс и признак начисления.
func (s *Storage) GrantBonus(ctx context.Context, id models.Identity, day time.Time, amount int) (int, bool, error) {
	const op = "storage.GrantBonus"

	var (
		grantQuery string
		readQuery  string
		key        any
	)
	switch id.Kind {
	case models.IdentityMember:
		key = id.MemberID
		grantQuery = `UPDATE members
					  SET tickets = tickets + $2, last_daily_check = $3
					  WHERE id = $1 AND last_daily_check IS DISTINCT FROM $3
					  RETURNING tickets`
		readQuery = `SELECT tickets FROM members WHERE id = $1`
	case models.IdentityGuest:
		key = id.GuestID
		grantQuery = `INSERT INTO guest_subscriptions (guest_id, tickets, last_daily_check)
					  VALUES ($1, $2, $3)
					  ON CONFLICT (guest_id) DO UPDATE
					  SET tickets = guest_subscriptions.tickets + EXCLUDED.tickets,
					      last_daily_check = EXCLUDED.last_daily_check
					  WHERE guest_subscriptions.last_daily_check IS DISTINCT FROM EXCLUDED.last_daily_check
					  RETURNING tickets`
		readQuery = `SELECT tickets FROM guest_subscriptions WHERE guest_id = $1`
	default:
		return 0, false, fmt.Errorf("%s: %w", op, storage.ErrNoSubscription)
	}

	var tickets int
	err := s.DB.QueryRowContext(ctx, grantQuery, key, amount, day).Scan(&tickets)
	if err == nil {
		return tickets, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}

	err = s.DB.QueryRowContext(ctx, readQuery, key).Scan(&tickets)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return tickets, false, nil
}

// HasUnlocked сообщает, есть ли эпизод в журнале ledgerKey.
func (s *Storage) HasUnlocked(ctx context.Context, ledgerKey, episodeID string) (bool, error) {
	const op = "storage.HasUnlocked"

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM unlocked_episodes WHERE ledger_key = $1 AND episode_id = $2)`,
		ledgerKey, episodeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListUnlocked возвращает эпизоды журнала в порядке разблокировки.
func (s *Storage) ListUnlocked(ctx context.Context, ledgerKey string) ([]string, error) {
	const op = "storage.ListUnlocked"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT episode_id FROM unlocked_episodes WHERE ledger_key = $1 ORDER BY unlocked_at, episode_id`,
		ledgerKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	res := []string{}
	for rows.Next() {
		var episodeID string
		if err := rows.Scan(&episodeID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, episodeID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// SpendTicket в одной транзакции списывает билет и добавляет эпизод в журнал.
// Строка подписки блокируется, поэтому параллельные списания одной личности
// выполняются по очереди и баланс не уходит в минус. Если эпизод уже в журнале
// или билетов нет, ничего не меняется.
func (s *Storage) SpendTicket(ctx context.Context, id models.Identity, episodeID string) (models.SpendResult, error) {
	const op = "storage.SpendTicket"

	var (
		lockQuery  string
		spendQuery string
		key        any
	)
	switch id.Kind {
	case models.IdentityMember:
		key = id.MemberID
		lockQuery = `SELECT tickets FROM members WHERE id = $1 FOR UPDATE`
		spendQuery = `UPDATE members SET tickets = tickets - 1
					  WHERE id = $1 AND tickets > 0 RETURNING tickets`
	case models.IdentityGuest:
		key = id.GuestID
		lockQuery = `SELECT tickets FROM guest_subscriptions WHERE guest_id = $1 FOR UPDATE`
		spendQuery = `UPDATE guest_subscriptions SET tickets = tickets - 1
					  WHERE guest_id = $1 AND tickets > 0 RETURNING tickets`
	default:
		return models.SpendResult{}, fmt.Errorf("%s: %w", op, storage.ErrNoSubscription)
	}

	var res models.SpendResult
	errRollback := errors.New("rollback")
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, lockQuery, key).Scan(&res.Tickets)
		switch {
		case errors.Is(err, sql.ErrNoRows) && id.Kind == models.IdentityMember:
			return storage.ErrNotFound
		case errors.Is(err, sql.ErrNoRows):
			res.Tickets = 0
		case err != nil:
			return err
		}

		inserted, err := tx.ExecContext(ctx,
			`INSERT INTO unlocked_episodes (ledger_key, episode_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, id.LedgerKey(), episodeID)
		if err != nil {
			return err
		}
		n, err := inserted.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			res.AlreadyUnlocked = true
			return errRollback
		}
		if res.Tickets <= 0 {
			return errRollback
		}

		err = tx.QueryRowContext(ctx, spendQuery, key).Scan(&res.Tickets)
		if errors.Is(err, sql.ErrNoRows) {
			res.Tickets = 0
			return errRollback
		}
		if err != nil {
			return err
		}
		res.Spent = true
		return nil
	})
	if errors.Is(err, errRollback) {
		return res, nil
	}
	if err != nil {
		return models.SpendResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}
