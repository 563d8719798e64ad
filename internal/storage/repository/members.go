package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

const memberColumns = `id, username, email, password_hash, role, tickets, join_date,
			      expiry_date, status, last_daily_check`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	m := &models.Member{}
	var expiry, lastCheck sql.NullTime
	if err := row.Scan(&m.ID, &m.Username, &m.Email, &m.PasswordHash, &m.Role, &m.Tickets,
		&m.JoinDate, &expiry, &m.Status, &lastCheck); err != nil {
		return nil, err
	}
	if expiry.Valid {
		t := expiry.Time.UTC()
		m.ExpiryDate = &t
	}
	if lastCheck.Valid {
		t := lastCheck.Time.UTC()
		m.LastDailyCheck = &t
	}
	m.JoinDate = m.JoinDate.UTC()
	return m, nil
}

func nullDay(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// CreateMember сохраняет нового участника и возвращает его ID.
func (s *Storage) CreateMember(ctx context.Context, m models.Member) (int64, error) {
	const op = "storage.CreateMember"

	query := `INSERT INTO members (username, email, password_hash, role, tickets, join_date,
			      expiry_date, status, last_daily_check)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		m.Username, m.Email, m.PasswordHash, m.Role, m.Tickets, m.JoinDate,
		nullDay(m.ExpiryDate), m.Status, nullDay(m.LastDailyCheck)).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateMember обновляет участника по ID. При смене имени журнал разблокировок
// переносится на новый ключ в той же транзакции.
func (s *Storage) UpdateMember(ctx context.Context, m models.Member) error {
	const op = "storage.UpdateMember"

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var oldUsername string
		err := tx.QueryRowContext(ctx,
			`SELECT username FROM members WHERE id = $1 FOR UPDATE`, m.ID).Scan(&oldUsername)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		query := `UPDATE members
				  SET username = $1, email = $2, password_hash = $3, role = $4, tickets = $5,
				      expiry_date = $6, status = $7, last_daily_check = $8
				  WHERE id = $9`
		if _, err = tx.ExecContext(ctx, query,
			m.Username, m.Email, m.PasswordHash, m.Role, m.Tickets,
			nullDay(m.ExpiryDate), m.Status, nullDay(m.LastDailyCheck), m.ID); err != nil {
			if isUniqueViolation(err) {
				return storage.ErrUsernameTaken
			}
			return err
		}

		if oldUsername == m.Username {
			return nil
		}
		oldKey := models.MemberIdentity(m.ID, oldUsername).LedgerKey()
		newKey := models.MemberIdentity(m.ID, m.Username).LedgerKey()
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO unlocked_episodes (ledger_key, episode_id, unlocked_at)
			 SELECT $2, episode_id, unlocked_at FROM unlocked_episodes WHERE ledger_key = $1
			 ON CONFLICT DO NOTHING`, oldKey, newKey); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM unlocked_episodes WHERE ledger_key = $1`, oldKey)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetMember возвращает участника по ID.
func (s *Storage) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	const op = "storage.GetMember"

	row := s.DB.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// GetMemberByUsername возвращает участника по имени без учёта регистра.
func (s *Storage) GetMemberByUsername(ctx context.Context, username string) (*models.Member, error) {
	const op = "storage.GetMemberByUsername"

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE LOWER(username) = LOWER($1)`, username)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// ListMembers возвращает участников, отфильтрованных по подстроке и роли, по возрастанию ID.
func (s *Storage) ListMembers(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error) {
	const op = "storage.ListMembers"

	var (
		conds []string
		args  []any
	)
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conds = append(conds, fmt.Sprintf("(LOWER(username) LIKE $%d OR LOWER(email) LIKE $%d)", len(args), len(args)))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	query := `SELECT ` + memberColumns + ` FROM members`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var res []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// DeleteMember удаляет участника вместе с его журналом разблокировок и избранным.
func (s *Storage) DeleteMember(ctx context.Context, id int64) error {
	const op = "storage.DeleteMember"

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var username string
		err := tx.QueryRowContext(ctx,
			`DELETE FROM members WHERE id = $1 RETURNING username`, id).Scan(&username)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM unlocked_episodes WHERE ledger_key = $1`,
			models.MemberIdentity(id, username).LedgerKey()); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM favorites WHERE owner_key = $1`,
			models.MemberIdentity(id, username).FavoritesKey())
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindVipExpiringOn возвращает активных VIP-участников, у которых срок истекает в день day.
func (s *Storage) FindVipExpiringOn(ctx context.Context, day time.Time) ([]*models.Member, error) {
	const op = "storage.FindVipExpiringOn"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members
		 WHERE role = 'vip' AND status = 'active' AND expiry_date = $1
		 ORDER BY id`, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var res []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}
