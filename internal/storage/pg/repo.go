package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taoyao-code/msp-server/internal/eeprom"
	"github.com/taoyao-code/msp-server/internal/storage/models"
)

// Repository EEPROM 快照与命令审计
type Repository struct {
	Pool *pgxpool.Pool
}

// LatestSnapshot 返回板卡最新的快照，没有时返回 eeprom.ErrEmpty
func (r *Repository) LatestSnapshot(ctx context.Context, boardUID string) (*models.EEPROMSnapshot, error) {
	const q = `SELECT id, board_uid, version, data, created_at
               FROM eeprom_snapshots WHERE board_uid=$1 ORDER BY id DESC LIMIT 1`
	var s models.EEPROMSnapshot
	err := r.Pool.QueryRow(ctx, q, boardUID).Scan(&s.ID, &s.BoardUID, &s.Version, &s.Data, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eeprom.ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// InsertSnapshot 追加快照，并只保留最近 keep 条（keep<=0 不清理）
func (r *Repository) InsertSnapshot(ctx context.Context, boardUID string, version int, data []byte, keep int) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO eeprom_snapshots (board_uid, version, data, created_at) VALUES ($1,$2,$3,NOW())`,
		boardUID, version, data); err != nil {
		return err
	}
	if keep > 0 {
		const prune = `DELETE FROM eeprom_snapshots WHERE board_uid=$1 AND id NOT IN (
                       SELECT id FROM eeprom_snapshots WHERE board_uid=$1 ORDER BY id DESC LIMIT $2)`
		if _, err := tx.Exec(ctx, prune, boardUID, keep); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// SnapshotBackend 以 eeprom.Backend 形式暴露某块板卡的快照
func (r *Repository) SnapshotBackend(boardUID string, keep int) eeprom.Backend {
	return snapshotBackend{repo: r, uid: boardUID, keep: keep}
}

type snapshotBackend struct {
	repo *Repository
	uid  string
	keep int
}

func (b snapshotBackend) ReadSnapshot(ctx context.Context) ([]byte, error) {
	s, err := b.repo.LatestSnapshot(ctx, b.uid)
	if err != nil {
		return nil, err
	}
	return s.Data, nil
}

func (b snapshotBackend) WriteSnapshot(ctx context.Context, data []byte) error {
	return b.repo.InsertSnapshot(ctx, b.uid, eeprom.FormatVersion, data, b.keep)
}

// InsertCommandLog 插入命令审计
func (r *Repository) InsertCommandLog(ctx context.Context, l *models.CommandLog) error {
	const q = `INSERT INTO msp_command_log
               (session_id, transport, cmd, cmd_name, result, request, reply_len, duration_us, created_at)
               VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())`
	_, err := r.Pool.Exec(ctx, q, l.SessionID, l.Transport, l.Cmd, l.CmdName, l.Result, l.Request, l.ReplyLen, l.DurationUs)
	return err
}

// ListCommandLog 最近的命令审计，sessionID 为空时不过滤
func (r *Repository) ListCommandLog(ctx context.Context, sessionID string, limit int) ([]models.CommandLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `SELECT id, session_id, transport, cmd, cmd_name, result, request, reply_len, duration_us, created_at
               FROM msp_command_log WHERE ($1 = '' OR session_id = $1) ORDER BY id DESC LIMIT $2`
	rows, err := r.Pool.Query(ctx, q, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.CommandLog
	for rows.Next() {
		var l models.CommandLog
		if err := rows.Scan(&l.ID, &l.SessionID, &l.Transport, &l.Cmd, &l.CmdName, &l.Result,
			&l.Request, &l.ReplyLen, &l.DurationUs, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
