package postgres

import (
	"context"
	"fmt"

	"github.com/chamasoft/notify-engine/internal/domain/member"
)

var _ member.Repo = (*MemberRepo)(nil)

type MemberRepo struct{ db *DB }

func NewMemberRepo(db *DB) *MemberRepo { return &MemberRepo{db: db} }

const qMembersByStatus = `
SELECT gm.user_id, gm.group_id, g.name
FROM group_members gm
JOIN chama_groups g ON g.id = gm.group_id
WHERE gm.status = $1;`

func (r *MemberRepo) ListActive(ctx context.Context) ([]*member.Member, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qMembersByStatus, string(member.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("query active members: %w", err)
	}
	defer rows.Close()

	var out []*member.Member
	for rows.Next() {
		var m member.Member
		if err := rows.Scan(&m.UserID, &m.GroupID, &m.GroupName); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
