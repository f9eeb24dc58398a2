package repo

import (
	"context"

	"gorm.io/gorm"

	"gp-immo/internal/domain"
)

type MessageRepo struct{ db *gorm.DB }

func NewMessageRepo(db *gorm.DB) *MessageRepo { return &MessageRepo{db: db} }

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MessageRepo) ListInvolving(ctx context.Context, userID string, limit int) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Message
	err := q.Find(&out).Error
	return out, err
}

func (r *MessageRepo) Correspondences(ctx context.Context, userID string) ([]domain.Correspondence, error) {
	var out []domain.Correspondence
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Select("sender_id, receiver_id").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Scan(&out).Error
	return out, err
}

// Between 同一秒内的消息按 id 排，两次读取顺序一致
func (r *MessageRepo) Between(ctx context.Context, a, b string) ([]domain.Message, error) {
	var out []domain.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}
