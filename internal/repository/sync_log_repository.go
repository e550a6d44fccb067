package repository

import (
	"context"
	"scorm_rte/internal/model"

	"gorm.io/gorm"
)

const defaultSyncLogLimit = 50

type SyncLogRepository struct {
	DB *gorm.DB
}

// NewSyncLogRepository 创建同步日志仓库实例
func NewSyncLogRepository(db *gorm.DB) *SyncLogRepository {
	return &SyncLogRepository{DB: db}
}

// Record 写入一条同步日志，实现 rte.Journal
func (r *SyncLogRepository) Record(ctx context.Context, entry *model.SyncLog) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

// ListBySession 按时间倒序获取会话的同步日志
func (r *SyncLogRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.SyncLog, error) {
	if limit <= 0 {
		limit = defaultSyncLogLimit
	}
	var logs []model.SyncLog
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// CountFailures 统计某次学习尝试失败的同步次数
func (r *SyncLogRepository) CountFailures(ctx context.Context, attemptID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.SyncLog{}).
		Where("attempt_id = ? AND success = ?", attemptID, false).
		Count(&count).Error
	return count, err
}
