package repository

import (
	"context"
	"fmt"

	"ysws-qualifier/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresRepo 实现了 port.Repository 接口，保存评审历史
type PostgresRepo struct {
	db *gorm.DB
}

// NewPostgresRepo 初始化数据库连接并自动迁移表结构
func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// AutoMigrate 会自动创建 analyses 表，字段变更也会跟着更新
	if err := db.AutoMigrate(&domain.Analysis{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return &PostgresRepo{db: db}, nil
}

// Save 保存一次评审结果（每次请求一条新记录，不做 Upsert）
func (r *PostgresRepo) Save(ctx context.Context, analysis *domain.Analysis) error {
	result := r.db.WithContext(ctx).Create(analysis)
	return result.Error
}

// Exists 检查该仓库是否评审过，用于发现重复提交
func (r *PostgresRepo) Exists(ctx context.Context, repoURL string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Analysis{}).Where("repo_url = ?", repoURL).Count(&count).Error
	return count > 0, err
}
