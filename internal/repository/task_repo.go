package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lpatrack/backend/internal/model"
)

// TaskRepository 检查项目录数据访问接口
type TaskRepository interface {
	GetByID(ctx context.Context, taskID string) (*model.TaskDefinition, error)
	// List 按 (category, sequence) 升序列出检查项
	List(ctx context.Context, category string) ([]model.TaskDefinition, error)
	// ListByIDs 按 ID 集合查询检查项
	ListByIDs(ctx context.Context, taskIDs []string) ([]model.TaskDefinition, error)
	// UpsertByCategorySequence 按 (category, sequence) 写入或更新（Excel 导入用）
	UpsertByCategorySequence(ctx context.Context, task *model.TaskDefinition) error
}

type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo 创建 TaskRepository 实例
func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) GetByID(ctx context.Context, taskID string) (*model.TaskDefinition, error) {
	var task model.TaskDefinition
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) List(ctx context.Context, category string) ([]model.TaskDefinition, error) {
	var tasks []model.TaskDefinition
	db := r.db.WithContext(ctx)

	if category != "" {
		db = db.Where("category = ?", category)
	}

	err := db.Order("category ASC, sequence ASC").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) ListByIDs(ctx context.Context, taskIDs []string) ([]model.TaskDefinition, error) {
	var tasks []model.TaskDefinition
	err := r.db.WithContext(ctx).
		Where("task_id IN ?", taskIDs).
		Order("category ASC, sequence ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) UpsertByCategorySequence(ctx context.Context, task *model.TaskDefinition) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "category"}, {Name: "sequence"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"task":       task.Task,
				"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(task).Error
}
