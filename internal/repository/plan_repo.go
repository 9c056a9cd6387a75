package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lpatrack/backend/internal/model"
)

// PlanFilter 计划查询条件
type PlanFilter struct {
	Username string
	Week     string
	Shift    string
}

// PlanRepository 审核计划数据访问接口
type PlanRepository interface {
	// FindPlan 查询 (username, week, shift) 对应的唯一计划，产线条目按 position 升序
	FindPlan(ctx context.Context, username, week, shift string) (*model.PlanAssignment, error)
	// ListPlans 按条件列出计划
	ListPlans(ctx context.Context, filter PlanFilter) ([]model.PlanAssignment, error)
	// UpsertCrew 写入或更新计划内一条产线的任务清单
	UpsertCrew(ctx context.Context, username, week, shift, crew string, tasks []string, position int) error
	// DeleteCrew 删除计划内一条产线条目；计划因此为空时连同计划一并删除
	DeleteCrew(ctx context.Context, username, week, shift, crew string) error
}

type planRepo struct {
	db *gorm.DB
}

// NewPlanRepo 创建 PlanRepository 实例
func NewPlanRepo(db *gorm.DB) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) FindPlan(ctx context.Context, username, week, shift string) (*model.PlanAssignment, error) {
	var plan model.PlanAssignment
	err := r.db.WithContext(ctx).
		Preload("Crews", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("username = ? AND week = ? AND shift = ?", username, week, shift).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) ListPlans(ctx context.Context, filter PlanFilter) ([]model.PlanAssignment, error) {
	var plans []model.PlanAssignment
	db := r.db.WithContext(ctx).
		Preload("Crews", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	if filter.Username != "" {
		db = db.Where("username = ?", filter.Username)
	}
	if filter.Week != "" {
		db = db.Where("week = ?", filter.Week)
	}
	if filter.Shift != "" {
		db = db.Where("shift = ?", filter.Shift)
	}

	err := db.Order("username ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepo) UpsertCrew(ctx context.Context, username, week, shift, crew string, tasks []string, position int) error {
	// 计划行与产线条目同一事务写入，条目失败时不留下空计划行
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 计划行：冲突时仅刷新 updated_at，RETURNING 带回已存在的 plan_id
		plan := &model.PlanAssignment{Username: username, Week: week, Shift: shift}
		if err := tx.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "username"}, {Name: "week"}, {Name: "shift"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
				}),
			}).
			Create(plan).Error; err != nil {
			return err
		}

		entry := &model.PlanCrew{
			PlanID:   plan.PlanID,
			Crew:     crew,
			Tasks:    model.StringArray(tasks),
			Position: position,
		}
		return tx.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "plan_id"}, {Name: "crew"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"tasks":      model.StringArray(tasks),
					"position":   position,
					"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
				}),
			}).
			Create(entry).Error
	})
}

func (r *planRepo) DeleteCrew(ctx context.Context, username, week, shift, crew string) error {
	var plan model.PlanAssignment
	err := r.db.WithContext(ctx).
		Where("username = ? AND week = ? AND shift = ?", username, week, shift).
		First(&plan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil // 计划本就不存在，无需删除
		}
		return err
	}

	if err := r.db.WithContext(ctx).
		Where("plan_id = ? AND crew = ?", plan.PlanID, crew).
		Delete(&model.PlanCrew{}).Error; err != nil {
		return err
	}

	// 计划不再包含任何产线条目时整体删除，不保留空计划
	var remaining int64
	if err := r.db.WithContext(ctx).
		Model(&model.PlanCrew{}).
		Where("plan_id = ?", plan.PlanID).
		Count(&remaining).Error; err != nil {
		return err
	}
	if remaining == 0 {
		return r.db.WithContext(ctx).
			Where("plan_id = ?", plan.PlanID).
			Delete(&model.PlanAssignment{}).Error
	}
	return nil
}
