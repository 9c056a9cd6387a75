package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lpatrack/backend/internal/model"
)

// ResultKey 结果记录的自然键
type ResultKey struct {
	Crew  string
	Shift string
	Date  time.Time
}

// LocationSnapshot 写入时从 Location 冗余的快照字段
type LocationSnapshot struct {
	Week    string
	Project string
	Family  string
	Line    string
}

// ResultFilter 结果查询条件
type ResultFilter struct {
	Week      string
	Shift     string
	Project   string
	Family    string
	Line      string
	Crew      string
	Username  string
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
}

// ResultRepository 审核结果数据访问接口
type ResultRepository interface {
	// FindResult 查询 (crew, shift, date) 对应的唯一结果记录及其明细
	FindResult(ctx context.Context, key ResultKey) (*model.ResultRecord, error)
	// ListResults 按条件列出结果记录
	ListResults(ctx context.Context, filter ResultFilter) ([]model.ResultRecord, error)
	// UpsertTaskResult 原子写入一条检查项结果并返回完整的更新后记录。
	// 记录行与明细行各为一条条件化写入（INSERT ... ON CONFLICT DO UPDATE），
	// 不在应用层做读-改-写，以免并发提交互相覆盖。
	UpsertTaskResult(ctx context.Context, key ResultKey, taskID, result, username string, snap LocationSnapshot) (*model.ResultRecord, error)
}

type resultRepo struct {
	db *gorm.DB
}

// NewResultRepo 创建 ResultRepository 实例
func NewResultRepo(db *gorm.DB) ResultRepository {
	return &resultRepo{db: db}
}

func (r *resultRepo) FindResult(ctx context.Context, key ResultKey) (*model.ResultRecord, error) {
	var rec model.ResultRecord
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("crew = ? AND shift = ? AND date = ?", key.Crew, key.Shift, key.Date).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *resultRepo) ListResults(ctx context.Context, filter ResultFilter) ([]model.ResultRecord, error) {
	var records []model.ResultRecord
	db := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})

	if filter.Week != "" {
		db = db.Where("week = ?", filter.Week)
	}
	if filter.Shift != "" {
		db = db.Where("shift = ?", filter.Shift)
	}
	if filter.Project != "" {
		db = db.Where("project = ?", filter.Project)
	}
	if filter.Family != "" {
		db = db.Where("family = ?", filter.Family)
	}
	if filter.Line != "" {
		db = db.Where("line = ?", filter.Line)
	}
	if filter.Crew != "" {
		db = db.Where("crew = ?", filter.Crew)
	}
	if filter.Date != nil {
		db = db.Where("date = ?", *filter.Date)
	}
	if filter.StartDate != nil {
		db = db.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("date <= ?", *filter.EndDate)
	}
	if filter.Username != "" {
		db = db.Where(
			"EXISTS (SELECT 1 FROM result_tasks rt WHERE rt.result_id = result_records.result_id AND rt.username = ?)",
			filter.Username,
		)
	}

	err := db.Order("week ASC, date ASC, project ASC, family ASC, line ASC, crew ASC").
		Find(&records).Error
	return records, err
}

func (r *resultRepo) UpsertTaskResult(ctx context.Context, key ResultKey, taskID, result, username string, snap LocationSnapshot) (*model.ResultRecord, error) {
	rec := &model.ResultRecord{
		Crew:    key.Crew,
		Shift:   key.Shift,
		Date:    key.Date,
		Week:    snap.Week,
		Project: snap.Project,
		Family:  snap.Family,
		Line:    snap.Line,
	}

	// 记录行与明细行在同一事务内写入：明细写入失败时记录行一并回滚，
	// 不会留下无明细的孤儿记录，快照刷新也不会脱离明细单独生效
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 记录行：首次创建时写入位置快照；已存在时按当前 Location 刷新快照，
		//    保持冗余字段与产线当前位置一致
		if err := tx.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "crew"}, {Name: "shift"}, {Name: "date"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"week":       snap.Week,
					"project":    snap.Project,
					"family":     snap.Family,
					"line":       snap.Line,
					"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
				}),
			}).
			Create(rec).Error; err != nil {
			return err
		}

		// 2. 明细行：同一 task_id 更新原条目（add-to-set 语义，杜绝重复条目）
		task := &model.ResultTask{
			ResultID: rec.ResultID,
			TaskID:   taskID,
			Result:   result,
			Username: username,
		}
		return tx.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "result_id"}, {Name: "task_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"result":     result,
					"username":   username,
					"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
				}),
			}).
			Create(task).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindResult(ctx, key)
}
