package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dishaapp/disha/pkg/db"
	"github.com/dishaapp/disha/pkg/event"
	"github.com/dishaapp/disha/pkg/models"
	"github.com/dishaapp/disha/pkg/utils"
)

var (
	ErrGoalNotFound   = errors.New("goal not found")
	ErrNotGoalOwner   = errors.New("goal not owned by user")
	ErrEmptyGoalTitle = errors.New("goal title is required")
	ErrBadLogDate     = errors.New("log date must be YYYY-MM-DD")
)

const logDateLayout = "2006-01-02"

// GoalService manages goals and their daily completion logs.
type GoalService struct {
	db      *gorm.DB
	emitter *event.Emitter
	logger  *slog.Logger
}

func NewGoalService(gdb *gorm.DB, emitter *event.Emitter) *GoalService {
	return &GoalService{db: gdb, emitter: emitter, logger: utils.GetLogger()}
}

func (s *GoalService) CreateGoal(userID string, req *models.CreateGoalRequest) (*db.Goal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyGoalTitle
	}

	goal := &db.Goal{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           title,
		Category:        strings.TrimSpace(req.Category),
		TargetFrequency: strings.TrimSpace(req.TargetFrequency),
		Status:          db.GoalStatusActive,
	}
	if err := s.db.Create(goal).Error; err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	if s.emitter != nil {
		s.emitter.Emit(event.GoalCreatedEvent{UserID: userID, GoalID: goal.ID})
	}
	return goal, nil
}

func (s *GoalService) GetGoal(userID, id string) (*db.Goal, error) {
	var goal db.Goal
	if err := s.db.First(&goal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	if goal.UserID != userID {
		return nil, ErrNotGoalOwner
	}
	return &goal, nil
}

// ListGoals returns the user's goals, optionally filtered by status.
func (s *GoalService) ListGoals(userID, status string) ([]db.Goal, error) {
	var goals []db.Goal
	query := s.db.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at ASC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (s *GoalService) UpdateGoal(userID, id string, req *models.UpdateGoalRequest) (*db.Goal, error) {
	goal, err := s.GetGoal(userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrEmptyGoalTitle
		}
		updates["title"] = title
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.TargetFrequency != nil {
		updates["target_frequency"] = strings.TrimSpace(*req.TargetFrequency)
	}
	if req.Status != nil {
		switch *req.Status {
		case db.GoalStatusActive, db.GoalStatusArchived:
			updates["status"] = *req.Status
		default:
			return nil, fmt.Errorf("invalid goal status %q", *req.Status)
		}
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetGoal(userID, id)
}

// DeleteGoal removes a goal and its logs.
func (s *GoalService) DeleteGoal(userID, id string) error {
	if _, err := s.GetGoal(userID, id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", id).Delete(&db.GoalLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Goal{}, "id = ?", id).Error
	})
}

// LogGoal records one day's completion. Logging the same day twice
// overwrites the earlier record rather than duplicating it.
func (s *GoalService) LogGoal(userID, goalID string, req *models.LogGoalRequest) (*db.GoalLog, error) {
	if _, err := s.GetGoal(userID, goalID); err != nil {
		return nil, err
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = time.Now().Format(logDateLayout)
	} else if _, err := time.Parse(logDateLayout, date); err != nil {
		return nil, ErrBadLogDate
	}

	log := &db.GoalLog{
		ID:        uuid.New().String(),
		GoalID:    goalID,
		UserID:    userID,
		Completed: req.Completed,
		LogDate:   date,
		CreatedAt: time.Now(),
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "goal_id"}, {Name: "log_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed"}),
	}).Create(log).Error; err != nil {
		return nil, fmt.Errorf("failed to log goal: %w", err)
	}

	if s.emitter != nil {
		s.emitter.Emit(event.GoalLoggedEvent{
			UserID:    userID,
			GoalID:    goalID,
			LogDate:   date,
			Completed: req.Completed,
		})
	}
	return log, nil
}

// ListLogs returns the user's logs from the trailing windowDays days,
// newest first, optionally limited to one goal.
func (s *GoalService) ListLogs(userID, goalID string, windowDays int) ([]db.GoalLog, error) {
	since := time.Now().AddDate(0, 0, -windowDays).Format(logDateLayout)
	query := s.db.Where("user_id = ? AND log_date >= ?", userID, since)
	if goalID != "" {
		if _, err := s.GetGoal(userID, goalID); err != nil {
			return nil, err
		}
		query = query.Where("goal_id = ?", goalID)
	}
	var logs []db.GoalLog
	if err := query.Order("log_date DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
