package service

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dishaapp/disha/pkg/db"
	"github.com/dishaapp/disha/pkg/lang"
	"github.com/dishaapp/disha/pkg/models"
	"github.com/dishaapp/disha/pkg/utils"
)

var (
	ErrInvalidLanguage = errors.New("invalid default language")
	ErrInvalidTone     = errors.New("invalid tone")
)

// PreferenceService stores per-user assistant defaults. An absent row
// means tone empathetic and runtime language detection.
type PreferenceService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewPreferenceService(gdb *gorm.DB) *PreferenceService {
	return &PreferenceService{db: gdb, logger: utils.GetLogger()}
}

// Get returns the user's preference row, or defaults when none exists.
func (s *PreferenceService) Get(userID string) db.UserPreference {
	var pref db.UserPreference
	err := s.db.First(&pref, "user_id = ?", userID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("preference lookup failed, using defaults", "user_id", userID, "error", err)
		}
		return db.UserPreference{UserID: userID, Tone: db.ToneEmpathetic}
	}
	if pref.Tone == "" {
		pref.Tone = db.ToneEmpathetic
	}
	return pref
}

// Set upserts the preference row by user id.
func (s *PreferenceService) Set(userID string, req *models.PreferenceRequest) (*db.UserPreference, error) {
	if req.DefaultLanguage != "" && !lang.Valid(req.DefaultLanguage) {
		return nil, ErrInvalidLanguage
	}
	switch req.Tone {
	case "", db.ToneEmpathetic, db.ToneCoaching, db.ToneFormal, db.ToneCasual:
	default:
		return nil, ErrInvalidTone
	}

	pref := db.UserPreference{
		UserID:          userID,
		DefaultLanguage: req.DefaultLanguage,
		Tone:            req.Tone,
		UpdatedAt:       time.Now(),
	}
	if pref.Tone == "" {
		pref.Tone = db.ToneEmpathetic
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}
