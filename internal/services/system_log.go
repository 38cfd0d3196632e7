package services

import (
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const cleanupLockName = "system_log_cleanup"

type SystemLogService struct {
	db            *gorm.DB
	retentionDays int
	cronScheduler *cron.Cron
	now           func() time.Time
}

func NewSystemLogService(db *gorm.DB, retentionDays int) *SystemLogService {
	return &SystemLogService{db: db, retentionDays: retentionDays, now: time.Now}
}

type SystemLogListRequest struct {
	ListQuery
	Level     string `form:"level"`
	Module    string `form:"module"`
	Action    string `form:"action"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// Record writes one audit entry. Failures are logged, never returned.
func (s *SystemLogService) Record(level, module, action, message string, adminID *uint, ip, userAgent string, extra interface{}) {
	var extraStr string
	if extra != nil {
		if b, err := json.Marshal(extra); err == nil {
			extraStr = string(b)
		}
	}

	entry := &models.SystemLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   message,
		AdminID:   adminID,
		IP:        ip,
		UserAgent: truncate(userAgent, 500),
		Extra:     extraStr,
		CreatedAt: s.now(),
	}
	if err := s.db.Create(entry).Error; err != nil {
		logger.Warn().Err(err).Str("module", module).Str("action", action).Msg("[SystemLog] failed to write log entry")
	}
}

func (s *SystemLogService) List(req *SystemLogListRequest) (*ListResult[models.SystemLog], error) {
	req.normalize()

	query := s.db.Model(&models.SystemLog{})
	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}
	if req.Action != "" {
		query = query.Where("action LIKE ? ESCAPE '!'", "%"+escapeLike(req.Action)+"%")
	}
	if t, err := time.ParseInLocation(dateLayout, req.StartDate, time.Local); err == nil {
		query = query.Where("created_at >= ?", t)
	}
	if t, err := time.ParseInLocation(dateLayout, req.EndDate, time.Local); err == nil {
		query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
	}
	if req.Search != "" {
		query = query.Where("message LIKE ? ESCAPE '!'", "%"+escapeLike(req.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, translateError(err, "system log")
	}

	logs := make([]models.SystemLog, 0, req.Limit)
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(req.Limit).Find(&logs).Error; err != nil {
		return nil, translateError(err, "system log")
	}

	return &ListResult[models.SystemLog]{
		Items:      logs,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(req.Limit))),
	}, nil
}

func (s *SystemLogService) GetModules() ([]string, error) {
	var modules []string
	if err := s.db.Model(&models.SystemLog{}).Distinct("module").Pluck("module", &modules).Error; err != nil {
		return nil, translateError(err, "system log")
	}
	return modules, nil
}

// CleanupOldLogs hard-deletes entries older than the retention window and
// returns how many were removed.
func (s *SystemLogService) CleanupOldLogs() (int64, error) {
	if s.retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// claimRun records that this process runs the named job for key. Only the
// first claimant of a name/key pair gets true.
func (s *SystemLogService) claimRun(name, key string) bool {
	host, _ := os.Hostname()
	now := s.now()
	lock := models.SchedulerLock{
		LockName:  name,
		LockKey:   key,
		LockedBy:  host,
		LockedAt:  now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	if err := s.db.Create(&lock).Error; err != nil {
		if !isUniqueViolation(err) {
			logger.Warn().Err(err).Str("lock", name).Msg("[SystemLog] failed to claim scheduled run")
		}
		return false
	}
	// expired claims of earlier runs are no longer useful
	s.db.Where("lock_name = ? AND expires_at < ?", name, now.AddDate(0, 0, -7)).Delete(&models.SchedulerLock{})
	return true
}

func (s *SystemLogService) runCleanup() {
	if s.retentionDays <= 0 {
		logger.Info().Msg("[SystemLog] log cleanup disabled (retention_days <= 0)")
		return
	}
	if !s.claimRun(cleanupLockName, s.now().Format(dateLayout)) {
		return
	}

	deleted, err := s.CleanupOldLogs()
	if err != nil {
		logger.Error().Err(err).Msg("[SystemLog] failed to clean up old logs")
		return
	}
	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Int("retention_days", s.retentionDays).Msg("[SystemLog] cleaned up old logs")
	}
}

// StartScheduler runs the retention cleanup once a day.
func (s *SystemLogService) StartScheduler() error {
	s.cronScheduler = cron.New()
	if _, err := s.cronScheduler.AddFunc("@daily", s.runCleanup); err != nil {
		return err
	}
	s.cronScheduler.Start()
	logger.Info().Int("retention_days", s.retentionDays).Msg("[SystemLog] cleanup scheduler started")
	return nil
}

func (s *SystemLogService) StopScheduler() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
	}
}
