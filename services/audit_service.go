package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"reflect"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ninjapark-backend/models"
	"ninjapark-backend/utils"
)

// Actor identifies who performed an audited action.
type Actor struct {
	AdminID   uint
	Role      string
	IPAddress string
	UserAgent string
}

type AuditService struct {
	DB  *gorm.DB
	Log *slog.Logger
}

func NewAuditService(db *gorm.DB, log *slog.Logger) *AuditService {
	return &AuditService{DB: db, Log: log}
}

// AuditDetails is stored as JSON on the log row.
type AuditDetails struct {
	Before  interface{}            `json:"before,omitempty"`
	After   interface{}            `json:"after,omitempty"`
	Changes []string               `json:"changes,omitempty"`
	Extra   map[string]interface{} `json:"extra,omitempty"`
}

// Record writes an audit row. Failures are logged and never reach the caller.
func (s *AuditService) Record(ctx context.Context, actor Actor, action, entity string, entityID uint, details *AuditDetails) {
	if s == nil || s.DB == nil {
		return
	}
	entry := models.AuditLog{
		Action:    action,
		Entity:    entity,
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	}
	if actor.AdminID != 0 {
		id := actor.AdminID
		entry.AdminID = &id
	}
	if entityID != 0 {
		entry.EntityID = strconv.FormatUint(uint64(entityID), 10)
	}
	if details != nil {
		if details.Changes == nil && details.Before != nil && details.After != nil {
			details.Changes = Changes(details.Before, details.After)
		}
		raw, err := json.Marshal(details)
		if err != nil {
			s.Log.Error("encode audit details", "entity", entity, "error", err)
		} else {
			entry.Details = datatypes.JSON(raw)
		}
	}
	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		s.Log.Error("failed to log activity", "action", action, "entity", entity, "error", err)
	}
}

// Changes lists the JSON keys whose values differ between before and after,
// ignoring createdAt and updatedAt.
func Changes(before, after interface{}) []string {
	b, errB := toMap(before)
	a, errA := toMap(after)
	if errB != nil || errA != nil || b == nil || a == nil {
		return nil
	}
	keys := map[string]struct{}{}
	for k := range b {
		keys[k] = struct{}{}
	}
	for k := range a {
		keys[k] = struct{}{}
	}

	var changed []string
	for k := range keys {
		if k == "createdAt" || k == "updatedAt" {
			continue
		}
		if !reflect.DeepEqual(b[k], a[k]) {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}

func toMap(v interface{}) (map[string]interface{}, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

type AuditFilter struct {
	Action  string
	Entity  string
	AdminID *uint
}

func (s *AuditService) List(f AuditFilter, p utils.PageParams) ([]models.AuditLog, int64, error) {
	q := s.DB.Model(&models.AuditLog{})
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.AdminID != nil {
		q = q.Where("admin_id = ?", *f.AdminID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count audit logs")
	}
	var logs []models.AuditLog
	err := q.Preload("Admin").Order("created_at DESC, id DESC").Offset(p.Offset()).Limit(p.Limit).Find(&logs).Error
	return logs, total, errors.Wrap(err, "list audit logs")
}
