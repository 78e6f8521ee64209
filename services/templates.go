package services

import (
	"errors"
	"regexp"

	"github.com/ogcash/bankapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultEmailTemplates = []models.EmailTemplate{
	{
		Key:     "login_attempt",
		Subject: "[OG] 로그인 시도 알림",
		Body:    "<p>{{name}}님, 로그인 시도가 감지되었습니다.</p><p>디스코드 ID: {{discordId}}</p><p>시간: {{date}}</p>",
	},
	{
		Key:     "charge_completed",
		Subject: "[OG] 충전 완료 안내",
		Body:    "<p>{{name}}님, 충전이 완료되었습니다.</p><p>요청 ID: {{requestId}}</p><p>금액: {{amount}}</p><p>상태: {{status}}</p><p>계좌: {{account}}</p><p>시간: {{date}}</p>",
	},
	{
		Key:     "admin_generic",
		Subject: "[OG] 알림",
		Body:    "<p>{{content}}</p>",
	},
}

// TemplateService stores the mail templates read by the mail collaborator.
type TemplateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

// EnsureDefaults seeds the built-in templates without overwriting edits.
func (t *TemplateService) EnsureDefaults() error {
	for _, tpl := range defaultEmailTemplates {
		if err := t.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tpl).Error; err != nil {
			return err
		}
	}
	return nil
}

// Get returns the template stored under key.
func (t *TemplateService) Get(key string) (*models.EmailTemplate, error) {
	var tpl models.EmailTemplate
	if err := t.db.Where("key = ?", key).First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// List returns all templates ordered by key.
func (t *TemplateService) List() ([]models.EmailTemplate, error) {
	var templates []models.EmailTemplate
	err := t.db.Order("key ASC").Find(&templates).Error
	return templates, err
}

// Upsert creates or replaces the template under key.
func (t *TemplateService) Upsert(key, subject, body string) error {
	if key == "" || subject == "" || body == "" {
		return validationErrorf("key, subject, body가 필요합니다.")
	}
	tpl := models.EmailTemplate{Key: key, Subject: subject, Body: body}
	return t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"subject", "body"}),
	}).Create(&tpl).Error
}

var templateVarPattern = regexp.MustCompile(`\{\{\s*([\w.]+)\s*\}\}`)

// RenderTemplate substitutes {{variable}} placeholders; unknown variables
// render as empty strings.
func RenderTemplate(template string, variables map[string]string) string {
	return templateVarPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := templateVarPattern.FindStringSubmatch(match)[1]
		return variables[key]
	})
}
