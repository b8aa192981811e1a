package services

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"ninjapark-backend/models"
	"ninjapark-backend/utils"
)

// ContentService is the CRUD shared by every CMS collection. Rows carry
// sort_order and is_active columns; public reads only see active rows.
type ContentService[T any] struct {
	DB   *gorm.DB
	Kind string
	// Filters lists the columns public and admin lists may filter by.
	Filters []string
	// Prepare normalises and validates a row before it is written.
	Prepare func(*T) error
}

const contentDefaults = `{"isActive":true}`

func (s *ContentService[T]) query(filters map[string]string) *gorm.DB {
	q := s.DB.Model(new(T))
	for _, col := range s.Filters {
		if v := strings.TrimSpace(filters[col]); v != "" {
			q = q.Where(col+" = ?", v)
		}
	}
	return q
}

// ListActive returns active rows ordered for display.
func (s *ContentService[T]) ListActive(filters map[string]string) ([]T, error) {
	var rows []T
	err := s.query(filters).Where("is_active = ?", true).Order("sort_order ASC, id ASC").Find(&rows).Error
	return rows, errors.Wrapf(err, "list %s", s.Kind)
}

// List is the admin view and includes inactive rows.
func (s *ContentService[T]) List(filters map[string]string, p utils.PageParams) ([]T, int64, error) {
	var total int64
	if err := s.query(filters).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrapf(err, "count %s", s.Kind)
	}
	var rows []T
	err := s.query(filters).Order("sort_order ASC, id ASC").Offset(p.Offset()).Limit(p.Limit).Find(&rows).Error
	return rows, total, errors.Wrapf(err, "list %s", s.Kind)
}

func (s *ContentService[T]) Get(id uint) (*T, error) {
	row := new(T)
	if err := s.DB.First(row, id).Error; err != nil {
		return nil, dbErr(err, "find "+s.Kind)
	}
	return row, nil
}

// GetBySlug finds an active row by slug.
func (s *ContentService[T]) GetBySlug(slug string) (*T, error) {
	row := new(T)
	err := s.DB.Where("slug = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(slug)), true).First(row).Error
	if err != nil {
		return nil, dbErr(err, "find "+s.Kind)
	}
	return row, nil
}

func (s *ContentService[T]) prepare(row *T) error {
	if s.Prepare == nil {
		return nil
	}
	return s.Prepare(row)
}

// Create decodes body over the defaults (active) and inserts it.
func (s *ContentService[T]) Create(body []byte) (*T, error) {
	row := new(T)
	if err := json.Unmarshal([]byte(contentDefaults), row); err != nil {
		return nil, errors.Wrap(err, "content defaults")
	}
	if err := json.Unmarshal(body, row); err != nil {
		return nil, rule(ErrValidation, "Invalid request body")
	}
	if err := s.prepare(row); err != nil {
		return nil, err
	}
	if err := s.DB.Omit("id", "created_at").Create(row).Error; err != nil {
		return nil, dbErr(err, "create "+s.Kind)
	}
	return row, nil
}

// Update merges body into the stored row so omitted fields keep their values.
func (s *ContentService[T]) Update(id uint, body []byte) (before, after *T, err error) {
	before, err = s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	merged, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if err := json.Unmarshal(body, merged); err != nil {
		return nil, nil, rule(ErrValidation, "Invalid request body")
	}
	if err := s.prepare(merged); err != nil {
		return nil, nil, err
	}
	err = s.DB.Model(new(T)).Where("id = ?", id).
		Select("*").Omit("id", "created_at").
		Updates(merged).Error
	if err != nil {
		return nil, nil, dbErr(err, "update "+s.Kind)
	}
	after, err = s.Get(id)
	return before, after, err
}

func (s *ContentService[T]) Delete(id uint) (*T, error) {
	row, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Delete(new(T), id).Error; err != nil {
		return nil, errors.Wrapf(err, "delete %s", s.Kind)
	}
	return row, nil
}

// Reorder sets sort_order to each id's position in ids.
func (s *ContentService[T]) Reorder(ids []uint) error {
	if len(ids) == 0 {
		return rule(ErrValidation, "ids are required")
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			res := tx.Model(new(T)).Where("id = ?", id).UpdateColumn("sort_order", i)
			if res.Error != nil {
				return errors.Wrapf(res.Error, "reorder %s", s.Kind)
			}
			if res.RowsAffected == 0 {
				return rule(ErrNotFound, "%s %d not found", s.Kind, id)
			}
		}
		return nil
	})
}

// Slugify lower-cases s and joins its words with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func required(verr *ValidationError, field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		verr.Add(field, msg)
	}
}

// CMS groups the content collections.
type CMS struct {
	Activities   *ContentService[models.Activity]
	Banners      *ContentService[models.Banner]
	Faqs         *ContentService[models.Faq]
	Testimonials *ContentService[models.Testimonial]
	Pages        *ContentService[models.StaticPage]
	SocialLinks  *ContentService[models.SocialLink]
	Invitations  *ContentService[models.InvitationTemplate]
	Gallery      *ContentService[models.GalleryItem]
	Pricing      *ContentService[models.PricingPlan]
}

func NewCMS(db *gorm.DB) *CMS {
	return &CMS{
		Activities: &ContentService[models.Activity]{DB: db, Kind: "activity", Prepare: func(a *models.Activity) error {
			a.Name = strings.TrimSpace(a.Name)
			if a.Slug == "" {
				a.Slug = a.Name
			}
			a.Slug = Slugify(a.Slug)
			verr := NewValidationError()
			required(verr, "name", a.Name, "Name is required")
			required(verr, "slug", a.Slug, "Slug is required")
			return verr.OrNil()
		}},
		Banners: &ContentService[models.Banner]{DB: db, Kind: "banner", Prepare: func(b *models.Banner) error {
			verr := NewValidationError()
			required(verr, "title", b.Title, "Title is required")
			return verr.OrNil()
		}},
		Faqs: &ContentService[models.Faq]{DB: db, Kind: "faq", Filters: []string{"category"}, Prepare: func(f *models.Faq) error {
			verr := NewValidationError()
			required(verr, "question", f.Question, "Question is required")
			required(verr, "answer", f.Answer, "Answer is required")
			return verr.OrNil()
		}},
		Testimonials: &ContentService[models.Testimonial]{DB: db, Kind: "testimonial", Filters: []string{"type"}, Prepare: prepareTestimonial},
		Pages: &ContentService[models.StaticPage]{DB: db, Kind: "page", Prepare: func(p *models.StaticPage) error {
			if p.Slug == "" {
				p.Slug = p.Title
			}
			p.Slug = Slugify(p.Slug)
			verr := NewValidationError()
			required(verr, "title", p.Title, "Title is required")
			required(verr, "slug", p.Slug, "Slug is required")
			return verr.OrNil()
		}},
		SocialLinks: &ContentService[models.SocialLink]{DB: db, Kind: "social link", Prepare: func(l *models.SocialLink) error {
			verr := NewValidationError()
			required(verr, "platform", l.Platform, "Platform is required")
			if validate.Var(l.URL, "required,url") != nil {
				verr.Add("url", "A valid URL is required")
			}
			return verr.OrNil()
		}},
		Invitations: &ContentService[models.InvitationTemplate]{DB: db, Kind: "invitation template", Prepare: func(t *models.InvitationTemplate) error {
			verr := NewValidationError()
			required(verr, "name", t.Name, "Name is required")
			return verr.OrNil()
		}},
		Gallery: &ContentService[models.GalleryItem]{DB: db, Kind: "gallery item", Filters: []string{"category"}, Prepare: func(g *models.GalleryItem) error {
			verr := NewValidationError()
			required(verr, "imageUrl", g.ImageURL, "Image is required")
			return verr.OrNil()
		}},
		Pricing: &ContentService[models.PricingPlan]{DB: db, Kind: "pricing plan", Filters: []string{"type"}, Prepare: preparePricingPlan},
	}
}

func prepareTestimonial(t *models.Testimonial) error {
	if t.Type == "" {
		t.Type = models.TestimonialText
	}
	t.Type = strings.ToUpper(t.Type)
	verr := NewValidationError()
	required(verr, "name", t.Name, "Name is required")
	if t.Rating < 1 || t.Rating > 5 {
		verr.Add("rating", "Rating must be between 1 and 5")
	}
	switch t.Type {
	case models.TestimonialText:
		required(verr, "content", t.Content, "Content is required for text testimonials")
	case models.TestimonialVideo:
		required(verr, "videoUrl", t.VideoURL, "Video URL is required for video testimonials")
	default:
		verr.Add("type", "Type must be TEXT or VIDEO")
	}
	return verr.OrNil()
}

func preparePricingPlan(p *models.PricingPlan) error {
	if p.Type == "" {
		p.Type = models.BookingTypeSession
	}
	verr := NewValidationError()
	required(verr, "name", p.Name, "Name is required")
	if p.Price < 0 {
		verr.Add("price", "Price cannot be negative")
	}
	if len(p.Features) > 0 {
		var features []string
		if json.Unmarshal(p.Features, &features) != nil {
			verr.Add("features", "Features must be a list of strings")
		}
	} else {
		p.Features = []byte("[]")
	}
	return verr.OrNil()
}
