package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"ninjapark-backend/models"
)

// ContentSeed is the YAML document read by seed-content. Each list holds
// rows in their JSON shape, e.g. {name: Trampoline Arena, imageUrl: ...}.
type ContentSeed struct {
	Settings     map[string]interface{}   `yaml:"settings"`
	Activities   []map[string]interface{} `yaml:"activities"`
	Banners      []map[string]interface{} `yaml:"banners"`
	Faqs         []map[string]interface{} `yaml:"faqs"`
	Testimonials []map[string]interface{} `yaml:"testimonials"`
	Pages        []map[string]interface{} `yaml:"pages"`
	SocialLinks  []map[string]interface{} `yaml:"socialLinks"`
	Invitations  []map[string]interface{} `yaml:"invitations"`
	Gallery      []map[string]interface{} `yaml:"gallery"`
	Pricing      []map[string]interface{} `yaml:"pricing"`
}

func ParseContentSeed(r io.Reader) (*ContentSeed, error) {
	var seed ContentSeed
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse content seed")
	}
	return &seed, nil
}

// SeedReport counts rows created per collection.
type SeedReport map[string]int

// SeedContent inserts rows whose natural key is not present yet, so it can be
// rerun safely. Validation is the same as the admin API.
func SeedContent(ctx context.Context, cms *CMS, settings *SettingsService, seed *ContentSeed) (SeedReport, error) {
	report := SeedReport{}
	if len(seed.Settings) > 0 {
		var in SettingsInput
		if err := remarshal(seed.Settings, &in); err != nil {
			return nil, errors.Wrap(err, "settings")
		}
		if _, _, err := settings.Update(in, models.RoleSuperAdmin); err != nil {
			return nil, errors.Wrap(err, "settings")
		}
		report["settings"] = 1
	}

	steps := []func() error{
		func() error { return seedKind(ctx, cms.Activities, "name", "name", seed.Activities, report) },
		func() error { return seedKind(ctx, cms.Banners, "title", "title", seed.Banners, report) },
		func() error { return seedKind(ctx, cms.Faqs, "question", "question", seed.Faqs, report) },
		func() error { return seedKind(ctx, cms.Testimonials, "name", "name", seed.Testimonials, report) },
		func() error { return seedKind(ctx, cms.Pages, "title", "title", seed.Pages, report) },
		func() error { return seedKind(ctx, cms.SocialLinks, "platform", "platform", seed.SocialLinks, report) },
		func() error { return seedKind(ctx, cms.Invitations, "name", "name", seed.Invitations, report) },
		func() error { return seedKind(ctx, cms.Gallery, "imageUrl", "image_url", seed.Gallery, report) },
		func() error { return seedKind(ctx, cms.Pricing, "name", "name", seed.Pricing, report) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return report, err
		}
	}
	return report, nil
}

func seedKind[T any](ctx context.Context, svc *ContentService[T], field, column string, items []map[string]interface{}, report SeedReport) error {
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		key, _ := item[field].(string)
		if key == "" {
			return fmt.Errorf("%s #%d: %s is required", svc.Kind, i+1, field)
		}
		var n int64
		if err := svc.DB.WithContext(ctx).Model(new(T)).Where(column+" = ?", key).Count(&n).Error; err != nil {
			return errors.Wrapf(err, "lookup %s %q", svc.Kind, key)
		}
		if n > 0 {
			continue
		}
		if _, ok := item["order"]; !ok {
			item["order"] = i
		}
		body, err := json.Marshal(item)
		if err != nil {
			return errors.Wrapf(err, "%s %q", svc.Kind, key)
		}
		if _, err := svc.Create(body); err != nil {
			return errors.Wrapf(err, "%s %q", svc.Kind, key)
		}
		report[svc.Kind]++
	}
	return nil
}

func remarshal(in interface{}, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
