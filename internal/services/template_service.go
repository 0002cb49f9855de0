package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mfontan/ironlog/internal/domain"
	"github.com/mfontan/ironlog/internal/ports"
)

// TemplateService handles workout template use cases, including the
// YAML import and export flow templates are authored through.
type TemplateService struct {
	storage ports.Storage
	owner   string
}

// NewTemplateService creates a new template service.
func NewTemplateService(storage ports.Storage, owner string) *TemplateService {
	return &TemplateService{storage: storage, owner: owner}
}

// ListTemplates returns the owner's templates in name order.
func (s *TemplateService) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	return s.storage.Templates().FindAll(ctx, s.owner)
}

// GetTemplate returns one template by id.
func (s *TemplateService) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	return s.storage.Templates().FindByID(ctx, id)
}

// SearchTemplates fuzzy-matches the owner's templates against a query.
func (s *TemplateService) SearchTemplates(ctx context.Context, query string) ([]*domain.Template, error) {
	if query == "" {
		return s.ListTemplates(ctx)
	}
	return s.storage.Templates().Search(ctx, s.owner, query)
}

// ResolveTemplate finds a template by exact id first, then by the best
// fuzzy name match.
func (s *TemplateService) ResolveTemplate(ctx context.Context, ref string) (*domain.Template, error) {
	t, err := s.storage.Templates().FindByID(ctx, ref)
	if err == nil {
		return t, nil
	}

	matches, err := s.storage.Templates().Search(ctx, s.owner, ref)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.ErrTemplateNotFound
	}
	return matches[0], nil
}

// templateFile is the YAML authoring format. Ids and timestamps stay
// out of it; they belong to the store.
type templateFile struct {
	Name       string            `yaml:"name"`
	RestPeriod int               `yaml:"rest_period"`
	Exercises  []domain.Exercise `yaml:"exercises"`
}

// ImportTemplate reads a YAML file and saves it as a new template. An
// existing template with the same name is updated in place so a file
// can be re-imported after edits.
func (s *TemplateService) ImportTemplate(ctx context.Context, path string) (*domain.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}

	template := domain.NewTemplate(s.owner, file.Name)
	template.RestPeriod = file.RestPeriod
	template.Exercises = file.Exercises
	if err := template.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.findByName(ctx, file.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.RestPeriod = file.RestPeriod
		existing.Exercises = file.Exercises
		existing.UpdatedAt = time.Now()
		if err := s.storage.Templates().Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update template: %w", err)
		}
		return existing, nil
	}

	if err := s.storage.Templates().Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}
	return template, nil
}

// ExportTemplate writes a template to a YAML file in the authoring
// format.
func (s *TemplateService) ExportTemplate(ctx context.Context, id, path string) error {
	template, err := s.storage.Templates().FindByID(ctx, id)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(templateFile{
		Name:       template.Name,
		RestPeriod: template.RestPeriod,
		Exercises:  template.Exercises,
	})
	if err != nil {
		return fmt.Errorf("failed to encode template: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write template file: %w", err)
	}
	return nil
}

// DeleteTemplate removes a template. Its completion logs stay.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	if _, err := s.storage.Templates().FindByID(ctx, id); err != nil {
		return err
	}
	return s.storage.Templates().Delete(ctx, id)
}

func (s *TemplateService) findByName(ctx context.Context, name string) (*domain.Template, error) {
	all, err := s.storage.Templates().FindAll(ctx, s.owner)
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, nil
}
