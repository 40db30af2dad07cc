package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/streamlineer/streamlineer/core/template"
)

type templateRepository struct {
	db *templateTable
}

var _ template.Repository = (*templateRepository)(nil) // interface compliance check

func NewTemplateRepository(db *DB) template.Repository {
	return &templateRepository{db: db.template}
}

func (repo *templateRepository) query() []template.Template {
	tmpls := make([]template.Template, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		tmpls = append(tmpls, *t)
	}
	sort.Slice(tmpls, func(i, j int) bool { return tmpls[i].CreatedAt.After(tmpls[j].CreatedAt) })
	return tmpls
}

func (repo *templateRepository) CreateTemplate(_ context.Context, tmpl template.Template) (template.Template, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}
	repo.db.table[tmpl.ID] = &tmpl
	return tmpl, nil
}

func (repo *templateRepository) GetTemplateByID(_ context.Context, id string) (template.Template, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tmpl, ok := repo.db.table[id]; ok {
		return *tmpl, nil
	}
	return template.Template{}, template.ErrNotFound
}

func (repo *templateRepository) FilterTemplates(_ context.Context, filter template.Filter) ([]template.Template, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]template.Template, 0)
	for _, tmpl := range repo.query() {
		if filter.Title != "" && tmpl.Title != filter.Title {
			continue
		}
		if filter.Organization != "" && tmpl.Organization != filter.Organization {
			continue
		}
		if filter.Status != "" && tmpl.Status != filter.Status {
			continue
		}
		if filter.CreatorID != "" && tmpl.CreatorID != filter.CreatorID {
			continue
		}
		if filter.ManagerID != "" && tmpl.ManagerID != filter.ManagerID {
			continue
		}
		matched = append(matched, tmpl)
	}
	return matched, nil
}

func (repo *templateRepository) UpdateTemplate(_ context.Context, tmpl template.Template) (template.Template, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[tmpl.ID]; !ok {
		return template.Template{}, template.ErrNotFound
	}
	repo.db.table[tmpl.ID] = &tmpl
	return tmpl, nil
}

func (repo *templateRepository) DeleteTemplatesByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
