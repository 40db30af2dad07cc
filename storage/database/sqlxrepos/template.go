package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/streamlineer/streamlineer/core/template"
)

type templateRepository struct {
	db *sqlx.DB
}

var _ template.Repository = (*templateRepository)(nil) // interface compliance check

func NewTemplateRepository(db *sqlx.DB) template.Repository {
	return &templateRepository{db: db}
}

func (repo *templateRepository) CreateTemplate(ctx context.Context, tmpl template.Template) (template.Template, error) {
	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}
	query := `
		INSERT INTO template (id, title, description, image_data, title_fields, pages, creator_id, manager_id,
		                      manager_first_name, manager_last_name, organization, location, status, aql_config,
		                      created_at, updated_at)
		VALUES (:id, :title, :description, :image_data, :title_fields, :pages, :creator_id, NULLIF(:manager_id, '')::uuid,
		        :manager_first_name, :manager_last_name, :organization, :location, :status, :aql_config,
		        :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, tmpl); err != nil {
		return template.Template{}, errors.Wrap(err, "creating template")
	}
	return tmpl, nil
}

func (repo *templateRepository) GetTemplateByID(ctx context.Context, id string) (template.Template, error) {
	var tmpl template.Template
	query := `SELECT id, title, description, image_data, title_fields, pages, creator_id,
	                 COALESCE(manager_id::text, '') AS manager_id, manager_first_name, manager_last_name,
	                 organization, location, status, aql_config, created_at, updated_at
	          FROM template WHERE id = $1`
	if err := repo.db.GetContext(ctx, &tmpl, query, id); err != nil {
		if err == sql.ErrNoRows {
			return template.Template{}, template.ErrNotFound
		}
		return template.Template{}, errors.Wrap(err, "getting template by id")
	}
	return tmpl, nil
}

func (repo *templateRepository) FilterTemplates(ctx context.Context, filter template.Filter) ([]template.Template, error) {
	conds := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	if filter.Title != "" {
		conds = append(conds, `title = ?`)
		args = append(args, filter.Title)
	}
	if filter.Organization != "" {
		conds = append(conds, `organization = ?`)
		args = append(args, filter.Organization)
	}
	if filter.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, filter.Status)
	}
	if filter.CreatorID != "" {
		conds = append(conds, `creator_id = ?`)
		args = append(args, filter.CreatorID)
	}
	if filter.ManagerID != "" {
		conds = append(conds, `manager_id = ?`)
		args = append(args, filter.ManagerID)
	}

	query := `SELECT id, title, description, image_data, title_fields, pages, creator_id,
	                 COALESCE(manager_id::text, '') AS manager_id, manager_first_name, manager_last_name,
	                 organization, location, status, aql_config, created_at, updated_at
	          FROM template`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	tmpls := make([]template.Template, 0)
	if err := repo.db.SelectContext(ctx, &tmpls, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering templates")
	}
	return tmpls, nil
}

func (repo *templateRepository) UpdateTemplate(ctx context.Context, tmpl template.Template) (template.Template, error) {
	query := `
		UPDATE template
		SET title              = :title,
		    description        = :description,
		    image_data         = :image_data,
		    title_fields       = :title_fields,
		    pages              = :pages,
		    manager_id         = NULLIF(:manager_id, '')::uuid,
		    manager_first_name = :manager_first_name,
		    manager_last_name  = :manager_last_name,
		    status             = :status,
		    aql_config         = :aql_config,
		    updated_at         = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, tmpl)
	if err != nil {
		return template.Template{}, errors.Wrap(err, "updating template")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return template.Template{}, template.ErrNotFound
	}
	return tmpl, nil
}

func (repo *templateRepository) DeleteTemplatesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM template WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting templates")
	}
	return nil
}
