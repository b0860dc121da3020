package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// CareerPathRepo stores the career path catalog.
type CareerPathRepo struct {
	Pool PgxPool
	now  func() time.Time
}

// NewCareerPathRepo constructs a CareerPathRepo with the given pool.
func NewCareerPathRepo(p PgxPool) *CareerPathRepo { return &CareerPathRepo{Pool: p, now: time.Now} }

// Upsert inserts a career path or refreshes the one with the same name.
func (r *CareerPathRepo) Upsert(ctx domain.Context, p domain.CareerPath) error {
	tracer := otel.Tracer("repo.career_paths")
	ctx, span := tracer.Start(ctx, "career_paths.Upsert")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "UPSERT"),
		attribute.String("db.sql.table", "career_paths"),
	)

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	skills, err := json.Marshal(nonNil(p.RequiredSkills))
	if err != nil {
		return fmt.Errorf("op=career_path.upsert: %w", err)
	}
	if p.CareerStages == nil {
		p.CareerStages = []domain.PathStage{}
	}
	stages, err := json.Marshal(p.CareerStages)
	if err != nil {
		return fmt.Errorf("op=career_path.upsert: %w", err)
	}
	salary, err := json.Marshal(p.AverageSalaryRange)
	if err != nil {
		return fmt.Errorf("op=career_path.upsert: %w", err)
	}
	q := `INSERT INTO career_paths (id, name, description, industry, required_skills, career_stages,
	average_salary_range, growth_outlook, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (name) DO UPDATE SET
	description=EXCLUDED.description, industry=EXCLUDED.industry,
	required_skills=EXCLUDED.required_skills, career_stages=EXCLUDED.career_stages,
	average_salary_range=EXCLUDED.average_salary_range, growth_outlook=EXCLUDED.growth_outlook`
	if _, err := r.Pool.Exec(ctx, q, p.ID, p.Name, p.Description, p.Industry, skills, stages, salary, p.GrowthOutlook, r.now().UTC()); err != nil {
		return fmt.Errorf("op=career_path.upsert: %w", err)
	}
	return nil
}

// List returns catalog entries ordered by name, optionally restricted to one industry.
func (r *CareerPathRepo) List(ctx domain.Context, industry string) ([]domain.CareerPath, error) {
	tracer := otel.Tracer("repo.career_paths")
	ctx, span := tracer.Start(ctx, "career_paths.List")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "career_paths"),
	)

	q := `SELECT id, name, description, industry, required_skills, career_stages, average_salary_range,
	growth_outlook, created_at FROM career_paths WHERE ($1 = '' OR industry = $1) ORDER BY name`
	rows, err := r.Pool.Query(ctx, q, industry)
	if err != nil {
		return nil, fmt.Errorf("op=career_path.list: %w", err)
	}
	defer rows.Close()
	out := []domain.CareerPath{}
	for rows.Next() {
		var (
			p                      domain.CareerPath
			skills, stages, salary []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Industry, &skills, &stages, &salary, &p.GrowthOutlook, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("op=career_path.list.scan: %w", err)
		}
		if err := decodeJSON(skills, &p.RequiredSkills); err != nil {
			return nil, fmt.Errorf("op=career_path.list.skills: %w", err)
		}
		if err := decodeJSON(stages, &p.CareerStages); err != nil {
			return nil, fmt.Errorf("op=career_path.list.stages: %w", err)
		}
		if err := decodeJSON(salary, &p.AverageSalaryRange); err != nil {
			return nil, fmt.Errorf("op=career_path.list.salary: %w", err)
		}
		p.RequiredSkills = nonNil(p.RequiredSkills)
		if p.CareerStages == nil {
			p.CareerStages = []domain.PathStage{}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=career_path.list.rows: %w", err)
	}
	return out, nil
}

func decodeJSON(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}
