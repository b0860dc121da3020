package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

const profileColumns = `user_id, skills, interests, goals, education_level, field_of_study,
	experience_level, current_position, primary_career_field, preferred_industries,
	preferred_work_style, salary_expectation, career_stage,
	technical_skills_score, communication_score, leadership_score, problem_solving_score,
	creativity_score, adaptability_score, teamwork_score, customer_service_score,
	sales_marketing_score, analytical_thinking_score,
	profile_completion, last_assessment_date, created_at, updated_at`

// ProfileRepo persists user profiles.
type ProfileRepo struct {
	Pool PgxPool
	now  func() time.Time
}

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p, now: time.Now} }

// profileDest returns scan targets matching profileColumns.
func profileDest(p *domain.Profile) []any {
	return []any{
		&p.UserID, &p.Skills, &p.Interests, &p.Goals, &p.EducationLevel, &p.FieldOfStudy,
		&p.ExperienceLevel, &p.CurrentRole, &p.PrimaryCareerField, &p.PreferredIndustries,
		&p.PreferredWorkStyle, &p.SalaryExpectation, &p.CareerStage,
		&p.TechnicalSkills, &p.Communication, &p.Leadership, &p.ProblemSolving,
		&p.Creativity, &p.Adaptability, &p.Teamwork, &p.CustomerService,
		&p.SalesMarketing, &p.AnalyticalThinking,
		&p.ProfileCompletion, &p.LastAssessmentAt, &p.CreatedAt, &p.UpdatedAt,
	}
}

// Get loads the profile of userID.
func (r *ProfileRepo) Get(ctx domain.Context, userID string) (domain.Profile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "user_profiles"),
	)

	var p domain.Profile
	q := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id=$1`
	if err := r.Pool.QueryRow(ctx, q, userID).Scan(profileDest(&p)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, fmt.Errorf("op=profile.get: %w", domain.ErrNotFound)
		}
		return domain.Profile{}, fmt.Errorf("op=profile.get: %w", err)
	}
	if p.PreferredIndustries == nil {
		p.PreferredIndustries = []string{}
	}
	return p, nil
}

// Upsert inserts or replaces the descriptive fields of a profile and
// recomputes its completion. The assessment timestamp is left untouched.
func (r *ProfileRepo) Upsert(ctx domain.Context, p domain.Profile) (domain.Profile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Upsert")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "UPSERT"),
		attribute.String("db.sql.table", "user_profiles"),
	)

	if p.PreferredIndustries == nil {
		p.PreferredIndustries = []string{}
	}
	p.ProfileCompletion = p.CompletionPercentage()
	now := r.now().UTC()
	q := `INSERT INTO user_profiles (user_id, skills, interests, goals, education_level, field_of_study,
	experience_level, current_position, primary_career_field, preferred_industries,
	preferred_work_style, salary_expectation, career_stage,
	technical_skills_score, communication_score, leadership_score, problem_solving_score,
	creativity_score, adaptability_score, teamwork_score, customer_service_score,
	sales_marketing_score, analytical_thinking_score, profile_completion, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$25)
ON CONFLICT (user_id) DO UPDATE SET
	skills=EXCLUDED.skills, interests=EXCLUDED.interests, goals=EXCLUDED.goals,
	education_level=EXCLUDED.education_level, field_of_study=EXCLUDED.field_of_study,
	experience_level=EXCLUDED.experience_level, current_position=EXCLUDED.current_position,
	primary_career_field=EXCLUDED.primary_career_field, preferred_industries=EXCLUDED.preferred_industries,
	preferred_work_style=EXCLUDED.preferred_work_style, salary_expectation=EXCLUDED.salary_expectation,
	career_stage=EXCLUDED.career_stage,
	technical_skills_score=EXCLUDED.technical_skills_score, communication_score=EXCLUDED.communication_score,
	leadership_score=EXCLUDED.leadership_score, problem_solving_score=EXCLUDED.problem_solving_score,
	creativity_score=EXCLUDED.creativity_score, adaptability_score=EXCLUDED.adaptability_score,
	teamwork_score=EXCLUDED.teamwork_score, customer_service_score=EXCLUDED.customer_service_score,
	sales_marketing_score=EXCLUDED.sales_marketing_score, analytical_thinking_score=EXCLUDED.analytical_thinking_score,
	profile_completion=EXCLUDED.profile_completion, updated_at=EXCLUDED.updated_at
RETURNING last_assessment_date, created_at, updated_at`
	err := r.Pool.QueryRow(ctx, q,
		p.UserID, p.Skills, p.Interests, p.Goals, p.EducationLevel, p.FieldOfStudy,
		p.ExperienceLevel, p.CurrentRole, p.PrimaryCareerField, p.PreferredIndustries,
		p.PreferredWorkStyle, p.SalaryExpectation, p.CareerStage,
		p.TechnicalSkills, p.Communication, p.Leadership, p.ProblemSolving,
		p.Creativity, p.Adaptability, p.Teamwork, p.CustomerService,
		p.SalesMarketing, p.AnalyticalThinking, p.ProfileCompletion, now,
	).Scan(&p.LastAssessmentAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("op=profile.upsert: %w", err)
	}
	return p, nil
}

// TouchAssessment stamps the profile's last assessment time.
func (r *ProfileRepo) TouchAssessment(ctx domain.Context, userID string, at time.Time) error {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.TouchAssessment")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "user_profiles"),
	)

	tag, err := r.Pool.Exec(ctx, `UPDATE user_profiles SET last_assessment_date=$2, updated_at=$2 WHERE user_id=$1`, userID, at.UTC())
	if err != nil {
		return fmt.Errorf("op=profile.touch_assessment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=profile.touch_assessment: %w", domain.ErrNotFound)
	}
	return nil
}
