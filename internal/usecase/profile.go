package usecase

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
	"github.com/fairyhunter13/ai-career-advisor/pkg/textx"
)

// ProfileService reads and writes user profiles.
type ProfileService struct {
	Profiles domain.ProfileRepository
}

// NewProfileService constructs a ProfileService.
func NewProfileService(p domain.ProfileRepository) ProfileService { return ProfileService{Profiles: p} }

// Get returns the profile of userID.
func (s ProfileService) Get(ctx domain.Context, userID string) (domain.Profile, error) {
	p, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("op=profile.get: %w", err)
	}
	return p, nil
}

// Upsert sanitizes, validates and stores p as the profile of userID.
func (s ProfileService) Upsert(ctx domain.Context, userID string, p domain.Profile) (domain.Profile, error) {
	p.UserID = strings.TrimSpace(userID)
	sanitizeProfile(&p)
	if err := p.Validate(); err != nil {
		return domain.Profile{}, err
	}
	out, err := s.Profiles.Upsert(ctx, p)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("op=profile.upsert: %w", err)
	}
	return out, nil
}

func sanitizeProfile(p *domain.Profile) {
	p.Skills = textx.SanitizeText(p.Skills)
	p.Interests = textx.SanitizeText(p.Interests)
	p.Goals = textx.SanitizeText(p.Goals)
	p.FieldOfStudy = textx.SingleLine(p.FieldOfStudy)
	p.CurrentRole = textx.SingleLine(p.CurrentRole)
	p.EducationLevel = domain.EducationLevel(strings.ToLower(textx.SingleLine(string(p.EducationLevel))))
	p.ExperienceLevel = domain.ExperienceLevel(strings.ToLower(textx.SingleLine(string(p.ExperienceLevel))))
	p.PrimaryCareerField = domain.CareerField(strings.ToLower(textx.SingleLine(string(p.PrimaryCareerField))))
	p.PreferredWorkStyle = domain.WorkStyle(strings.ToLower(textx.SingleLine(string(p.PreferredWorkStyle))))
	p.CareerStage = domain.CareerStage(strings.ToLower(textx.SingleLine(string(p.CareerStage))))
	industries := make([]string, 0, len(p.PreferredIndustries))
	for _, in := range p.PreferredIndustries {
		if v := textx.SingleLine(in); v != "" {
			industries = append(industries, v)
		}
	}
	p.PreferredIndustries = industries
}
