package recommender

import "github.com/fairyhunter13/ai-career-advisor/internal/domain"

var fieldKnowledge = map[domain.CareerField]string{
	domain.FieldTechnology: `Tech industry trends: AI/ML, cloud computing, cybersecurity, DevOps
In-demand skills: Full-stack development, data science, cloud architecture
Career paths: Developer → Senior Developer → Tech Lead → Engineering Manager`,
	domain.FieldHealthcare: `Healthcare trends: Telemedicine, digital health, personalized medicine
Growth areas: Nursing, mental health, geriatric care, health tech
Career paths: Entry-level → Specialist → Department Head → Healthcare Executive`,
	domain.FieldFinance: `Finance trends: FinTech, cryptocurrency, sustainable investing, digital banking
Key skills: Financial analysis, risk management, regulatory compliance
Career paths: Analyst → Senior Analyst → Manager → Director → VP`,
	domain.FieldMarketing: `Marketing trends: Digital marketing, content creation, data analytics, social media
Essential skills: SEO/SEM, social media marketing, analytics, creativity
Career paths: Coordinator → Specialist → Manager → Director → CMO`,
	domain.FieldArts: `Creative industry trends: Digital art, NFTs, streaming platforms, virtual reality
Key skills: Technical proficiency, portfolio development, client management
Career paths: Freelancer → Studio Artist → Art Director → Creative Director`,
	domain.FieldEducation: `Education trends: EdTech, online learning, personalized education, STEM focus
Growth areas: Special education, ESL, educational technology, curriculum design
Career paths: Teacher → Department Head → Administrator → Principal`,
	domain.FieldSales: `Sales trends: Social selling, CRM technology, consultative selling, account-based marketing
Key skills: Relationship building, data analysis, communication, negotiation
Career paths: Sales Rep → Senior Rep → Sales Manager → Sales Director → VP Sales`,
}

const genericKnowledge = `General business trends: Remote work, digital transformation, sustainability focus
Universal skills: Communication, leadership, adaptability, continuous learning
Career growth: Individual contributor → Team lead → Manager → Senior leader`

// FieldKnowledge returns the trend, skill and career-ladder blurb for field.
// Fields without a dedicated blurb, including the empty field, get the
// generic business one.
func FieldKnowledge(field domain.CareerField) string {
	if k, ok := fieldKnowledge[field]; ok {
		return k
	}
	return genericKnowledge
}
