// Package catalog maps target roles to the skills recruiters expect for them.
package catalog

import "strings"

// DefaultRole is the key of the fallback list returned for unknown roles.
const DefaultRole = "default"

type entry struct {
	role   string
	skills []string
}

var (
	dataAnalystSkills = []string{
		"SQL", "Excel", "Python", "Tableau", "Power BI", "Statistics",
		"Data Visualization", "ETL", "Data Cleaning", "Business Intelligence",
		"A/B Testing", "Reporting",
	}
	mlEngineerSkills = []string{
		"Python", "TensorFlow", "PyTorch", "MLOps", "Docker", "Kubernetes",
		"Model Deployment", "Feature Engineering", "Deep Learning", "SQL", "Cloud Platforms",
	}
	softwareEngineerSkills = []string{
		"Data Structures", "Algorithms", "System Design", "Git", "SQL", "APIs",
		"Testing", "CI/CD", "Problem Solving", "Code Review", "Documentation",
	}
	defaultSkills = []string{
		"Problem Solving", "Communication", "Teamwork", "Adaptability",
		"Technical Skills", "Domain Knowledge", "Project Management",
	}
)

// roles is ordered: the substring fallback returns the first entry that matches.
var roles = []entry{
	{"data analyst", dataAnalystSkills},
	{"data analysis", dataAnalystSkills},
	{"data scientist", []string{
		"Python", "Machine Learning", "Statistics", "SQL", "Pandas", "Scikit-learn",
		"Deep Learning", "Data Visualization", "Feature Engineering", "Model Deployment",
		"A/B Testing",
	}},
	{"machine learning engineer", mlEngineerSkills},
	{"ml engineer", mlEngineerSkills},
	{"genai engineer", []string{
		"Python", "LLMs", "Prompt Engineering", "RAG Systems", "Vector Databases",
		"LangChain", "Semantic Kernel", "Fine-tuning", "Azure OpenAI", "API Development",
	}},
	{"ai engineer", []string{
		"Python", "LLMs", "Prompt Engineering", "RAG Systems", "Vector Databases",
		"LangChain", "Deep Learning", "Fine-tuning", "Cloud Platforms", "API Development",
	}},
	{"software engineer", softwareEngineerSkills},
	{"sde", softwareEngineerSkills},
	{"software developer", softwareEngineerSkills},
	{"frontend developer", []string{
		"HTML", "CSS", "JavaScript", "React", "TypeScript", "Responsive Design",
		"Git", "APIs", "Testing", "UI/UX",
	}},
	{"backend developer", []string{
		"Python", "Node.js", "SQL", "APIs", "System Design", "Database Design",
		"Caching", "Security", "Docker", "Git",
	}},
	{"devops engineer", []string{
		"Linux", "Docker", "Kubernetes", "CI/CD", "AWS/Azure/GCP", "Terraform",
		"Monitoring", "Scripting", "Networking", "Security",
	}},
	{"product manager", []string{
		"Product Strategy", "User Research", "Roadmapping", "Agile", "Data Analysis",
		"Stakeholder Management", "Prioritization", "A/B Testing", "Communication",
		"Market Analysis",
	}},
}

// RequiredSkills returns the skills for role. Lookup is case-insensitive: exact key, then
// the first key contained in role or containing it, then the default list. The result is
// never empty and is a copy the caller may modify.
func RequiredSkills(role string) []string {
	key := strings.ToLower(strings.TrimSpace(role))

	if key != "" {
		for _, e := range roles {
			if e.role == key {
				return clone(e.skills)
			}
		}
		for _, e := range roles {
			if strings.Contains(key, e.role) || strings.Contains(e.role, key) {
				return clone(e.skills)
			}
		}
	}

	return DefaultSkills()
}

// DefaultSkills returns the skills used for roles the catalog does not know.
func DefaultSkills() []string {
	return clone(defaultSkills)
}

// Roles lists the catalog keys in lookup order.
func Roles() []string {
	out := make([]string, 0, len(roles))
	for _, e := range roles {
		out = append(out, e.role)
	}
	return out
}

// Entries returns a copy of the catalog keyed by role.
func Entries() map[string][]string {
	out := make(map[string][]string, len(roles))
	for _, e := range roles {
		out[e.role] = clone(e.skills)
	}
	return out
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
