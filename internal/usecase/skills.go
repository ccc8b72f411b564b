package usecase

import (
	"regexp"
	"strings"

	"github.com/cvmatch/backend/internal/domain"
)

// skillTaxonomy is the fixed catalog of recognized skills. It is compiled
// into matchers once at process start and treated as immutable reference
// data; canonical casing here is what callers get back.
var skillTaxonomy = []string{
	// Programming Languages
	"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Ruby", "Go", "Rust",
	"PHP", "Swift", "Kotlin", "Scala", "R", "MATLAB", "Perl", "Shell", "Bash",

	// Web Technologies
	"HTML", "CSS", "React", "Angular", "Vue.js", "Node.js", "Express.js", "Django",
	"Flask", "FastAPI", "Spring Boot", "ASP.NET", "jQuery", "Bootstrap", "Tailwind",

	// Data Science & ML
	"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "Keras", "Scikit-learn",
	"Pandas", "NumPy", "SciPy", "Matplotlib", "Seaborn", "Plotly", "NLP", "Computer Vision",
	"Neural Networks", "CNN", "RNN", "LSTM", "Transformer", "BERT", "GPT",

	// Cloud & DevOps
	"AWS", "Azure", "Google Cloud", "GCP", "Docker", "Kubernetes", "Jenkins", "CI/CD",
	"Terraform", "Ansible", "Git", "GitHub", "GitLab", "CircleCI", "Travis CI",

	// Databases
	"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Cassandra", "Oracle",
	"SQL Server", "DynamoDB", "Elasticsearch", "Neo4j", "Firebase",

	// Big Data & Analytics
	"Hadoop", "Spark", "Kafka", "Airflow", "ETL", "Data Warehousing", "Tableau",
	"Power BI", "Looker", "Databricks",

	// Other Technical Skills
	"REST API", "GraphQL", "Microservices", "Agile", "Scrum", "JIRA", "Testing",
	"Unit Testing", "Integration Testing", "Selenium", "Jest", "pytest",
	"Linux", "Unix", "Windows Server", "Networking", "Security", "OAuth",
	"JWT", "SOLID", "Design Patterns", "OOP", "Functional Programming",
}

type skillMatcher struct {
	name    string
	pattern *regexp.Regexp
}

// skillMatchers is built once at init and is read-only afterwards, so it
// needs no synchronization.
var skillMatchers = buildSkillMatchers()

func buildSkillMatchers() []skillMatcher {
	matchers := make([]skillMatcher, 0, len(skillTaxonomy))
	for _, name := range skillTaxonomy {
		matchers = append(matchers, skillMatcher{
			name:    name,
			pattern: compileSkillPattern(name),
		})
	}
	return matchers
}

// compileSkillPattern builds the case-insensitive whole-word matcher for one
// skill name. Multi-word names tolerate any whitespace run between words.
// A plain \b cannot anchor an edge that ends in a non-word rune ("C++",
// "C#"), so those edges are anchored with an explicit character class that
// also rejects longer runs like "C+++".
func compileSkillPattern(name string) *regexp.Regexp {
	words := strings.Fields(name)
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = regexp.QuoteMeta(w)
	}
	body := strings.Join(parts, `\s+`)

	left := `\b`
	if !isWordRune(rune(name[0])) {
		left = `(?:^|[^\w+#])`
	}
	right := `\b`
	if !isWordRune(rune(name[len(name)-1])) {
		right = `(?:[^\w+#]|$)`
	}

	return regexp.MustCompile(`(?i)` + left + body + right)
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// ExtractSkills returns the set of catalogued skills present in text.
// Presence is boolean; occurrence counts are discarded.
func ExtractSkills(text string) domain.SkillSet {
	found := make(domain.SkillSet)
	for _, m := range skillMatchers {
		if m.pattern.MatchString(text) {
			found[m.name] = true
		}
	}
	return found
}

// MatchSkills compares the skills of a CV against a job description.
// matched is the intersection of both skill sets; missing is what the job
// requires and the CV lacks. Skills the CV has beyond the job's requirements
// are not reported. Both slices are sorted and never nil.
func MatchSkills(cvText, jdText string) (matched, missing []string) {
	cvSkills := ExtractSkills(cvText)
	jdSkills := ExtractSkills(jdText)

	matchedSet := make(domain.SkillSet)
	missingSet := make(domain.SkillSet)
	for skill := range jdSkills {
		if cvSkills[skill] {
			matchedSet[skill] = true
		} else {
			missingSet[skill] = true
		}
	}

	return matchedSet.Sorted(), missingSet.Sorted()
}

// AllSkills returns the full taxonomy in catalog order.
func AllSkills() []string {
	skills := make([]string, len(skillTaxonomy))
	copy(skills, skillTaxonomy)
	return skills
}
