package services

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/logger"
)

// Placeholders returned when a binary format cannot be read.
const (
	PDFPlaceholder  = "[Could not extract text from this PDF. Please upload a .txt file or paste your resume text.]"
	DOCXPlaceholder = "[Could not extract text from this DOCX. Please upload a .txt file or paste your resume text.]"
)

// resumeSkills is scanned in order; the first spelling found wins.
var resumeSkills = []string{
	"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Go", "Rust", "Ruby", "PHP", "Swift", "Kotlin", "Scala", "R",
	"React", "Angular", "Vue", "Node.js", "Express", "Django", "Flask", "FastAPI", "Spring", "HTML", "CSS", "REST API", "GraphQL",
	"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Elasticsearch",
	"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "Scikit-learn", "Pandas", "NumPy", "Keras",
	"Data Analysis", "Data Science", "Data Visualization", "Tableau", "Power BI", "Excel", "Statistics",
	"NLP", "Computer Vision", "Neural Networks",
	"LLM", "LLMs", "Large Language Models", "GPT", "OpenAI", "Azure OpenAI", "Prompt Engineering",
	"RAG", "Retrieval Augmented Generation", "Vector Databases", "LangChain", "Semantic Kernel", "Fine-tuning",
	"Hugging Face", "Transformers",
	"AWS", "Azure", "GCP", "Google Cloud", "Docker", "Kubernetes", "CI/CD", "Jenkins", "GitHub Actions",
	"Terraform", "Ansible", "Linux", "DevOps", "MLOps",
	"Git", "Agile", "Scrum", "System Design", "Microservices", "API Development",
	"ETL", "Data Cleaning", "A/B Testing", "Business Intelligence", "Reporting",
	"Data Structures", "Algorithms", "Problem Solving",
}

type ParsedResume struct {
	Text      string
	Format    string
	Skills    []string
	PageCount int
}

type ResumeParser interface {
	Parse(filename string, data []byte) (*ParsedResume, error)
	ExtractPDF(data []byte) (string, int, error)
}

type resumeParser struct{}

func NewResumeParser() ResumeParser {
	return &resumeParser{}
}

// Parse extracts text by file extension. Unreadable PDF and DOCX files yield a placeholder
// text instead of an error; unknown extensions are read as text with invalid bytes dropped.
func (p *resumeParser) Parse(filename string, data []byte) (*ParsedResume, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	parsed := &ParsedResume{}

	switch ext {
	case ".txt":
		if !utf8.Valid(data) {
			return nil, apperrors.New(apperrors.CodeValidationFailed, "text file is not valid UTF-8")
		}
		parsed.Format = "txt"
		parsed.Text = string(data)

	case ".pdf":
		parsed.Format = "pdf"
		text, pages, err := p.ExtractPDF(data)
		if err != nil {
			logger.Warn().Err(err).Str("filename", filename).Msg("⚠️ PDF extraction failed, using placeholder")
			text = PDFPlaceholder
		}
		parsed.Text = text
		parsed.PageCount = pages

	case ".docx":
		parsed.Format = "docx"
		text, err := extractDocxText(data)
		if err != nil {
			logger.Warn().Err(err).Str("filename", filename).Msg("⚠️ DOCX extraction failed, using placeholder")
			text = DOCXPlaceholder
		}
		parsed.Text = text

	default:
		parsed.Format = "text"
		parsed.Text = strings.ToValidUTF8(string(data), "")
	}

	parsed.Skills = ExtractResumeSkills(parsed.Text)
	return parsed, nil
}

// ExtractPDF implements ResumeParser. Pages without text are skipped.
func (p *resumeParser) ExtractPDF(data []byte) (string, int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", totalPage, fmt.Errorf("no text content found in PDF")
	}

	return text, totalPage, nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	text, err := paragraphsFromDocumentXML(doc.Editable().GetContent())
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in DOCX")
	}
	return text, nil
}

// paragraphsFromDocumentXML joins the w:t runs of each w:p with newlines.
func paragraphsFromDocumentXML(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	return strings.Join(paragraphs, "\n"), nil
}

// ExtractResumeSkills returns the known skills whose name occurs anywhere in text,
// case-insensitively.
func ExtractResumeSkills(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, skill := range resumeSkills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
