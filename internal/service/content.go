package service

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/templui/imagerepo/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ContentPage struct {
	Title   string
	Slug    string
	Content string // Rendered HTML
}

// ContentService serves static markdown pages rendered once at startup
type ContentService struct {
	pages map[string]*ContentPage
}

func NewContentService(content fs.FS) (*ContentService, error) {
	s := &ContentService{pages: make(map[string]*ContentPage)}

	files, err := fs.ReadDir(content, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}

	parser := markdown.NewParser()
	for _, file := range files {
		if file.IsDir() || path.Ext(file.Name()) != ".md" {
			continue
		}

		slug := strings.TrimSuffix(file.Name(), ".md")
		source, err := fs.ReadFile(content, file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read page %s: %w", slug, err)
		}

		html, meta, err := parser.ParseWithFrontmatter(source)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", slug, err)
		}

		title, _ := meta["title"].(string)
		if title == "" {
			// Generate title from slug
			title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
		}

		s.pages[slug] = &ContentPage{
			Title:   title,
			Slug:    slug,
			Content: string(html),
		}
	}

	return s, nil
}

func (s *ContentService) Page(slug string) (*ContentPage, error) {
	page, ok := s.pages[slug]
	if !ok {
		return nil, fmt.Errorf("page not found: %s", slug)
	}
	return page, nil
}
