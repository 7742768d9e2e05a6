// Package pages holds the HTML pages of the app. Every page is a
// templ.Component rendered from an embedded html/template inside the
// shared layout.
package pages

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/templui/imagerepo/internal/ctxkeys"
	"github.com/templui/imagerepo/internal/model"
	"github.com/templui/imagerepo/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

var (
	homeTemplate     = parse("home.html")
	signInTemplate   = parse("signin.html")
	signUpTemplate   = parse("signup.html")
	repoTemplate     = parse("repo.html")
	notFoundTemplate = parse("notfound.html")
)

func parse(page string) *template.Template {
	return template.Must(template.ParseFS(templatesFS,
		"templates/layout.html",
		"templates/forms.html",
		"templates/"+page,
	))
}

// view is what every template sees
type view struct {
	Title     string
	AppName   string
	Path      string
	User      *model.User
	CSRFToken string
	Error     string
	Data      any
}

func page(t *template.Template, title, errMsg string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v := view{
			Title:     title,
			AppName:   "Image Repo",
			Path:      ctxkeys.URLPath(ctx),
			User:      ctxkeys.User(ctx),
			CSRFToken: ctxkeys.CSRFToken(ctx),
			Error:     errMsg,
			Data:      data,
		}
		if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
			v.AppName = cfg.AppName
		}
		return t.ExecuteTemplate(w, "layout", v)
	})
}

type homeData struct {
	Content template.HTML
	Next    string
}

// Home renders the introduction page. Anonymous visitors also get the
// sign-in form, which carries next through to the sign-in action.
func Home(content *service.ContentPage, next string) templ.Component {
	// Rendered from our own embedded markdown
	html := template.HTML(content.Content)
	return page(homeTemplate, "", "", homeData{Content: html, Next: next})
}

type signInData struct {
	Next string
}

func SignIn(errMsg, next string) templ.Component {
	return page(signInTemplate, "Sign in", errMsg, signInData{Next: next})
}

func SignUp(errMsg string) templ.Component {
	return page(signUpTemplate, "Sign up", errMsg, nil)
}

type repoData struct {
	Listing *service.Listing
	Max     int
}

// Repo renders the user's images and, below the limit, the upload form
func Repo(listing *service.Listing, errMsg string) templ.Component {
	return page(repoTemplate, "My images", errMsg, repoData{Listing: listing, Max: model.MaxImagesPerUser})
}

func NotFound() templ.Component {
	return page(notFoundTemplate, "Not found", "", nil)
}
