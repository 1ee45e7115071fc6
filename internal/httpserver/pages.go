package httpserver

import "html/template"

const layoutHead = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{block "title" .}}Wellness Portal{{end}}</title></head>
<body>
`

var forbiddenPage = template.Must(template.New("forbidden").Parse(layoutHead + `<h1>Forbidden (403)</h1>
<p>CSRF verification failed. Request aborted.</p>
</body>
</html>
`))

var loginPage = template.Must(template.New("login").Parse(layoutHead + `<form method="post" id="loginForm" action="{{.Action}}">
<input type="hidden" name="{{.CSRFField}}" value="{{.CSRFToken}}">
{{if .Error}}<div class="error-message">{{.Error}}</div>{{end}}
<div class="form-group"><input type="email" name="username" id="id_username"></div>
<div class="form-group"><input type="password" name="password" id="id_password"></div>
<button type="submit">Log in</button>
</form>
</body>
</html>
`))

type loginView struct {
	Action    string
	CSRFField string
	CSRFToken string
	Error     string
}

var homePage = template.Must(template.New("home").Parse(layoutHead + `<h1>Welcome, {{.FirstName}}</h1>
<p class="account-type">{{.Type}}</p>
</body>
</html>
`))

var registerPage = template.Must(template.New("register").Parse(layoutHead + `{{if .Error}}<div class="error-message">{{.Error}}</div>{{end}}
{{range .Forms}}<form method="post" id="{{.Type}}-form" class="tab-content{{if .Active}} active{{end}}">
<input type="hidden" name="{{$.CSRFField}}" value="{{$.CSRFToken}}">
<input type="hidden" name="account_type" value="{{.Type}}">
{{range .Fields}}<div class="form-group{{if .Error}} has-error{{end}}">
<label for="{{.ID}}">{{.Name}}</label>
<input id="{{.ID}}" name="{{.Name}}" value="{{.Value}}">
{{if .Error}}<span class="error-message">{{.Error}}</span>{{end}}
</div>
{{end}}<button type="submit">Register</button>
</form>
{{end}}</body>
</html>
`))

type registerField struct {
	ID    string
	Name  string
	Value string
	Error string
}

type registerForm struct {
	Type   string
	Active bool
	Fields []registerField
}

type registerView struct {
	CSRFField string
	CSRFToken string
	Error     string
	Forms     []registerForm
}

var postsPage = template.Must(template.New("posts").Parse(layoutHead + `<div class="posts-container">
{{if .Posts}}<ul class="posts-list">
{{range .Posts}}<li class="post-item" data-post-id="{{.ID}}" data-post-type="{{.Type}}">
<h3 class="post-title">{{.Title}}</h3>
<div class="post-body">{{.Body}}</div>
<button type="button" data-micromodal-trigger="deleteModal" data-delete-url="{{.DeleteURL}}">Delete</button>
</li>
{{end}}</ul>
{{else}}<p class="no-posts">No posts yet.</p>
{{end}}</div>
</body>
</html>
`))

type postView struct {
	ID        string
	Type      string
	Title     string
	Body      string
	DeleteURL string
}

type postsView struct {
	Posts []postView
}
