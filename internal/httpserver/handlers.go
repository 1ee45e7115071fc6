package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	neturl "net/url"
	"strings"

	"wellness/portal/internal/domain/account"
	authdomain "wellness/portal/internal/domain/auth"
	postdomain "wellness/portal/internal/domain/post"
	authusecase "wellness/portal/internal/usecase/auth"

	"github.com/gorilla/mux"
)

// Messages returned to programmatic callers.
const (
	msgInvalidCredentials = "Invalid email or password."
	msgInvalidCode        = "Invalid verification code."
	msgNoPendingLogin     = "No login is awaiting verification."
	msgInvalidEmail       = "Please enter a valid email address."
	msgUnknownEmail       = "No account found with that email address."
	msgResetSent          = "Password reset link sent! Check your email."
	msgSelectAccountType  = "Please select an account type."
)

func (s *Server) registerRoutes() {
	r := s.router
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc(s.cfg.HomePath, s.handleHome).Methods(http.MethodGet)
	r.HandleFunc(s.cfg.LoginPath, s.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc(s.cfg.LoginPath, s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc(s.cfg.VerifyPath, s.handleVerify).Methods(http.MethodPost)
	r.HandleFunc(s.cfg.ForgotPasswordPath, s.handleForgotPassword).Methods(http.MethodPost)
	r.HandleFunc(s.cfg.ProvincesPath, s.handleProvinces).Methods(http.MethodGet)
	r.HandleFunc(s.cfg.RegisterPath, s.handleRegisterPage).Methods(http.MethodGet)
	r.HandleFunc(s.cfg.RegisterPath, s.handleRegister).Methods(http.MethodPost)

	authenticated := s.authMiddleware
	r.Handle(s.cfg.PostsPath, authenticated(http.HandlerFunc(s.handlePosts))).Methods(http.MethodGet)
	r.Handle(s.cfg.PostsPath+"{type}/{id:[0-9]+}/delete/", authenticated(http.HandlerFunc(s.handleDeletePost))).Methods(http.MethodPost)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessionUser(r)
	if !ok {
		http.Redirect(w, r, s.cfg.RegisterPath, http.StatusFound)
		return
	}
	writeHTML(w, http.StatusOK, homePage, user)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, loginPage, s.loginView(r, ""))
}

func (s *Server) loginView(r *http.Request, errMsg string) loginView {
	return loginView{
		Action:    s.cfg.LoginPath,
		CSRFField: s.cfg.CSRFField,
		CSRFToken: csrfToken(r),
		Error:     errMsg,
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	session, stage, err := s.authService.Login(r.Context(), authdomain.Credentials{
		Email:    r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		if !errors.Is(err, authdomain.ErrInvalidCredentials) {
			log.Printf("login failed: %v", err)
		}
		if !isProgrammatic(r) {
			writeHTML(w, http.StatusOK, loginPage, s.loginView(r, msgInvalidCredentials))
			return
		}
		writeJSON(w, http.StatusOK, resultResponse{Error: msgInvalidCredentials})
		return
	}

	s.setSession(w, session)
	if !isProgrammatic(r) {
		http.Redirect(w, r, s.cfg.HomePath, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Success: true, RequiresTwo: stage == authdomain.StagePending})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	pending := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		pending = c.Value
	}

	session, err := s.authService.Verify(r.Context(), pending, payload.Code)
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrInvalidCode):
			writeJSON(w, http.StatusOK, resultResponse{Error: msgInvalidCode})
		case errors.Is(err, authdomain.ErrNoPendingLogin):
			writeError(w, http.StatusBadRequest, msgNoPendingLogin)
		default:
			log.Printf("verify failed: %v", err)
			writeError(w, http.StatusInternalServerError, "verification failed")
		}
		return
	}

	s.setSession(w, session)
	writeJSON(w, http.StatusOK, resultResponse{Success: true})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	token, err := s.userService.RequestPasswordReset(r.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidEmail):
			writeJSON(w, http.StatusOK, resultResponse{Error: msgInvalidEmail})
		case errors.Is(err, authdomain.ErrUserNotFound):
			writeJSON(w, http.StatusOK, resultResponse{Error: msgUnknownEmail})
		default:
			log.Printf("forgot password failed: %v", err)
			writeError(w, http.StatusInternalServerError, "could not send reset link")
		}
		return
	}

	// No mail is sent; the link is logged for whoever runs the stand-in.
	log.Printf("password reset link for %s: /accounts/reset-password/%s/", email, token)
	writeJSON(w, http.StatusOK, resultResponse{Success: true, Message: msgResetSent})
}

func (s *Server) handleProvinces(w http.ResponseWriter, r *http.Request) {
	regions := account.RegionsFor(r.URL.Query().Get("country"))
	pairs := make([][2]string, 0, len(regions))
	for _, p := range regions {
		pairs = append(pairs, [2]string{p.Code, p.Name})
	}
	writeJSON(w, http.StatusOK, pairs)
}

var registerFields = map[account.AccountType][]string{
	account.AccountClient: {
		"email", "first_name", "last_name", "date_of_birth", "password1", "password2",
		"country", "province", "street", "phone_number",
		"emergency_contact_name", "emergency_contact_phone",
	},
	account.AccountTherapist: {
		"email", "first_name", "last_name", "date_of_birth", "password1", "password2",
		"license_number", "specialty", "country", "province", "street", "phone_number",
	},
}

func (s *Server) registerView(r *http.Request, active account.AccountType, values neturl.Values, problems []account.FieldError) registerView {
	errs := make(map[string]string, len(problems))
	for _, p := range problems {
		errs[p.FieldID] = p.Message
	}

	view := registerView{CSRFField: s.cfg.CSRFField, CSRFToken: csrfToken(r)}
	for _, t := range []account.AccountType{account.AccountClient, account.AccountTherapist} {
		form := registerForm{Type: string(t), Active: t == active}
		for _, name := range registerFields[t] {
			field := registerField{ID: "id_" + string(t) + "_" + name, Name: name}
			if t == active {
				if !strings.HasPrefix(name, "password") {
					field.Value = values.Get(name)
				}
				field.Error = errs[name]
			}
			form.Fields = append(form.Fields, field)
		}
		view.Forms = append(view.Forms, form)
	}
	return view
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, registerPage, s.registerView(r, account.AccountClient, nil, nil))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form payload")
		return
	}
	form := r.PostForm

	accountType, err := account.ParseAccountType(form.Get("account_type"))
	if err != nil {
		view := s.registerView(r, account.AccountClient, nil, nil)
		view.Error = msgSelectAccountType
		writeHTML(w, http.StatusOK, registerPage, view)
		return
	}

	user, err := s.authService.Register(r.Context(), account.Registration{
		Type:                  accountType,
		Email:                 form.Get("email"),
		FirstName:             form.Get("first_name"),
		LastName:              form.Get("last_name"),
		DateOfBirth:           form.Get("date_of_birth"),
		Password:              form.Get("password1"),
		ConfirmPassword:       form.Get("password2"),
		Country:               form.Get("country"),
		Province:              form.Get("province"),
		Street:                form.Get("street"),
		PhoneNumber:           form.Get("phone_number"),
		EmergencyContactName:  form.Get("emergency_contact_name"),
		EmergencyContactPhone: form.Get("emergency_contact_phone"),
		LicenseNumber:         form.Get("license_number"),
		Specialties:           form["specialty"],
	})
	if err != nil {
		var verr *authusecase.ValidationError
		if errors.As(err, &verr) {
			writeHTML(w, http.StatusOK, registerPage, s.registerView(r, accountType, form, verr.Fields))
			return
		}
		log.Printf("register failed: %v", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	session, err := s.authService.SessionFor(user)
	if err != nil {
		log.Printf("session for new user failed: %v", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	s.setSession(w, session)
	http.Redirect(w, r, s.cfg.HomePath, http.StatusFound)
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUserFromContext(r.Context())
	entries, err := s.journalService.List(r.Context(), user.ID)
	if err != nil {
		log.Printf("list posts failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not list posts")
		return
	}

	view := postsView{Posts: make([]postView, 0, len(entries))}
	for _, e := range entries {
		view.Posts = append(view.Posts, postView{
			ID:        e.ID,
			Type:      string(e.Type),
			Title:     e.Title,
			Body:      e.Body,
			DeleteURL: e.DeletePath(s.cfg.PostsPath),
		})
	}
	writeHTML(w, http.StatusOK, postsPage, view)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUserFromContext(r.Context())
	vars := mux.Vars(r)

	err := s.journalService.Delete(r.Context(), user.ID, postdomain.Type(vars["type"]), vars["id"])
	if err != nil {
		if errors.Is(err, postdomain.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("delete post failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not delete post")
		return
	}
	http.Redirect(w, r, s.cfg.PostsPath, http.StatusFound)
}

func (s *Server) setSession(w http.ResponseWriter, session string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) sessionUser(r *http.Request) (*authdomain.User, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	user, err := s.authService.Authenticate(r.Context(), c.Value)
	if err != nil {
		return nil, false
	}
	return user, true
}

// authMiddleware sends visitors without a full session to the login page.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.sessionUser(r)
		if !ok {
			target := s.cfg.LoginPath + "?next=" + neturl.QueryEscape(r.URL.Path)
			http.Redirect(w, r, target, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUserFromContext(ctx context.Context) (*authdomain.User, bool) {
	user, ok := ctx.Value(ctxKeyUser{}).(*authdomain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

type ctxKeyUser struct{}
