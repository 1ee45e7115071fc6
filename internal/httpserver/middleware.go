package httpserver

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)
		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		log.Printf("%s %s %d %dB %s", r.Method, r.URL.Path, status, recorder.size, duration)
	})
}

type csrfKey struct{}

// csrfPolicy names where the anti-forgery token travels.
type csrfPolicy struct {
	cookie string
	header string
	field  string
}

// withCSRF issues the anti-forgery cookie on first contact and refuses unsafe requests whose
// header or form field does not echo it.
func withCSRF(next http.Handler, policy csrfPolicy) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(policy.cookie); err == nil {
			token = c.Value
		}
		if token == "" {
			token = strings.ReplaceAll(uuid.NewString(), "-", "")
			http.SetCookie(w, &http.Cookie{Name: policy.cookie, Value: token, Path: "/", SameSite: http.SameSiteLaxMode})
			// Unsafe requests without a cookie cannot match anything.
			if !isSafeMethod(r.Method) {
				forbidCSRF(w)
				return
			}
		}

		if !isSafeMethod(r.Method) {
			sent := r.Header.Get(policy.header)
			if sent == "" {
				sent = r.PostFormValue(policy.field)
			}
			if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
				forbidCSRF(w)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfKey{}, token)))
	})
}

func csrfToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfKey{}).(string)
	return token
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// forbidCSRF answers like the backend framework does: a rendered page, not JSON.
func forbidCSRF(w http.ResponseWriter) {
	writeHTML(w, http.StatusForbidden, forbiddenPage, nil)
}
