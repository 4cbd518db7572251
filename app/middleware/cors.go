package middleware

import (
	"mime"
	"net/http"
)

var corsHeaders = [][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE"},
	{"Access-Control-Allow-Headers", "Content-Type, Accept, X-API-Key"},
	{"Access-Control-Allow-Credentials", "true"},
}

func setCORSHeaders(h http.Header) {
	for _, kv := range corsHeaders {
		h.Set(kv[0], kv[1])
	}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}

// CORS answers every OPTIONS request with an empty 200 and adds the CORS
// headers to any JSON response produced by next.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			h := w.Header()
			setCORSHeaders(h)
			h.Set("Content-Type", "text/plain; charset=utf-8")
			h.Set("Content-Length", "0")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(&corsResponseWriter{ResponseWriter: w}, r)
	})
}

// corsResponseWriter inspects the content type at the moment headers are
// committed, since handlers set it just before writing.
type corsResponseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *corsResponseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		if isJSON(w.Header().Get("Content-Type")) {
			setCORSHeaders(w.Header())
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *corsResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *corsResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
