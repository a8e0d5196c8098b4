package middleware

import (
	"net/http"
	"path"
)

// UploadHeaders защищает раздачу загруженных файлов: браузер не угадывает тип,
// скрипты из файла не исполняются, а всё, кроме картинок и видео, скачивается.
func UploadHeaders(inline func(name string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Content-Security-Policy", "default-src 'none'; sandbox")
			if !inline(r.URL.Path) {
				h.Set("Content-Disposition", `attachment; filename="`+path.Base(r.URL.Path)+`"`)
			}
			next.ServeHTTP(w, r)
		})
	}
}
