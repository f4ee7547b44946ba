package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/lakbill/billing-app/internal/handlers"
	"github.com/lakbill/billing-app/internal/httpx"
	"github.com/lakbill/billing-app/internal/store"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(st *store.Store, log *logrus.Logger) http.Handler {
	r := mux.NewRouter()

	// --- Health endpoints ---
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := st.Ping(); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	dh := handlers.NewDocumentHandler(st)
	api.HandleFunc("/document", dh.Get).Methods(http.MethodGet)
	api.HandleFunc("/document", dh.Update).Methods(http.MethodPut)
	api.HandleFunc("/document/pdf", dh.PDF).Methods(http.MethodGet)
	api.HandleFunc("/document/items", dh.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/document/items/{id}", dh.DeleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/documents", dh.List).Methods(http.MethodGet)
	api.HandleFunc("/documents", dh.Create).Methods(http.MethodPost)
	api.HandleFunc("/documents/save", dh.Save).Methods(http.MethodPost)
	api.HandleFunc("/documents/navigate", dh.Navigate).Methods(http.MethodPost)
	api.HandleFunc("/documents/type", dh.ChangeType).Methods(http.MethodPost)

	ih := handlers.NewInventoryHandler(st)
	api.HandleFunc("/inventory", ih.List).Methods(http.MethodGet)
	api.HandleFunc("/inventory/items", ih.SaveItem).Methods(http.MethodPost)

	ch := handlers.NewClientHandler(st)
	api.HandleFunc("/clients", ch.List).Methods(http.MethodGet)
	api.HandleFunc("/document/client", ch.Select).Methods(http.MethodPost)

	lh := handlers.NewLogoHandler(st)
	api.HandleFunc("/company/logo", lh.Upload).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})

	return withRecover(withLogging(r, log), log)
}

func withLogging(next http.Handler, log *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func withRecover(next http.Handler, log *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithField("panic", rec).Error("handler panic")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
