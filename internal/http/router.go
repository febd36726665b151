package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterHealthRoutes /healthz
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
}

// RegisterDesignRoutes 推理、schema、存档查询、缓存管理
func (r *Router) RegisterDesignRoutes(d *DesignHandler) {
	r.Handle("/api/v1/design/predict", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.Predict(w, req)
	})

	// 旧接口：裸响应体，错误为 {"detail": "..."}
	r.Handle("/predict-design", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.PredictLegacy(w, req)
	})

	r.Handle("/api/v1/design/schema", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.ListSchemas(w, req)
	})

	// schema/{archetype_id}
	r.Handle("/api/v1/design/schema/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(req.URL.Path, "/api/v1/design/schema/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		d.GetSchema(w, req, id)
	})

	// predictions/{request_id}
	r.Handle("/api/v1/design/predictions/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(req.URL.Path, "/api/v1/design/predictions/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		d.GetPrediction(w, req, id)
	})

	r.Handle("/api/v1/design/cache", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			d.CacheStats(w, req)
		case http.MethodDelete:
			d.PurgeCache(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}
