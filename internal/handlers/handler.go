package handlers

import (
	"html/template"
	"mime/multipart"
	"time"

	"campus_lost_found/internal/logger"
	"campus_lost_found/internal/service"
	"campus_lost_found/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"

	_ "campus_lost_found/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Uploader stores, removes and serves item images.
type Uploader interface {
	Accept(fh *multipart.FileHeader) (string, error)
	Remove(name string) storage.RemoveResult
	Open(name string) (afero.File, error)
}

// Options tune the HTTP layer.
type Options struct {
	MaxBodyBytes int64         // larger request bodies are rejected with 413
	SessionTTL   time.Duration // lifetime of the session cookie
	SecureCookie bool          // mark cookies Secure (HTTPS only)
}

const defaultMaxBodyBytes = 4 << 20 // 4 MiB

// Handler wires HTTP layer to services, image storage and logging.
type Handler struct {
	services *service.Service
	uploads  Uploader
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, uploads Uploader, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	return &Handler{services: services, uploads: uploads, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger, h.limitBody)
	router.SetHTMLTemplate(template.Must(parseTemplates()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Uploaded images are public by URL
	router.GET("/uploads/*filename", h.serveUpload)

	web := router.Group("/", h.sessionMiddleware)
	h.registerAuthRoutes(web)
	h.registerItemRoutes(web.Group("", h.requireUser))

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.RouterGroup) {
	r.GET("/", h.loginPage)
	r.POST("/login", h.login)
	r.GET("/register", h.registerPage)
	r.POST("/register_user", h.registerUser)
	r.GET("/logout", h.logout)
}

func (h *Handler) registerItemRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.dashboard)
	r.GET("/search", h.search)

	item := r.Group("/item")
	{
		item.GET("/create", h.createItemPage)
		item.POST("/create", h.createItem)
		item.GET("/:id", h.viewItem)
		item.GET("/:id/edit", h.editItemPage)
		item.POST("/:id/edit", h.editItem)
		item.POST("/:id/delete", h.deleteItem)
	}
}
