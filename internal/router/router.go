// Package router assembles the gin engine: middleware, renderer and routes.
package router

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/handlers"
	"yatube/internal/metrics"
	"yatube/internal/middleware"
	"yatube/internal/repository"
	"yatube/internal/services"
	"yatube/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SessionName is the session cookie name.
const SessionName = "yatube_session"

// Options are the collaborators New wires together.
type Options struct {
	Config  *config.Config
	DB      *gorm.DB
	Store   cache.Store // nil uses an in-process LRU
	Metrics *metrics.Collector
	Logger  *log.Logger
}

// App is the assembled application.
type App struct {
	Engine    *gin.Engine
	PageCache *cache.PageCache
	Posts     repository.PostRepository
}

// New builds the engine and registers every route.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	collector := opts.Metrics
	if collector == nil {
		collector = metrics.NewCollector(prometheus.NewRegistry())
	}

	renderer, err := web.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	// Repositories
	users := repository.NewUserRepository(opts.DB)
	groups := repository.NewGroupRepository(opts.DB)
	posts := repository.NewPostRepository(opts.DB)
	comments := repository.NewCommentRepository(opts.DB)
	follows := repository.NewFollowRepository(opts.DB)

	pageStore := opts.Store
	if pageStore == nil {
		lru, err := cache.NewLRUStore(cfg.PageCacheSize)
		if err != nil {
			return nil, fmt.Errorf("page cache: %w", err)
		}
		pageStore = lru
	}
	pageCache := cache.NewPageCache(pageStore, cfg.PageCacheTTL, viewerKey, collector)
	invalidate := func(ctx context.Context) { pageCache.Invalidate(ctx) }

	// Services
	media := services.NewMediaStore(cfg.MediaRoot, cfg.MaxUploadMB<<20)
	followService := services.NewFollowService(follows, collector)
	feedService := services.NewFeedService(posts, groups, users, followService, cfg.PostsPerPage)
	postService := services.NewPostService(posts, groups, comments, media, invalidate)
	commentService := services.NewCommentService(comments, posts, services.NewCensor(services.DefaultBlockList), collector, invalidate)
	mailer, err := services.NewMailService(services.MailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
		Dir:      cfg.MailDir,
	}, web.EmailFS(), logger)
	if err != nil {
		return nil, err
	}
	resetService := services.NewPasswordResetService(users, mailer, cfg.SessionSecret, cfg.PasswordResetTTL)

	// Handlers
	authHandler := handlers.NewAuthHandler(users, resetService)
	postHandler := handlers.NewPostHandler(feedService, postService, commentService)
	followHandler := handlers.NewFollowHandler(feedService, followService, users)
	aboutHandler := handlers.NewAboutHandler()
	seoHandler := handlers.NewSEOHandler(groups, posts)

	r := gin.New()
	r.HTMLRender = renderer
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 3600,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		collector.Middleware(),
		sessions.Sessions(SessionName, store),
		middleware.LoadUser(users),
		middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware(),
	)

	r.NoRoute(handlers.NotFound)
	r.Static("/media", media.Root())
	r.GET("/metrics", gin.WrapH(collector.Handler()))
	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)

	// Public Routes
	r.GET("/", pageCache.Middleware(), postHandler.Index)
	r.GET("/group/:slug/", postHandler.GroupPosts)
	r.GET("/profile/:username/", postHandler.Profile)
	r.GET("/posts/:id/", postHandler.Detail)
	r.GET("/about/author/", aboutHandler.Author)
	r.GET("/about/tech/", aboutHandler.Tech)

	auth := r.Group("/auth")
	{
		auth.GET("/signup/", authHandler.ShowSignup)
		auth.POST("/signup/", authHandler.Signup)
		auth.GET("/login/", authHandler.ShowLogin)
		auth.POST("/login/", authHandler.Login)
		auth.GET("/logout/", authHandler.Logout)

		auth.GET("/password_change/", middleware.AuthRequired(), authHandler.ShowPasswordChange)
		auth.POST("/password_change/", middleware.AuthRequired(), authHandler.PasswordChange)
		auth.GET("/password_change/done/", middleware.AuthRequired(), authHandler.PasswordChangeDone)

		auth.GET("/password_reset/", authHandler.ShowPasswordReset)
		auth.POST("/password_reset/", authHandler.PasswordReset)
		auth.GET("/password_reset/done/", authHandler.PasswordResetDone)
		auth.GET("/reset/done/", authHandler.PasswordResetComplete)
		auth.GET("/reset/:uidb64/:token/", authHandler.ShowPasswordResetConfirm)
		auth.POST("/reset/:uidb64/:token/", authHandler.PasswordResetConfirm)
	}

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create/", postHandler.ShowCreate)
		authorized.POST("/create/", postHandler.Create)
		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)
		authorized.POST("/posts/:id/edit/", postHandler.Edit)
		authorized.POST("/posts/:id/comment/", postHandler.AddComment)

		authorized.GET("/follow/", followHandler.Index)
		authorized.GET("/profile/:username/follow/", followHandler.Follow)
		authorized.GET("/profile/:username/unfollow/", followHandler.Unfollow)
	}

	return &App{Engine: r, PageCache: pageCache, Posts: posts}, nil
}

// viewerKey separates cached pages per logged-in user.
func viewerKey(c *gin.Context) string {
	if id := middleware.CurrentUserID(c); id != 0 {
		return "user:" + strconv.FormatUint(uint64(id), 10)
	}
	return "anon"
}
