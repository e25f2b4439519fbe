package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/critiqueapp/critique-server/internal/api"
	"github.com/critiqueapp/critique-server/internal/auth"
	"github.com/critiqueapp/critique-server/internal/config"
	"github.com/critiqueapp/critique-server/internal/logger"
	"github.com/critiqueapp/critique-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	authService := do.MustInvoke[*service.AuthService](i)
	userService := do.MustInvoke[*service.UserService](i)
	categoryService := do.MustInvoke[*service.CategoryService](i)
	genreService := do.MustInvoke[*service.GenreService](i)
	titleService := do.MustInvoke[*service.TitleService](i)
	reviewService := do.MustInvoke[*service.ReviewService](i)
	commentService := do.MustInvoke[*service.CommentService](i)

	handler := api.NewServer(
		api.Config{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AuthRPS:        cfg.RateLimit.AuthRPS,
			AuthBurst:      cfg.RateLimit.AuthBurst,
		},
		storeHandle.Store,
		tokens,
		authService,
		userService,
		categoryService,
		genreService,
		titleService,
		reviewService,
		commentService,
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
