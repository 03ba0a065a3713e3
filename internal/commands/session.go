package commands

import (
	"context"
	"errors"
	"net/http"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/goliatone/go-addressform/internal/config"
	"github.com/goliatone/go-addressform/internal/logging"
	"github.com/goliatone/go-addressform/pkg/bitmap"
	"github.com/goliatone/go-addressform/pkg/render"
	"github.com/goliatone/go-addressform/pkg/repository"
)

// Session carries what every command needs once flags are parsed.
type Session struct {
	Config *config.Config
	Logger *zap.Logger
	Repo   *repository.Repository
	// IsTerminal reports whether stdin is interactive.
	IsTerminal func() bool
}

type sessionKey struct{}

type globalOptions struct {
	configPath string
	logLevel   string
}

func withSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// RequireFromCommand extracts the Session stored by the root pre-run hook.
func RequireFromCommand(cmd *cobra.Command) (*Session, error) {
	s, _ := cmd.Context().Value(sessionKey{}).(*Session)
	if s == nil {
		return nil, errors.New("command session not loaded")
	}
	return s, nil
}

func preRunLoad(opts *globalOptions) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if existing, _ := cmd.Context().Value(sessionKey{}).(*Session); existing != nil {
			return nil
		}

		cfg := config.Default()
		if opts.configPath != "" {
			loaded, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if opts.logLevel != "" {
			cfg.Log.Level = opts.logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
		if err != nil {
			return err
		}

		repo := newRepository(cfg)
		if err := repo.Err(); err != nil {
			return err
		}

		cmd.SetContext(withSession(cmd.Context(), &Session{
			Config:     cfg,
			Logger:     logger,
			Repo:       repo,
			IsTerminal: stdinIsTerminal,
		}))
		return nil
	}
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newRepository(cfg *config.Config) *repository.Repository {
	var opts []repository.Option
	if len(cfg.Address.Countries) > 0 {
		opts = append(opts, repository.WithCountries(cfg.Address.Countries...))
	}
	switch {
	case cfg.Address.Dir != "":
		opts = append(opts, repository.WithSchemaDir(cfg.Address.Dir))
	case cfg.Address.BaseURL != "":
		opts = append(opts, repository.WithBaseURL(cfg.Address.BaseURL, &http.Client{}, cfg.Images.FetchTimeout.Std()))
	}
	return repository.New(opts...)
}

// newImageLoader builds a loader from the images section. A nil opener
// fetches over HTTP restricted to images.allowed_hosts.
func newImageLoader(cfg *config.Config, logger *zap.Logger, opener bitmap.Opener) *bitmap.Loader {
	fill, err := bitmap.ParseHexColor(cfg.Images.PlaceholderColor)
	if err != nil {
		fill = bitmap.DefaultPlaceholderColor
	}
	if opener == nil {
		opener = &bitmap.HTTPOpener{
			Client:       &http.Client{Timeout: cfg.Images.FetchTimeout.Std()},
			AllowedHosts: cfg.Images.AllowedHosts,
			UserAgent:    "addressform/" + Version,
		}
	}
	return bitmap.NewLoader(opener,
		bitmap.WithDecoder(bitmap.NewDecoder(
			bitmap.WithMaxPixels(int64(cfg.Images.MaxPixels)),
			bitmap.WithLogger(logger),
		)),
		bitmap.WithPlaceholder(bitmap.SolidPlaceholder(fill)),
		bitmap.WithMaxTargetPixels(int64(cfg.Images.MaxTargetPixels)),
		bitmap.WithLoaderLogger(logger),
	)
}

// newThemeSelector loads the manifest named by the theme section. It returns
// nil when no manifest is configured.
func newThemeSelector(cfg config.ThemeConfig) (theme.ThemeSelector, error) {
	if cfg.Manifest == "" {
		return nil, nil
	}
	manifest, err := render.LoadThemeManifest(cfg.Manifest)
	if err != nil {
		return nil, err
	}
	selector, err := render.NewManifestSelector(cfg.Name, cfg.Variant, manifest)
	if err != nil {
		return nil, err
	}
	return selector, nil
}
