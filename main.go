package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yaskovbs/tube2blog-backend/api"
	"github.com/yaskovbs/tube2blog-backend/config"
	"github.com/yaskovbs/tube2blog-backend/services"
	"github.com/yaskovbs/tube2blog-backend/session"
	"github.com/yaskovbs/tube2blog-backend/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg := config.New()

	if config.GetBool(cfg, "CONSOLE_LOG", true) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()

	kv, err := newKV(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing storage failed")
	}
	store := storage.NewBlogStore(kv)

	// Optional collaborators. A missing key disables the feature, not the app.
	var yt *services.YouTube
	if apiKey := config.GetString(cfg, "YOUTUBE_API_KEY", ""); apiKey != "" {
		yt, err = services.NewYouTube(ctx, apiKey)
		if err != nil {
			log.Warn().Err(err).Msg("YouTube client unavailable, channel features disabled")
			yt = nil
		}
	}

	var gemini *services.Gemini
	if apiKey := config.GetString(cfg, "GEMINI_API_KEY", ""); apiKey != "" {
		gemini, err = services.NewGemini(ctx, apiKey, yt)
		if err != nil {
			log.Warn().Err(err).Msg("Gemini client unavailable, generation features disabled")
			gemini = nil
		}
	}

	var auth *services.GoogleAuth
	auth, err = services.NewGoogleAuth(
		config.GetString(cfg, "GOOGLE_CLIENT_ID", ""),
		config.GetString(cfg, "GOOGLE_CLIENT_SECRET", ""),
		config.GetString(cfg, "GOOGLE_REDIRECT_URL", ""),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Google sign-in unavailable")
		auth = nil
	}

	var assets services.AssetStore
	if bucket := config.GetString(cfg, "ASSET_BUCKET", ""); bucket != "" {
		assets, err = services.NewS3AssetStore(ctx, bucket)
		if err != nil {
			log.Warn().Err(err).Msg("S3 asset store unavailable, falling back to local directory")
			assets = nil
		}
	}
	if assets == nil {
		assets, err = services.NewLocalAssetStore(
			config.GetString(cfg, "ASSET_DIR", "assets"),
			config.GetString(cfg, "ASSET_BASE_URL", "/assets"),
		)
		if err != nil {
			log.Warn().Err(err).Msg("local asset store unavailable, media served inline only")
			assets = nil
		}
	}

	var contact *services.ContactMailer
	contact, err = services.NewContactMailer(
		config.GetString(cfg, "RESEND_API_KEY", ""),
		config.GetString(cfg, "RESEND_FROM_EMAIL", ""),
		config.GetString(cfg, "CONTACT_EMAIL", ""),
	)
	if err != nil {
		log.Warn().Err(err).Msg("contact mailer unavailable")
		contact = nil
	}

	// Interface-typed arguments need explicit nil checks; a typed nil pointer
	// would otherwise look non-nil to the callee.
	var generator services.BlogGenerator
	if gemini != nil {
		generator = gemini
	}
	sess := session.New(store, generator, func(t session.Toast) {
		log.Info().Str("level", string(t.Level)).Str("message", t.Message).Msg("toast")
	})
	if auth != nil {
		auth.Initialize(sess.CompleteSignIn, sess.SignOut)
	}

	renderer := services.NewVideoRenderer(
		config.GetString(cfg, "FFMPEG_PATH", "ffmpeg"),
		config.GetString(cfg, "RENDER_DIR", os.TempDir()),
	)

	deps := api.Deps{
		Store:    store,
		Session:  sess,
		Renderer: renderer,
	}
	if gemini != nil {
		deps.Gemini = gemini
		deps.Converter = services.NewConverter(gemini, store)
	}
	if yt != nil {
		deps.YouTube = yt
	}
	if auth != nil {
		deps.Auth = auth
	}
	if assets != nil {
		deps.Assets = assets
	}
	if contact != nil {
		deps.Contact = contact
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing server failed")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// newKV picks the persistence substrate: redis for shared deployments, file
// for single-node durability, memory for throwaway runs.
func newKV(cfg map[string]string) (storage.KV, error) {
	backend := config.GetString(cfg, "STORAGE_BACKEND", "file")
	fmt.Printf("STORAGE_BACKEND: %s\n", backend)

	switch backend {
	case "redis":
		return storage.NewRedisKV(
			config.GetString(cfg, "REDIS_ADDR", "localhost:6379"),
			config.GetString(cfg, "REDIS_PASSWORD", ""),
			config.GetString(cfg, "REDIS_PREFIX", "tube2blog"),
		), nil
	case "file":
		return storage.NewFileKV(config.GetString(cfg, "DATA_DIR", "data"))
	case "memory":
		return storage.NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", backend)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
