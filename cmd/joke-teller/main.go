package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/aryannaik/joke-teller/internal/config"
	"github.com/aryannaik/joke-teller/internal/jokeapi"
	"github.com/aryannaik/joke-teller/internal/logging"
	"github.com/aryannaik/joke-teller/internal/notify"
	"github.com/aryannaik/joke-teller/internal/picker"
	"github.com/aryannaik/joke-teller/internal/server"
	"github.com/aryannaik/joke-teller/internal/speech"
	"github.com/aryannaik/joke-teller/internal/teller"
)

func main() {
	categoryFlag := flag.String("category", "", "Initial joke category (overrides JOKE_CATEGORY)")
	onceFlag := flag.Bool("once", false, "Tell one joke, wait for it to be spoken and exit")
	serveFlag := flag.Bool("serve", false, "Also serve the HTTP API")
	noPromptFlag := flag.Bool("no-prompt", false, "Do not start the terminal picker")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg, logger, *categoryFlag, *onceFlag, *serveFlag, *noPromptFlag); err != nil {
		logger.Error("joke_teller_failed", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, category string, once, serve, noPrompt bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	toast := notify.Multi{notify.NewWriter(os.Stdout), notify.NewLog(logger)}

	engine := speech.NewEngine(newSynthesizer(cfg.Speech, logger), logger)
	defer engine.Close()
	engine.Start(ctx, speechLocale(cfg.Speech, logger), func(err error) {
		if err != nil {
			toast.Show(speech.InitWarning)
		}
	})

	client := jokeapi.NewClient(cfg.JokeAPI.BaseURL,
		jokeapi.WithTimeout(cfg.JokeAPI.Timeout),
		jokeapi.WithRateLimit(cfg.JokeAPI.RequestsPerMinute),
		jokeapi.WithLogger(logger),
		jokeapi.WithBodyLogging(cfg.Logging.HTTPBodies),
	)

	var ui *picker.Picker
	tl := teller.New(client, engine, toast,
		teller.WithLogger(logger),
		teller.WithOnDisplay(func(text string) {
			if ui != nil {
				ui.ShowJoke(text)
			}
		}),
	)

	initial := cfg.JokeAPI.Category
	if category != "" {
		c, err := jokeapi.ParseCategory(category)
		if err != nil {
			return err
		}
		initial = c
	}
	if err := tl.Select(initial); err != nil {
		return err
	}

	if once {
		return tellOnce(ctx, tl, engine)
	}

	ui = picker.New(tl, os.Stdout)

	g, gctx := errgroup.WithContext(ctx)

	if serve {
		srv := server.New(cfg.Server.Port, cfg.Server.StaticDir, server.NewHandlers(tl, engine, logger), logger)
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve http: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("server_shutdown_failed", "error", err)
			}
			return nil
		})
	}

	if !noPrompt {
		g.Go(func() error {
			err := ui.Run(gctx, os.Stdin)
			// Leaving the picker ends the program.
			stop()
			return err
		})
	} else if !serve {
		logger.Warn("nothing_to_run", "hint", "use -once, -serve or drop -no-prompt")
		return nil
	}

	err := g.Wait()
	logger.Info("shutting_down")
	return err
}

func tellOnce(ctx context.Context, tl *teller.Teller, engine *speech.Engine) error {
	select {
	case res := <-tl.Tell(ctx):
		fmt.Println(res.Rendering.Text)
	case <-ctx.Done():
		return nil
	}

	drainCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	if err := engine.Drain(drainCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("wait for speech: %w", err)
	}
	return nil
}

func newSynthesizer(cfg config.SpeechConfig, logger *slog.Logger) speech.Synthesizer {
	switch cfg.Engine {
	case config.SpeechCommand:
		return speech.NewEspeak(cfg.Command)
	case config.SpeechNone:
		return speech.NewNoOp(logger)
	default:
		return speech.NewConsole(os.Stdout)
	}
}

func speechLocale(cfg config.SpeechConfig, logger *slog.Logger) language.Tag {
	if cfg.Locale == "" {
		return speech.DefaultLocale()
	}
	tag, err := speech.ParseLocale(cfg.Locale)
	if err != nil {
		// Und makes backend init fail, which surfaces the language warning.
		logger.Warn("speech_locale_invalid", "locale", cfg.Locale, "error", err)
		return language.Und
	}
	return tag
}
