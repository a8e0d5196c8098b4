// Команда studio, терминальный клиент авторинга курсов поверх API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"coursestudio/internal/authoring"
	"coursestudio/internal/config"
	"coursestudio/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.Log = "dev"
	cfg.LogLevel = "warn"
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := authoring.SessionFromToken(cfg.StudioToken)
	if err != nil {
		logger.Log.Warn("Не удалось прочитать STUDIO_TOKEN", zap.Error(err))
	}

	out := os.Stdout
	nav := authoring.NewHistory("", nil)
	cli := &commandLine{
		out:     out,
		session: session,
		deps: authoring.Deps{
			Client: authoring.NewClient(cfg.StudioAPIURL, cfg.StudioToken),
			Nav:    nav,
			Notify: &authoring.WriterNotifier{W: out},
		},
		nav:     nav,
		confirm: stdinConfirmer(os.Stdin, out),
	}

	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		if path, ok := authoring.IsRedirect(err); ok {
			fmt.Fprintf(os.Stderr, "Требуется вход (%s): задайте STUDIO_TOKEN\n", path)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func stdinConfirmer(in io.Reader, out io.Writer) authoring.Confirmer {
	r := bufio.NewReader(in)
	return authoring.ConfirmFunc(func(_ context.Context, q string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", q)
		line, _ := r.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "д", "да":
			return true
		}
		return false
	})
}
