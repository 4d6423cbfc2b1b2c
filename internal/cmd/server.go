package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	serverPkg "github.com/pawhome/adoption-api/internal/server"
	"github.com/pawhome/adoption-api/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/api/option"
)

func ServerCmd(ctx context.Context) error {
	godotenv.Load()
	port := 3010
	_port := os.Getenv("PORT")
	if _port != "" {
		port, _ = strconv.Atoi(_port)
	}
	logger := newLogger("api")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}

	storageBucket := os.Getenv("STORAGE_BUCKET")
	var opts []option.ClientOption
	if credentialsJson := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_CONTENT"); credentialsJson != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJson)))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: storageBucket}, opts...)
	if err != nil {
		return fmt.Errorf("error initializing app: %w", err)
	}
	uploader := service.NewStorageClient(app, storageBucket)

	pool, err := newDatabasePool(ctx, 16)
	if err != nil {
		return fmt.Errorf("error creating db pool: %w", err)
	}

	server, err := serverPkg.NewServer(ctx, logger, jwtSecret, uploader, pool)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	srv := server.Server(port)

	// metrics
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(":9091", mux)
	}()

	go func() {
		_ = srv.ListenAndServe()
	}()
	logger.Info("started server", slog.Int("port", port))
	<-ctx.Done()
	_ = srv.Shutdown(ctx)
	return nil
}
