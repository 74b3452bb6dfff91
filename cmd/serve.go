package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/squarefactory/slurm-api/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = os.Getenv("LISTEN_ADDRESS")
		}
		if addr == "" {
			addr = cfg.ListenAddress
		}

		server := &http.Server{
			Addr:        addr,
			Handler:     api.Router(slurm),
			ReadTimeout: 5 * time.Second,
			// Responses wait on scheduler commands, so the write timeout
			// must outlive the command timeout.
			WriteTimeout: cfg.CommandTimeout() + 10*time.Second,
			IdleTimeout:  15 * time.Second,
		}

		done := make(chan bool)
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)

		go func() {
			<-quit
			log.Printf("server is shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				log.Fatalf("could not gracefully shutdown the server: %v", err)
			}
			close(done)
		}()

		log.Printf("listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}

		<-done
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default $LISTEN_ADDRESS, then config)")
	rootCmd.AddCommand(serveCmd)
}
