// cmd_serve.go - Serve Command Handler
// Hauptfunktionen: ServeHandler
package cmd

import (
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smolchat/smolchat/envconfig"
	"github.com/smolchat/smolchat/server"
	"github.com/smolchat/smolchat/store"
)

// ServeHandler - Laedt das Modell und startet den OpenAI-kompatiblen Server
func ServeHandler(cmd *cobra.Command, _ []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	// der Server gleicht die Request-History mit der Session ab
	if !opts.StoreChats {
		slog.Warn("store_chats is required to serve requests, enabling it")
		opts.StoreChats = true
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}

	h, sess, err := openSession(opts)
	if err != nil {
		return err
	}
	defer h.Close()

	cfg := server.Config{
		Session: sess,
		Model:   h.Engine().Info().Description,
	}
	if !noSave {
		cfg.Store = &store.Store{}
		defer cfg.Store.Close()
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", envconfig.Host().Host)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Debug("server config", "env", envconfig.Values())
	return srv.Serve(ctx, ln)
}
