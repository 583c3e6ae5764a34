// Command epp-client is a small operator console for EPP registries: check
// domain availability, query objects, and drain the poll queue.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	epp "github.com/smnsjas/go-eppclient"
	"github.com/smnsjas/go-eppclient/commands"
	"github.com/smnsjas/go-eppclient/conn"
	"github.com/smnsjas/go-eppclient/response"
)

var (
	flagConfig   string
	flagHost     string
	flagPort     int
	flagInsecure bool
	flagTimeout  time.Duration
	flagVerbose  bool
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	root := &cobra.Command{
		Use:           "epp-client",
		Short:         "EPP registry client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "TOML config file")
	root.PersistentFlags().StringVar(&flagHost, "host", "", "registry host")
	root.PersistentFlags().IntVar(&flagPort, "port", 0, "registry port")
	root.PersistentFlags().BoolVar(&flagInsecure, "insecure", false, "skip TLS certificate verification")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-command response timeout")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log protocol traffic")

	root.AddCommand(
		helloCmd(),
		checkCmd(),
		infoCmd(),
		pollCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// resolveConfig layers flags over the config file over defaults.
func resolveConfig() (clientConfig, error) {
	cfg := clientConfig{Conn: epp.DefaultConfig("")}
	if flagConfig != "" {
		loaded, err := loadConfig(flagConfig)
		if err != nil {
			return clientConfig{}, err
		}
		cfg = loaded
	}
	if flagHost != "" {
		cfg.Conn = cfg.Conn.WithHost(flagHost)
	}
	if flagPort != 0 {
		cfg.Conn = cfg.Conn.WithPort(flagPort)
	}
	if flagInsecure {
		cfg.Conn = cfg.Conn.WithVerifyTLS(false)
	}
	if flagTimeout != 0 {
		cfg.Conn = cfg.Conn.WithTimeout(flagTimeout)
	}
	return cfg, nil
}

// withSession connects, logs in, runs fn, and tears the session down.
func withSession(ctx context.Context, fn func(ctx context.Context, c *conn.Connection) error) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	c := conn.New(cfg.Conn)
	if flagVerbose {
		c.OnSent(func(trID, xml string) {
			log.Debug().Str("clTRID", trID).Msg(xml)
		})
		c.OnReceived(func(payload []byte) {
			log.Debug().Msg(string(payload))
		})
	}
	c.OnGreeting(func(r *response.Result) {
		log.Info().Str("server", response.FirstText(r.Data, "svID")).Msg("greeting")
	})
	c.OnError(func(err error) {
		log.Warn().Err(err).Msg("connection event")
	})

	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if err := c.Disconnect(ctx); err != nil {
			log.Warn().Err(err).Msg("disconnect")
		}
	}()
	log.Info().Str("addr", cfg.Conn.Addr()).Msg("connected")

	if cfg.Username != "" {
		if _, err := c.Login(ctx, commands.Login{ClientID: cfg.Username, Password: cfg.Password}); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		log.Info().Str("user", cfg.Username).Msg("logged in")
		defer func() {
			if _, err := c.Logout(ctx); err != nil {
				log.Warn().Err(err).Msg("logout")
			}
		}()
	}

	return fn(ctx, c)
}

func printResult(res *response.Result) {
	code := 0
	if res.Code != nil {
		code = *res.Code
	}
	log.Info().Int("code", code).Str("svTRID", res.SvTRID).Msg(res.Message)
	if res.Data != nil {
		doc := etree.NewDocument()
		doc.SetRoot(res.Data.Copy())
		doc.Indent(2)
		if out, err := doc.WriteToString(); err == nil {
			fmt.Print(out)
		}
	}
}

func helloCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hello",
		Short: "Connect and print the registry greeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, c *conn.Connection) error {
				done := make(chan struct{}, 1)
				c.OnGreeting(func(*response.Result) { done <- struct{}{} })
				if err := c.Hello(); err != nil {
					return err
				}
				select {
				case <-done:
					return nil
				case <-time.After(10 * time.Second):
					return fmt.Errorf("no greeting within 10s")
				}
			})
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <domain>...",
		Short: "Check domain availability",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, c *conn.Connection) error {
				res, err := c.DomainCheck(ctx, args...)
				if err != nil {
					return err
				}
				printResult(res)
				return nil
			})
		},
	}
}

func infoCmd() *cobra.Command {
	var authInfo string
	cmd := &cobra.Command{
		Use:   "info <domain>",
		Short: "Query a domain object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, c *conn.Connection) error {
				res, err := c.DomainInfo(ctx, args[0], "", authInfo)
				if err != nil {
					return err
				}
				printResult(res)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&authInfo, "auth-info", "", "authInfo for objects sponsored elsewhere")
	return cmd
}

func pollCmd() *cobra.Command {
	var ack bool
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Read the head of the message queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, c *conn.Connection) error {
				res, err := c.PollRequest(ctx)
				if err != nil {
					return err
				}
				printResult(res)
				if ack && res.Queue != nil {
					msgID := res.Queue.SelectAttrValue("id", "")
					if msgID == "" {
						return nil
					}
					if _, err := c.PollAck(ctx, msgID); err != nil {
						return err
					}
					log.Info().Str("msgID", msgID).Msg("acknowledged")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&ack, "ack", false, "acknowledge (dequeue) the message")
	return cmd
}
