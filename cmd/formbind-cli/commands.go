package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formbind/internal/config"
	"github.com/goliatone/go-formbind/internal/demo"
	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/definition"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/httpform"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/renderers/html"
	"github.com/goliatone/go-formbind/pkg/renderers/tui"
	"github.com/goliatone/go-formbind/pkg/security"
	"github.com/goliatone/go-formbind/pkg/submission"
)

var errUsage = errors.New("invalid usage")

// deps carries collaborators tests replace.
type deps struct {
	driver tui.PromptDriver
}

type state struct {
	deps
	cfg    *config.Config
	logger *slog.Logger
}

func newCommand(d deps) *cli.Command {
	s := &state{deps: d}
	return &cli.Command{
		Name:  "formbind-cli",
		Usage: "render, fill and verify signed forms",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to formbind.yaml"},
			&cli.StringFlag{Name: "secret", Usage: "signing secret (overrides config and keyring)"},
			&cli.StringFlag{Name: "log-level", Usage: "DEBUG, INFO, WARN or ERROR"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json"},
		},
		Before: s.before,
		Commands: []*cli.Command{
			s.renderCommand(),
			s.fillCommand(),
			s.signCommand(),
			s.verifyCommand(),
			s.serveCommand(),
			s.keyCommand(),
		},
	}
}

func (s *state) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if cmd.IsSet("secret") {
		cfg.Secret = cmd.String("secret")
		cfg.SecretSource = config.SecretFromConfig
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return ctx, err
	}
	s.cfg = cfg
	s.logger = logging.New(cmd.Root().ErrWriter, cfg.Log.Level, cfg.Log.Format)
	return ctx, nil
}

func (s *state) hasher() (*security.HashService, error) {
	secret, err := s.cfg.ResolveSecret()
	if err != nil {
		return nil, err
	}
	return security.NewHashService(secret)
}

// buildForm loads the definition named by the first argument and renders it
// for the definition's own route.
func (s *state) buildForm(cmd *cli.Command) (definition.Definition, form.Rendered, error) {
	path := cmd.Args().First()
	if path == "" {
		return definition.Definition{}, form.Rendered{}, fmt.Errorf("%w: definition path is required", errUsage)
	}
	def, err := definition.Load(path)
	if err != nil {
		return definition.Definition{}, form.Rendered{}, err
	}
	hasher, err := s.hasher()
	if err != nil {
		return definition.Definition{}, form.Rendered{}, err
	}
	f, err := definition.Build(def, nil,
		form.WithHashService(hasher),
		form.WithNamespaceResolver(s.cfg.Resolver()),
		form.WithLogger(s.logger),
	)
	if err != nil {
		return definition.Definition{}, form.Rendered{}, err
	}
	rendered, err := f.Render()
	if err != nil {
		return definition.Definition{}, form.Rendered{}, err
	}
	return def, rendered, nil
}

func (s *state) renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render a form definition",
		ArgsUsage: "<definition.yaml>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "html", Usage: "html or json"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to file instead of stdout"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			def, rendered, err := s.buildForm(cmd)
			if err != nil {
				return err
			}

			htmlRenderer, err := html.New()
			if err != nil {
				return err
			}
			renderers, err := render.NewRegistry(
				htmlRenderer.Bind(html.Options{
					Action: def.Render.Action,
					Method: def.Render.Method,
					ID:     def.Render.ID,
					Submit: def.Render.Submit,
				}),
				render.JSON{},
			)
			if err != nil {
				return err
			}
			renderer, err := renderers.Get(cmd.String("format"))
			if err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}
			out, err := renderer.Render(ctx, rendered)
			if err != nil {
				return err
			}
			return s.write(cmd, cmd.String("output"), out)
		},
	}
}

func (s *state) fillCommand() *cli.Command {
	return &cli.Command{
		Name:      "fill",
		Usage:     "fill a form definition interactively and print the submission",
		ArgsUsage: "<definition.yaml>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(tui.OutputFormatFormURLEncoded), Usage: "form, json or pretty"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to file instead of stdout"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, rendered, err := s.buildForm(cmd)
			if err != nil {
				return err
			}
			driver := s.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.Root().ErrWriter)
			}
			renderer, err := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(tui.OutputFormat(cmd.String("format"))),
				tui.WithTheme(tui.Theme{ErrorPrefix: "error: "}),
			)
			if err != nil {
				return err
			}
			out, err := renderer.Render(ctx, rendered)
			if err != nil {
				return err
			}
			if len(out) > 0 && out[len(out)-1] != '\n' {
				out = append(out, '\n')
			}
			return s.write(cmd, cmd.String("output"), out)
		},
	}
}

func (s *state) signCommand() *cli.Command {
	return &cli.Command{
		Name:      "sign",
		Usage:     "append an HMAC to a string",
		ArgsUsage: "<value>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("%w: sign takes exactly one value", errUsage)
			}
			hasher, err := s.hasher()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.Root().Writer, hasher.AppendHMAC(cmd.Args().First()))
			return nil
		},
	}
}

// verifyResult is what verify prints for a submission body.
type verifyResult struct {
	Referrer          form.ActionRequest `json:"referrer"`
	ReferrerArguments map[string]any     `json:"referrer_arguments"`
	Arguments         map[string]any     `json:"arguments"`
}

func (s *state) verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "verify a signed string or a url-encoded form submission",
		ArgsUsage: "[body|-]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "string", Aliases: []string{"s"}, Usage: "treat the argument as a signed string"},
			&cli.StringFlag{Name: "namespace", Aliases: []string{"n"}, Usage: "plugin namespace of the form"},
			&cli.StringFlag{Name: "definition", Aliases: []string{"d"}, Usage: "derive the namespace from a form definition"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			hasher, err := s.hasher()
			if err != nil {
				return err
			}
			input, err := readInput(cmd)
			if err != nil {
				return err
			}
			out := cmd.Root().Writer

			if cmd.Bool("string") {
				value, err := hasher.ValidateAndStripHMAC(input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, value)
				return nil
			}

			prefix, err := s.namespace(cmd)
			if err != nil {
				return err
			}
			values, err := url.ParseQuery(input)
			if err != nil {
				return fmt.Errorf("%w: parse body: %v", errUsage, err)
			}
			sub, err := submission.NewService(hasher).Verify(httpform.ParseArguments(values), prefix)
			if err != nil {
				return err
			}
			s.logger.Debug("submission verified", "namespace", prefix, "action", sub.Referrer.Action)

			encoded, err := json.MarshalIndent(verifyResult{
				Referrer:          sub.Referrer,
				ReferrerArguments: sub.ReferrerArguments,
				Arguments:         sub.Arguments,
			}, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, string(encoded))
			return nil
		},
	}
}

func (s *state) namespace(cmd *cli.Command) (string, error) {
	if cmd.IsSet("namespace") {
		return cmd.String("namespace"), nil
	}
	path := cmd.String("definition")
	if path == "" {
		return "", nil
	}
	def, err := definition.Load(path)
	if err != nil {
		return "", err
	}
	return s.cfg.Resolver().PluginNamespace(def.Route.Extension, def.Route.Plugin), nil
}

func (s *state) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the demo blog application",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "listen address (defaults to config)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			hasher, err := s.hasher()
			if err != nil {
				return err
			}
			app, err := demo.New(demo.Options{
				Hasher:     hasher,
				Namespaces: s.cfg.Resolver(),
				Logger:     s.logger,
			})
			if err != nil {
				return err
			}

			addr := s.cfg.Listen
			if cmd.IsSet("listen") {
				addr = cmd.String("listen")
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           app.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			s.logger.Info("serving demo", "addr", addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				s.logger.Info("shutting down")
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}

func (s *state) keyCommand() *cli.Command {
	return &cli.Command{
		Name:  "key",
		Usage: "manage the signing secret in the OS keyring",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "store the signing secret",
				ArgsUsage: "<secret|->",
				Action: func(_ context.Context, cmd *cli.Command) error {
					secret, err := readInput(cmd)
					if err != nil {
						return err
					}
					if err := s.cfg.SecretStore().Set(secret); err != nil {
						return err
					}
					_, _ = fmt.Fprintln(cmd.Root().Writer, "Secret stored.")
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "print the stored signing secret",
				Action: func(_ context.Context, cmd *cli.Command) error {
					secret, err := s.cfg.SecretStore().Get()
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintln(cmd.Root().Writer, secret)
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "remove the stored signing secret",
				Action: func(_ context.Context, cmd *cli.Command) error {
					if err := s.cfg.SecretStore().Delete(); err != nil {
						return err
					}
					_, _ = fmt.Fprintln(cmd.Root().Writer, "Secret deleted.")
					return nil
				},
			},
		},
	}
}

func (s *state) write(cmd *cli.Command, path string, out []byte) error {
	if path == "" {
		_, err := cmd.Root().Writer.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Info("output written", "path", path, "bytes", len(out))
	return nil
}

// readInput returns the first argument, or stdin when it is "-" or missing.
func readInput(cmd *cli.Command) (string, error) {
	arg := cmd.Args().First()
	if arg != "" && arg != "-" {
		return arg, nil
	}
	reader := cmd.Root().Reader
	if reader == nil {
		reader = os.Stdin
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	input := strings.TrimSpace(string(raw))
	if input == "" {
		return "", fmt.Errorf("%w: no input", errUsage)
	}
	return input, nil
}
